package handlers

import (
	"github.com/BruksfildServices01/cleanpro-api/internal/rpc"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
)

const defaultAuditLimit = 50

type AuditLogsHandler struct {
	logs *store.AuditStore
}

func NewAuditLogsHandler(s *store.Store) *AuditLogsHandler {
	return &AuditLogsHandler{logs: s.AuditLogs}
}

func (h *AuditLogsHandler) Register(r *rpc.Router) {
	r.Query("auditLogs.list", rpc.Protected, h.List)
}

type listAuditInput struct {
	Entity string `json:"entity" binding:"omitempty,oneof=client order order_item schedule user"`
	Limit  int    `json:"limit" binding:"omitempty,min=1,max=200"`
}

// List returns the caller's own trail, newest first.
func (h *AuditLogsHandler) List(call *rpc.Call) (any, error) {
	var in listAuditInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}
	if in.Limit == 0 {
		in.Limit = defaultAuditLimit
	}

	res, err := h.logs.List(call.Ctx, call.Scope(), in.Entity, in.Limit)
	if err != nil {
		return nil, err
	}
	return rpc.Read(call, res), nil
}
