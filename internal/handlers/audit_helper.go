package handlers

import (
	"github.com/BruksfildServices01/cleanpro-api/internal/audit"
	"github.com/BruksfildServices01/cleanpro-api/internal/httpresp"
	"github.com/BruksfildServices01/cleanpro-api/internal/rpc"
)

// Auditor receives an event for every mutation that touched a row.
type Auditor interface {
	Dispatch(ev audit.Event)
}

type nopAuditor struct{}

func (nopAuditor) Dispatch(audit.Event) {}

func auditorOrNop(a Auditor) Auditor {
	if a == nil {
		return nopAuditor{}
	}
	return a
}

func writeAudit(a Auditor, call *rpc.Call, action, entity string, entityID uint, meta any) {
	if call.Caller == nil {
		return
	}
	a.Dispatch(audit.Event{
		UserID:   call.Caller.ID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: meta,
	})
}

type idInput struct {
	ID uint `json:"id" binding:"required"`
}

func success(n int64) httpresp.Success {
	return httpresp.Success{Success: true, RowsAffected: n}
}

func created(id uint) httpresp.Created {
	return httpresp.Created{ID: id}
}
