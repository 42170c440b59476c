package handlers

import (
	"github.com/BruksfildServices01/cleanpro-api/internal/audit"
	"github.com/BruksfildServices01/cleanpro-api/internal/models"
	"github.com/BruksfildServices01/cleanpro-api/internal/rpc"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
)

type ClientHandler struct {
	clients *store.ClientStore
	audit   Auditor
}

func NewClientHandler(s *store.Store, a Auditor) *ClientHandler {
	return &ClientHandler{clients: s.Clients, audit: auditorOrNop(a)}
}

func (h *ClientHandler) Register(r *rpc.Router) {
	r.Query("clients.list", rpc.Protected, h.List)
	r.Query("clients.get", rpc.Protected, h.Get)
	r.Mutation("clients.create", rpc.Protected, h.Create)
	r.Mutation("clients.update", rpc.Protected, h.Update)
	r.Mutation("clients.delete", rpc.Protected, h.Delete)
}

// --------- Requests ---------

type createClientInput struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Phone   string `json:"phone" binding:"omitempty,max=20"`
	Email   string `json:"email" binding:"omitempty,email,max=320"`
	Address string `json:"address"`
	TaxID   string `json:"cpfCnpj" binding:"omitempty,max=20,taxid"`
	Notes   string `json:"notes"`
}

type updateClientInput struct {
	ID      uint    `json:"id" binding:"required"`
	Name    *string `json:"name" binding:"omitempty,min=1,max=255"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	Email   *string `json:"email" binding:"omitempty,email,max=320"`
	Address *string `json:"address"`
	TaxID   *string `json:"cpfCnpj" binding:"omitempty,max=20,taxid"`
	Notes   *string `json:"notes"`
}

func (in updateClientInput) patch() store.Patch {
	p := store.Patch{}
	store.Set(p, "name", in.Name)
	store.Set(p, "phone", in.Phone)
	store.Set(p, "email", in.Email)
	store.Set(p, "address", in.Address)
	store.Set(p, "tax_id", in.TaxID)
	store.Set(p, "notes", in.Notes)
	return p
}

// --------- Handlers ---------

func (h *ClientHandler) List(call *rpc.Call) (any, error) {
	res, err := h.clients.List(call.Ctx, call.Scope())
	if err != nil {
		return nil, err
	}
	return rpc.Read(call, res), nil
}

func (h *ClientHandler) Get(call *rpc.Call) (any, error) {
	var in idInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	res, err := h.clients.Get(call.Ctx, in.ID, call.Scope())
	if err != nil {
		return nil, err
	}
	return rpc.Read(call, res), nil
}

func (h *ClientHandler) Create(call *rpc.Call) (any, error) {
	var in createClientInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	client := models.Client{
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		Address: in.Address,
		TaxID:   in.TaxID,
		Notes:   in.Notes,
	}
	id, err := h.clients.Create(call.Ctx, call.Scope(), &client)
	if err != nil {
		return nil, err
	}

	writeAudit(h.audit, call, audit.ActionCreate, "client", id, map[string]any{"name": client.Name})
	return created(id), nil
}

func (h *ClientHandler) Update(call *rpc.Call) (any, error) {
	var in updateClientInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	n, err := h.clients.Update(call.Ctx, in.ID, call.Scope(), in.patch())
	if err != nil {
		return nil, err
	}

	if n > 0 {
		writeAudit(h.audit, call, audit.ActionUpdate, "client", in.ID, nil)
	}
	return success(n), nil
}

// Delete deactivates the client. History stays linked to it.
func (h *ClientHandler) Delete(call *rpc.Call) (any, error) {
	var in idInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	n, err := h.clients.Delete(call.Ctx, in.ID, call.Scope())
	if err != nil {
		return nil, err
	}

	if n > 0 {
		writeAudit(h.audit, call, audit.ActionDelete, "client", in.ID, nil)
	}
	return success(n), nil
}
