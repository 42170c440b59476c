package handlers

import (
	"time"

	"github.com/BruksfildServices01/cleanpro-api/internal/audit"
	"github.com/BruksfildServices01/cleanpro-api/internal/domain/order"
	"github.com/BruksfildServices01/cleanpro-api/internal/models"
	"github.com/BruksfildServices01/cleanpro-api/internal/rpc"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
)

type OrderHandler struct {
	orders *store.OrderStore
	audit  Auditor
	now    func() time.Time
}

func NewOrderHandler(s *store.Store, a Auditor) *OrderHandler {
	return &OrderHandler{orders: s.Orders, audit: auditorOrNop(a), now: time.Now}
}

func (h *OrderHandler) Register(r *rpc.Router) {
	r.Query("orders.list", rpc.Protected, h.List)
	r.Query("orders.listByStatus", rpc.Protected, h.ListByStatus)
	r.Query("orders.get", rpc.Protected, h.Get)
	r.Mutation("orders.create", rpc.Protected, h.Create)
	r.Mutation("orders.update", rpc.Protected, h.Update)
	r.Mutation("orders.delete", rpc.Protected, h.Delete)
}

// --------- Requests ---------

type createOrderInput struct {
	ClientID      uint          `json:"clientId" binding:"required"`
	Title         string        `json:"title" binding:"required,min=1,max=255"`
	Description   string        `json:"description"`
	Address       string        `json:"address" binding:"required,min=1"`
	Status        *order.Status `json:"status"`
	ScheduledDate *time.Time    `json:"scheduledDate"`
	ScheduledTime string        `json:"scheduledTime" binding:"omitempty,max=5,clock"`
	Value         *int64        `json:"value" binding:"omitempty,min=0"`
	Notes         string        `json:"notes"`
}

type updateOrderInput struct {
	ID            uint          `json:"id" binding:"required"`
	Title         *string       `json:"title" binding:"omitempty,min=1,max=255"`
	Description   *string       `json:"description"`
	Address       *string       `json:"address" binding:"omitempty,min=1"`
	Status        *order.Status `json:"status"`
	ScheduledDate *time.Time    `json:"scheduledDate"`
	ScheduledTime *string       `json:"scheduledTime" binding:"omitempty,max=5,clock"`
	CompletedAt   *time.Time    `json:"completedAt"`
	Value         *int64        `json:"value" binding:"omitempty,min=0"`
	Notes         *string       `json:"notes"`
}

type listByStatusInput struct {
	Status order.Status `json:"status" binding:"required"`
}

func (in updateOrderInput) patch(now time.Time) store.Patch {
	p := store.Patch{}
	store.Set(p, "title", in.Title)
	store.Set(p, "description", in.Description)
	store.Set(p, "address", in.Address)
	store.Set(p, "status", in.Status)
	store.Set(p, "scheduled_date", in.ScheduledDate)
	store.Set(p, "scheduled_time", in.ScheduledTime)
	store.Set(p, "completed_at", in.CompletedAt)
	store.Set(p, "value", in.Value)
	store.Set(p, "notes", in.Notes)

	// concluir sem data preenche a data de conclusão
	if in.Status != nil && *in.Status == order.StatusCompleted && in.CompletedAt == nil {
		p["completed_at"] = now
	}
	return p
}

// --------- Handlers ---------

func (h *OrderHandler) List(call *rpc.Call) (any, error) {
	res, err := h.orders.List(call.Ctx, call.Scope())
	if err != nil {
		return nil, err
	}
	return rpc.Read(call, res), nil
}

func (h *OrderHandler) ListByStatus(call *rpc.Call) (any, error) {
	var in listByStatusInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	res, err := h.orders.ListByStatus(call.Ctx, call.Scope(), in.Status)
	if err != nil {
		return nil, err
	}
	return rpc.Read(call, res), nil
}

func (h *OrderHandler) Get(call *rpc.Call) (any, error) {
	var in idInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	res, err := h.orders.Get(call.Ctx, in.ID, call.Scope())
	if err != nil {
		return nil, err
	}
	return rpc.Read(call, res), nil
}

func (h *OrderHandler) Create(call *rpc.Call) (any, error) {
	var in createOrderInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	o := models.Order{
		ClientID:      in.ClientID,
		Title:         in.Title,
		Description:   in.Description,
		Address:       in.Address,
		Status:        order.InitialStatus(),
		ScheduledDate: in.ScheduledDate,
		ScheduledTime: in.ScheduledTime,
		Value:         in.Value,
		Notes:         in.Notes,
	}
	if in.Status != nil {
		o.Status = *in.Status
	}

	id, err := h.orders.Create(call.Ctx, call.Scope(), &o)
	if err != nil {
		return nil, err
	}

	writeAudit(h.audit, call, audit.ActionCreate, "order", id, map[string]any{
		"title":    o.Title,
		"clientId": o.ClientID,
		"status":   o.Status,
	})
	return created(id), nil
}

func (h *OrderHandler) Update(call *rpc.Call) (any, error) {
	var in updateOrderInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	patch := in.patch(h.now())
	n, err := h.orders.Update(call.Ctx, in.ID, call.Scope(), patch)
	if err != nil {
		return nil, err
	}

	if n > 0 {
		var meta map[string]any
		if in.Status != nil {
			meta = map[string]any{"status": *in.Status}
		}
		writeAudit(h.audit, call, audit.ActionUpdate, "order", in.ID, meta)
	}
	return success(n), nil
}

// Delete cancels the order. The row is kept.
func (h *OrderHandler) Delete(call *rpc.Call) (any, error) {
	var in idInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	n, err := h.orders.Delete(call.Ctx, in.ID, call.Scope())
	if err != nil {
		return nil, err
	}

	if n > 0 {
		writeAudit(h.audit, call, audit.ActionDelete, "order", in.ID, map[string]any{"status": order.StatusCancelled})
	}
	return success(n), nil
}
