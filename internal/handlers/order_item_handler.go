package handlers

import (
	"errors"

	"github.com/BruksfildServices01/cleanpro-api/internal/audit"
	"github.com/BruksfildServices01/cleanpro-api/internal/httperr"
	"github.com/BruksfildServices01/cleanpro-api/internal/models"
	"github.com/BruksfildServices01/cleanpro-api/internal/rpc"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
)

// OrderItemHandler manages the checklist of an order. Items are reachable
// only through orders owned by the caller.
type OrderItemHandler struct {
	items *store.OrderItemStore
	audit Auditor
}

func NewOrderItemHandler(s *store.Store, a Auditor) *OrderItemHandler {
	return &OrderItemHandler{items: s.OrderItems, audit: auditorOrNop(a)}
}

func (h *OrderItemHandler) Register(r *rpc.Router) {
	r.Query("orderItems.list", rpc.Protected, h.List)
	r.Mutation("orderItems.create", rpc.Protected, h.Create)
	r.Mutation("orderItems.update", rpc.Protected, h.Update)
	r.Mutation("orderItems.delete", rpc.Protected, h.Delete)
}

type listItemsInput struct {
	OrderID uint `json:"orderId" binding:"required"`
}

type createItemInput struct {
	OrderID     uint   `json:"orderId" binding:"required"`
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type updateItemInput struct {
	ID          uint    `json:"id" binding:"required"`
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"isCompleted"`
	Order       *int    `json:"order"`
}

func (in updateItemInput) patch() store.Patch {
	p := store.Patch{}
	store.Set(p, "title", in.Title)
	store.Set(p, "description", in.Description)
	store.Set(p, "is_completed", in.IsCompleted)
	store.Set(p, "sort_order", in.Order)
	return p
}

func (h *OrderItemHandler) List(call *rpc.Call) (any, error) {
	var in listItemsInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	res, err := h.items.ListByOrder(call.Ctx, in.OrderID, call.Scope())
	if err != nil {
		return nil, err
	}
	return rpc.Read(call, res), nil
}

func (h *OrderItemHandler) Create(call *rpc.Call) (any, error) {
	var in createItemInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	item := models.OrderItem{
		OrderID:     in.OrderID,
		Title:       in.Title,
		Description: in.Description,
		SortOrder:   in.Order,
	}
	id, err := h.items.Create(call.Ctx, call.Scope(), &item)
	if errors.Is(err, store.ErrParentNotFound) {
		return nil, httperr.ErrNotFound("order_not_found")
	}
	if err != nil {
		return nil, err
	}

	writeAudit(h.audit, call, audit.ActionCreate, "order_item", id, map[string]any{"orderId": in.OrderID})
	return created(id), nil
}

func (h *OrderItemHandler) Update(call *rpc.Call) (any, error) {
	var in updateItemInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	n, err := h.items.Update(call.Ctx, in.ID, call.Scope(), in.patch())
	if err != nil {
		return nil, err
	}

	if n > 0 {
		writeAudit(h.audit, call, audit.ActionUpdate, "order_item", in.ID, nil)
	}
	return success(n), nil
}

func (h *OrderItemHandler) Delete(call *rpc.Call) (any, error) {
	var in idInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	n, err := h.items.Delete(call.Ctx, in.ID, call.Scope())
	if err != nil {
		return nil, err
	}

	if n > 0 {
		writeAudit(h.audit, call, audit.ActionDelete, "order_item", in.ID, nil)
	}
	return success(n), nil
}
