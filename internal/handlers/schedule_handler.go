package handlers

import (
	"time"

	"github.com/BruksfildServices01/cleanpro-api/internal/audit"
	"github.com/BruksfildServices01/cleanpro-api/internal/domain/schedule"
	"github.com/BruksfildServices01/cleanpro-api/internal/models"
	"github.com/BruksfildServices01/cleanpro-api/internal/rpc"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
)

// maxRange bounds schedules.listRange.
const maxRange = 366 * 24 * time.Hour

type ScheduleHandler struct {
	schedules *store.ScheduleStore
	audit     Auditor
}

func NewScheduleHandler(s *store.Store, a Auditor) *ScheduleHandler {
	return &ScheduleHandler{schedules: s.Schedules, audit: auditorOrNop(a)}
}

func (h *ScheduleHandler) Register(r *rpc.Router) {
	r.Query("schedules.list", rpc.Protected, h.List)
	r.Query("schedules.listRange", rpc.Protected, h.ListRange)
	r.Query("schedules.get", rpc.Protected, h.Get)
	r.Mutation("schedules.create", rpc.Protected, h.Create)
	r.Mutation("schedules.update", rpc.Protected, h.Update)
	r.Mutation("schedules.delete", rpc.Protected, h.Delete)
}

// --------- Requests ---------

type createScheduleInput struct {
	OrderID         *uint          `json:"orderId"`
	Title           string         `json:"title" binding:"required,min=1,max=255"`
	Description     string         `json:"description"`
	StartDate       time.Time      `json:"startDate" binding:"required"`
	EndDate         *time.Time     `json:"endDate"`
	Location        string         `json:"location"`
	Type            *schedule.Kind `json:"type"`
	ReminderMinutes *int           `json:"reminderMinutes" binding:"omitempty,min=0"`
}

type updateScheduleInput struct {
	ID              uint           `json:"id" binding:"required"`
	OrderID         *uint          `json:"orderId"`
	Title           *string        `json:"title" binding:"omitempty,min=1,max=255"`
	Description     *string        `json:"description"`
	StartDate       *time.Time     `json:"startDate"`
	EndDate         *time.Time     `json:"endDate"`
	Location        *string        `json:"location"`
	Type            *schedule.Kind `json:"type"`
	ReminderMinutes *int           `json:"reminderMinutes" binding:"omitempty,min=0"`
}

type listRangeInput struct {
	From time.Time `json:"from" binding:"required"`
	To   time.Time `json:"to" binding:"required,gtfield=From"`
}

func (in updateScheduleInput) patch() store.Patch {
	p := store.Patch{}
	store.Set(p, "order_id", in.OrderID)
	store.Set(p, "title", in.Title)
	store.Set(p, "description", in.Description)
	store.Set(p, "start_date", in.StartDate)
	store.Set(p, "end_date", in.EndDate)
	store.Set(p, "location", in.Location)
	store.Set(p, "type", in.Type)
	store.Set(p, "reminder_minutes", in.ReminderMinutes)
	return p
}

// --------- Handlers ---------

func (h *ScheduleHandler) List(call *rpc.Call) (any, error) {
	res, err := h.schedules.List(call.Ctx, call.Scope())
	if err != nil {
		return nil, err
	}
	return rpc.Read(call, res), nil
}

func (h *ScheduleHandler) ListRange(call *rpc.Call) (any, error) {
	var in listRangeInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}
	if in.To.Sub(in.From) > maxRange {
		return nil, &rpc.ValidationError{
			Message: "range is too long",
			Fields:  map[string]string{"to": "max range 366 days"},
		}
	}

	res, err := h.schedules.ListRange(call.Ctx, call.Scope(), in.From, in.To)
	if err != nil {
		return nil, err
	}
	return rpc.Read(call, res), nil
}

func (h *ScheduleHandler) Get(call *rpc.Call) (any, error) {
	var in idInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	res, err := h.schedules.Get(call.Ctx, in.ID, call.Scope())
	if err != nil {
		return nil, err
	}
	return rpc.Read(call, res), nil
}

// Create never checks for overlapping entries.
func (h *ScheduleHandler) Create(call *rpc.Call) (any, error) {
	var in createScheduleInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	entry := models.Schedule{
		OrderID:         in.OrderID,
		Title:           in.Title,
		Description:     in.Description,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		Location:        in.Location,
		ReminderMinutes: in.ReminderMinutes,
	}
	if in.Type != nil {
		entry.Type = *in.Type
	}

	id, err := h.schedules.Create(call.Ctx, call.Scope(), &entry)
	if err != nil {
		return nil, err
	}

	writeAudit(h.audit, call, audit.ActionCreate, "schedule", id, map[string]any{
		"title":     entry.Title,
		"startDate": entry.StartDate,
	})
	return created(id), nil
}

func (h *ScheduleHandler) Update(call *rpc.Call) (any, error) {
	var in updateScheduleInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	n, err := h.schedules.Update(call.Ctx, in.ID, call.Scope(), in.patch())
	if err != nil {
		return nil, err
	}

	if n > 0 {
		writeAudit(h.audit, call, audit.ActionUpdate, "schedule", in.ID, nil)
	}
	return success(n), nil
}

func (h *ScheduleHandler) Delete(call *rpc.Call) (any, error) {
	var in idInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	n, err := h.schedules.Delete(call.Ctx, in.ID, call.Scope())
	if err != nil {
		return nil, err
	}

	if n > 0 {
		writeAudit(h.audit, call, audit.ActionDelete, "schedule", in.ID, nil)
	}
	return success(n), nil
}
