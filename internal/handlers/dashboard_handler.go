package handlers

import (
	"time"

	"github.com/BruksfildServices01/cleanpro-api/internal/rpc"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
	ucDashboard "github.com/BruksfildServices01/cleanpro-api/internal/usecase/dashboard"
)

type DashboardHandler struct {
	summarize *ucDashboard.Summarize
	loc       *time.Location
	now       func() time.Time
}

func NewDashboardHandler(summarize *ucDashboard.Summarize, loc *time.Location) *DashboardHandler {
	return &DashboardHandler{summarize: summarize, loc: loc, now: time.Now}
}

func (h *DashboardHandler) Register(r *rpc.Router) {
	r.Query("dashboard.summary", rpc.Protected, h.Summary)
}

type summaryInput struct {
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

func (h *DashboardHandler) Summary(call *rpc.Call) (any, error) {
	var in summaryInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	day := h.now()
	if in.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", in.Date, h.loc)
		if err != nil {
			return nil, &rpc.ValidationError{Message: "invalid date", Fields: map[string]string{"date": "datetime=2006-01-02"}}
		}
		day = parsed
	}

	summary, err := h.summarize.Execute(call.Ctx, call.Scope(), day)
	if err != nil {
		return nil, err
	}

	return rpc.Read(call, store.Result[ucDashboard.Summary]{
		Data:     summary,
		Degraded: summary.Degraded,
		Cause:    summary.Cause,
	}), nil
}
