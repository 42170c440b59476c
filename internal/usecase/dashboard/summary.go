package dashboard

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/BruksfildServices01/cleanpro-api/internal/domain/order"
	"github.com/BruksfildServices01/cleanpro-api/internal/models"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
	"github.com/BruksfildServices01/cleanpro-api/internal/timezone"
)

const upcomingLimit = 5

type OrderReader interface {
	List(ctx context.Context, sc store.Scope) (store.Result[[]models.Order], error)
}

type ClientReader interface {
	List(ctx context.Context, sc store.Scope) (store.Result[[]models.Client], error)
}

type ScheduleReader interface {
	ListRange(ctx context.Context, sc store.Scope, from, to time.Time) (store.Result[[]models.Schedule], error)
}

type Summary struct {
	Date           string               `json:"date"`
	ServicesToday  int                  `json:"servicesToday"`
	SchedulesToday int                  `json:"schedulesToday"`
	ActiveClients  int                  `json:"activeClients"`
	OrdersByStatus map[order.Status]int `json:"ordersByStatus"`
	// Revenue soma ordens concluídas no mês, em centavos.
	RevenueMonth   int64          `json:"revenueMonth"`
	CompletionRate float64        `json:"completionRate"`
	Upcoming       []models.Order `json:"upcoming"`

	Degraded bool  `json:"-"`
	Cause    error `json:"-"`
}

type Summarize struct {
	orders    OrderReader
	clients   ClientReader
	schedules ScheduleReader
	loc       *time.Location
}

func NewSummarize(
	orders OrderReader,
	clients ClientReader,
	schedules ScheduleReader,
	loc *time.Location,
) *Summarize {
	return &Summarize{
		orders:    orders,
		clients:   clients,
		schedules: schedules,
		loc:       loc,
	}
}

// Execute builds the dashboard for the calendar day of day. Unreachable
// reads count as empty and mark the summary degraded.
func (uc *Summarize) Execute(ctx context.Context, sc store.Scope, day time.Time) (Summary, error) {
	start, end := timezone.DayBounds(day, uc.loc)
	monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, uc.loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	out := Summary{
		Date:           start.Format("2006-01-02"),
		OrdersByStatus: make(map[order.Status]int, len(order.Statuses())),
		Upcoming:       []models.Order{},
	}
	for _, s := range order.Statuses() {
		out.OrdersByStatus[s] = 0
	}

	orders, err := uc.orders.List(ctx, sc)
	if err != nil {
		return Summary{}, err
	}
	out.absorb(orders.Degraded, orders.Cause)

	clients, err := uc.clients.List(ctx, sc)
	if err != nil {
		return Summary{}, err
	}
	out.absorb(clients.Degraded, clients.Cause)
	out.ActiveClients = len(clients.Data)

	schedules, err := uc.schedules.ListRange(ctx, sc, start, end)
	if err != nil {
		return Summary{}, err
	}
	out.absorb(schedules.Degraded, schedules.Cause)
	out.SchedulesToday = len(schedules.Data)

	var completed, open int
	for _, o := range orders.Data {
		out.OrdersByStatus[o.Status]++

		switch o.Status {
		case order.StatusCancelled:
			continue
		case order.StatusCompleted:
			completed++
			if o.Value != nil && o.CompletedAt != nil && within(*o.CompletedAt, monthStart, monthEnd) {
				out.RevenueMonth += *o.Value
			}
		default:
			open++
			if o.ScheduledDate != nil && !o.ScheduledDate.Before(start) {
				out.Upcoming = append(out.Upcoming, o)
			}
		}

		if o.ScheduledDate != nil && within(*o.ScheduledDate, start, end) {
			out.ServicesToday++
		}
	}

	if total := completed + open; total > 0 {
		out.CompletionRate = math.Round(float64(completed)/float64(total)*1000) / 10
	}

	sort.SliceStable(out.Upcoming, func(i, j int) bool {
		return out.Upcoming[i].ScheduledDate.Before(*out.Upcoming[j].ScheduledDate)
	})
	if len(out.Upcoming) > upcomingLimit {
		out.Upcoming = out.Upcoming[:upcomingLimit]
	}

	return out, nil
}

func (s *Summary) absorb(degraded bool, cause error) {
	if degraded {
		s.Degraded = true
		if s.Cause == nil {
			s.Cause = cause
		}
	}
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
