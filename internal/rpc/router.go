package rpc

import (
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/cleanpro-api/internal/httperr"
	"github.com/BruksfildServices01/cleanpro-api/internal/httpresp"
	"github.com/BruksfildServices01/cleanpro-api/internal/logger"
	"github.com/BruksfildServices01/cleanpro-api/internal/metrics"
	"github.com/BruksfildServices01/cleanpro-api/internal/middleware"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
)

const (
	maxInputBytes  = 1 << 20
	HeaderDegraded = "X-Store-Degraded"
)

type Access int

const (
	Protected Access = iota
	Public
)

type Kind int

const (
	Query Kind = iota
	Mutation
)

type Handler func(call *Call) (any, error)

type Procedure struct {
	Name   string
	Kind   Kind
	Access Access
	Handle Handler
}

// Router dispatches /rpc/:procedure to registered procedures.
type Router struct {
	procs   map[string]Procedure
	metrics *metrics.Metrics
}

// NewRouter builds an empty registry. m may be nil.
func NewRouter(m *metrics.Metrics) *Router {
	registerValidation()
	return &Router{procs: make(map[string]Procedure), metrics: m}
}

func (r *Router) Query(name string, access Access, h Handler) {
	r.add(Procedure{Name: name, Kind: Query, Access: access, Handle: h})
}

func (r *Router) Mutation(name string, access Access, h Handler) {
	r.add(Procedure{Name: name, Kind: Mutation, Access: access, Handle: h})
}

func (r *Router) add(p Procedure) {
	if _, dup := r.procs[p.Name]; dup {
		panic("rpc: duplicate procedure " + p.Name)
	}
	r.procs[p.Name] = p
}

func (r *Router) Procedures() []string {
	names := make([]string, 0, len(r.procs))
	for name := range r.procs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Router) Mount(g gin.IRoutes) {
	g.GET("/rpc/:procedure", r.serve)
	g.POST("/rpc/:procedure", r.serve)
}

func (r *Router) serve(c *gin.Context) {
	name := c.Param("procedure")
	proc, ok := r.procs[name]
	if !ok {
		httperr.NotFound(c, "procedure_not_found", "Procedure "+name+" does not exist.")
		return
	}
	c.Set(middleware.ContextProcedure, name)

	if proc.Kind == Mutation && c.Request.Method != http.MethodPost {
		httperr.Write(c, http.StatusMethodNotAllowed, "method_not_allowed", "Mutations must use POST.")
		return
	}

	caller, _ := middleware.CallerFrom(c)
	if proc.Access == Protected && caller == nil {
		r.fail(c, name, ErrUnauthorized)
		return
	}

	input, err := readInput(c)
	if err != nil {
		r.fail(c, name, err)
		return
	}

	call := &Call{Ctx: c.Request.Context(), Gin: c, Caller: caller, input: input}
	out, err := proc.Handle(call)
	if err != nil {
		r.fail(c, name, err)
		return
	}

	if call.degraded != nil {
		c.Header(HeaderDegraded, "true")
		if r.metrics != nil {
			r.metrics.DegradedReads.WithLabelValues(name).Inc()
		}
		logger.FromContext(c.Request.Context()).Warn("read degraded",
			zap.String("procedure", name),
			zap.Error(call.degraded),
		)
	}

	httpresp.OK(c, out)
}

func readInput(c *gin.Context) ([]byte, error) {
	if c.Request.Method == http.MethodGet {
		return []byte(c.Query("input")), nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxInputBytes))
	if err != nil {
		return nil, &ValidationError{Message: "input could not be read"}
	}
	return body, nil
}

func (r *Router) fail(c *gin.Context, name string, err error) {
	var (
		ve *ValidationError
		be httperr.BusinessError
	)

	switch {
	case errors.As(err, &ve):
		httperr.Invalid(c, ve.Message, ve.Fields)
	case errors.Is(err, ErrUnauthorized), errors.Is(err, store.ErrMissingScope):
		httperr.Unauthorized(c, "unauthorized", "Please login.")
	case errors.Is(err, ErrForbidden):
		httperr.Write(c, http.StatusForbidden, "forbidden", "Not allowed.")
	case errors.As(err, &be):
		httperr.Write(c, be.HTTPStatus(), be.Code, be.Code)
	case errors.Is(err, store.ErrUnavailable):
		logger.FromContext(c.Request.Context()).Error("store unavailable",
			zap.String("procedure", name), zap.Error(err))
		httperr.Unavailable(c, "store_unavailable", "Database is unavailable. Try again later.")
	case errors.Is(err, store.ErrConflict):
		httperr.Write(c, http.StatusConflict, "conflict", "A record with the same key already exists.")
	default:
		logger.FromContext(c.Request.Context()).Error("procedure failed",
			zap.String("procedure", name), zap.Error(err))
		httperr.Internal(c, "internal_error", "Unexpected error.")
	}
}
