package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/cleanpro-api/internal/audit"
	"github.com/BruksfildServices01/cleanpro-api/internal/config"
	"github.com/BruksfildServices01/cleanpro-api/internal/domain/order"
	"github.com/BruksfildServices01/cleanpro-api/internal/domain/user"
	"github.com/BruksfildServices01/cleanpro-api/internal/metrics"
	"github.com/BruksfildServices01/cleanpro-api/internal/models"
	"github.com/BruksfildServices01/cleanpro-api/internal/rpc"
	"github.com/BruksfildServices01/cleanpro-api/internal/session"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
	"github.com/BruksfildServices01/cleanpro-api/internal/testutil"
)

const (
	providerSecret = "provider-secret"
	ownerOpenID    = "owner-open-id"
)

// syncAuditor writes events inline so tests can read them back.
type syncAuditor struct {
	logger *audit.Logger
}

func (a syncAuditor) Dispatch(ev audit.Event) {
	_ = a.logger.Write(context.Background(), ev)
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type errorBody struct {
	Code    string            `json:"error_code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

type APISuite struct {
	suite.Suite
	providerHash string

	engine *gin.Engine
	store  *store.Store
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(providerSecret), bcrypt.MinCost)
	s.Require().NoError(err)
	s.providerHash = string(hash)
}

func (s *APISuite) SetupTest() {
	s.store = store.New(testutil.SQLite(s.T()), store.Options{OwnerOpenID: ownerOpenID})

	cfg := &config.Config{
		ProviderSecretHash: s.providerHash,
		Timezone:           "America/Sao_Paulo",
	}

	s.engine = gin.New()
	RegisterRoutes(s.engine, Deps{
		Config:   cfg,
		Store:    s.store,
		Sessions: session.NewManager("test-secret", time.Hour),
		Audit:    syncAuditor{logger: audit.New(s.store.AuditLogs)},
		Metrics:  metrics.New(),
		Log:      zap.NewNop(),
	})
}

// --------- helpers ---------

func (s *APISuite) post(procedure, token string, input any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if input != nil {
		s.Require().NoError(json.NewEncoder(&body).Encode(input))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/rpc/"+procedure, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *APISuite) get(procedure, token string, input any) *httptest.ResponseRecorder {
	target := "/api/rpc/" + procedure
	if input != nil {
		raw, err := json.Marshal(input)
		s.Require().NoError(err)
		target += "?input=" + url.QueryEscape(string(raw))
	}

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *APISuite) data(w *httptest.ResponseRecorder, out any) {
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var env envelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	if out != nil {
		s.Require().NoError(json.Unmarshal(env.Data, out))
	}
}

func (s *APISuite) failure(w *httptest.ResponseRecorder, status int) errorBody {
	s.Require().Equal(status, w.Code, w.Body.String())

	var body errorBody
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (s *APISuite) signIn(openID string) (string, *models.User) {
	body, err := json.Marshal(map[string]any{"openId": openID, "name": "User " + openID, "loginMethod": "google"})
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/api/rpc/auth.session", bytes.NewReader(body))
	req.Header.Set("X-Provider-Secret", providerSecret)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var out struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	s.data(w, &out)
	s.Require().NotEmpty(out.Token)
	return out.Token, out.User
}

func (s *APISuite) createOrder(token string) uint {
	var out struct {
		ID uint `json:"id"`
	}
	s.data(s.post("orders.create", token, map[string]any{
		"clientId": 1,
		"title":    "Limpeza",
		"address":  "Rua X",
	}), &out)
	return out.ID
}

// --------- router ---------

func (s *APISuite) TestUnknownProcedure() {
	body := s.failure(s.post("clients.explode", "", nil), http.StatusNotFound)
	s.Equal("procedure_not_found", body.Code)
}

func (s *APISuite) TestAnonymousRejectedBeforeValidation() {
	body := s.failure(s.post("clients.create", "", map[string]any{"name": ""}), http.StatusUnauthorized)
	s.Equal("unauthorized", body.Code)
}

func (s *APISuite) TestInvalidTokenIsAnonymous() {
	s.failure(s.post("clients.list", "not-a-token", nil), http.StatusUnauthorized)

	var me *models.User
	s.data(s.get("auth.me", "not-a-token", nil), &me)
	s.Nil(me)
}

func (s *APISuite) TestMutationRequiresPost() {
	token, _ := s.signIn("alice")
	body := s.failure(s.get("clients.create", token, map[string]any{"name": "Ana"}), http.StatusMethodNotAllowed)
	s.Equal("method_not_allowed", body.Code)
}

func (s *APISuite) TestMalformedJSON() {
	token, _ := s.signIn("alice")

	req := httptest.NewRequest(http.MethodPost, "/api/rpc/clients.create", strings.NewReader(`{"name":`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	body := s.failure(w, http.StatusBadRequest)
	s.Equal("invalid_request", body.Code)
}

// --------- auth ---------

func (s *APISuite) TestSession_RequiresProviderSecret() {
	req := httptest.NewRequest(http.MethodPost, "/api/rpc/auth.session", strings.NewReader(`{"openId":"abc"}`))
	req.Header.Set("X-Provider-Secret", "wrong")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	s.failure(w, http.StatusUnauthorized)

	res, err := s.store.Users.GetByOpenID(context.Background(), "abc")
	s.Require().NoError(err)
	s.False(store.Found(res))
}

func (s *APISuite) TestSession_OwnerIsAdmin() {
	_, owner := s.signIn(ownerOpenID)
	_, other := s.signIn("someone")

	s.Equal(user.RoleAdmin, owner.Role)
	s.Equal(user.RoleUser, other.Role)
}

func (s *APISuite) TestSession_SetsCookieUsableByMe() {
	body := strings.NewReader(`{"openId":"abc","name":"Ana"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/rpc/auth.session", body)
	req.Header.Set("X-Provider-Secret", providerSecret)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	s.Require().NotNil(cookie)
	s.True(cookie.HttpOnly)

	req = httptest.NewRequest(http.MethodGet, "/api/rpc/auth.me", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var me models.User
	s.data(w, &me)
	s.Equal("abc", me.OpenID)
	s.Equal("Ana", me.Name)
}

func (s *APISuite) TestLogoutClearsCookie() {
	w := s.post("auth.logout", "", nil)

	var out struct {
		Success bool `json:"success"`
	}
	s.data(w, &out)
	s.True(out.Success)

	setCookie := w.Header().Get("Set-Cookie")
	s.Contains(setCookie, session.CookieName+"=")
	s.Contains(setCookie, "Max-Age=0")
}

func (s *APISuite) TestDeleteAccount_RemovesOwnedRowsAndSession() {
	ctx := context.Background()
	token, u := s.signIn("alice")
	other, _ := s.signIn("bob")

	s.data(s.post("clients.create", token, map[string]any{"name": "Ana"}), nil)
	orderID := s.createOrder(token)
	s.data(s.post("orderItems.create", token, map[string]any{"orderId": orderID, "title": "Janelas"}), nil)
	s.data(s.post("schedules.create", token, map[string]any{"title": "Visita", "startDate": time.Now().UTC()}), nil)
	s.data(s.post("clients.create", other, map[string]any{"name": "Bia"}), nil)

	var res struct {
		Success      bool  `json:"success"`
		RowsAffected int64 `json:"rowsAffected"`
	}
	s.data(s.post("auth.deleteAccount", token, nil), &res)
	s.EqualValues(1, res.RowsAffected)

	found, err := s.store.Users.GetByID(ctx, u.ID)
	s.Require().NoError(err)
	s.False(store.Found(found))

	// the old token no longer opens protected procedures
	s.failure(s.post("clients.create", token, map[string]any{"name": "Ana"}), http.StatusUnauthorized)
	s.failure(s.get("clients.list", token, nil), http.StatusUnauthorized)

	var me *models.User
	s.data(s.get("auth.me", token, nil), &me)
	s.Nil(me)

	owner := store.OwnedBy(u.ID)
	clients, err := s.store.Clients.List(ctx, owner)
	s.Require().NoError(err)
	s.Empty(clients.Data)
	orders, err := s.store.Orders.List(ctx, owner)
	s.Require().NoError(err)
	s.Empty(orders.Data)
	schedules, err := s.store.Schedules.List(ctx, owner)
	s.Require().NoError(err)
	s.Empty(schedules.Data)

	var bobClients []models.Client
	s.data(s.get("clients.list", other, nil), &bobClients)
	s.Len(bobClients, 1)

	logs, err := s.store.AuditLogs.List(ctx, owner, "user", 10)
	s.Require().NoError(err)
	var actions []string
	for _, l := range logs.Data {
		actions = append(actions, l.Action)
	}
	s.Contains(actions, audit.ActionDelete)
}

func (s *APISuite) TestDeleteAccount_SignInAgainStartsEmpty() {
	token, _ := s.signIn("alice")
	s.data(s.post("clients.create", token, map[string]any{"name": "Ana"}), nil)
	s.data(s.post("auth.deleteAccount", token, nil), nil)

	token, _ = s.signIn("alice")

	var list []models.Client
	s.data(s.get("clients.list", token, nil), &list)
	s.Empty(list)
}

// --------- clients ---------

func (s *APISuite) TestClients_Flow() {
	token, u := s.signIn("alice")

	var created struct {
		ID uint `json:"id"`
	}
	s.data(s.post("clients.create", token, map[string]any{
		"name":    "Ana",
		"email":   "ana@example.com",
		"cpfCnpj": "123.456.789-09",
		"userId":  999,
	}), &created)
	s.NotZero(created.ID)

	var got models.Client
	s.data(s.get("clients.get", token, map[string]any{"id": created.ID}), &got)
	s.Equal(u.ID, got.UserID)
	s.Equal("Ana", got.Name)
	s.True(got.IsActive)

	s.data(s.post("clients.delete", token, map[string]any{"id": created.ID}), nil)

	var list []models.Client
	s.data(s.get("clients.list", token, nil), &list)
	s.Empty(list)
	s.NotNil(list)
}

func (s *APISuite) TestClients_UpdateEmptyNameRejected() {
	token, _ := s.signIn("alice")

	body := s.failure(s.post("clients.update", token, map[string]any{"id": 5, "name": ""}), http.StatusBadRequest)
	s.Equal("invalid_request", body.Code)
	s.Equal("min=1", body.Details["name"])
}

func (s *APISuite) TestClients_CreateValidation() {
	token, _ := s.signIn("alice")

	tests := []struct {
		name  string
		input map[string]any
		field string
	}{
		{"missing name", map[string]any{}, "name"},
		{"long name", map[string]any{"name": strings.Repeat("a", 256)}, "name"},
		{"bad email", map[string]any{"name": "Ana", "email": "not-an-email"}, "email"},
		{"long phone", map[string]any{"name": "Ana", "phone": strings.Repeat("9", 21)}, "phone"},
		{"bad tax id", map[string]any{"name": "Ana", "cpfCnpj": "abc"}, "cpfCnpj"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			body := s.failure(s.post("clients.create", token, tt.input), http.StatusBadRequest)
			s.Contains(body.Details, tt.field)
		})
	}
}

func (s *APISuite) TestClients_OtherOwnerIsNoOp() {
	alice, _ := s.signIn("alice")
	bob, _ := s.signIn("bob")

	var created struct {
		ID uint `json:"id"`
	}
	s.data(s.post("clients.create", alice, map[string]any{"name": "Ana"}), &created)

	var res struct {
		Success      bool  `json:"success"`
		RowsAffected int64 `json:"rowsAffected"`
	}
	s.data(s.post("clients.update", bob, map[string]any{"id": created.ID, "name": "Hacked"}), &res)
	s.True(res.Success)
	s.Zero(res.RowsAffected)

	var got *models.Client
	s.data(s.get("clients.get", bob, map[string]any{"id": created.ID}), &got)
	s.Nil(got)

	s.data(s.get("clients.get", alice, map[string]any{"id": created.ID}), &got)
	s.Require().NotNil(got)
	s.Equal("Ana", got.Name)
}

// --------- orders ---------

func (s *APISuite) TestOrders_ScenarioCancelOnDelete() {
	token, _ := s.signIn("alice")
	id := s.createOrder(token)

	var got models.Order
	s.data(s.get("orders.get", token, map[string]any{"id": id}), &got)
	s.Equal(order.StatusPending, got.Status)
	s.Equal("Rua X", got.Address)

	s.data(s.post("orders.delete", token, map[string]any{"id": id}), nil)

	s.data(s.get("orders.get", token, map[string]any{"id": id}), &got)
	s.Equal(order.StatusCancelled, got.Status)
}

func (s *APISuite) TestOrders_RejectsUnknownStatusAndNegativeValue() {
	token, _ := s.signIn("alice")

	s.failure(s.post("orders.create", token, map[string]any{
		"clientId": 1, "title": "Limpeza", "address": "Rua X", "status": "archived",
	}), http.StatusBadRequest)

	body := s.failure(s.post("orders.create", token, map[string]any{
		"clientId": 1, "title": "Limpeza", "address": "Rua X", "value": -1,
	}), http.StatusBadRequest)
	s.Equal("min=0", body.Details["value"])

	body = s.failure(s.post("orders.create", token, map[string]any{
		"clientId": 1, "title": "Limpeza", "address": "Rua X", "scheduledTime": "25:00",
	}), http.StatusBadRequest)
	s.Contains(body.Details, "scheduledTime")
}

func (s *APISuite) TestOrders_CompleteStampsCompletedAt() {
	token, _ := s.signIn("alice")
	id := s.createOrder(token)

	s.data(s.post("orders.update", token, map[string]any{"id": id, "status": "completed", "value": 15000}), nil)

	var got models.Order
	s.data(s.get("orders.get", token, map[string]any{"id": id}), &got)
	s.Equal(order.StatusCompleted, got.Status)
	s.NotNil(got.CompletedAt)
	s.Require().NotNil(got.Value)
	s.EqualValues(15000, *got.Value)

	var completed []models.Order
	s.data(s.get("orders.listByStatus", token, map[string]any{"status": "completed"}), &completed)
	s.Len(completed, 1)
}

func (s *APISuite) TestOrders_ClearScheduledTime() {
	token, _ := s.signIn("alice")

	var out struct {
		ID uint `json:"id"`
	}
	s.data(s.post("orders.create", token, map[string]any{
		"clientId": 1, "title": "Limpeza", "address": "Rua X", "scheduledTime": "09:30",
	}), &out)

	s.data(s.post("orders.update", token, map[string]any{"id": out.ID, "scheduledTime": ""}), nil)

	var got models.Order
	s.data(s.get("orders.get", token, map[string]any{"id": out.ID}), &got)
	s.Empty(got.ScheduledTime)
	s.Equal("Limpeza", got.Title)
}

// --------- order items ---------

func (s *APISuite) TestOrderItems_ScopedToOrderOwner() {
	alice, _ := s.signIn("alice")
	bob, _ := s.signIn("bob")
	orderID := s.createOrder(alice)

	body := s.failure(s.post("orderItems.create", bob, map[string]any{"orderId": orderID, "title": "Intruso"}), http.StatusNotFound)
	s.Equal("order_not_found", body.Code)

	s.data(s.post("orderItems.create", alice, map[string]any{"orderId": orderID, "title": "Janelas", "order": 2}), nil)
	s.data(s.post("orderItems.create", alice, map[string]any{"orderId": orderID, "title": "Cozinha", "order": 1}), nil)

	var items []models.OrderItem
	s.data(s.get("orderItems.list", alice, map[string]any{"orderId": orderID}), &items)
	s.Require().Len(items, 2)
	s.Equal("Cozinha", items[0].Title)

	s.data(s.get("orderItems.list", bob, map[string]any{"orderId": orderID}), &items)
	s.Empty(items)
}

// --------- schedules ---------

func (s *APISuite) TestSchedules_OverlapAndRange() {
	token, _ := s.signIn("alice")
	start := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		s.data(s.post("schedules.create", token, map[string]any{
			"title":     "Visita",
			"startDate": start.Add(time.Duration(i) * 30 * time.Minute),
			"endDate":   start.Add(2 * time.Hour),
		}), nil)
	}

	var all []models.Schedule
	s.data(s.get("schedules.list", token, nil), &all)
	s.Len(all, 2)

	var ranged []models.Schedule
	s.data(s.get("schedules.listRange", token, map[string]any{
		"from": start.Add(15 * time.Minute),
		"to":   start.Add(24 * time.Hour),
	}), &ranged)
	s.Len(ranged, 1)

	s.failure(s.get("schedules.listRange", token, map[string]any{
		"from": start,
		"to":   start.Add(-time.Hour),
	}), http.StatusBadRequest)
}

func (s *APISuite) TestSchedules_RejectsUnknownType() {
	token, _ := s.signIn("alice")

	s.failure(s.post("schedules.create", token, map[string]any{
		"title": "Visita", "startDate": time.Now(), "type": "lunch",
	}), http.StatusBadRequest)

	body := s.failure(s.post("schedules.create", token, map[string]any{
		"title": "Visita", "startDate": time.Now(), "reminderMinutes": -5,
	}), http.StatusBadRequest)
	s.Contains(body.Details, "reminderMinutes")
}

// --------- availability ---------

func (s *APISuite) TestStoreUnavailable_ReadsDegradeWritesFail() {
	token, _ := s.signIn("alice")
	s.createOrder(token)

	s.Require().NoError(s.store.Close())

	w := s.get("orders.list", token, nil)
	var list []models.Order
	s.data(w, &list)
	s.Empty(list)
	s.Equal("true", w.Header().Get(rpc.HeaderDegraded))

	body := s.failure(s.post("orders.create", token, map[string]any{
		"clientId": 1, "title": "Limpeza", "address": "Rua X",
	}), http.StatusServiceUnavailable)
	s.Equal("store_unavailable", body.Code)

	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "degraded")
}

// --------- dashboard & audit ---------

func (s *APISuite) TestDashboardSummary() {
	token, _ := s.signIn("alice")
	s.data(s.post("clients.create", token, map[string]any{"name": "Ana"}), nil)
	s.createOrder(token)

	var summary struct {
		ActiveClients  int            `json:"activeClients"`
		OrdersByStatus map[string]int `json:"ordersByStatus"`
	}
	s.data(s.get("dashboard.summary", token, nil), &summary)
	s.Equal(1, summary.ActiveClients)
	s.Equal(1, summary.OrdersByStatus["pending"])

	s.failure(s.get("dashboard.summary", token, map[string]any{"date": "10/03/2026"}), http.StatusBadRequest)
}

func (s *APISuite) TestAuditLogs_RecordMutations() {
	token, _ := s.signIn("alice")
	s.data(s.post("clients.create", token, map[string]any{"name": "Ana"}), nil)

	var logs []models.AuditLog
	s.data(s.get("auditLogs.list", token, map[string]any{"entity": "client"}), &logs)
	s.Require().Len(logs, 1)
	s.Equal(audit.ActionCreate, logs[0].Action)

	other, _ := s.signIn("bob")
	s.data(s.get("auditLogs.list", other, map[string]any{"entity": "client"}), &logs)
	s.Empty(logs)
}

func (s *APISuite) TestMetricsEndpoint() {
	s.get("auth.me", "", nil)

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `cleanpro_http_requests_total{method="GET",procedure="auth.me",status="200"}`)
}
