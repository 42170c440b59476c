package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/cleanpro-api/internal/audit"
	"github.com/BruksfildServices01/cleanpro-api/internal/models"
	"github.com/BruksfildServices01/cleanpro-api/internal/rpc"
	"github.com/BruksfildServices01/cleanpro-api/internal/session"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
)

const HeaderProviderSecret = "X-Provider-Secret"

type AuthConfig struct {
	// ProviderSecretHash is the bcrypt hash of the secret the identity
	// provider sends on auth.session. Empty disables the procedure.
	ProviderSecretHash string
	SecureCookie       bool
}

type AuthHandler struct {
	users    *store.UserStore
	sessions *session.Manager
	config   AuthConfig
	audit    Auditor
}

func NewAuthHandler(s *store.Store, sessions *session.Manager, cfg AuthConfig, a Auditor) *AuthHandler {
	return &AuthHandler{users: s.Users, sessions: sessions, config: cfg, audit: auditorOrNop(a)}
}

func (h *AuthHandler) Register(r *rpc.Router) {
	r.Query("auth.me", rpc.Public, h.Me)
	r.Mutation("auth.logout", rpc.Public, h.Logout)
	r.Mutation("auth.session", rpc.Public, h.Session)
	r.Mutation("auth.deleteAccount", rpc.Protected, h.DeleteAccount)
}

// --------- Requests ---------

type sessionInput struct {
	OpenID      string  `json:"openId" binding:"required,max=64"`
	Name        *string `json:"name"`
	Email       *string `json:"email" binding:"omitempty,email,max=320"`
	LoginMethod *string `json:"loginMethod" binding:"omitempty,max=64"`
}

type sessionOutput struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// --------- Handlers ---------

// Me returns the caller's user row, or null for anonymous requests.
func (h *AuthHandler) Me(call *rpc.Call) (any, error) {
	if call.Caller == nil {
		return nil, nil
	}

	res, err := h.users.GetByID(call.Ctx, call.Caller.ID)
	if err != nil {
		return nil, err
	}
	return rpc.Read(call, res), nil
}

func (h *AuthHandler) Logout(call *rpc.Call) (any, error) {
	h.clearCookie(call.Gin)
	return gin.H{"success": true}, nil
}

// Session persists the identity handed over by the auth provider and
// opens a session for it.
func (h *AuthHandler) Session(call *rpc.Call) (any, error) {
	if !h.providerAuthorized(call.Gin.GetHeader(HeaderProviderSecret)) {
		return nil, rpc.ErrUnauthorized
	}

	var in sessionInput
	if err := call.Bind(&in); err != nil {
		return nil, err
	}

	if err := h.users.UpsertByOpenID(call.Ctx, store.UserUpsert{
		OpenID:      in.OpenID,
		Name:        in.Name,
		Email:       in.Email,
		LoginMethod: in.LoginMethod,
	}); err != nil {
		return nil, err
	}

	res, err := h.users.GetByOpenID(call.Ctx, in.OpenID)
	if err != nil {
		return nil, err
	}
	if res.Degraded {
		return nil, fmt.Errorf("load user after upsert: %w", res.Cause)
	}
	if !store.Found(res) {
		return nil, errors.New("user missing after upsert")
	}
	u := res.Data

	token, exp, err := h.sessions.Issue(u)
	if err != nil {
		return nil, err
	}

	call.Gin.SetSameSite(http.SameSiteLaxMode)
	call.Gin.SetCookie(session.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", h.config.SecureCookie, true)

	h.audit.Dispatch(audit.Event{
		UserID:   u.ID,
		Action:   audit.ActionSignIn,
		Entity:   "user",
		EntityID: u.ID,
		Metadata: map[string]any{"loginMethod": u.LoginMethod},
	})
	return sessionOutput{Token: token, ExpiresAt: exp, User: u}, nil
}

// DeleteAccount removes the caller's account with everything it owns and
// ends the session. Outstanding tokens stop resolving once the row is gone.
func (h *AuthHandler) DeleteAccount(call *rpc.Call) (any, error) {
	n, err := h.users.Delete(call.Ctx, call.Caller.ID)
	if err != nil {
		return nil, err
	}

	h.clearCookie(call.Gin)
	if n > 0 {
		writeAudit(h.audit, call, audit.ActionDelete, "user", call.Caller.ID, map[string]any{"openId": call.Caller.OpenID})
	}
	return success(n), nil
}

func (h *AuthHandler) providerAuthorized(secret string) bool {
	if h.config.ProviderSecretHash == "" || secret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h.config.ProviderSecretHash), []byte(secret)) == nil
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", h.config.SecureCookie, true)
}
