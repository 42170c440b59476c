package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/cleanpro-api/internal/logger"
	"github.com/BruksfildServices01/cleanpro-api/internal/models"
	"github.com/BruksfildServices01/cleanpro-api/internal/session"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
)

const ContextCaller = "caller"

// Accounts confirms that a token's subject still exists.
type Accounts interface {
	GetByID(ctx context.Context, id uint) (store.Result[*models.User], error)
}

// Session resolves the caller from a bearer token or the session cookie.
// It never rejects: anonymous requests continue without a caller and each
// procedure decides whether that is allowed.
//
// A token whose user row is gone resolves to anonymous. While the store
// is unreachable the token is trusted as is. accounts may be nil.
func Session(m *session.Manager, accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw, _ = c.Cookie(session.CookieName)
		}
		if raw == "" {
			c.Next()
			return
		}

		caller, err := m.Parse(raw)
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug("ignoring session", zap.Error(err))
			c.Next()
			return
		}

		if accounts != nil && !accountExists(c, accounts, caller) {
			c.Next()
			return
		}

		c.Set(ContextCaller, caller)
		c.Next()
	}
}

func accountExists(c *gin.Context, accounts Accounts, caller *session.Caller) bool {
	log := logger.FromContext(c.Request.Context())

	res, err := accounts.GetByID(c.Request.Context(), caller.ID)
	if err != nil {
		log.Warn("session account lookup failed", zap.Uint("user_id", caller.ID), zap.Error(err))
		return false
	}
	if res.Degraded {
		return true
	}
	if !store.Found(res) {
		log.Debug("session for deleted account", zap.Uint("user_id", caller.ID))
		return false
	}

	// role changes apply without a new token
	caller.Role = res.Data.Role
	return true
}

func CallerFrom(c *gin.Context) (*session.Caller, bool) {
	v, ok := c.Get(ContextCaller)
	if !ok {
		return nil, false
	}
	caller, ok := v.(*session.Caller)
	return caller, ok && caller != nil
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
