package rpc

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/cleanpro-api/internal/session"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
	"github.com/BruksfildServices01/cleanpro-api/internal/validators"
)

// Call is one procedure invocation.
type Call struct {
	Ctx    context.Context
	Gin    *gin.Context
	Caller *session.Caller

	input    []byte
	degraded error
}

// Bind decodes the input into dst and validates its binding tags.
// Missing input is treated as an empty object.
func (c *Call) Bind(dst any) error {
	raw := bytes.TrimSpace(c.input)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	if err := binding.JSON.BindBody(raw, dst); err != nil {
		return invalid(err)
	}
	return nil
}

// Scope is the owner every store call of this request is limited to.
func (c *Call) Scope() store.Scope {
	if c.Caller == nil {
		return store.Scope{}
	}
	return store.OwnedBy(c.Caller.ID)
}

// Read unwraps a store read, remembering whether it degraded.
func Read[T any](c *Call, res store.Result[T]) T {
	if res.Degraded {
		c.degraded = res.Cause
		if c.degraded == nil {
			c.degraded = store.ErrUnavailable
		}
	}
	return res.Data
}

var setupValidator sync.Once

func registerValidation() {
	setupValidator.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonName)
		if err := validators.Register(v); err != nil {
			panic(err)
		}
	})
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
