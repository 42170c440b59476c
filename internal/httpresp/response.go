package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every successful procedure call.
type Envelope struct {
	Data any `json:"data"`
}

type Success struct {
	Success      bool  `json:"success"`
	RowsAffected int64 `json:"rowsAffected"`
}

type Created struct {
	ID uint `json:"id"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Data: data})
}
