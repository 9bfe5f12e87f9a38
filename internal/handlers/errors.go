package handlers

import (
	"context"
	"errors"
	"net/http"

	"eventlog/internal/query"
	"eventlog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errNotLoaded    = "records are not loaded yet"
	errInternal     = "internal error"
	errInvalidBody  = "invalid body: "
	errRequestEnded = "request canceled"
)

// statusClientClosedRequest is the de facto status for requests the client abandoned.
const statusClientClosedRequest = 499

// logAndJSONError logs err under logKey and writes a JSON error.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...any) {
	if h.log != nil && err != nil {
		fields := append([]any{"err", err, "request_id", c.GetString(requestIDKey)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, errorResponse{Error: userMsg})
}

// writeServiceError maps service and query errors onto HTTP responses.
func (h *Handler) writeServiceError(c *gin.Context, logKey string, err error) {
	var qe *query.QueryError
	switch {
	case errors.As(err, &qe):
		c.JSON(http.StatusBadRequest, errorResponse{Error: qe.Error(), Kind: qe.Kind()})
	case errors.Is(err, service.ErrInvalidTimeRange):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotLoaded):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: errNotLoaded})
	case errors.Is(err, context.Canceled):
		c.JSON(statusClientClosedRequest, errorResponse{Error: errRequestEnded})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err)
	}
}
