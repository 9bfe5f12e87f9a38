package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestId"
	userIDKey       = "userId"
	bearerPrefix    = "Bearer "

	errMissingAuth = "missing Authorization header"
	errBadAuth     = "invalid Authorization header format"
	errBadToken    = "invalid or expired token"
)

// authMiddleware admits requests carrying a valid bearer token and stores
// the caller's user id under userIDKey.
func (h *Handler) authMiddleware(c *gin.Context) {
	userID, ok := h.authenticate(c, false)
	if !ok {
		return
	}
	c.Set(userIDKey, userID)
	c.Next()
}

// authenticate checks the bearer token and aborts with 401 when it is
// missing or rejected. With allowQuery a ?token= parameter is accepted in
// place of the header, since browsers cannot set headers on a WebSocket
// upgrade.
func (h *Handler) authenticate(c *gin.Context, allowQuery bool) (int, bool) {
	token, msg := bearerToken(c, allowQuery)
	if msg != "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: msg})
		return 0, false
	}

	userID, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Debugw("auth_token_rejected", "request_id", c.GetString(requestIDKey), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: errBadToken})
		return 0, false
	}
	return userID, true
}

// bearerToken extracts the token, or returns the 401 message to send.
func bearerToken(c *gin.Context, allowQuery bool) (string, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if allowQuery {
			if token := strings.TrimSpace(c.Query("token")); token != "" {
				return token, ""
			}
		}
		return "", errMissingAuth
	}

	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return "", errBadAuth
	}
	return token, ""
}

// requestIDMiddleware propagates X-Request-ID, generating one when absent.
func (h *Handler) requestIDMiddleware(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader(requestIDHeader))
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(requestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}
