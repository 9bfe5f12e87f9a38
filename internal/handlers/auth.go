package handlers

import (
	"errors"
	"net/http"

	"eventlog/internal/service"

	"github.com/gin-gonic/gin"
)

// signInput is the credentials payload of both sign-up and sign-in.
type signInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// errorResponse documents the error body shared by every endpoint.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// bindJSON binds the body into dst and writes a 400 on failure.
// It reports whether the handler should continue.
func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "request_id", c.GetString(requestIDKey), "err", err)
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBody + err.Error()})
		return false
	}
	return true
}

// @Summary  Register a user
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    input  body      signInput  true  "Credentials"
// @Success  200    {object}  map[string]any
// @Failure  400    {object}  errorResponse
// @Failure  409    {object}  errorResponse
// @Router   /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input signInput
	if !h.bindJSON(c, &input) {
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), input.Username, input.Password)
	switch {
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, service.ErrInvalidUsername), errors.Is(err, service.ErrEmptyPassword):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "auth_sign_up_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary  Issue a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    input  body      signInput  true  "Credentials"
// @Success  200    {object}  map[string]any
// @Failure  401    {object}  errorResponse
// @Router   /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input signInput
	if !h.bindJSON(c, &input) {
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), input.Username, input.Password)
	switch {
	case errors.Is(err, service.ErrBadCredentials):
		if h.log != nil {
			h.log.Infow("auth_sign_in_rejected", "username", input.Username)
		}
		c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "auth_sign_in_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
