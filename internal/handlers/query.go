package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const statusOK = "ok"

// QueryRequest is the body of POST /api/v1/query.
type QueryRequest struct {
	// Query in the event log query language.
	Query string `json:"query" binding:"required" example:"get ip for user = \"Amigo\""`
}

// QueryResponse holds the distinct values of the requested field.
type QueryResponse struct {
	Field  string   `json:"field" example:"ip"`
	Count  int      `json:"count" example:"2"`
	Values []string `json:"values"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, loaded"
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
		"loaded": h.services.Loaded(),
	})
}

// @Summary      Run a query
// @Description  Executes a query such as get ip for user = "Amigo" and date between "11.12.2013 0:00:00" and "03.01.2014 23:59:59".
// @Tags         query
// @Accept       json
// @Produce      json
// @Param        body  body      QueryRequest   true  "Query"
// @Success      200   {object}  QueryResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/v1/query [post]
// @Security     BearerAuth
func (h *Handler) runQuery(c *gin.Context) {
	var req QueryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	set, err := h.services.Execute(c.Request.Context(), req.Query)
	if err != nil {
		h.writeServiceError(c, "query_failed", err)
		return
	}

	c.JSON(http.StatusOK, QueryResponse{
		Field:  set.Field().String(),
		Count:  set.Len(),
		Values: set.Strings(),
	})
}

// @Summary      Ingest status
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "loaded, ingest"
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.GetStatus(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, "status_load_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"loaded": h.services.Loaded(),
		"ingest": st,
	})
}
