package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"eventlog/internal/query"
	"eventlog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errAfterInvalid  = "invalid 'after' time; use d.M.yyyy H:m:s, RFC3339 or YYYY-MM-DD"
	errBeforeInvalid = "invalid 'before' time; use d.M.yyyy H:m:s, RFC3339 or YYYY-MM-DD"

	layoutDate = "2006-01-02"
)

// parseQueryTime accepts the log date layout as well as RFC3339 and plain dates.
func parseQueryTime(s string) (time.Time, error) {
	if t, err := query.ParseDate(s); err == nil {
		return t, nil
	}
	for _, layout := range []string{time.RFC3339, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}

// bindRange reads ?after= and ?before= and writes a 400 on failure.
// Returns false if the request was already handled.
func (h *Handler) bindRange(c *gin.Context) (service.RangeFilter, bool) {
	var f service.RangeFilter
	if qs := strings.TrimSpace(c.Query("after")); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: errAfterInvalid})
			return service.RangeFilter{}, false
		}
		f.After = &t
	}
	if qs := strings.TrimSpace(c.Query("before")); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: errBeforeInvalid})
			return service.RangeFilter{}, false
		}
		f.Before = &t
	}
	return f, true
}

// @Summary      Summary statistics
// @Description  Counts over records strictly between 'after' and 'before'. Missing bounds are open.
// @Tags         stats
// @Produce      json
// @Param        after   query     string  false  "Exclusive lower bound"  example(11.12.2013 0:00:00)
// @Param        before  query     string  false  "Exclusive upper bound"  example(03.01.2014 23:59:59)
// @Success      200     {object}  service.Stats
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      503     {object}  errorResponse
// @Router       /api/v1/stats [get]
// @Security     BearerAuth
func (h *Handler) getStats(c *gin.Context) {
	f, ok := h.bindRange(c)
	if !ok {
		return
	}
	st, err := h.services.Stats(c.Request.Context(), f)
	if err != nil {
		h.writeServiceError(c, "stats_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      User addresses
// @Tags         stats
// @Produce      json
// @Param        user    path      string  true   "User name"
// @Param        after   query     string  false  "Exclusive lower bound"
// @Param        before  query     string  false  "Exclusive upper bound"
// @Success      200     {object}  map[string]interface{}  "user, count, ips"
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      503     {object}  errorResponse
// @Router       /api/v1/users/{user}/ips [get]
// @Security     BearerAuth
func (h *Handler) getUserIPs(c *gin.Context) {
	f, ok := h.bindRange(c)
	if !ok {
		return
	}
	user := c.Param("user")
	ips, err := h.services.UserIPs(c.Request.Context(), user, f)
	if err != nil {
		h.writeServiceError(c, "user_ips_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"count": len(ips),
		"ips":   ips,
	})
}

// @Summary      Solve attempts per task
// @Tags         stats
// @Produce      json
// @Param        after   query     string  false  "Exclusive lower bound"
// @Param        before  query     string  false  "Exclusive upper bound"
// @Success      200     {object}  map[string]int  "task id to SOLVE_TASK count"
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      503     {object}  errorResponse
// @Router       /api/v1/tasks/solved [get]
// @Security     BearerAuth
func (h *Handler) getSolvedTasks(c *gin.Context) {
	h.respondTasks(c, "solved_tasks_failed", h.services.SolvedTasks)
}

// @Summary      Completions per task
// @Tags         stats
// @Produce      json
// @Param        after   query     string  false  "Exclusive lower bound"
// @Param        before  query     string  false  "Exclusive upper bound"
// @Success      200     {object}  map[string]int  "task id to DONE_TASK count"
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      503     {object}  errorResponse
// @Router       /api/v1/tasks/done [get]
// @Security     BearerAuth
func (h *Handler) getDoneTasks(c *gin.Context) {
	h.respondTasks(c, "done_tasks_failed", h.services.DoneTasks)
}

type taskCounter func(ctx context.Context, f service.RangeFilter) (map[int]int, error)

func (h *Handler) respondTasks(c *gin.Context, logKey string, count taskCounter) {
	f, ok := h.bindRange(c)
	if !ok {
		return
	}
	tasks, err := count(c.Request.Context(), f)
	if err != nil {
		h.writeServiceError(c, logKey, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}
