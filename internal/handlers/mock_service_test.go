package handlers

import (
	"context"
	"net/http"

	"eventlog/internal/models"
	"eventlog/internal/query"
	"eventlog/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockQuery struct {
	set       query.ValueSet
	err       error
	loaded    bool
	lastQuery string
}

func (m *mockQuery) Execute(ctx context.Context, q string) (query.ValueSet, error) {
	m.lastQuery = q
	return m.set, m.err
}
func (m *mockQuery) Accessors() (*query.Accessors, error) {
	return nil, service.ErrNotLoaded
}
func (m *mockQuery) Loaded() bool { return m.loaded }

type mockStatistics struct {
	stats  service.Stats
	ips    []string
	tasks  map[int]int
	err    error
	last   service.RangeFilter
	user   string
	called int
}

func (m *mockStatistics) Stats(ctx context.Context, f service.RangeFilter) (service.Stats, error) {
	m.called++
	m.last = f
	return m.stats, m.err
}
func (m *mockStatistics) UserIPs(ctx context.Context, user string, f service.RangeFilter) ([]string, error) {
	m.called++
	m.last, m.user = f, user
	return m.ips, m.err
}
func (m *mockStatistics) SolvedTasks(ctx context.Context, f service.RangeFilter) (map[int]int, error) {
	m.called++
	m.last = f
	return m.tasks, m.err
}
func (m *mockStatistics) DoneTasks(ctx context.Context, f service.RangeFilter) (map[int]int, error) {
	m.called++
	m.last = f
	return m.tasks, m.err
}

type mockStatus struct {
	status models.IngestStatus
	err    error
}

func (m *mockStatus) GetStatus(ctx context.Context) (models.IngestStatus, error) {
	return m.status, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func ipSet(values ...string) query.ValueSet {
	set := query.NewValueSet(query.FieldIP)
	for _, v := range values {
		set.Add(query.StringValue(v))
	}
	return set
}
