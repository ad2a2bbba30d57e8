package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"press_admin/internal/metrics"
	"press_admin/internal/middleware"
	"press_admin/internal/models"
	"press_admin/internal/redis"
	"press_admin/internal/repository/memstore"
	"press_admin/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testLoginURL = "http://erp.test/accounts/login/"

type memSessions struct {
	mu   sync.Mutex
	data map[string]*redis.SessionData
}

func (m *memSessions) SetSession(_ context.Context, id string, data *redis.SessionData, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = data
	return nil
}

func (m *memSessions) GetSession(_ context.Context, id string) (*redis.SessionData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.data[id]; ok {
		return d, nil
	}
	return nil, redis.ErrSessionNotFound
}

func (m *memSessions) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSender) SendTextMessage(_ context.Context, phone, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, phone)
	return nil
}

type testServer struct {
	engine   *gin.Engine
	store    *memstore.Store
	accounts services.AccountService
	sessions *memSessions
	sender   *recordingSender
	checks   map[string]Pinger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	store := memstore.New()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	sessions := &memSessions{data: map[string]*redis.SessionData{}}
	sender := &recordingSender{}

	accounts := services.NewAccountService(store, services.NewCredentialGenerator(12), testLoginURL, m, log)
	lifecycle := services.NewLifecycleService(store, m, log)
	auth := services.NewAuthService(store, sessions, time.Hour, 24*time.Hour, m, log)
	notifications := services.NewNotificationService("Test Press", "+91", testLoginURL, sender, log)

	checks := map[string]Pinger{"database": stubPinger{}}
	r := &Router{
		API:          NewAPIHandler(checks),
		Auth:         NewAuthHandler(auth, false),
		Accounts:     NewAccountHandler(accounts, lifecycle, services.NewImportService(accounts, models.RoleCustomer, m, log), services.NewExportService(store, m)),
		RecycleBin:   NewRecycleBinHandler(lifecycle),
		Jobs:         NewJobHandler(services.NewJobService(store, log)),
		WhatsApp:     NewWhatsAppHandler(accounts, notifications),
		RequireLogin: middleware.RequireSession(auth),
	}

	engine := gin.New()
	engine.Use(middleware.RequestLogger(log))
	r.Register(engine)

	return &testServer{
		engine:   engine,
		store:    store,
		accounts: accounts,
		sessions: sessions,
		sender:   sender,
		checks:   checks,
	}
}

func (s *testServer) do(t *testing.T, method, path, session string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) provision(t *testing.T, role models.Role, email, contact string) *services.ProvisionResult {
	t.Helper()
	res, err := s.accounts.Create(context.Background(), services.CreateAccountInput{
		Role:          role,
		FirstName:     "Test",
		LastName:      "User",
		Email:         email,
		ContactNumber: contact,
	})
	require.NoError(t, err)
	return res
}

// login provisions an account of the given role and returns a session id.
func (s *testServer) login(t *testing.T, role models.Role, email string) string {
	t.Helper()
	res := s.provision(t, role, email, "")

	portal := map[models.Role]string{
		models.RoleAdmin:    "admin",
		models.RoleStaff:    "staff",
		models.RoleCustomer: "customer",
	}[role]
	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": res.Account.Username,
		"password": res.Credential,
		"role":     portal,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		SessionID string `json:"session_id"`
	}
	decode(t, w, &body)
	require.NotEmpty(t, body.SessionID)
	return body.SessionID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

var errDown = errors.New("connection refused")
