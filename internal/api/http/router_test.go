package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/green-campus/internal/api/http/handlers"
	"github.com/spec-kit/green-campus/internal/auth"
	"github.com/spec-kit/green-campus/internal/config"
	"github.com/spec-kit/green-campus/internal/domain"
	"github.com/spec-kit/green-campus/internal/events"
	"github.com/spec-kit/green-campus/internal/observability"
	"github.com/spec-kit/green-campus/internal/persistence"
	"github.com/spec-kit/green-campus/internal/ratelimit"
	"github.com/spec-kit/green-campus/internal/repository"
	"github.com/spec-kit/green-campus/internal/service"
)

type testServer struct {
	app    *fiber.App
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T, limiter ratelimit.Limiter) *testServer {
	t.Helper()
	dir := t.TempDir()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	repos := repository.NewFileRepositories(dir)
	dispatcher := events.NewInMemoryDispatcher()
	tokens := auth.NewTokenManager("test-secret", 60)

	authService := service.NewAuthService(service.AuthDependencies{UserRepo: repos.Users, TokenManager: tokens, Dispatcher: dispatcher})
	messageService := service.NewMessageService(service.MessageDependencies{MessageRepo: repos.Messages, Dispatcher: dispatcher})
	dashboardService := service.NewDashboardService(repos.Dashboard, dispatcher, logger)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	RegisterMiddlewares(app, logger, metrics, 0, []string{"http://localhost:5173"})
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", &persistence.Backend{Kind: config.StorageFile, DataDir: dir}, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Messages:       handlers.NewMessagesHandler(messageService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		SendLimiter:    limiter,
		Logger:         logger,
	})
	return &testServer{app: app, tokens: tokens}
}

func (s *testServer) token(t *testing.T, email string, role domain.Role) string {
	t.Helper()
	token, _, err := s.tokens.GenerateToken(domain.Identity{Email: email, Role: role})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func TestHealthAndNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	status, body := s.do(t, fiber.MethodGet, "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = s.do(t, fiber.MethodGet, "/api/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	status, body = s.do(t, fiber.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Endpoint not found", body["message"])
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	creds := map[string]string{"email": "a@x", "password": "p"}

	status, body := s.do(t, fiber.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, fiber.StatusCreated, status)
	assert.NotEmpty(t, body["access_token"])
	assert.Equal(t, map[string]any{"email": "a@x", "role": "user"}, body["user"])

	status, body = s.do(t, fiber.MethodPost, "/api/auth/register", "", creds)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "User already exists", body["message"])

	status, body = s.do(t, fiber.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x", "password": "bad"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, body = s.do(t, fiber.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, fiber.StatusOK, status)
	token, _ := body["access_token"].(string)

	status, body = s.do(t, fiber.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]any{"email": "a@x", "role": "user"}, body["identity"])

	status, _ = s.do(t, fiber.MethodGet, "/api/auth/me", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestMessageRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.token(t, "admin@greencampus.com", domain.RoleAdmin)
	aliceToken := s.token(t, "alice@x.edu", domain.RoleUser)

	status, body := s.do(t, fiber.MethodPost, "/api/messages/send", "", map[string]string{"user_name": "Alice"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields", body["message"])

	status, body = s.do(t, fiber.MethodPost, "/api/messages/send", "", map[string]string{
		"user_name": "Alice", "user_email": "alice@x.edu", "subject": "Bins", "message": "More please",
	})
	require.Equal(t, fiber.StatusCreated, status)
	id, _ := body["message_id"].(string)
	require.Len(t, id, 24)

	status, _ = s.do(t, fiber.MethodGet, "/api/messages", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = s.do(t, fiber.MethodGet, "/api/messages/"+id, aliceToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	msg, _ := body["message"].(map[string]any)
	assert.Equal(t, id, msg["_id"])
	assert.Equal(t, "unread", msg["status"])
	assert.Equal(t, []any{}, msg["replies"])

	status, _ = s.do(t, fiber.MethodPost, "/api/messages/"+id+"/reply", aliceToken, map[string]string{"reply_text": "hi"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = s.do(t, fiber.MethodPost, "/api/messages/"+id+"/reply", adminToken, map[string]string{"reply_text": "Done"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["email_sent"])

	status, _ = s.do(t, fiber.MethodPut, "/api/messages/"+id+"/read", aliceToken, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body = s.do(t, fiber.MethodGet, "/api/messages", aliceToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	list, _ := body["messages"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "replied", list[0].(map[string]any)["status"])

	status, body = s.do(t, fiber.MethodGet, "/api/messages", s.token(t, "bob@x.edu", domain.RoleUser), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["messages"])

	status, _ = s.do(t, fiber.MethodDelete, "/api/messages/000000000000000000000000", adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, fiber.MethodDelete, "/api/messages/"+id, adminToken, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body = s.do(t, fiber.MethodGet, "/api/messages/"+id, adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Message not found", body["message"])
}

func TestSendIsRateLimited(t *testing.T) {
	s := newTestServer(t, ratelimit.NewMemoryLimiter(1, 1))
	payload := map[string]string{"user_name": "A", "user_email": "a@x", "subject": "s", "message": "m"}

	status, _ := s.do(t, fiber.MethodPost, "/api/messages/send", "", payload)
	assert.Equal(t, fiber.StatusCreated, status)

	status, body := s.do(t, fiber.MethodPost, "/api/messages/send", "", payload)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMITED", errorCode(body))
}

func TestDashboardRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.token(t, "admin@greencampus.com", domain.RoleAdmin)

	status, body := s.do(t, fiber.MethodGet, "/api/dashboard", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	dashboard, _ := body["dashboard"].(map[string]any)
	assert.Len(t, dashboard["energyData"], 4)
	assert.Len(t, dashboard["waterData"], 4)
	assert.Len(t, dashboard["wasteData"], 4)

	update := map[string]any{"energyData": []map[string]any{{"week": "W1", "current": 10, "previous": 8}}}

	status, _ = s.do(t, fiber.MethodPut, "/api/dashboard", s.token(t, "u@x", domain.RoleUser), update)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = s.do(t, fiber.MethodPut, "/api/dashboard", adminToken, map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "No data provided", body["message"])

	status, _ = s.do(t, fiber.MethodPut, "/api/dashboard", adminToken,
		map[string]any{"wasteData": []map[string]any{{"week": "", "current": 1, "previous": 1}}})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.do(t, fiber.MethodPut, "/api/dashboard", adminToken, update)
	require.Equal(t, fiber.StatusOK, status)

	_, body = s.do(t, fiber.MethodGet, "/api/dashboard", "", nil)
	dashboard, _ = body["dashboard"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"week": "W1", "current": float64(10), "previous": float64(8)}}, dashboard["energyData"])
	assert.Equal(t, []any{}, dashboard["waterData"])
}

func TestMetricsRequireAdmin(t *testing.T) {
	s := newTestServer(t, nil)

	status, _ := s.do(t, fiber.MethodGet, "/api/metrics", s.token(t, "u@x", domain.RoleUser), nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := s.do(t, fiber.MethodGet, "/api/metrics", s.token(t, "admin@x", domain.RoleAdmin), nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "requests")
}

func TestAdminRoutesCheckRoleBeforeBody(t *testing.T) {
	s := newTestServer(t, nil)
	userToken := s.token(t, "u@x", domain.RoleUser)

	status, body := s.do(t, fiber.MethodPut, "/api/dashboard", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, body = s.do(t, fiber.MethodPost, "/api/messages/abc/reply", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, _ = s.do(t, fiber.MethodPut, "/api/dashboard", s.token(t, "admin@x", domain.RoleAdmin), nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
