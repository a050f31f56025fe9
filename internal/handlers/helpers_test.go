package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"PassVault/internal/config"
	"PassVault/internal/handlers"
	"PassVault/internal/middleware"
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"PassVault/internal/service"
	"PassVault/internal/token"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Minimal mocks
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

type mockCredRepo struct{ mock.Mock }

func (m *mockCredRepo) Create(ctx context.Context, c *model.Credential) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCredRepo) GetByID(ctx context.Context, userID int64, id string) (*model.Credential, error) {
	args := m.Called(ctx, userID, id)
	if c, ok := args.Get(0).(*model.Credential); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCredRepo) Update(ctx context.Context, userID int64, id string, updates map[string]any) (int64, error) {
	args := m.Called(ctx, userID, id, updates)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCredRepo) ListByUser(ctx context.Context, userID int64) ([]model.Credential, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).([]model.Credential); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCredRepo) Delete(ctx context.Context, userID int64, id string) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.CredentialRepository = (*mockCredRepo)(nil)

// --- Helpers ---

// фиксированный мастер-ключ для тестов хендлеров
var testMasterKey = []byte("0123456789abcdef0123456789abcdef")

type testEnv struct {
	router http.Handler
	broker *token.Broker
}

func newTestRouter(t *testing.T, ur repo.UserRepository, cr repo.CredentialRepository) testEnv {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret", FrontendOrigin: "http://localhost:5173"}
	logger := zap.NewNop().Sugar()

	if cr == nil {
		cr = &mockCredRepo{}
	}
	userSvc := service.NewUserService(ur)
	vaultSvc := service.NewVaultService(cr, testMasterKey, logger)
	broker := token.NewBroker(time.Minute, logger)

	h := handlers.NewHandler(userSvc, vaultSvc, broker, logger, cfg)
	return testEnv{router: h.Router, broker: broker}
}

func addAuthCookie(t *testing.T, req *http.Request, userID int64, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_ = middleware.SetLoginCookie(rr, userID, secret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}
