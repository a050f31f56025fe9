package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"PassVault/internal/crypto"
	"PassVault/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// encryptForTest готовит пару (ciphertext, nonce) под тестовый мастер-ключ.
func encryptForTest(t *testing.T, secret string) (string, string) {
	t.Helper()
	cipherB64, nonceB64, err := crypto.Encrypt(secret, testMasterKey)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	return cipherB64, nonceB64
}

func TestCredentials_List(t *testing.T) {
	cr := new(mockCredRepo)
	env := newTestRouter(t, &mockUserRepo{}, cr)

	t.Run("unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/passwords", nil)
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("ok with decrypted secrets", func(t *testing.T) {
		cr.ExpectedCalls = nil
		cipherB64, nonceB64 := encryptForTest(t, "Sup3r$ecret!")
		cr.On("ListByUser", mock.Anything, int64(7)).Return([]model.Credential{{
			ID:         "id-1",
			UserID:     7,
			Site:       "example.com",
			LoginName:  "alice",
			Ciphertext: cipherB64,
			Nonce:      nonceB64,
			Pinned:     true,
			UpdatedAt:  time.Now(),
		}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/passwords", nil)
		addAuthCookie(t, req, 7, "test-secret")
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var body []struct {
			ID        string `json:"_id"`
			Site      string `json:"site"`
			LoginName string `json:"loginName"`
			Secret    string `json:"secret"`
			Pinned    bool   `json:"pinned"`
		}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Len(t, body, 1)
		assert.Equal(t, "id-1", body[0].ID)
		assert.Equal(t, "Sup3r$ecret!", body[0].Secret)
		assert.True(t, body[0].Pinned)
		cr.AssertExpectations(t)
	})

	t.Run("tampered record aborts with 500", func(t *testing.T) {
		cr.ExpectedCalls = nil
		_, nonceB64 := encryptForTest(t, "x")
		cr.On("ListByUser", mock.Anything, int64(7)).Return([]model.Credential{{
			ID:         "id-1",
			UserID:     7,
			Ciphertext: "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=",
			Nonce:      nonceB64,
		}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/passwords", nil)
		addAuthCookie(t, req, 7, "test-secret")
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "secret")
		cr.AssertExpectations(t)
	})
}

func TestCredentials_Create(t *testing.T) {
	cr := new(mockCredRepo)
	env := newTestRouter(t, &mockUserRepo{}, cr)

	t.Run("ok", func(t *testing.T) {
		cr.ExpectedCalls = nil
		cr.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Credential) bool {
			// секрет не должен попасть в БД открытым текстом
			return c.UserID == 7 && c.Site == "example.com" && c.Ciphertext != "" &&
				!strings.Contains(c.Ciphertext, "Sup3r$ecret!") && c.Nonce != ""
		})).Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/passwords",
			strings.NewReader(`{"site":"example.com","loginName":"alice","secret":"Sup3r$ecret!"}`))
		req.Header.Set("Content-Type", "application/json")
		addAuthCookie(t, req, 7, "test-secret")
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var body struct {
			ID     string `json:"_id"`
			Pinned bool   `json:"pinned"`
		}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.NotEmpty(t, body.ID)
		assert.False(t, body.Pinned)
		cr.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/passwords",
			strings.NewReader(`{"site":"example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		addAuthCookie(t, req, 7, "test-secret")
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCredentials_Update(t *testing.T) {
	cr := new(mockCredRepo)
	env := newTestRouter(t, &mockUserRepo{}, cr)

	t.Run("ok", func(t *testing.T) {
		cr.ExpectedCalls = nil
		cr.On("Update", mock.Anything, int64(7), "id-1", mock.MatchedBy(func(u map[string]any) bool {
			_, hasCipher := u["ciphertext"]
			_, hasNonce := u["nonce"]
			return hasCipher && hasNonce
		})).Return(int64(1), nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/passwords/id-1",
			strings.NewReader(`{"site":"example.com","loginName":"alice","secret":"new"}`))
		req.Header.Set("Content-Type", "application/json")
		addAuthCookie(t, req, 7, "test-secret")
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		cr.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		cr.ExpectedCalls = nil
		cr.On("Update", mock.Anything, int64(7), "ghost", mock.Anything).Return(int64(0), nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/passwords/ghost",
			strings.NewReader(`{"site":"example.com","loginName":"alice","secret":"new"}`))
		req.Header.Set("Content-Type", "application/json")
		addAuthCookie(t, req, 7, "test-secret")
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		cr.AssertExpectations(t)
	})
}

func TestCredentials_TogglePin(t *testing.T) {
	cr := new(mockCredRepo)
	env := newTestRouter(t, &mockUserRepo{}, cr)

	t.Run("ok", func(t *testing.T) {
		cr.ExpectedCalls = nil
		cr.On("GetByID", mock.Anything, int64(7), "id-1").Return(&model.Credential{ID: "id-1", UserID: 7, Pinned: false}, nil).Once()
		cr.On("Update", mock.Anything, int64(7), "id-1", map[string]any{"pinned": true}).Return(int64(1), nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/passwords/id-1/pin", nil)
		addAuthCookie(t, req, 7, "test-secret")
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var body struct {
			Pinned bool `json:"pinned"`
		}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.True(t, body.Pinned)
		cr.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		cr.ExpectedCalls = nil
		cr.On("GetByID", mock.Anything, int64(7), "ghost").Return((*model.Credential)(nil), gorm.ErrRecordNotFound).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/passwords/ghost/pin", nil)
		addAuthCookie(t, req, 7, "test-secret")
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		cr.AssertExpectations(t)
	})
}

func TestCredentials_Delete(t *testing.T) {
	cr := new(mockCredRepo)
	env := newTestRouter(t, &mockUserRepo{}, cr)

	t.Run("ok", func(t *testing.T) {
		cr.ExpectedCalls = nil
		cr.On("Delete", mock.Anything, int64(7), "id-1").Return(int64(1), nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/api/passwords/id-1", nil)
		addAuthCookie(t, req, 7, "test-secret")
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		cr.AssertExpectations(t)
	})

	t.Run("second delete is 404", func(t *testing.T) {
		cr.ExpectedCalls = nil
		cr.On("Delete", mock.Anything, int64(7), "id-1").Return(int64(0), nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/api/passwords/id-1", nil)
		addAuthCookie(t, req, 7, "test-secret")
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		cr.AssertExpectations(t)
	})
}
