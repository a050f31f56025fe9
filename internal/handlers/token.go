package handlers

import (
	"encoding/json"
	"net/http"

	"PassVault/internal/middleware"
	"PassVault/internal/token"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TokenHandler — граница выдачи/погашения одноразовых токенов автозаполнения.
type TokenHandler struct {
	Broker *token.Broker
	Logger *zap.SugaredLogger
}

// NewTokenHandler создаёт хендлер токенов
func NewTokenHandler(broker *token.Broker, logger *zap.SugaredLogger) *TokenHandler {
	return &TokenHandler{Broker: broker, Logger: logger}
}

// Generate выдаёт одноразовый токен на открытые учётные данные.
// Данные приходят из уже расшифрованного списка на дашборде.
func (h *TokenHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var p token.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if p.Site == "" || p.LoginName == "" || p.Secret == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}

	tok, err := h.Broker.Issue(p)
	if err != nil {
		h.Logger.Errorw("Generate: failed to issue token", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"token": tok})
}

// Claim — разрушающее чтение токена. Без аутентификации: предъявитель
// токена и есть получатель. Повторное и просроченное чтение — 404,
// неотличимый от «токена никогда не было».
func (h *TokenHandler) Claim(w http.ResponseWriter, r *http.Request) {
	tok := chi.URLParam(r, "token")
	p, ok := h.Broker.Consume(tok)
	if !ok {
		http.Error(w, "token not found or expired", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(p)
}
