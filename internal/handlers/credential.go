package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"PassVault/internal/middleware"
	"PassVault/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CredentialHandler обрабатывает CRUD записей хранилища и закрепление.
type CredentialHandler struct {
	Vault  *service.VaultService
	Logger *zap.SugaredLogger
}

// NewCredentialHandler создаёт хендлер записей
func NewCredentialHandler(vault *service.VaultService, logger *zap.SugaredLogger) *CredentialHandler {
	return &CredentialHandler{Vault: vault, Logger: logger}
}

// credentialRequest — тело POST/PUT записи.
type credentialRequest struct {
	Site      string `json:"site"`
	LoginName string `json:"loginName"`
	Secret    string `json:"secret"`
	Pinned    *bool  `json:"pinned,omitempty"`
}

// credentialDTO — элемент списка. Секрет отдаётся открытым текстом только
// аутентифицированному владельцу; шифртекст клиенту не уходит никогда.
type credentialDTO struct {
	ID        string `json:"_id"`
	Site      string `json:"site"`
	LoginName string `json:"loginName"`
	Secret    string `json:"secret"`
	Pinned    bool   `json:"pinned"`
	UpdatedAt string `json:"updatedAt"`
}

// List возвращает все записи владельца с расшифрованными секретами,
// закреплённые первыми.
func (h *CredentialHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	list, err := h.Vault.ListDecrypted(r.Context(), userID)
	if err != nil {
		h.Logger.Errorw("List: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]credentialDTO, 0, len(list))
	for _, c := range list {
		out = append(out, credentialDTO{
			ID:        c.ID,
			Site:      c.Site,
			LoginName: c.LoginName,
			Secret:    c.Secret,
			Pinned:    c.Pinned,
			UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(out)
}

// Create добавляет новую запись; pinned по умолчанию false.
func (h *CredentialHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Site == "" || req.LoginName == "" || req.Secret == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}

	created, err := h.Vault.Add(r.Context(), userID, req.Site, req.LoginName, req.Secret)
	if err != nil {
		h.Logger.Errorw("Create: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"_id": created.ID, "pinned": created.Pinned})
}

// Update перезаписывает запись с перешифрованием секрета.
func (h *CredentialHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Site == "" || req.LoginName == "" || req.Secret == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	err := h.Vault.Update(r.Context(), userID, id, req.Site, req.LoginName, req.Secret, req.Pinned)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorw("Update: service error", "user_id", userID, "credential_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}

// TogglePin переключает закрепление; в ответе только новое значение —
// остальное у клиента уже есть.
func (h *CredentialHandler) TogglePin(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	pinned, err := h.Vault.TogglePin(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorw("TogglePin: service error", "user_id", userID, "credential_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"pinned": pinned})
}

// Delete удаляет запись владельца.
func (h *CredentialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Vault.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorw("Delete: service error", "user_id", userID, "credential_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}
