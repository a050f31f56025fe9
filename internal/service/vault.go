package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"PassVault/internal/crypto"
	"PassVault/internal/model"
	"PassVault/internal/repo"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound — записи нет или она принадлежит другому владельцу.
// Наружу эти два случая неразличимы.
var ErrNotFound = errors.New("credential not found")

// DecryptedCredential — запись хранилища с уже расшифрованным секретом.
// Существует только в памяти на время ответа владельцу.
type DecryptedCredential struct {
	ID        string
	Site      string
	LoginName string
	Secret    string
	Pinned    bool
	UpdatedAt time.Time
}

// VaultService — бизнес-логика хранилища: шифрование перед записью,
// расшифровка при чтении, закрепление записей. Мастер-ключ приходит
// из композиции процесса и не покидает сервис.
type VaultService struct {
	creds     repo.CredentialRepository
	masterKey []byte
	logger    *zap.SugaredLogger
}

func NewVaultService(creds repo.CredentialRepository, masterKey []byte, logger *zap.SugaredLogger) *VaultService {
	return &VaultService{creds: creds, masterKey: masterKey, logger: logger}
}

// Add шифрует секрет и сохраняет новую запись. Pinned по умолчанию false.
func (s *VaultService) Add(ctx context.Context, userID int64, site, loginName, secret string) (*model.Credential, error) {
	cipherB64, nonceB64, err := crypto.Encrypt(secret, s.masterKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt secret: %w", err)
	}
	c := &model.Credential{
		ID:         uuid.NewString(),
		UserID:     userID,
		Site:       site,
		LoginName:  loginName,
		Ciphertext: cipherB64,
		Nonce:      nonceB64,
	}
	if err := s.creds.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update перешифровывает секрет со СВЕЖИМ nonce (даже если текст не менялся)
// и перезаписывает поля записи. pinned опционален.
func (s *VaultService) Update(ctx context.Context, userID int64, id, site, loginName, secret string, pinned *bool) error {
	cipherB64, nonceB64, err := crypto.Encrypt(secret, s.masterKey)
	if err != nil {
		return fmt.Errorf("encrypt secret: %w", err)
	}
	// Ciphertext и nonce уходят в БД одной операцией — пары из разных
	// версий записи смешаться не могут.
	updates := map[string]any{
		"site":       site,
		"login_name": loginName,
		"ciphertext": cipherB64,
		"nonce":      nonceB64,
	}
	if pinned != nil {
		updates["pinned"] = *pinned
	}
	rows, err := s.creds.Update(ctx, userID, id, updates)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// TogglePin переключает флаг закрепления и возвращает новое значение.
// updated_at при этом сдвигается, как и при правке содержимого.
func (s *VaultService) TogglePin(ctx context.Context, userID int64, id string) (bool, error) {
	c, err := s.creds.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	newVal := !c.Pinned
	rows, err := s.creds.Update(ctx, userID, id, map[string]any{"pinned": newVal})
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, ErrNotFound
	}
	return newVal, nil
}

// ListDecrypted возвращает записи владельца с расшифрованными секретами,
// закреплённые первыми. Любая ошибка аутентификации шифртекста обрывает
// весь список — испорченная запись не превращается в «почти правильный» ответ.
func (s *VaultService) ListDecrypted(ctx context.Context, userID int64) ([]DecryptedCredential, error) {
	list, err := s.creds.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]DecryptedCredential, 0, len(list))
	for _, c := range list {
		secret, err := crypto.Decrypt(c.Ciphertext, c.Nonce, s.masterKey)
		if err != nil {
			s.logger.Errorw("failed to decrypt credential", "credential_id", c.ID, "error", err)
			return nil, fmt.Errorf("decrypt credential %s: %w", c.ID, err)
		}
		out = append(out, DecryptedCredential{
			ID:        c.ID,
			Site:      c.Site,
			LoginName: c.LoginName,
			Secret:    secret,
			Pinned:    c.Pinned,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return out, nil
}

// Delete удаляет запись владельца. Повторное удаление — тот же ErrNotFound,
// без побочных эффектов.
func (s *VaultService) Delete(ctx context.Context, userID int64, id string) error {
	rows, err := s.creds.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
