package repo

import (
	"context"

	"PassVault/internal/model"

	"gorm.io/gorm"
)

// CredentialRepository — контракт доступа к записям хранилища.
// Единственный механизм контроля доступа — фильтр (id, user_id) в каждом
// запросе: операции, способной затронуть чужую запись, здесь нет.
type CredentialRepository interface {
	// Create сохраняет новую запись (id и шифртекст уже заполнены сервисом).
	Create(ctx context.Context, c *model.Credential) error

	// GetByID возвращает запись пользователя или gorm.ErrRecordNotFound.
	GetByID(ctx context.Context, userID int64, id string) (*model.Credential, error)

	// Update перезаписывает изменяемые поля записи пользователя.
	// Возвращает число затронутых строк (0 — нет такой записи у владельца).
	Update(ctx context.Context, userID int64, id string, updates map[string]any) (int64, error)

	// ListByUser возвращает записи пользователя: закреплённые первыми,
	// дальше по убыванию даты создания.
	ListByUser(ctx context.Context, userID int64) ([]model.Credential, error)

	// Delete удаляет запись пользователя; возвращает число удалённых строк.
	Delete(ctx context.Context, userID int64, id string) (int64, error)
}

type credentialRepo struct {
	db *gorm.DB
}

// NewCredentialRepository создаёт реализацию репозитория для Credential.
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepo{db: db}
}

func (r *credentialRepo) Create(ctx context.Context, c *model.Credential) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *credentialRepo) GetByID(ctx context.Context, userID int64, id string) (*model.Credential, error) {
	var c model.Credential
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *credentialRepo) Update(ctx context.Context, userID int64, id string, updates map[string]any) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&model.Credential{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	return tx.RowsAffected, tx.Error
}

func (r *credentialRepo) ListByUser(ctx context.Context, userID int64) ([]model.Credential, error) {
	var list []model.Credential
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("pinned DESC, created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *credentialRepo) Delete(ctx context.Context, userID int64, id string) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Credential{})
	return tx.RowsAffected, tx.Error
}
