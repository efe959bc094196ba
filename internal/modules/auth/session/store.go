package session

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tiendita/pos-core/internal/models"
)

// Store is the persistence collaborator for login sessions. Get returns
// (nil, nil) when the row does not exist; errors are reserved for storage
// failures.
type Store interface {
	Get(id string) (*models.LoginSession, error)
	Create(s *models.LoginSession) error
	UpdateWindow(id string, expiresAt, refreshBefore time.Time) error
	Deactivate(id string) error
	DeactivateAllForUser(userID string) (int64, error)
	DeleteExpired(now time.Time) (int64, error)
	ListActiveForUser(userID string, now time.Time) ([]models.LoginSession, error)
}

// GormStore is the database-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) Get(id string) (*models.LoginSession, error) {
	var row models.LoginSession
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *GormStore) Create(row *models.LoginSession) error {
	return s.db.Create(row).Error
}

func (s *GormStore) UpdateWindow(id string, expiresAt, refreshBefore time.Time) error {
	return s.db.Model(&models.LoginSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"expires_at":     expiresAt,
			"refresh_before": refreshBefore,
		}).Error
}

func (s *GormStore) Deactivate(id string) error {
	return s.db.Model(&models.LoginSession{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (s *GormStore) DeactivateAllForUser(userID string) (int64, error) {
	result := s.db.Model(&models.LoginSession{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// DeleteExpired hard-deletes rows that are past expiry or already inactive.
func (s *GormStore) DeleteExpired(now time.Time) (int64, error) {
	result := s.db.Unscoped().
		Where("expires_at < ? OR is_active = ?", now, false).
		Delete(&models.LoginSession{})
	return result.RowsAffected, result.Error
}

func (s *GormStore) ListActiveForUser(userID string, now time.Time) ([]models.LoginSession, error) {
	var rows []models.LoginSession
	err := s.db.Where("user_id = ? AND is_active = ? AND expires_at > ?", userID, true, now).
		Order("updated_at DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}
