package register

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/pkg/money"
)

// RegisterStore is the persistence collaborator for cash registers.
// Read methods return (nil, nil) for missing rows.
type RegisterStore interface {
	Get(id string) (*models.CashRegisterModel, error)
	Create(r *models.CashRegisterModel) error
	Update(r *models.CashRegisterModel) error
	OpenByCheckout(checkoutID string) (*models.CashRegisterModel, error)
	OpenByUser(userID string) (*models.CashRegisterModel, error)
	List(f ListFilter) ([]models.CashRegisterModel, int64, error)
	Delete(id string) error
}

// TransactionReader reads the payment transactions observed in a register's
// open window. Only non-deleted rows count; voided sales are excluded by
// their soft-delete marker.
type TransactionReader interface {
	SumByMethod(checkoutID, userID string, from, to time.Time) (money.Map, error)
}

// ListFilter narrows and pages register history listings.
type ListFilter struct {
	CheckoutID string
	Status     models.RegisterStatus
	Page       int
	Size       int
}

// GormRegisterStore is the database-backed RegisterStore.
type GormRegisterStore struct {
	db *gorm.DB
}

func NewGormRegisterStore(db *gorm.DB) *GormRegisterStore { return &GormRegisterStore{db: db} }

func (s *GormRegisterStore) Get(id string) (*models.CashRegisterModel, error) {
	var row models.CashRegisterModel
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *GormRegisterStore) Create(row *models.CashRegisterModel) error {
	return s.db.Create(row).Error
}

func (s *GormRegisterStore) Update(row *models.CashRegisterModel) error {
	return s.db.Save(row).Error
}

func (s *GormRegisterStore) OpenByCheckout(checkoutID string) (*models.CashRegisterModel, error) {
	var row models.CashRegisterModel
	err := s.db.Where("checkout_id = ? AND status = ?", checkoutID, models.RegisterOpen).
		Order("opened_at DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *GormRegisterStore) OpenByUser(userID string) (*models.CashRegisterModel, error) {
	var row models.CashRegisterModel
	err := s.db.Where("opened_by_id = ? AND status = ?", userID, models.RegisterOpen).
		Order("opened_at DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *GormRegisterStore) List(f ListFilter) ([]models.CashRegisterModel, int64, error) {
	query := s.db.Model(&models.CashRegisterModel{})
	if f.CheckoutID != "" {
		query = query.Where("checkout_id = ?", f.CheckoutID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.Size
	if size < 1 {
		size = 10
	}

	var rows []models.CashRegisterModel
	err := query.Order("opened_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	return rows, total, err
}

func (s *GormRegisterStore) Delete(id string) error {
	return s.db.Unscoped().Delete(&models.CashRegisterModel{}, "id = ?", id).Error
}

// GormTransactionReader sums transactions straight in the database.
type GormTransactionReader struct {
	db *gorm.DB
}

func NewGormTransactionReader(db *gorm.DB) *GormTransactionReader {
	return &GormTransactionReader{db: db}
}

func (r *GormTransactionReader) SumByMethod(checkoutID, userID string, from, to time.Time) (money.Map, error) {
	var rows []struct {
		PaymentMethod string
		Total         decimal.Decimal
	}
	err := r.db.Model(&models.TransactionModel{}).
		Select("payment_method, SUM(amount) AS total").
		Where("checkout_id = ? AND user_id = ? AND created_at >= ? AND created_at <= ?",
			checkoutID, userID, from, to).
		Group("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := money.Map{}
	for _, row := range rows {
		sums.Add(money.PaymentMethod(row.PaymentMethod).Key(), row.Total)
	}
	return sums, nil
}
