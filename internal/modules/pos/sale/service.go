// Package sale records payments at the till: stock-checked sale creation,
// voiding, listings and daily totals.
package sale

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/pkg/money"
	"github.com/tiendita/pos-core/internal/pkg/pagination"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

var (
	ErrSaleNotFound       = errors.New("sale not found")
	ErrInvalidMethod      = errors.New("invalid payment method")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrProductUnavailable = errors.New("product is inactive or missing")
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create records a sale atomically: stock is decremented, the invoice
// number advances, and the row is stamped with the cashier's open register
// when there is one. Any failure rolls the whole thing back.
func (s *Service) Create(userID string, dto *CreateSaleDTO) (*models.TransactionModel, error) {
	method := money.PaymentMethod(dto.PaymentMethod)
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, dto.PaymentMethod)
	}

	var row *models.TransactionModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		lines := make([]saleLine, 0, len(dto.Items))
		for _, item := range dto.Items {
			var p models.ProductModel
			if err := tx.First(&p, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrProductUnavailable, item.ProductID)
				}
				return err
			}
			lines = append(lines, saleLine{product: &p, quantity: item.Quantity})
		}

		items, amount, err := buildItems(lines)
		if err != nil {
			return err
		}

		for i, line := range lines {
			res := tx.Model(&models.ProductModel{}).
				Where("id = ? AND stock >= ?", line.product.ID, line.quantity).
				Update("stock", gorm.Expr("stock - ?", line.quantity))
			if res.Error != nil {
				return res.Error
			}
			// someone else sold the last units between our read and write
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, items[i].Name)
			}
		}

		number, err := nextNumber(tx)
		if err != nil {
			return err
		}

		row = &models.TransactionModel{
			Number:        number,
			CheckoutID:    dto.CheckoutID,
			UserID:        userID,
			CustomerID:    dto.CustomerID,
			RegisterID:    openRegisterID(tx, dto.CheckoutID, userID),
			PaymentMethod: method,
			Amount:        amount,
			Items:         items,
			Notes:         dto.Notes,
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Void soft-deletes the sale and restores the stock it consumed. The row
// stays in the table for audit; reconciliation skips it via the delete
// marker.
func (s *Service) Void(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var row models.TransactionModel
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}
		for _, item := range row.Items {
			err := tx.Model(&models.ProductModel{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error
			if err != nil {
				return err
			}
		}
		return tx.Delete(&row).Error
	})
}

func (s *Service) Get(id string) (*models.TransactionModel, error) {
	var row models.TransactionModel
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetByNumber looks a sale up by its invoice number, including voided rows
// so printed invoices stay resolvable.
func (s *Service) GetByNumber(number int64) (*models.TransactionModel, error) {
	var row models.TransactionModel
	if err := s.db.Unscoped().First(&row, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *Service) List(f ListFilter, q pagination.Query) ([]models.TransactionModel, response.Pagination, error) {
	query := s.db.Model(&models.TransactionModel{})
	if f.CheckoutID != "" {
		query = query.Where("checkout_id = ?", f.CheckoutID)
	}
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Method != "" {
		query = query.Where("payment_method = ?", f.Method)
	}
	if f.From != nil {
		query = query.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("created_at <= ?", *f.To)
	}

	var rows []models.TransactionModel
	meta, err := pagination.Paginate(query.Order("number DESC"), q, &rows)
	return rows, meta, err
}

// DailySummary totals a calendar day's sales by payment method.
func (s *Service) DailySummary(day time.Time, checkoutID string) (*dailySummary, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.Add(24 * time.Hour)

	query := s.db.Model(&models.TransactionModel{}).
		Where("created_at >= ? AND created_at < ?", from, to)
	if checkoutID != "" {
		query = query.Where("checkout_id = ?", checkoutID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, err
	}

	var sums []struct {
		PaymentMethod string
		Total         decimal.Decimal
	}
	if err := query.Select("payment_method, SUM(amount) AS total").
		Group("payment_method").
		Scan(&sums).Error; err != nil {
		return nil, err
	}

	byMethod := money.Map{}
	for _, sum := range sums {
		byMethod.Add(money.PaymentMethod(sum.PaymentMethod).Key(), sum.Total)
	}
	return &dailySummary{
		Date:     from.Format("2006-01-02"),
		Count:    count,
		ByMethod: byMethod,
		Total:    byMethod.Total().String(),
	}, nil
}

// saleLine pairs a loaded product with the requested quantity.
type saleLine struct {
	product  *models.ProductModel
	quantity int
}

// buildItems turns requested lines into priced sale items and the total
// amount. Pure; the caller owns the stock writes.
func buildItems(lines []saleLine) ([]models.SaleItem, decimal.Decimal, error) {
	items := make([]models.SaleItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		p := line.product
		if p == nil || !p.IsActive {
			name := ""
			if p != nil {
				name = p.Name
			}
			return nil, decimal.Zero, fmt.Errorf("%w: %s", ErrProductUnavailable, name)
		}
		if line.quantity > p.Stock {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", ErrInsufficientStock, p.Name)
		}
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(line.quantity)))
		items = append(items, models.SaleItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  line.quantity,
			UnitPrice: p.Price,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}
	return items, total, nil
}

func nextNumber(tx *gorm.DB) (int64, error) {
	var max int64
	err := tx.Model(&models.TransactionModel{}).
		Unscoped().
		Select("COALESCE(MAX(number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func openRegisterID(tx *gorm.DB, checkoutID, userID string) *string {
	var row models.CashRegisterModel
	err := tx.Select("id").
		Where("checkout_id = ? AND opened_by_id = ? AND status = ?", checkoutID, userID, models.RegisterOpen).
		First(&row).Error
	if err != nil {
		return nil
	}
	return &row.ID
}
