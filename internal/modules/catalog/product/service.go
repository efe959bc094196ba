// Package product manages the sellable catalog and its stock levels.
package product

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/pkg/pagination"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

var (
	errProductNotFound = errors.New("product not found")
	errBarcodeTaken    = errors.New("barcode already in use")
	errStockNegative   = errors.New("adjustment would leave stock negative")
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// ListFilter narrows product listings.
type ListFilter struct {
	Search     string
	CategoryID string
	LowStock   bool
	ActiveOnly bool
}

func (s *Service) List(f ListFilter, q pagination.Query) ([]models.ProductModel, response.Pagination, error) {
	query := s.db.Model(&models.ProductModel{})
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + term + "%"
		query = query.Where("name LIKE ? OR barcode LIKE ?", like, like)
	}
	if f.CategoryID != "" {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.LowStock {
		query = query.Where("stock <= min_stock")
	}
	if f.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var rows []models.ProductModel
	meta, err := pagination.Paginate(query.Order("name ASC"), q, &rows)
	return rows, meta, err
}

func (s *Service) Get(id string) (*models.ProductModel, error) {
	var row models.ProductModel
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetByBarcode resolves a scanned barcode to a product, the hot path at
// the till.
func (s *Service) GetByBarcode(barcode string) (*models.ProductModel, error) {
	var row models.ProductModel
	if err := s.db.First(&row, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *Service) Create(dto *ProductDTO) (*models.ProductModel, error) {
	if dto.Barcode != nil {
		if err := s.barcodeFree(*dto.Barcode, ""); err != nil {
			return nil, err
		}
	}
	row := models.ProductModel{
		Name:       dto.Name,
		Barcode:    dto.Barcode,
		CategoryID: dto.CategoryID,
		Price:      dto.Price,
		Cost:       dto.Cost,
		Stock:      dto.Stock,
		MinStock:   dto.MinStock,
		IsActive:   true,
	}
	return &row, s.db.Create(&row).Error
}

func (s *Service) Update(id string, dto *UpdateProductDTO) (*models.ProductModel, error) {
	row, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errProductNotFound
	}
	if dto.Barcode != nil {
		if err := s.barcodeFree(*dto.Barcode, id); err != nil {
			return nil, err
		}
		row.Barcode = dto.Barcode
	}
	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.CategoryID != nil {
		row.CategoryID = dto.CategoryID
	}
	if dto.Price != nil {
		row.Price = *dto.Price
	}
	if dto.Cost != nil {
		row.Cost = *dto.Cost
	}
	if dto.MinStock != nil {
		row.MinStock = *dto.MinStock
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	return row, s.db.Save(row).Error
}

// AdjustStock applies a signed delta for restocks and manual corrections.
// Sales decrement stock through the billing flow, not here.
func (s *Service) AdjustStock(id string, delta int) (*models.ProductModel, error) {
	row, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errProductNotFound
	}
	if row.Stock+delta < 0 {
		return nil, errStockNegative
	}
	row.Stock += delta
	return row, s.db.Model(row).Update("stock", row.Stock).Error
}

func (s *Service) Delete(id string) error {
	result := s.db.Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errProductNotFound
	}
	return nil
}

func (s *Service) barcodeFree(barcode, exceptID string) error {
	query := s.db.Model(&models.ProductModel{}).Where("barcode = ?", barcode)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errBarcodeTaken
	}
	return nil
}
