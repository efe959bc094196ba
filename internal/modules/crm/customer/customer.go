// Package customer manages the buyer registry referenced from sales.
package customer

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tiendita/pos-core/internal/middleware"
	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/pkg/pagination"
	"github.com/tiendita/pos-core/internal/pkg/permission"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List pages customers, optionally filtering by a search term over name
// and document.
func (s *Service) List(search string, q pagination.Query) ([]models.CustomerModel, response.Pagination, error) {
	query := s.db.Model(&models.CustomerModel{})
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + term + "%"
		query = query.Where("name LIKE ? OR document LIKE ?", like, like)
	}
	var rows []models.CustomerModel
	meta, err := pagination.Paginate(query.Order("name ASC"), q, &rows)
	return rows, meta, err
}

func (s *Service) Get(id string) (*models.CustomerModel, error) {
	var row models.CustomerModel
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *Service) Create(dto *customerDTO) (*models.CustomerModel, error) {
	row := models.CustomerModel{
		Name:     dto.Name,
		Document: dto.Document,
		Phone:    dto.Phone,
		Mail:     dto.Mail,
		Address:  dto.Address,
	}
	return &row, s.db.Create(&row).Error
}

func (s *Service) Update(id string, dto *customerDTO) (*models.CustomerModel, error) {
	row, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, gorm.ErrRecordNotFound
	}
	row.Name = dto.Name
	row.Document = dto.Document
	row.Phone = dto.Phone
	row.Mail = dto.Mail
	row.Address = dto.Address
	return row, s.db.Save(row).Error
}

// Delete soft-deletes the customer; historical sales keep the reference.
func (s *Service) Delete(id string) error {
	result := s.db.Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type customerDTO struct {
	Name     string `json:"name" binding:"required"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
	Mail     string `json:"mail" binding:"omitempty,email"`
	Address  string `json:"address"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, can middleware.PermissionFunc) {
	customers := rg.Group("/customers", authMW)
	customers.GET("", can(permission.ResourceCustomers, "read"), h.list)
	customers.GET("/:id", can(permission.ResourceCustomers, "read"), h.get)
	customers.POST("", can(permission.ResourceCustomers, "write"), h.create)
	customers.PUT("/:id", can(permission.ResourceCustomers, "write"), h.update)
	customers.DELETE("/:id", can(permission.ResourceCustomers, permission.ActionManage), h.remove)
}

func (h *Handler) list(c *gin.Context) {
	rows, meta, err := h.svc.List(c.Query("search"), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, meta)
}

func (h *Handler) get(c *gin.Context) {
	row, err := h.svc.Get(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if row == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, row)
}

func (h *Handler) create(c *gin.Context) {
	var dto customerDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, row)
}

func (h *Handler) update(c *gin.Context) {
	var dto customerDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, row)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
