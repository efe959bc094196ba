// Package category manages product categories.
package category

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tiendita/pos-core/internal/middleware"
	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/pkg/permission"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

var errCategoryInUse = errors.New("category still has products")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List() ([]models.CategoryModel, error) {
	var rows []models.CategoryModel
	return rows, s.db.Order("name ASC").Find(&rows).Error
}

func (s *Service) Create(name string) (*models.CategoryModel, error) {
	row := models.CategoryModel{Name: name, Slug: slugify(name)}
	return &row, s.db.Create(&row).Error
}

func (s *Service) Update(id, name string) (*models.CategoryModel, error) {
	var row models.CategoryModel
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	row.Name = name
	row.Slug = slugify(name)
	return &row, s.db.Save(&row).Error
}

// Delete removes an empty category. Products keep their category pointer
// otherwise, so deleting a used category is refused.
func (s *Service) Delete(id string) error {
	var used int64
	if err := s.db.Model(&models.ProductModel{}).Where("category_id = ?", id).Count(&used).Error; err != nil {
		return err
	}
	if used > 0 {
		return errCategoryInUse
	}
	result := s.db.Delete(&models.CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, can middleware.PermissionFunc) {
	categories := rg.Group("/categories", authMW)
	categories.GET("", can(permission.ResourceCategories, "read"), h.list)
	categories.POST("", can(permission.ResourceCategories, permission.ActionManage), h.create)
	categories.PUT("/:id", can(permission.ResourceCategories, permission.ActionManage), h.update)
	categories.DELETE("/:id", can(permission.ResourceCategories, permission.ActionManage), h.remove)
}

type categoryDTO struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) list(c *gin.Context) {
	rows, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) create(c *gin.Context) {
	var dto categoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Create(dto.Name)
	if err != nil {
		response.Conflict(c, err.Error())
		return
	}
	response.Created(c, row)
}

func (h *Handler) update(c *gin.Context) {
	var dto categoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Update(c.Param("id"), dto.Name)
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
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c)
		case errors.Is(err, errCategoryInUse):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.NoContent(c)
}
