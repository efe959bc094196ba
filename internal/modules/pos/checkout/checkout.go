// Package checkout manages point-of-sale stations.
package checkout

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tiendita/pos-core/internal/middleware"
	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/pkg/permission"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

var errCheckoutHasOpenRegister = errors.New("checkout has an open register")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List() ([]models.CheckoutModel, error) {
	var rows []models.CheckoutModel
	return rows, s.db.Order("name ASC").Find(&rows).Error
}

func (s *Service) Get(id string) (*models.CheckoutModel, error) {
	var row models.CheckoutModel
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *Service) Create(name, description string) (*models.CheckoutModel, error) {
	row := models.CheckoutModel{Name: name, Description: description, IsActive: true}
	return &row, s.db.Create(&row).Error
}

func (s *Service) Update(id string, dto *updateDTO) (*models.CheckoutModel, error) {
	row, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, gorm.ErrRecordNotFound
	}
	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	return row, s.db.Save(row).Error
}

// Delete soft-deletes a checkout. A checkout with an open register cannot
// go away; close the till first.
func (s *Service) Delete(id string) error {
	var open int64
	err := s.db.Model(&models.CashRegisterModel{}).
		Where("checkout_id = ? AND status = ?", id, models.RegisterOpen).
		Count(&open).Error
	if err != nil {
		return err
	}
	if open > 0 {
		return errCheckoutHasOpenRegister
	}
	result := s.db.Delete(&models.CheckoutModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type updateDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, can middleware.PermissionFunc) {
	checkouts := rg.Group("/checkouts", authMW)
	checkouts.GET("", can(permission.ResourceCheckouts, "read"), h.list)
	checkouts.GET("/:id", can(permission.ResourceCheckouts, "read"), h.get)
	checkouts.POST("", can(permission.ResourceCheckouts, permission.ActionManage), h.create)
	checkouts.PATCH("/:id", can(permission.ResourceCheckouts, permission.ActionManage), h.update)
	checkouts.DELETE("/:id", can(permission.ResourceCheckouts, permission.ActionManage), h.remove)
}

func (h *Handler) list(c *gin.Context) {
	rows, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
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
	var dto struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Create(dto.Name, dto.Description)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, row)
}

func (h *Handler) update(c *gin.Context) {
	var dto updateDTO
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
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c)
		case errors.Is(err, errCheckoutHasOpenRegister):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.NoContent(c)
}
