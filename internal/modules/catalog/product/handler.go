package product

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tiendita/pos-core/internal/middleware"
	"github.com/tiendita/pos-core/internal/pkg/pagination"
	"github.com/tiendita/pos-core/internal/pkg/permission"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, can middleware.PermissionFunc) {
	products := rg.Group("/products", authMW)
	products.GET("", can(permission.ResourceProducts, "read"), h.list)
	products.GET("/barcode/:code", can(permission.ResourceProducts, "read"), h.byBarcode)
	products.GET("/:id", can(permission.ResourceProducts, "read"), h.get)
	products.POST("", can(permission.ResourceProducts, permission.ActionManage), h.create)
	products.PATCH("/:id", can(permission.ResourceProducts, permission.ActionManage), h.update)
	products.POST("/:id/stock", can(permission.ResourceProducts, permission.ActionManage), h.adjustStock)
	products.DELETE("/:id", can(permission.ResourceProducts, permission.ActionManage), h.remove)
}

func (h *Handler) list(c *gin.Context) {
	f := ListFilter{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
		LowStock:   c.Query("low_stock") == "true",
		ActiveOnly: c.Query("active") == "true",
	}
	rows, meta, err := h.svc.List(f, pagination.FromContext(c))
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

func (h *Handler) byBarcode(c *gin.Context) {
	row, err := h.svc.GetByBarcode(c.Param("code"))
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
	var dto ProductDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, errBarcodeTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, row)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateProductDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		switch {
		case errors.Is(err, errProductNotFound):
			response.NotFound(c)
		case errors.Is(err, errBarcodeTaken):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, row)
}

func (h *Handler) adjustStock(c *gin.Context) {
	var dto AdjustStockDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.AdjustStock(c.Param("id"), dto.Delta)
	if err != nil {
		switch {
		case errors.Is(err, errProductNotFound):
			response.NotFound(c)
		case errors.Is(err, errStockNegative):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, row)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, errProductNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
