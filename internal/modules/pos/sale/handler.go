package sale

import (
	"errors"
	"strconv"
	"time"

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
	sales := rg.Group("/sales", authMW)
	sales.GET("", can(permission.ResourceSales, "read"), h.list)
	sales.GET("/summary", can(permission.ResourceSales, "read"), h.summary)
	sales.GET("/number/:number", can(permission.ResourceSales, "read"), h.getByNumber)
	sales.GET("/:id", can(permission.ResourceSales, "read"), h.get)
	sales.POST("", can(permission.ResourceSales, "write"), h.create)
	sales.DELETE("/:id", can(permission.ResourceSales, permission.ActionManage), h.void)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateSaleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Create(middleware.CurrentUserID(c), &dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidMethod):
			response.BadRequest(c, err.Error())
		case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrProductUnavailable):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, row)
}

func (h *Handler) void(c *gin.Context) {
	if err := h.svc.Void(c.Param("id")); err != nil {
		if errors.Is(err, ErrSaleNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
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

func (h *Handler) getByNumber(c *gin.Context) {
	number, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil {
		response.BadRequest(c, "number must be an integer")
		return
	}
	row, err := h.svc.GetByNumber(number)
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

func (h *Handler) list(c *gin.Context) {
	f := ListFilter{
		CheckoutID: c.Query("checkout_id"),
		UserID:     c.Query("user_id"),
		Method:     c.Query("method"),
	}
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.To = &t
		}
	}
	rows, meta, err := h.svc.List(f, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, meta)
}

func (h *Handler) summary(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	out, err := h.svc.DailySummary(day, c.Query("checkout_id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, out)
}
