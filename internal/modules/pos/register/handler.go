package register

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tiendita/pos-core/internal/middleware"
	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/pkg/permission"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

// Handler exposes cash register endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, can middleware.PermissionFunc) {
	registers := rg.Group("/registers", authMW)
	registers.GET("", can(permission.ResourceRegisters, "read"), h.list)
	registers.GET("/active", can(permission.ResourceRegisters, "read"), h.active)
	registers.GET("/:id", can(permission.ResourceRegisters, "read"), h.get)
	registers.POST("", can(permission.ResourceRegisters, "open"), h.open)
	registers.POST("/:id/close", can(permission.ResourceRegisters, "close"), h.close)
	registers.PATCH("/:id/notes", can(permission.ResourceRegisters, permission.ActionManage), h.updateNotes)
	registers.DELETE("/:id", can(permission.ResourceRegisters, permission.ActionManage), h.remove)
}

func (h *Handler) open(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Open(req.CheckoutID, middleware.CurrentUserID(c), req.InitialCash, req.Notes, req.OpenedAt)
	if err != nil {
		switch {
		case errors.Is(err, ErrRegisterAlreadyOpen):
			response.Conflict(c, err.Error())
		case errors.Is(err, ErrNegativeInitialCash):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, row)
}

func (h *Handler) close(c *gin.Context) {
	var req closeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Close(c.Param("id"), middleware.CurrentUserID(c), req.Declared, req.Notes, req.ClosedAt)
	if err != nil {
		switch {
		case errors.Is(err, ErrRegisterNotFound):
			response.NotFound(c)
		case errors.Is(err, ErrRegisterAlreadyClosed):
			response.Conflict(c, err.Error())
		case errors.Is(err, ErrUnknownMethodKey), errors.Is(err, ErrCloseBeforeOpen):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, row)
}

// active resolves the caller's open register, or a checkout's when
// ?checkout_id is given. 404 when nothing is open.
func (h *Handler) active(c *gin.Context) {
	var (
		row *models.CashRegisterModel
		err error
	)
	if checkoutID := c.Query("checkout_id"); checkoutID != "" {
		row, err = h.svc.GetActive(checkoutID)
	} else {
		row, err = h.svc.GetActiveForUser(middleware.CurrentUserID(c))
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if row == nil {
		response.NotFoundMsg(c, "no open register")
		return
	}
	response.OK(c, row)
}

func (h *Handler) get(c *gin.Context) {
	row, err := h.svc.GetByID(c.Param("id"))
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
		Status:     models.RegisterStatus(c.Query("status")),
	}
	f.Page, f.Size = middleware.PageParams(c)

	rows, total, err := h.svc.List(f)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	totalPage := int((total + int64(f.Size) - 1) / int64(f.Size))
	response.Paged(c, rows, response.Pagination{
		Total:       total,
		CurrentPage: f.Page,
		TotalPage:   totalPage,
		Size:        f.Size,
		HasNextPage: f.Page < totalPage,
	})
}

func (h *Handler) updateNotes(c *gin.Context) {
	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.UpdateNotes(c.Param("id"), req.OpeningNotes, req.ClosingNotes)
	if err != nil {
		if errors.Is(err, ErrRegisterNotFound) {
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
		case errors.Is(err, ErrRegisterNotFound):
			response.NotFound(c)
		case errors.Is(err, ErrRegisterStillOpen):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.NoContent(c)
}
