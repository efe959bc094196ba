package user

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tiendita/pos-core/internal/middleware"
	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/pkg/pagination"
	"github.com/tiendita/pos-core/internal/pkg/permission"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, can middleware.PermissionFunc) {
	users := rg.Group("/users", authMW)
	users.GET("", can(permission.ResourceUsers, "read"), h.list)
	users.GET("/:id", can(permission.ResourceUsers, "read"), h.get)
	users.POST("", can(permission.ResourceUsers, permission.ActionManage), h.create)
	users.PATCH("/:id", can(permission.ResourceUsers, permission.ActionManage), h.update)
	users.DELETE("/:id", can(permission.ResourceUsers, permission.ActionManage), h.remove)
	users.POST("/password", h.changePassword) // self service, no extra permission
	users.POST("/:id/password", can(permission.ResourceUsers, permission.ActionManage), h.resetPassword)

	roles := rg.Group("/roles", authMW)
	roles.GET("", can(permission.ResourceUsers, "read"), h.listRoles)
	roles.POST("", can(permission.ResourceUsers, permission.ActionManage), h.createRole)
	roles.PUT("/:name", can(permission.ResourceUsers, permission.ActionManage), h.updateRole)
	roles.DELETE("/:name", can(permission.ResourceUsers, permission.ActionManage), h.deleteRole)
}

func toUserResponse(u *models.UserModel) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLoginTime,
		Created:   u.CreatedAt,
	}
}

func (h *Handler) list(c *gin.Context) {
	rows, meta, err := h.svc.List(pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]userResponse, len(rows))
	for i := range rows {
		items[i] = toUserResponse(&rows[i])
	}
	response.Paged(c, items, meta)
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.svc.Get(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toUserResponse(u))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Create(&dto)
	if err != nil {
		switch {
		case errors.Is(err, errUsernameTaken):
			response.Conflict(c, err.Error())
		case errors.Is(err, errRoleNotFound):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, toUserResponse(u))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		switch {
		case errors.Is(err, errUserNotFound):
			response.NotFound(c)
		case errors.Is(err, errRoleNotFound), errors.Is(err, errLastAdminDisabled):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, toUserResponse(u))
}

func (h *Handler) remove(c *gin.Context) {
	err := h.svc.Delete(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, errUserNotFound):
			response.NotFound(c)
		case errors.Is(err, errLastAdminDisabled):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.NoContent(c)
}

func (h *Handler) changePassword(c *gin.Context) {
	var dto ChangePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.svc.ChangePassword(middleware.CurrentUserID(c), dto.OldPassword, dto.NewPassword)
	if err != nil {
		if errors.Is(err, errWrongOldPassword) {
			response.ForbiddenMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var dto ResetPasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.ResetPassword(c.Param("id"), dto.NewPassword); err != nil {
		if errors.Is(err, errUserNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}

func (h *Handler) listRoles(c *gin.Context) {
	rows, err := h.svc.ListRoles()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) createRole(c *gin.Context) {
	var dto RoleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	role, err := h.svc.CreateRole(&dto)
	if err != nil {
		response.Conflict(c, err.Error())
		return
	}
	response.Created(c, role)
}

func (h *Handler) updateRole(c *gin.Context) {
	var dto RoleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	role, err := h.svc.UpdateRole(c.Param("name"), &dto)
	if err != nil {
		if errors.Is(err, errRoleNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, role)
}

func (h *Handler) deleteRole(c *gin.Context) {
	if err := h.svc.DeleteRole(c.Param("name")); err != nil {
		switch {
		case errors.Is(err, errRoleNotFound):
			response.NotFound(c)
		case errors.Is(err, errRoleInUse):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.NoContent(c)
}
