package session

import (
	"github.com/gin-gonic/gin"

	"github.com/tiendita/pos-core/internal/middleware"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

// Handler exposes device/session management for the signed-in user.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	sessions := rg.Group("/sessions", authMW)
	sessions.GET("", h.list)
	sessions.POST("/extend", h.extend)
	sessions.DELETE("/others", h.revokeOthers)
	sessions.DELETE("/:id", h.revoke)
}

func (h *Handler) list(c *gin.Context) {
	rows, err := h.svc.ListActive(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	current := middleware.CurrentSessionID(c)
	items := make([]sessionResponse, len(rows))
	for i, row := range rows {
		items[i] = sessionResponse{
			ID:        row.ID,
			UA:        row.UA,
			IP:        row.IP,
			ExpiresAt: row.ExpiresAt,
			Current:   row.ID == current,
			Created:   row.CreatedAt,
		}
	}
	response.OK(c, gin.H{"data": items})
}

func (h *Handler) extend(c *gin.Context) {
	ok, err := h.svc.Extend(middleware.CurrentSessionID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !ok {
		response.Unauthorized(c)
		return
	}
	response.OK(c, gin.H{"extended": true})
}

func (h *Handler) revoke(c *gin.Context) {
	id := c.Param("id")
	row, err := h.svc.GetValid(id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if row == nil || row.UserID != middleware.CurrentUserID(c) {
		response.NotFound(c)
		return
	}
	if err := h.svc.Deactivate(id); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) revokeOthers(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	current := middleware.CurrentSessionID(c)

	rows, err := h.svc.ListActive(userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	revoked := 0
	for _, row := range rows {
		if row.ID == current {
			continue
		}
		if err := h.svc.Deactivate(row.ID); err != nil {
			response.InternalError(c, err)
			return
		}
		revoked++
	}
	response.OK(c, gin.H{"revoked": revoked})
}
