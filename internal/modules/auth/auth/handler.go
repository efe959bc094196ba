package auth

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tiendita/pos-core/internal/middleware"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

const authCookieName = "pos-token"

type Handler struct {
	svc       *Service
	cookieTTL int
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc:       svc,
		cookieTTL: int(svc.sessions.TTL().Seconds()),
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("/auth")

	a.POST("/login", h.login)
	a.POST("/setup", h.setup)
	a.POST("/logout", authMW, h.logout)
	a.GET("/me", authMW, h.me)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, user, err := h.svc.Login(dto.Username, dto.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, errAuthUserNotFound), errors.Is(err, errAuthWrongPassword):
			response.ForbiddenMsg(c, "invalid username or password")
		case errors.Is(err, errAuthUserDisabled):
			response.ForbiddenMsg(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	c.SetCookie(authCookieName, token, h.cookieTTL, "/", "", false, true)
	response.OK(c, loginResponse{
		Token: token,
		User: userResponse{
			ID:        user.ID,
			Username:  user.Username,
			Name:      user.Name,
			Role:      user.Role,
			LastLogin: user.LastLoginTime,
		},
	})
}

func (h *Handler) setup(c *gin.Context) {
	var dto SetupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Setup(&dto)
	if err != nil {
		if errors.Is(err, errAlreadyInitialized) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"id": u.ID, "username": u.Username})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Logout(middleware.CurrentSessionID(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	c.SetCookie(authCookieName, "", -1, "/", "", false, true)
	response.OK(c, gin.H{"success": true})
}

func (h *Handler) me(c *gin.Context) {
	user, perms, err := h.svc.Profile(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if user == nil {
		response.Unauthorized(c)
		return
	}
	response.OK(c, profileResponse{
		userResponse: userResponse{
			ID:        user.ID,
			Username:  user.Username,
			Name:      user.Name,
			Role:      user.Role,
			LastLogin: user.LastLoginTime,
		},
		Permissions: perms,
	})
}
