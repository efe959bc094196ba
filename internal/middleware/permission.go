package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/pkg/permission"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

// PermissionFunc builds a middleware that requires a permission on the
// authenticated user's role.
type PermissionFunc func(resource, action string) gin.HandlerFunc

// Permission returns a PermissionFunc backed by the roles table. The role's
// manage action implies every action on that resource, and the *:manage
// wildcard grants everything.
func Permission(db *gorm.DB) PermissionFunc {
	return func(resource, action string) gin.HandlerFunc {
		return func(c *gin.Context) {
			set, err := permissionsFor(db, CurrentUserID(c))
			if err != nil {
				response.InternalError(c, err)
				return
			}
			if !set.Can(resource, action) {
				response.Forbidden(c)
				return
			}
			c.Next()
		}
	}
}

func permissionsFor(db *gorm.DB, userID string) (permission.Set, error) {
	var user models.UserModel
	if err := db.Select("role").First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return permission.Set{}, nil
		}
		return nil, err
	}
	var role models.RoleModel
	if err := db.First(&role, "name = ?", user.Role).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return permission.Set{}, nil
		}
		return nil, err
	}
	return permission.NewSet(role.Permissions), nil
}

// PageParams reads page/size query params with sane bounds.
func PageParams(c *gin.Context) (page, size int) {
	page = intQuery(c, "page", 1)
	size = intQuery(c, "size", 10)
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n := 0
	for _, ch := range raw {
		if ch < '0' || ch > '9' {
			return fallback
		}
		n = n*10 + int(ch-'0')
		if n > 1<<20 {
			return fallback
		}
	}
	return n
}
