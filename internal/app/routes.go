package app

import (
	"github.com/gin-gonic/gin"

	"github.com/tiendita/pos-core/internal/middleware"
	"github.com/tiendita/pos-core/internal/modules/auth/auth"
	"github.com/tiendita/pos-core/internal/modules/auth/session"
	"github.com/tiendita/pos-core/internal/modules/auth/user"
	"github.com/tiendita/pos-core/internal/modules/catalog/category"
	"github.com/tiendita/pos-core/internal/modules/catalog/product"
	"github.com/tiendita/pos-core/internal/modules/crm/customer"
	"github.com/tiendita/pos-core/internal/modules/pos/checkout"
	"github.com/tiendita/pos-core/internal/modules/pos/register"
	"github.com/tiendita/pos-core/internal/modules/pos/sale"
	"github.com/tiendita/pos-core/internal/modules/system"
	pkgredis "github.com/tiendita/pos-core/internal/pkg/redis"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Rate limiting and idempotence run on every route.
	r.Use(middleware.RateLimit(rc.Raw()))
	r.Use(middleware.Idempotence(rc.Raw()))

	// Shared services
	sessionOpts := []session.Option{}
	if ttl := a.cfg.SessionTTL(); ttl > 0 {
		sessionOpts = append(sessionOpts, session.WithWindow(ttl, a.cfg.SessionRefreshWindow()))
	}
	a.sessions = session.NewService(session.NewGormStore(db), sessionOpts...)

	authMW := middleware.Auth(a.sessions)
	can := middleware.Permission(db)

	api := r.Group(apiPrefix)

	auth.NewHandler(auth.NewService(db, a.sessions)).RegisterRoutes(api, authMW)
	session.NewHandler(a.sessions).RegisterRoutes(api, authMW)
	user.NewHandler(user.NewService(db, a.sessions)).RegisterRoutes(api, authMW, can)

	registerSvc := register.NewService(register.NewGormRegisterStore(db), register.NewGormTransactionReader(db))
	register.NewHandler(registerSvc).RegisterRoutes(api, authMW, can)

	checkout.NewHandler(checkout.NewService(db)).RegisterRoutes(api, authMW, can)
	sale.NewHandler(sale.NewService(db)).RegisterRoutes(api, authMW, can)

	product.NewHandler(product.NewService(db)).RegisterRoutes(api, authMW, can)
	category.NewHandler(category.NewService(db)).RegisterRoutes(api, authMW, can)
	customer.NewHandler(customer.NewService(db)).RegisterRoutes(api, authMW, can)

	system.NewHandler(db, rc, a.sched).RegisterRoutes(api, authMW, can)
}
