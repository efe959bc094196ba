// Package database owns the MySQL connection, schema migration and the
// built-in role seed.
package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tiendita/pos-core/internal/config"
	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/pkg/permission"
)

// Connect opens a MySQL connection and optionally runs auto-migration
// plus the role seed.
func Connect(cfg *config.AppConfig, autoMigrate bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsDev() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:               cfg.DSN,
		DefaultStringSize: 191,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if autoMigrate {
		if err := migrate(db); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		if err := seedRoles(db); err != nil {
			return nil, fmt.Errorf("role seed failed: %w", err)
		}
	}
	return db, nil
}

// migrate runs GORM auto-migration for all models.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.UserModel{},
		&models.RoleModel{},
		&models.LoginSession{},
		&models.CheckoutModel{},
		&models.CashRegisterModel{},
		&models.TransactionModel{},
		&models.ProductModel{},
		&models.CategoryModel{},
		&models.CustomerModel{},
	)
}

// seedRoles inserts the built-in roles when they are missing. Existing rows
// are left alone so operators can tune permissions.
func seedRoles(db *gorm.DB) error {
	builtin := []models.RoleModel{
		{
			Name:        "admin",
			Description: "Full access to everything",
			Permissions: []string{permission.ResourceAll + ":" + permission.ActionManage},
		},
		{
			Name:        "manager",
			Description: "Runs the store: catalog, tills, reports",
			Permissions: []string{
				permission.ResourceProducts + ":" + permission.ActionManage,
				permission.ResourceCategories + ":" + permission.ActionManage,
				permission.ResourceCustomers + ":" + permission.ActionManage,
				permission.ResourceCheckouts + ":" + permission.ActionManage,
				permission.ResourceRegisters + ":" + permission.ActionManage,
				permission.ResourceSales + ":" + permission.ActionManage,
				permission.ResourceUsers + ":read",
			},
		},
		{
			Name:        "cashier",
			Description: "Sells at the till",
			Permissions: []string{
				permission.ResourceProducts + ":read",
				permission.ResourceCategories + ":read",
				permission.ResourceCustomers + ":read",
				permission.ResourceCustomers + ":write",
				permission.ResourceCheckouts + ":read",
				permission.ResourceRegisters + ":read",
				permission.ResourceRegisters + ":open",
				permission.ResourceRegisters + ":close",
				permission.ResourceSales + ":read",
				permission.ResourceSales + ":write",
			},
		},
	}

	for _, role := range builtin {
		var count int64
		if err := db.Model(&models.RoleModel{}).Where("name = ?", role.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
