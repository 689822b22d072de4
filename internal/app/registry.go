package app

import (
	"database/sql"

	"go-payroll/internal/employee"
	"go-payroll/internal/employeetype"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/period"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// registerModules wires repositories, services and handlers and mounts them
// under /api/v1. rdb may be nil.
func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	// --- Repositories ---
	employeeTypeRepo := employeetype.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	periodRepo := period.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- Services ---
	employeeTypeService := employeetype.NewService(db, employeeTypeRepo, rdb, logger)
	employeeService := employee.NewService(db, employeeRepo, logger)
	periodService := period.NewService(db, periodRepo, outboxRepo, logger)
	payrollService := payroll.NewService(db, payrollRepo, payroll.NewCalculator(payroll.DefaultRates(), nil), rdb, outboxRepo, logger)
	bulkProcessor := payroll.NewBulkProcessor(payrollRepo, payrollService, logger)

	// --- Handlers ---
	employeeTypeHandler := employeetype.NewHandler(employeeTypeService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	periodHandler := period.NewHandler(periodService, logger)
	payrollHandler := payroll.NewHandler(payrollService, bulkProcessor, rdb, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employeetype.RegisterRoutes(api, employeeTypeHandler)
		employee.RegisterRoutes(api, employeeHandler)
		period.RegisterRoutes(api, periodHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
	}
}
