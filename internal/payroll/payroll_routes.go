package payroll

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	payrolls := r.Group("/payrolls")
	{
		payrolls.POST("",
			middleware.RateLimitByClient(2, 10),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		payrolls.GET("/:id",
			middleware.RateLimitByClient(5, 20),
			handler.GetByID,
		)

		payrolls.GET("/:id/payslip",
			middleware.RateLimitByClient(1, 5),
			handler.DownloadPayslip,
		)

		payrolls.PUT("/:id",
			middleware.RateLimitByClient(2, 10),
			handler.Recalculate,
		)

		payrolls.DELETE("/:id",
			middleware.RateLimitByClient(0.5, 2),
			handler.Delete,
		)
	}

	r.GET("/employees/:id/payrolls",
		middleware.RateLimitByClient(5, 20),
		handler.ListByEmployee,
	)

	periods := r.Group("/periods/:id")
	{
		periods.GET("/payrolls",
			middleware.RateLimitByClient(5, 20),
			handler.ListByPeriod,
		)

		periods.GET("/summary",
			middleware.RateLimitByClient(5, 20),
			handler.PeriodSummary,
		)

		periods.POST("/payrolls/run",
			middleware.RateLimitByClient(0.2, 2),
			middleware.Idempotency(rdb),
			handler.RunPeriod,
		)
	}
}
