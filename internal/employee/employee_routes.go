package employee

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	{
		employees.GET("",
			middleware.RateLimitByClient(5, 20),
			handler.GetAll,
		)

		employees.GET("/tenure",
			middleware.RateLimitByClient(5, 20),
			handler.GetByTenure,
		)

		employees.GET("/:id",
			middleware.RateLimitByClient(5, 20),
			handler.GetByID,
		)

		employees.POST("",
			middleware.RateLimitByClient(1, 5),
			handler.Create,
		)

		employees.PUT("/:id",
			middleware.RateLimitByClient(1, 5),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByClient(0.5, 2),
			handler.Delete,
		)
	}
}
