package period

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	periods := r.Group("/periods")
	{
		periods.GET("",
			middleware.RateLimitByClient(5, 20),
			handler.GetAll,
		)

		periods.GET("/open",
			middleware.RateLimitByClient(5, 20),
			handler.GetOpen,
		)

		periods.GET("/latest",
			middleware.RateLimitByClient(5, 20),
			handler.GetLatest,
		)

		periods.GET("/:id",
			middleware.RateLimitByClient(5, 20),
			handler.GetByID,
		)

		periods.POST("",
			middleware.RateLimitByClient(1, 5),
			handler.Create,
		)

		periods.PUT("/:id",
			middleware.RateLimitByClient(1, 5),
			handler.Update,
		)

		periods.DELETE("/:id",
			middleware.RateLimitByClient(0.5, 2),
			handler.Delete,
		)
	}
}
