package employeetype

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	types := r.Group("/employee-types")
	{
		types.GET("", h.GetAll)
		types.POST("", h.Create)
		types.GET("/:id", h.GetByID)
		types.PUT("/:id", h.Update)
		types.DELETE("/:id", h.Delete)
	}
}
