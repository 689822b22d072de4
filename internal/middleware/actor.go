package middleware

import (
	"net/http"
	"strings"

	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	ActorHeader  = "X-Actor"
	maxActorSize = 100
)

// Actor records who performs the request. The value is trusted as given;
// it only feeds computed_by and the audit trail.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(ActorHeader))
		if actor == "" {
			actor = contextutil.SystemActor
		}
		if len(actor) > maxActorSize {
			response.Error(c, http.StatusBadRequest, "INVALID_ACTOR", "X-Actor header is too long", nil)
			c.Abort()
			return
		}

		c.Set("actor", actor)
		c.Request = c.Request.WithContext(contextutil.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}
