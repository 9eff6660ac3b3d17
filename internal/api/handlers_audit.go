package api

import (
	"net/http"
	"strconv"

	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/service"
	"github.com/gin-gonic/gin"
)

func listAudit(audit service.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				badRequest(c, err)
				return
			}
			limit = n
		}
		list, err := audit.List(c.Request.Context(), c.Query("entityType"), c.Query("entityId"), limit)
		if err != nil {
			writeError(c, err)
			return
		}
		if list == nil {
			list = []*domain.AuditEntry{}
		}
		c.JSON(http.StatusOK, list)
	}
}
