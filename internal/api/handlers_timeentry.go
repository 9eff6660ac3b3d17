package api

import (
	"net/http"
	"time"

	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/service"
	"github.com/gin-gonic/gin"
)

func listTimeEntries(entries service.TimeEntryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		projectID := c.Param("id")

		var (
			list []*domain.TimeEntry
			err  error
		)
		if taskID := c.Query("taskId"); taskID != "" {
			list, err = entries.ListByTask(ctx, projectID, taskID)
		} else {
			list, err = entries.ListByProject(ctx, projectID)
		}
		if err != nil {
			writeError(c, err)
			return
		}
		if list == nil {
			list = []*domain.TimeEntry{}
		}
		c.JSON(http.StatusOK, list)
	}
}

type recordTimeEntryRequest struct {
	TaskID      string     `json:"taskId"`
	Employee    string     `json:"employee"`
	Hours       float64    `json:"hours"`
	Date        *time.Time `json:"date"`
	Description string     `json:"description"`
}

func recordTimeEntry(entries service.TimeEntryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req recordTimeEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		e := &domain.TimeEntry{
			ProjectID:   c.Param("id"),
			TaskID:      req.TaskID,
			Employee:    req.Employee,
			Hours:       req.Hours,
			Description: req.Description,
		}
		if req.Date != nil {
			e.Date = *req.Date
		}
		if err := entries.Record(c.Request.Context(), e); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, e)
	}
}
