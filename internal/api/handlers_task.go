package api

import (
	"net/http"

	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/service"
	"github.com/gin-gonic/gin"
)

func listTasks(tasks service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tree, err := tasks.List(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if tree == nil {
			tree = []*domain.Task{}
		}
		c.JSON(http.StatusOK, tree)
	}
}

type createTaskRequest struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	EstimatedHours float64 `json:"estimatedHours"`
	ParentTaskID   string  `json:"parentTaskId"`
}

func createTask(tasks service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		t := &domain.Task{
			ID:             req.ID,
			Name:           req.Name,
			Status:         req.Status,
			EstimatedHours: req.EstimatedHours,
		}
		if err := tasks.Create(c.Request.Context(), c.Param("id"), req.ParentTaskID, t); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

func getTask(tasks service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := tasks.Get(c.Request.Context(), c.Param("id"), c.Param("taskId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

type updateTaskRequest struct {
	Name           *string  `json:"name"`
	Status         *string  `json:"status"`
	EstimatedHours *float64 `json:"estimatedHours"`
}

func updateTask(tasks service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		t, err := tasks.Update(c.Request.Context(), c.Param("id"), c.Param("taskId"), service.TaskUpdate{
			Name:           req.Name,
			Status:         req.Status,
			EstimatedHours: req.EstimatedHours,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func deleteTask(tasks service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := tasks.Delete(c.Request.Context(), c.Param("id"), c.Param("taskId")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type addNoteRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

func addTaskNote(tasks service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addNoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		note := domain.TaskNote{Author: req.Author, Content: req.Content}
		if err := tasks.AddNote(c.Request.Context(), c.Param("id"), c.Param("taskId"), note); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	}
}
