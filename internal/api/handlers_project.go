package api

import (
	"net/http"
	"time"

	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/service"
	"github.com/gin-gonic/gin"
)

// projectView decorates a project with its derived RAG health for responses.
type projectView struct {
	*domain.Project
	RAG domain.RAGStatus `json:"rag"`
}

func viewProject(p *domain.Project) projectView {
	return projectView{Project: p, RAG: p.RAG(time.Now().UTC())}
}

func viewProjects(projects []*domain.Project) []projectView {
	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, viewProject(p))
	}
	return views
}

func listProjects(projects service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := projects.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewProjects(list))
	}
}

func createProject(projects service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p domain.Project
		if err := c.ShouldBindJSON(&p); err != nil {
			badRequest(c, err)
			return
		}
		if err := projects.Create(c.Request.Context(), &p); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewProject(&p))
	}
}

func getProject(projects service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := projects.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewProject(p))
	}
}

func listProjectChildren(projects service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A child listing for an unknown parent is a 404, not an empty list.
		if _, err := projects.GetByID(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		children, err := projects.ListChildren(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewProjects(children))
	}
}

// projectPatch carries the scalar fields a PUT may change. Nil leaves the
// stored value alone; an explicit empty parentProjectId detaches the child.
type projectPatch struct {
	Name            *string    `json:"name"`
	Description     *string    `json:"description"`
	Status          *string    `json:"status"`
	Budget          *float64   `json:"budget"`
	ActualBudget    *float64   `json:"actualBudget"`
	EstimatedBudget *float64   `json:"estimatedBudget"`
	Progress        *int       `json:"progress"`
	ParentProjectID *string    `json:"parentProjectId"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
}

func updateProject(projects service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch projectPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequest(c, err)
			return
		}
		p, err := projects.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}

		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Status != nil {
			p.Status = domain.ProjectStatus(*patch.Status)
		}
		p.Budget = domain.Float64FromPtrWithDefault(p.Budget, patch.Budget)
		p.ActualBudget = domain.Float64FromPtrWithDefault(p.ActualBudget, patch.ActualBudget)
		p.EstimatedBudget = domain.Float64FromPtrWithDefault(p.EstimatedBudget, patch.EstimatedBudget)
		p.Progress = domain.IntFromPtrWithDefault(p.Progress, patch.Progress)
		if patch.ParentProjectID != nil {
			if *patch.ParentProjectID == "" {
				p.ParentProjectID = nil
			} else {
				p.ParentProjectID = patch.ParentProjectID
			}
		}
		if patch.StartDate != nil {
			p.StartDate = patch.StartDate
		}
		if patch.EndDate != nil {
			p.EndDate = patch.EndDate
		}

		if err := projects.Update(c.Request.Context(), p); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewProject(p))
	}
}

func deleteProject(projects service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
