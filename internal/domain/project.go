package domain

import (
	"fmt"
	"regexp"
	"time"
)

// Project IDs are stable prefixed strings: an uppercase prefix, an
// underscore, then any run of word characters (e.g. WTB_001, WTB_001_loc2,
// PRJ_5f3a9c1e). Clients may supply their own.
var projectIDPattern = regexp.MustCompile(`^[A-Z]{2,6}_[A-Za-z0-9_]+$`)

type Project struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	Status          ProjectStatus `json:"status"`
	Budget          float64       `json:"budget"`
	ActualBudget    float64       `json:"actualBudget"`
	EstimatedBudget float64       `json:"estimatedBudget"`
	ActualHours     float64       `json:"actualHours"`
	Progress        int           `json:"progress"`
	ParentProjectID *string       `json:"parentProjectId,omitempty"`
	StartDate       *time.Time    `json:"startDate,omitempty"`
	EndDate         *time.Time    `json:"endDate,omitempty"`

	// Tasks is the ordered task tree, stored as one serialized document on
	// the project row. TaskRev guards whole-document writes: every
	// successful rewrite bumps it, and writers compare-and-swap against the
	// revision they read.
	Tasks   []*Task `json:"tasks"`
	TaskRev int64   `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the fields a client can set directly.
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("project name is required")
	}
	if p.ID != "" && !projectIDPattern.MatchString(p.ID) {
		return fmt.Errorf("project ID %q must be an uppercase prefix followed by an underscore and identifier (e.g. WTB_001)", p.ID)
	}
	if p.Status != "" && !ValidProjectStatuses[string(p.Status)] {
		return fmt.Errorf("unknown project status %q", p.Status)
	}
	if p.Budget < 0 || p.ActualBudget < 0 || p.EstimatedBudget < 0 {
		return fmt.Errorf("budget fields must be non-negative")
	}
	if p.Progress < 0 || p.Progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100")
	}
	if p.ParentProjectID != nil && *p.ParentProjectID == p.ID {
		return fmt.Errorf("project cannot be its own parent")
	}
	return nil
}

// IsChild reports whether the project rolls up into a parent project.
func (p *Project) IsChild() bool {
	return p.ParentProjectID != nil && *p.ParentProjectID != ""
}

// RAG derives the red/yellow/green health indicator from the end date and
// progress as of now. Projects without an end date, or already completed or
// cancelled, are green. A project past its end date is red; one inside the
// final quarter of its schedule with progress lagging the elapsed share of
// the timeline is yellow.
func (p *Project) RAG(now time.Time) RAGStatus {
	if p.Status == ProjectCompleted || p.Status == ProjectCancelled {
		return RAGGreen
	}
	if p.EndDate == nil {
		return RAGGreen
	}
	if now.After(*p.EndDate) && p.Progress < 100 {
		return RAGRed
	}
	if p.StartDate == nil {
		return RAGGreen
	}
	total := p.EndDate.Sub(*p.StartDate)
	if total <= 0 {
		return RAGGreen
	}
	elapsed := now.Sub(*p.StartDate)
	elapsedPct := float64(elapsed) / float64(total) * 100
	if elapsedPct >= 75 && float64(p.Progress) < elapsedPct-20 {
		return RAGYellow
	}
	return RAGGreen
}
