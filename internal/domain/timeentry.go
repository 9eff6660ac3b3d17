package domain

import (
	"fmt"
	"time"
)

// TimeEntry records hours an employee logged against a task. Entries live
// in a project-scoped list, not inside the task document.
type TimeEntry struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	TaskID      string    `json:"taskId"`
	Employee    string    `json:"employee"`
	Hours       float64   `json:"hours"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate checks the fields a client can set directly.
func (e *TimeEntry) Validate() error {
	if e.TaskID == "" {
		return fmt.Errorf("time entry task ID is required")
	}
	if e.Employee == "" {
		return fmt.Errorf("time entry employee is required")
	}
	if e.Hours <= 0 {
		return fmt.Errorf("time entry hours must be positive")
	}
	return nil
}
