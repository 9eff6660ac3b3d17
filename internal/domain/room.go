package domain

import (
	"fmt"
	"time"
)

// Room is a physical location tracked under a project.
type Room struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"projectId"`
	Name      string     `json:"name"`
	Floor     string     `json:"floor,omitempty"`
	Status    RoomStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Validate checks the fields a client can set directly.
func (r *Room) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("room name is required")
	}
	switch r.Status {
	case "", RoomPending, RoomInProgress, RoomCompleted:
		return nil
	default:
		return fmt.Errorf("unknown room status %q", r.Status)
	}
}
