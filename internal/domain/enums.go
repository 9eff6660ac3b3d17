package domain

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectActive     ProjectStatus = "active"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectOnHold     ProjectStatus = "on-hold"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
	ProjectScheduled  ProjectStatus = "scheduled"
)

// ValidProjectStatuses is the canonical set of accepted project status strings.
var ValidProjectStatuses = map[string]bool{
	"planning": true, "active": true, "in-progress": true, "on-hold": true,
	"completed": true, "cancelled": true, "scheduled": true,
}

// Task statuses are free-form in stored documents; these are the values the
// application itself writes.
const (
	TaskPending    = "pending"
	TaskInProgress = "in-progress"
	TaskCompleted  = "completed"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleMember  UserRole = "member"
)

// ValidUserRoles is the canonical set of accepted user role strings.
var ValidUserRoles = map[string]bool{
	"admin": true, "manager": true, "member": true,
}

type RoomStatus string

const (
	RoomPending    RoomStatus = "pending"
	RoomInProgress RoomStatus = "in-progress"
	RoomCompleted  RoomStatus = "completed"
)

// RAGStatus is a red/yellow/green health indicator derived from deadlines
// and progress. It is computed on read and never stored.
type RAGStatus string

const (
	RAGGreen  RAGStatus = "green"
	RAGYellow RAGStatus = "yellow"
	RAGRed    RAGStatus = "red"
)
