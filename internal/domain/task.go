package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrTaskNotFound is returned when a task identifier does not exist anywhere
// in a project's task tree.
var ErrTaskNotFound = errors.New("task not found")

// TaskNote is a free-form note attached to a task's discussion thread.
type TaskNote struct {
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task is a unit of work inside a project's task tree. Tasks nest through
// Subtasks to arbitrary depth; the tree is serialized as a single document
// on the owning project row. IDs are unique within one project's tree only.
type Task struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Status         string     `json:"status"`
	EstimatedHours float64    `json:"estimatedHours"`
	ActualHours    float64    `json:"actualHours"`
	Subtasks       []*Task    `json:"subtasks,omitempty"`
	Notes          []TaskNote `json:"notesThread,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// taskAlias avoids recursing into Task.UnmarshalJSON.
type taskAlias Task

type taskWire struct {
	*taskAlias
	RawID any `json:"id"`
}

// UnmarshalJSON decodes a task while coercing the identifier to a string.
// Legacy documents carry numeric IDs; 5 and "5" must refer to the same task.
func (t *Task) UnmarshalJSON(data []byte) error {
	w := taskWire{taskAlias: (*taskAlias)(t)}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.ID = NormalizeTaskID(w.RawID)
	return nil
}

// NormalizeTaskID renders a task identifier of any wire type as a string.
// Integral floats lose their trailing ".0" so numeric 5 equals "5".
func NormalizeTaskID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	default:
		return fmt.Sprintf("%v", id)
	}
}

// TaskMatch is the result of a successful tree search: the task and its
// immediate parent. Parent is nil when the task sits at the root level.
type TaskMatch struct {
	Task   *Task
	Parent *Task
}

// FindTask locates a task by identifier anywhere in the tree using a
// depth-first, document-order traversal. The identifier is coerced to a
// string before comparison. Returns nil when no task matches; never returns
// an error, even for an empty or nil tree. When duplicate identifiers exist
// the first match in document order wins.
func FindTask(tasks []*Task, id any) *TaskMatch {
	return findTaskIn(tasks, nil, NormalizeTaskID(id))
}

func findTaskIn(tasks []*Task, parent *Task, id string) *TaskMatch {
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if t.ID == id {
			return &TaskMatch{Task: t, Parent: parent}
		}
		if m := findTaskIn(t.Subtasks, t, id); m != nil {
			return m
		}
	}
	return nil
}

// RemoveTask deletes the first task matching id from whichever slice
// contains it, preserving the relative order of the remaining tasks.
// Returns the (possibly modified) root slice and whether a removal
// occurred. Removal is positional, so at most one entry is ever removed
// even when identifiers are duplicated.
func RemoveTask(tasks []*Task, id any) ([]*Task, bool) {
	want := NormalizeTaskID(id)
	for i, t := range tasks {
		if t == nil {
			continue
		}
		if t.ID == want {
			return append(tasks[:i], tasks[i+1:]...), true
		}
		if removeFromSubtasks(t, want) {
			return tasks, true
		}
	}
	return tasks, false
}

func removeFromSubtasks(parent *Task, id string) bool {
	for i, t := range parent.Subtasks {
		if t == nil {
			continue
		}
		if t.ID == id {
			parent.Subtasks = append(parent.Subtasks[:i], parent.Subtasks[i+1:]...)
			return true
		}
		if removeFromSubtasks(t, id) {
			return true
		}
	}
	return false
}

// CountTasks returns the total number of tasks in the tree, at any depth.
func CountTasks(tasks []*Task) int {
	n := 0
	for _, t := range tasks {
		if t == nil {
			continue
		}
		n += 1 + CountTasks(t.Subtasks)
	}
	return n
}

// ApplyTimeEntry credits hours to the identified task, resyncs the
// immediate parent task's actual hours as the sum of its direct children
// (a full resync, so repeated applications never double-count), and
// returns the project-level actual-hours total computed from root tasks
// only. Hours already folded into a parent are not counted twice.
//
// Unlike the historical behavior this is strict: an unknown task
// identifier returns ErrTaskNotFound instead of silently dropping hours.
func ApplyTimeEntry(tasks []*Task, taskID any, hours float64) (float64, error) {
	m := FindTask(tasks, taskID)
	if m == nil {
		return 0, ErrTaskNotFound
	}
	m.Task.ActualHours += hours
	if m.Parent != nil {
		m.Parent.ActualHours = sumDirectHours(m.Parent.Subtasks)
	}
	return RootActualHours(tasks), nil
}

func sumDirectHours(children []*Task) float64 {
	var total float64
	for _, c := range children {
		if c == nil {
			continue
		}
		total += c.ActualHours
	}
	return total
}

// RootActualHours sums actual hours over root-level tasks only. Subtask
// hours are excluded because parent resyncs already fold them in.
func RootActualHours(tasks []*Task) float64 {
	return sumDirectHours(tasks)
}

// DecodeTasks parses a serialized task document. An empty or "null"
// document yields an empty tree; a malformed document is an error at this
// boundary (the tree operations themselves stay total).
func DecodeTasks(doc []byte) ([]*Task, error) {
	if len(doc) == 0 {
		return nil, nil
	}
	var tasks []*Task
	if err := json.Unmarshal(doc, &tasks); err != nil {
		return nil, fmt.Errorf("decoding task document: %w", err)
	}
	return tasks, nil
}

// EncodeTasks serializes a task tree for storage. A nil tree encodes as an
// empty array so stored documents are always valid JSON arrays.
func EncodeTasks(tasks []*Task) ([]byte, error) {
	if tasks == nil {
		tasks = []*Task{}
	}
	doc, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encoding task document: %w", err)
	}
	return doc, nil
}
