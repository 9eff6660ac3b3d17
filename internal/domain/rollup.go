package domain

import "math"

// Rollup holds the aggregate fields a parent project derives from its
// children.
type Rollup struct {
	EstimatedBudget float64
	ActualBudget    float64
	ActualHours     float64
	Progress        int
	Status          ProjectStatus
}

// statusRank orders statuses from worst to best for rollup purposes.
// An active child counts as in-progress; anything unrecognized (including
// scheduled) ranks alongside planning.
func statusRank(s ProjectStatus) int {
	switch s {
	case ProjectCancelled:
		return 0
	case ProjectOnHold:
		return 1
	case ProjectPlanning:
		return 2
	case ProjectInProgress, ProjectActive:
		return 3
	case ProjectCompleted:
		return 4
	default:
		return 2
	}
}

// rankStatus maps a rank back to the canonical status the parent takes on.
var rankStatus = [...]ProjectStatus{
	ProjectCancelled,
	ProjectOnHold,
	ProjectPlanning,
	ProjectInProgress,
	ProjectCompleted,
}

// ComputeRollup recomputes a parent's aggregate fields from its children:
// budget and hour sums, rounded mean progress (0.5 rounds up), and the
// canonical status of the worst-ranked child (earliest worst wins). Returns
// ok=false when there are no children, in which case the parent keeps its
// stored values.
func ComputeRollup(children []*Project) (Rollup, bool) {
	if len(children) == 0 {
		return Rollup{}, false
	}

	var r Rollup
	var progressSum float64
	worst := len(rankStatus)
	for _, c := range children {
		if c == nil {
			continue
		}
		r.EstimatedBudget += c.EstimatedBudget
		r.ActualBudget += c.ActualBudget
		r.ActualHours += c.ActualHours
		progressSum += float64(c.Progress)
		if rank := statusRank(c.Status); rank < worst {
			worst = rank
		}
	}
	if worst >= len(rankStatus) {
		worst = statusRank("")
	}
	r.Progress = int(math.Round(progressSum / float64(len(children))))
	r.Status = rankStatus[worst]
	return r, true
}
