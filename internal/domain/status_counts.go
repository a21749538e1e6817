package domain

// StatusCounts is the derived per-board tally of tasks in each status
// bucket. It is always recomputed from the task list and never edited
// directly by clients.
type StatusCounts struct {
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}

// CountTaskStatuses tallies tasks by status. Tasks with an unrecognized
// status count as todo, mirroring the permissive legacy status field.
func CountTaskStatuses(tasks []Task) StatusCounts {
	var counts StatusCounts
	for i := range tasks {
		switch NormalizeTaskStatus(tasks[i].Status) {
		case TaskStatusInProgress:
			counts.InProgress++
		case TaskStatusDone:
			counts.Done++
		default:
			counts.Todo++
		}
	}
	return counts
}

// Total returns the number of counted tasks.
func (c StatusCounts) Total() int {
	return c.Todo + c.InProgress + c.Done
}
