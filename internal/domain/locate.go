package domain

import "github.com/google/uuid"

// FindTask returns a pointer to the task with the given ID within the slice,
// or false if no task matches. IDs are unique within a board so the first
// match is the only match. The lookup never mutates the slice; callers apply
// mutations through the returned pointer under the aggregate's control.
func FindTask(tasks []Task, taskID uuid.UUID) (*Task, bool) {
	for i := range tasks {
		if tasks[i].ID == taskID {
			return &tasks[i], true
		}
	}
	return nil, false
}

// FindSubtask returns a pointer to the subtask with the given ID within the
// task, or false if no subtask matches.
func FindSubtask(task *Task, subtaskID uuid.UUID) (*Subtask, bool) {
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			return &task.Subtasks[i], true
		}
	}
	return nil, false
}
