package domain

import (
	"errors"
	"time"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	DateLayout = "2006-01-02"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrInvalidSort     = errors.New("sort must be date-asc, date-desc or priority")
)

// Task is one entry of the task tracker. IDs are creation times in
// milliseconds, kept as strings.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Date        string     `json:"date"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Date        string `json:"date"`
}

// UpdateTaskRequest is a partial update. A nil or empty title, priority or
// date keeps the stored value; a present description replaces it, even when empty.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Date        *string `json:"date"`
}

type ListQuery struct {
	Q        string
	Priority string
	Sort     string
}

// PriorityRank orders priorities high first.
func PriorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func ValidDate(d string) bool {
	_, err := time.Parse(DateLayout, d)
	return err == nil
}
