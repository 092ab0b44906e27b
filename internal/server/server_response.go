package server

import (
	"github.com/brk3/habiterm/pkg/habit"
)

type HabitListResponse struct {
	Habits []habit.Habit `json:"habits"`
}

type CompleteRequest struct {
	DurationSeconds int `json:"duration_seconds"`
}

type CompleteResponse struct {
	Habit      habit.Habit            `json:"habit"`
	Completion habit.CompletionRecord `json:"completion"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
