package domain

import "context"

// Task names understood by the background workers.
const (
	TaskUpdateFeaturedSpeaker = "update_featured_speaker"
	TaskSendConfirmationEmail = "send_confirmation_email"
)

// Task parameter names.
const (
	ParamSpeaker        = "speaker"
	ParamConferenceKey  = "conferenceKey"
	ParamInvalidate     = "invalidate"
	ParamEmail          = "email"
	ParamConferenceName = "conferenceName"
)

// Task is a fire-and-forget unit of background work.
type Task struct {
	Name   string
	Params map[string]string
}

// TaskHandler processes one task.
type TaskHandler func(ctx context.Context, task Task) error

// TaskQueue accepts tasks for asynchronous, at-least-once processing.
type TaskQueue interface {
	Enqueue(ctx context.Context, task Task) error
}
