// Package service implements the application services that orchestrate
// stores and the broadcaster: the task pipeline coupling a primary write to
// its best-effort side effects.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/broadcast"
	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// Broadcast event names.
const (
	EventTaskAssigned = "taskAssigned"
	EventTaskUpdated  = "taskUpdated"
)

// CreateTaskInput carries the caller-supplied fields for a new task.
// AssignedToID may be uuid.Nil, in which case the assignee defaults to the
// creator.
type CreateTaskInput struct {
	Title        string
	Description  string
	DueDate      time.Time
	Priority     domain.TaskPriority
	AssignedToID uuid.UUID
}

// SideEffects reports the outcome of the best-effort steps that follow a
// primary task write. The pipeline absorbs these failures: they are logged
// and recorded here, but never turn the operation into a failure. The
// distinction between primary outcome and side-effect outcome is explicit in
// this type rather than buried in error-handling nesting.
type SideEffects struct {
	// NotificationErr is the failure, if any, of persisting the notification.
	NotificationErr error

	// BroadcastErr is the failure, if any, of the real-time publish.
	BroadcastErr error
}

// Ok reports whether both side effects succeeded.
func (e SideEffects) Ok() bool {
	return e.NotificationErr == nil && e.BroadcastErr == nil
}

// notificationPayload is the opaque payload stored with a taskAssigned
// notification: enough to reference and title the task.
type notificationPayload struct {
	TaskID uuid.UUID `json:"taskId"`
	Title  string    `json:"title"`
}

// TaskService is the pipeline that couples task mutations to notification
// persistence and real-time broadcast. The primary write is the only step
// whose failure the caller sees; the two side effects are best-effort and
// strictly follow the write, so a request that disconnects mid-pipeline has
// already had its mutation applied.
type TaskService struct {
	tasks         store.TaskStore
	notifications store.NotificationStore
	broadcaster   broadcast.Broadcaster
	logger        *slog.Logger
}

// NewTaskService creates a TaskService with the given dependencies. All
// dependencies are injected; the service holds no global state.
func NewTaskService(
	tasks store.TaskStore,
	notifications store.NotificationStore,
	broadcaster broadcast.Broadcaster,
	logger *slog.Logger,
) (*TaskService, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task store is required")
	}
	if notifications == nil {
		return nil, fmt.Errorf("notification store is required")
	}
	if broadcaster == nil {
		return nil, fmt.Errorf("broadcaster is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &TaskService{
		tasks:         tasks,
		notifications: notifications,
		broadcaster:   broadcaster,
		logger:        logger.With("component", "task_service"),
	}, nil
}

// CreateAndNotify writes a new task and then attempts two best-effort side
// effects: persisting a taskAssigned notification for the assignee and
// publishing the task to the assignee's channel. Only the task write can
// fail the operation; side-effect failures are logged, reported in
// SideEffects, and never surfaced as the operation error. The written task
// is returned regardless of side-effect outcomes.
func (s *TaskService) CreateAndNotify(
	ctx context.Context,
	input CreateTaskInput,
	creatorID uuid.UUID,
) (*domain.Task, SideEffects, error) {
	task, err := domain.NewTask(
		input.Title,
		input.Description,
		input.DueDate,
		input.Priority,
		creatorID,
		input.AssignedToID,
	)
	if err != nil {
		return nil, SideEffects{}, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, SideEffects{}, fmt.Errorf("failed to create task: %w", err)
	}

	var effects SideEffects
	effects.NotificationErr = s.notifyAssigned(ctx, task, creatorID)
	effects.BroadcastErr = s.publishAssigned(ctx, task)

	return task, effects, nil
}

// UpdateAndBroadcast applies the patch to the task and then publishes the
// updated task to all connected identities. Unlike creation, the publish is
// a global broadcast, not a targeted per-identity publish; every board
// viewer needs the update, not just the assignee. The write failure aborts;
// the broadcast failure is absorbed.
func (s *TaskService) UpdateAndBroadcast(
	ctx context.Context,
	taskID uuid.UUID,
	patch store.TaskUpdate,
) (*domain.Task, SideEffects, error) {
	task, err := s.tasks.Update(ctx, taskID, patch)
	if err != nil {
		return nil, SideEffects{}, fmt.Errorf("failed to update task: %w", err)
	}

	var effects SideEffects
	if err := s.broadcaster.PublishAll(ctx, EventTaskUpdated, task); err != nil {
		s.logger.Error("failed to broadcast task update",
			"error", err,
			"task_id", task.ID)
		effects.BroadcastErr = err
	}

	return task, effects, nil
}

// notifyAssigned persists the taskAssigned notification for the task's
// assignee. The returned error is for the side-effect record only.
func (s *TaskService) notifyAssigned(
	ctx context.Context,
	task *domain.Task,
	actorID uuid.UUID,
) error {
	payload, err := json.Marshal(notificationPayload{
		TaskID: task.ID,
		Title:  task.Title,
	})
	if err != nil {
		s.logger.Error("failed to encode notification payload",
			"error", err,
			"task_id", task.ID)
		return err
	}

	notification, err := domain.NewNotification(
		task.AssignedToID,
		domain.NotificationTaskAssigned,
		payload,
		actorID,
	)
	if err != nil {
		s.logger.Error("failed to build notification",
			"error", err,
			"task_id", task.ID)
		return err
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.Error("failed to persist notification",
			"error", err,
			"task_id", task.ID,
			"recipient_id", task.AssignedToID)
		return err
	}

	return nil
}

// publishAssigned publishes the task to the assignee's channel, independent
// of whether the notification write succeeded.
func (s *TaskService) publishAssigned(ctx context.Context, task *domain.Task) error {
	if err := s.broadcaster.PublishTo(ctx, task.AssignedToID, EventTaskAssigned, task); err != nil {
		s.logger.Error("failed to publish task assignment",
			"error", err,
			"task_id", task.ID,
			"recipient_id", task.AssignedToID)
		return err
	}
	return nil
}
