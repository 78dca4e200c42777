package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/api/middleware"
	"github.com/kanbanlab/taskboard-api/internal/api/shared"
	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/service"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// TaskHandler handles task-related API requests, including the comments that
// hang off a task. Task mutations go through the task service so their side
// effects run; reads and comment operations hit the stores directly.
type TaskHandler struct {
	taskService  *service.TaskService
	taskStore    store.TaskStore
	commentStore store.CommentStore
	validator    *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(
	taskService *service.TaskService,
	taskStore store.TaskStore,
	commentStore store.CommentStore,
) *TaskHandler {
	return &TaskHandler{
		taskService:  taskService,
		taskStore:    taskStore,
		commentStore: commentStore,
		validator:    validator.New(),
	}
}

// List handles GET /api/tasks: all tasks the caller created or is assigned
// to, newest first.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	tasks, err := h.taskStore.ListForUser(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list tasks", err)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	for _, task := range tasks {
		if !h.loadComments(w, r, task) {
			return
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskIDParam(w, r)
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to get task", err)
		return
	}

	if !h.loadComments(w, r, task) {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Create handles POST /api/tasks. The task is created on behalf of the
// authenticated caller; when no assignee is given the caller is assigned.
// The response reflects only the primary write, never the side effects.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    domain.TaskPriority(req.Priority),
	}
	if req.AssignedToID != nil {
		input.AssignedToID = *req.AssignedToID
	}

	task, _, err := h.taskService.CreateAndNotify(r.Context(), input, userID)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create task", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// Update handles PUT /api/tasks/{id}: applies a partial patch, then the
// service broadcasts the updated task to every connected client.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	patch := store.TaskUpdate{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		AssignedToID: req.AssignedToID,
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}

	task, _, err := h.taskService.UpdateAndBroadcast(r.Context(), taskID, patch)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to update task", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskIDParam(w, r)
	if !ok {
		return
	}

	if err := h.taskStore.Delete(r.Context(), taskID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to delete task", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateComment handles POST /api/tasks/{id}/comments on behalf of the
// authenticated caller.
func (h *TaskHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	taskID, ok := h.taskIDParam(w, r)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if _, err := h.taskStore.GetByID(r.Context(), taskID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to add comment", err)
		return
	}

	comment, err := domain.NewComment(taskID, userID, req.Content)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid comment data: "+err.Error())
		return
	}

	if err := h.commentStore.Create(r.Context(), comment); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to add comment", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, comment)
}

// DeleteComment handles DELETE /api/tasks/{id}/comments/{commentId}. Only
// the comment's author may delete it.
func (h *TaskHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	commentID, err := uuid.Parse(chi.URLParam(r, "commentId"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	comment, err := h.commentStore.GetByID(r.Context(), commentID)
	if err != nil {
		if errors.Is(err, store.ErrCommentNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Comment not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to delete comment", err)
		return
	}

	if comment.UserID != userID {
		shared.RespondWithError(w, r, http.StatusForbidden, "Not authorized")
		return
	}

	if err := h.commentStore.Delete(r.Context(), commentID); err != nil {
		if errors.Is(err, store.ErrCommentNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Comment not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to delete comment", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}

// loadComments attaches the task's comments, newest first. It writes the
// error response itself and reports whether the caller should proceed.
func (h *TaskHandler) loadComments(w http.ResponseWriter, r *http.Request, task *domain.Task) bool {
	comments, err := h.commentStore.ListForTask(r.Context(), task.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to load comments", err)
		return false
	}
	task.Comments = comments
	return true
}

// taskIDParam parses the {id} URL parameter, responding with a 400 when it
// is not a valid UUID.
func (h *TaskHandler) taskIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return uuid.Nil, false
	}
	return taskID, true
}
