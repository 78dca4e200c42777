package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/api/shared"
	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/mocks"
	"github.com/kanbanlab/taskboard-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskHandlerFixture struct {
	handler       *TaskHandler
	tasks         *mocks.MockTaskStore
	comments      *mocks.MockCommentStore
	notifications *mocks.MockNotificationStore
	broadcaster   *mocks.MockBroadcaster
}

func newTaskHandlerFixture(t *testing.T) *taskHandlerFixture {
	t.Helper()
	tasks := mocks.NewMockTaskStore()
	comments := mocks.NewMockCommentStore()
	notifications := mocks.NewMockNotificationStore()
	broadcaster := &mocks.MockBroadcaster{}

	svc, err := service.NewTaskService(
		tasks, notifications, broadcaster,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	return &taskHandlerFixture{
		handler:       NewTaskHandler(svc, tasks, comments),
		tasks:         tasks,
		comments:      comments,
		notifications: notifications,
		broadcaster:   broadcaster,
	}
}

// authedRequest builds a request carrying the given identity, as the auth
// middleware would have left it.
func authedRequest(method, target string, body any, userID uuid.UUID) *http.Request {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func seedTask(t *testing.T, tasks *mocks.MockTaskStore, creatorID, assigneeID uuid.UUID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(
		"Prepare sprint demo", "",
		time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
		domain.PriorityMedium, creatorID, assigneeID)
	require.NoError(t, err)
	tasks.Tasks[task.ID] = task
	return task
}

func TestTaskList(t *testing.T) {
	t.Parallel()

	t.Run("returns the caller's tasks", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		userID := uuid.New()
		task := seedTask(t, f.tasks, userID, uuid.Nil)
		seedTask(t, f.tasks, uuid.New(), uuid.New()) // someone else's task

		rec := httptest.NewRecorder()
		f.handler.List(rec, authedRequest(http.MethodGet, "/api/tasks", nil, userID))

		require.Equal(t, http.StatusOK, rec.Code)

		var body []domain.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, task.ID, body[0].ID)
	})

	t.Run("empty board is an empty array", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)

		rec := httptest.NewRecorder()
		f.handler.List(rec, authedRequest(http.MethodGet, "/api/tasks", nil, uuid.New()))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestTaskCreate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	assigneeID := uuid.New()

	validRequest := func(assignedTo *uuid.UUID) CreateTaskRequest {
		return CreateTaskRequest{
			Title:        "Prepare sprint demo",
			Description:  "Walk through the new board filters",
			DueDate:      time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
			Priority:     "High",
			AssignedToID: assignedTo,
		}
	}

	t.Run("creates and returns the task", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)

		rec := httptest.NewRecorder()
		f.handler.Create(rec,
			authedRequest(http.MethodPost, "/api/tasks", validRequest(&assigneeID), userID))

		require.Equal(t, http.StatusCreated, rec.Code)

		var body domain.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, userID, body.CreatorID)
		assert.Equal(t, assigneeID, body.AssignedToID)
		assert.Equal(t, domain.StatusToDo, body.Status)

		// Pipeline side effects ran
		assert.Len(t, f.notifications.Notifications, 1)
		assert.Len(t, f.broadcaster.TargetedPublishes, 1)
	})

	t.Run("omitted assignee defaults to the caller", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)

		rec := httptest.NewRecorder()
		f.handler.Create(rec,
			authedRequest(http.MethodPost, "/api/tasks", validRequest(nil), userID))

		require.Equal(t, http.StatusCreated, rec.Code)

		var body domain.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, userID, body.AssignedToID)
	})

	t.Run("side effect failures do not change the response", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		f.notifications.CreateError = errors.New("notifications table unavailable")
		f.broadcaster.PublishToErr = errors.New("hub closed")

		rec := httptest.NewRecorder()
		f.handler.Create(rec,
			authedRequest(http.MethodPost, "/api/tasks", validRequest(&assigneeID), userID))

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("unknown priority", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		req := validRequest(nil)
		req.Priority = "Critical"

		rec := httptest.NewRecorder()
		f.handler.Create(rec, authedRequest(http.MethodPost, "/api/tasks", req, userID))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader([]byte("{")))
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
		rec := httptest.NewRecorder()
		f.handler.Create(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskGet(t *testing.T) {
	t.Parallel()

	t.Run("returns the task", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		userID := uuid.New()
		task := seedTask(t, f.tasks, userID, uuid.Nil)

		req := withURLParam(
			authedRequest(http.MethodGet, "/api/tasks/"+task.ID.String(), nil, userID),
			"id", task.ID.String())
		rec := httptest.NewRecorder()
		f.handler.Get(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body domain.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, task.ID, body.ID)
	})

	t.Run("includes the task's comments newest first", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		userID := uuid.New()
		task := seedTask(t, f.tasks, userID, uuid.Nil)

		older := seedComment(t, f.comments, task.ID, userID, "first pass done")
		older.CreatedAt = time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
		newer := seedComment(t, f.comments, task.ID, userID, "review feedback addressed")
		newer.CreatedAt = time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC)
		seedComment(t, f.comments, uuid.New(), userID, "another task's comment")

		req := withURLParam(
			authedRequest(http.MethodGet, "/api/tasks/"+task.ID.String(), nil, userID),
			"id", task.ID.String())
		rec := httptest.NewRecorder()
		f.handler.Get(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body domain.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Comments, 2)
		assert.Equal(t, newer.ID, body.Comments[0].ID)
		assert.Equal(t, older.ID, body.Comments[1].ID)
	})

	t.Run("unknown task", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		missing := uuid.New()

		req := withURLParam(
			authedRequest(http.MethodGet, "/api/tasks/"+missing.String(), nil, uuid.New()),
			"id", missing.String())
		rec := httptest.NewRecorder()
		f.handler.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)

		req := withURLParam(
			authedRequest(http.MethodGet, "/api/tasks/not-a-uuid", nil, uuid.New()),
			"id", "not-a-uuid")
		rec := httptest.NewRecorder()
		f.handler.Get(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskUpdate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("applies the patch and broadcasts", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		task := seedTask(t, f.tasks, userID, uuid.Nil)

		status := "In_Progress"
		req := withURLParam(
			authedRequest(http.MethodPut, "/api/tasks/"+task.ID.String(),
				UpdateTaskRequest{Status: &status}, userID),
			"id", task.ID.String())
		rec := httptest.NewRecorder()
		f.handler.Update(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body domain.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, domain.StatusInProgress, body.Status)

		// Updates go to everyone, not just the assignee
		assert.Len(t, f.broadcaster.GlobalPublishes, 1)
		assert.Empty(t, f.broadcaster.TargetedPublishes)
	})

	t.Run("unknown task", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		missing := uuid.New()

		title := "New title"
		req := withURLParam(
			authedRequest(http.MethodPut, "/api/tasks/"+missing.String(),
				UpdateTaskRequest{Title: &title}, userID),
			"id", missing.String())
		rec := httptest.NewRecorder()
		f.handler.Update(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, f.broadcaster.GlobalPublishes)
	})

	t.Run("unknown status value", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		task := seedTask(t, f.tasks, userID, uuid.Nil)

		status := "Done"
		req := withURLParam(
			authedRequest(http.MethodPut, "/api/tasks/"+task.ID.String(),
				UpdateTaskRequest{Status: &status}, userID),
			"id", task.ID.String())
		rec := httptest.NewRecorder()
		f.handler.Update(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskDelete(t *testing.T) {
	t.Parallel()

	t.Run("removes the task", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		userID := uuid.New()
		task := seedTask(t, f.tasks, userID, uuid.Nil)

		req := withURLParam(
			authedRequest(http.MethodDelete, "/api/tasks/"+task.ID.String(), nil, userID),
			"id", task.ID.String())
		rec := httptest.NewRecorder()
		f.handler.Delete(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NotContains(t, f.tasks.Tasks, task.ID)
	})

	t.Run("unknown task", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		missing := uuid.New()

		req := withURLParam(
			authedRequest(http.MethodDelete, "/api/tasks/"+missing.String(), nil, uuid.New()),
			"id", missing.String())
		rec := httptest.NewRecorder()
		f.handler.Delete(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func seedComment(t *testing.T, comments *mocks.MockCommentStore, taskID, userID uuid.UUID, content string) *domain.Comment {
	t.Helper()
	comment, err := domain.NewComment(taskID, userID, content)
	require.NoError(t, err)
	comments.Comments = append(comments.Comments, comment)
	return comment
}

func TestCreateComment(t *testing.T) {
	t.Parallel()

	t.Run("adds a comment authored by the caller", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		userID := uuid.New()
		task := seedTask(t, f.tasks, userID, uuid.Nil)

		req := withURLParam(
			authedRequest(http.MethodPost, "/api/tasks/"+task.ID.String()+"/comments",
				CreateCommentRequest{Content: "Blocked on the API contract"}, userID),
			"id", task.ID.String())
		rec := httptest.NewRecorder()
		f.handler.CreateComment(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var body domain.Comment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, task.ID, body.TaskID)
		assert.Equal(t, userID, body.UserID)
		assert.Equal(t, "Blocked on the API contract", body.Content)
		require.Len(t, f.comments.Comments, 1)
	})

	t.Run("unknown task", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		missing := uuid.New()

		req := withURLParam(
			authedRequest(http.MethodPost, "/api/tasks/"+missing.String()+"/comments",
				CreateCommentRequest{Content: "ghost"}, uuid.New()),
			"id", missing.String())
		rec := httptest.NewRecorder()
		f.handler.CreateComment(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, f.comments.Comments)
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		userID := uuid.New()
		task := seedTask(t, f.tasks, userID, uuid.Nil)

		req := withURLParam(
			authedRequest(http.MethodPost, "/api/tasks/"+task.ID.String()+"/comments",
				CreateCommentRequest{Content: ""}, userID),
			"id", task.ID.String())
		rec := httptest.NewRecorder()
		f.handler.CreateComment(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, f.comments.Comments)
	})
}

func TestDeleteComment(t *testing.T) {
	t.Parallel()

	t.Run("author deletes their comment", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		userID := uuid.New()
		task := seedTask(t, f.tasks, userID, uuid.Nil)
		comment := seedComment(t, f.comments, task.ID, userID, "done")

		req := withURLParam(
			authedRequest(http.MethodDelete,
				"/api/tasks/"+task.ID.String()+"/comments/"+comment.ID.String(), nil, userID),
			"commentId", comment.ID.String())
		rec := httptest.NewRecorder()
		f.handler.DeleteComment(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, f.comments.Comments)
	})

	t.Run("only the author may delete", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		author := uuid.New()
		task := seedTask(t, f.tasks, author, uuid.Nil)
		comment := seedComment(t, f.comments, task.ID, author, "mine")

		req := withURLParam(
			authedRequest(http.MethodDelete,
				"/api/tasks/"+task.ID.String()+"/comments/"+comment.ID.String(), nil, uuid.New()),
			"commentId", comment.ID.String())
		rec := httptest.NewRecorder()
		f.handler.DeleteComment(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Len(t, f.comments.Comments, 1)
	})

	t.Run("unknown comment", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)
		missing := uuid.New()

		req := withURLParam(
			authedRequest(http.MethodDelete,
				"/api/tasks/"+uuid.New().String()+"/comments/"+missing.String(), nil, uuid.New()),
			"commentId", missing.String())
		rec := httptest.NewRecorder()
		f.handler.DeleteComment(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid comment id", func(t *testing.T) {
		t.Parallel()
		f := newTaskHandlerFixture(t)

		req := withURLParam(
			authedRequest(http.MethodDelete, "/api/tasks/x/comments/nope", nil, uuid.New()),
			"commentId", "nope")
		rec := httptest.NewRecorder()
		f.handler.DeleteComment(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
