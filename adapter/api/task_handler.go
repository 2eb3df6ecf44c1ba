package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/todo/internal/todo/application/commands"
	"github.com/felixgeelhaar/todo/internal/todo/application/queries"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
)

// maxBodyBytes caps request bodies at 1 MiB.
const maxBodyBytes = 1 << 20

// AddTaskRequest is the body of POST /add.
type AddTaskRequest struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// UpdateTaskRequest is the body of PUT /update/{id}. Omitted fields are left unchanged.
type UpdateTaskRequest struct {
	Task      *string `json:"task,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// DeleteTaskResponse is returned by DELETE /delete/{id}.
type DeleteTaskResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// TaskHandler handles task API requests.
type TaskHandler struct {
	addTask    *commands.AddTaskHandler
	updateTask *commands.UpdateTaskHandler
	deleteTask *commands.DeleteTaskHandler
	listTasks  *queries.ListTasksHandler
	getTask    *queries.GetTaskHandler
	logger     *slog.Logger
}

// TaskHandlerConfig holds dependencies for the task handler.
type TaskHandlerConfig struct {
	AddTask    *commands.AddTaskHandler
	UpdateTask *commands.UpdateTaskHandler
	DeleteTask *commands.DeleteTaskHandler
	ListTasks  *queries.ListTasksHandler
	GetTask    *queries.GetTaskHandler
	Logger     *slog.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(cfg TaskHandlerConfig) *TaskHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &TaskHandler{
		addTask:    cfg.AddTask,
		updateTask: cfg.UpdateTask,
		deleteTask: cfg.DeleteTask,
		listTasks:  cfg.ListTasks,
		getTask:    cfg.GetTask,
		logger:     cfg.Logger,
	}
}

// ListTasks handles GET / and GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.listTasks.Handle(r.Context(), queries.ListTasksQuery{})
	if err != nil {
		h.writeTaskError(w, r, err, "list tasks")
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := task.ParseID(r.PathValue("id"))
	if err != nil {
		h.writeTaskError(w, r, err, "get task")
		return
	}

	dto, err := h.getTask.Handle(r.Context(), queries.GetTaskQuery{TaskID: id})
	if err != nil {
		h.writeTaskError(w, r, err, "get task")
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// AddTask handles POST /add.
func (h *TaskHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req AddTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dto, err := h.addTask.Handle(r.Context(), commands.AddTaskCommand{
		Task:      req.Task,
		Completed: req.Completed,
	})
	if err != nil {
		h.writeTaskError(w, r, err, "add task")
		return
	}

	writeJSON(w, http.StatusCreated, dto)
}

// UpdateTask handles PUT /update/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := task.ParseID(r.PathValue("id"))
	if err != nil {
		h.writeTaskError(w, r, err, "update task")
		return
	}

	var req UpdateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dto, err := h.updateTask.Handle(r.Context(), commands.UpdateTaskCommand{
		TaskID:    id,
		Task:      req.Task,
		Completed: req.Completed,
	})
	if err != nil {
		h.writeTaskError(w, r, err, "update task")
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// DeleteTask handles DELETE /delete/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := task.ParseID(r.PathValue("id"))
	if err != nil {
		h.writeTaskError(w, r, err, "delete task")
		return
	}

	if err := h.deleteTask.Handle(r.Context(), commands.DeleteTaskCommand{TaskID: id}); err != nil {
		h.writeTaskError(w, r, err, "delete task")
		return
	}

	writeJSON(w, http.StatusOK, DeleteTaskResponse{Status: "deleted", ID: id.String()})
}

// writeTaskError maps the task error taxonomy onto HTTP statuses. Store
// failures are logged and answered with a generic message.
func (h *TaskHandler) writeTaskError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case task.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case task.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case task.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "failed to "+action, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// decodeJSON decodes exactly one JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
