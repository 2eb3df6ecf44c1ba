package cli

import (
	"github.com/felixgeelhaar/todo/internal/todo/application/commands"
	"github.com/felixgeelhaar/todo/internal/todo/application/queries"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
)

// App holds the CLI application dependencies.
type App struct {
	// Task Command Handlers
	AddTaskHandler    *commands.AddTaskHandler
	UpdateTaskHandler *commands.UpdateTaskHandler
	DeleteTaskHandler *commands.DeleteTaskHandler

	// Task Query Handlers
	ListTasksHandler *queries.ListTasksHandler
	GetTaskHandler   *queries.GetTaskHandler

	// Store is kept for the health command's ping.
	Store task.Store
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	addTaskHandler *commands.AddTaskHandler,
	updateTaskHandler *commands.UpdateTaskHandler,
	deleteTaskHandler *commands.DeleteTaskHandler,
	listTasksHandler *queries.ListTasksHandler,
	getTaskHandler *queries.GetTaskHandler,
) *App {
	return &App{
		AddTaskHandler:    addTaskHandler,
		UpdateTaskHandler: updateTaskHandler,
		DeleteTaskHandler: deleteTaskHandler,
		ListTasksHandler:  listTasksHandler,
		GetTaskHandler:    getTaskHandler,
	}
}

// SetStore attaches the store handle used by health checks.
func (a *App) SetStore(store task.Store) {
	a.Store = store
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
