// Package handler adapts HTTP requests to task service calls.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
)

// TaskHandler serves the scheduling API.
type TaskHandler struct {
	taskService *task.Service
}

// NewTaskHandler creates a new HTTP API handler.
func NewTaskHandler(taskService *task.Service) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// NewRouter mounts every API route on a fresh router. Production code and
// tests both build the handler through here.
func NewRouter(taskService *task.Service) http.Handler {
	h := NewTaskHandler(taskService)

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Route("/{taskID}", func(r chi.Router) {
				r.Get("/", h.GetTask)
				r.Delete("/", h.DeleteTask)
				r.Patch("/status", h.UpdateStatus)
				r.Post("/series", h.MaterializeSeries)
				r.Get("/dependencies", h.ListDependencies)
				r.Post("/dependencies", h.AddDependency)
				r.Get("/dependents", h.ListDependents)
				r.Get("/schedule-hints", h.ScheduleHints)
			})
		})
		r.Delete("/dependencies/{dependencyID}", h.RemoveDependency)
		r.Get("/templates/{templateID}/chain", h.ResolveChain)
		r.Get("/templates/{templateID}/preview", h.PreviewTemplate)
		r.Get("/workflow/warnings", h.WorkflowWarnings)
		r.Get("/gantt", h.Gantt)
	})
	return r
}
