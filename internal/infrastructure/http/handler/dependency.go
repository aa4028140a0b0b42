package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
	"github.com/JakTech215/crm-app-sub000/internal/infrastructure/http/response"
)

// AddDependency handles POST /v1/tasks/{taskID}/dependencies.
func (h *TaskHandler) AddDependency(w http.ResponseWriter, r *http.Request) {
	var req addDependencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}
	if req.DependsOnTaskID == "" {
		response.ValidationError(w, "depends_on_task_id", "required field missing")
		return
	}

	dep, err := h.taskService.AddDependency(r.Context(), task.DependencyInput{
		TaskID:          chi.URLParam(r, "taskID"),
		DependsOnTaskID: req.DependsOnTaskID,
		Type:            req.DependencyType,
		LagDays:         req.LagDays,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, dependencyToResponse(*dep))
}

// RemoveDependency handles DELETE /v1/dependencies/{dependencyID}.
func (h *TaskHandler) RemoveDependency(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.RemoveDependency(r.Context(), chi.URLParam(r, "dependencyID")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ListDependencies handles GET /v1/tasks/{taskID}/dependencies.
func (h *TaskHandler) ListDependencies(w http.ResponseWriter, r *http.Request) {
	deps, err := h.taskService.ListDependencies(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	out := make([]dependencyResponse, len(deps))
	for i, d := range deps {
		out[i] = dependencyToResponse(d)
	}
	response.OK(w, out)
}

// ListDependents handles GET /v1/tasks/{taskID}/dependents.
func (h *TaskHandler) ListDependents(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.FindDependents(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, tasksToResponse(tasks))
}

// ScheduleHints handles GET /v1/tasks/{taskID}/schedule-hints.
func (h *TaskHandler) ScheduleHints(w http.ResponseWriter, r *http.Request) {
	hints, err := h.taskService.ScheduleHints(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, hints)
}
