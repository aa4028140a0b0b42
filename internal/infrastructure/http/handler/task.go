package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
	"github.com/JakTech215/crm-app-sub000/internal/infrastructure/http/response"
)

// CreateTask handles POST /v1/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	t, err := req.toDomain()
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	created, err := h.taskService.CreateTask(r.Context(), t)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, taskToResponse(created))
}

// GetTask handles GET /v1/tasks/{taskID}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.taskService.GetTask(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, taskToResponse(t))
}

// ListTasks handles GET /v1/tasks.
// Filters: status (repeatable), project_id, assignee_id, parent_task_id.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.TaskFilter{
		ProjectID:    queryString(r, "project_id"),
		AssigneeID:   queryString(r, "assignee_id"),
		ParentTaskID: queryString(r, "parent_task_id"),
		Offset:       parsePageToken(q.Get("page_token")),
		Limit:        parsePageSize(q.Get("page_size")),
	}
	for _, raw := range q["status"] {
		status, err := domain.NewTaskStatus(raw)
		if err != nil {
			response.FromDomainError(w, r, err)
			return
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	page, err := h.taskService.ListTaskPage(r.Context(), filter)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, listTasksResponse{
		Tasks:         tasksToResponse(page.Tasks),
		NextPageToken: generatePageToken(filter.Offset+len(page.Tasks), page.HasMore),
	})
}

// UpdateStatus handles PATCH /v1/tasks/{taskID}/status.
// A follow-up that could not be created is reported in warnings; the status
// change itself still succeeded.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	res, err := h.taskService.UpdateStatus(r.Context(), chi.URLParam(r, "taskID"), req.Status)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	if len(res.Warnings) > 0 {
		slog.WarnContext(r.Context(), "status change completed with warnings",
			slog.String("task_id", res.Task.ID),
			slog.Any("warnings", res.Warnings))
	}
	response.OK(w, statusChangeToResponse(res))
}

// DeleteTask handles DELETE /v1/tasks/{taskID}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	report, err := h.taskService.DeleteTask(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	if report.Dependents == nil {
		report.Dependents = []string{}
	}
	response.OK(w, report)
}

// MaterializeSeries handles POST /v1/tasks/{taskID}/series.
func (h *TaskHandler) MaterializeSeries(w http.ResponseWriter, r *http.Request) {
	var req seriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}
	if req.Until.IsZero() {
		response.ValidationError(w, "until", "required field missing")
		return
	}

	res, err := h.taskService.MaterializeSeries(r.Context(), chi.URLParam(r, "taskID"), task.SeriesParams{
		From:  req.From,
		Until: req.Until,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, seriesResponse{
		Source:      taskToResponse(res.Source),
		Occurrences: tasksToResponse(res.Occurrences),
	})
}
