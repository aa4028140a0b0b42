package handler

import (
	"net/http"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
	"github.com/JakTech215/crm-app-sub000/internal/infrastructure/http/response"
)

// Gantt handles GET /v1/gantt?start=&zoom=&project_id=.
func (h *TaskHandler) Gantt(w http.ResponseWriter, r *http.Request) {
	anchor, err := queryDate(r, "start")
	if err != nil {
		response.ValidationError(w, "start", err.Error())
		return
	}

	res, err := h.taskService.Gantt(r.Context(), task.GanttParams{
		Anchor:    anchor,
		Zoom:      r.URL.Query().Get("zoom"),
		ProjectID: queryString(r, "project_id"),
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, ganttToResponse(res))
}
