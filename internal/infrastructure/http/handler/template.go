package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JakTech215/crm-app-sub000/internal/infrastructure/http/response"
)

// ResolveChain handles GET /v1/templates/{templateID}/chain.
func (h *TaskHandler) ResolveChain(w http.ResponseWriter, r *http.Request) {
	chain, err := h.taskService.ResolveChain(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, chainToResponse(chain))
}

// PreviewTemplate handles GET /v1/templates/{templateID}/preview?start=&end=.
// start defaults to today in the service zone.
func (h *TaskHandler) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start")
	if err != nil {
		response.ValidationError(w, "start", err.Error())
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		response.ValidationError(w, "end", err.Error())
		return
	}

	from := h.taskService.Zone().Today()
	if start != nil {
		from = *start
	}
	dates, err := h.taskService.PreviewTemplate(r.Context(), chi.URLParam(r, "templateID"), from, end)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, nonNil(dates))
}

// WorkflowWarnings handles GET /v1/workflow/warnings.
func (h *TaskHandler) WorkflowWarnings(w http.ResponseWriter, r *http.Request) {
	warnings, err := h.taskService.ValidateWorkflow(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, nonNil(warnings))
}
