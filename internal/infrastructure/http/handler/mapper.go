package handler

import (
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/civil"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
	"github.com/JakTech215/crm-app-sub000/internal/gantt"
	"github.com/JakTech215/crm-app-sub000/internal/ptr"
	"github.com/JakTech215/crm-app-sub000/internal/workflow"
)

// === Requests ===

type createTaskRequest struct {
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	StartDate           *civil.Date `json:"start_date"`
	DueDate             *civil.Date `json:"due_date"`
	IsMilestone         bool        `json:"is_milestone"`
	IsRecurring         bool        `json:"is_recurring"`
	RecurrenceFrequency *int        `json:"recurrence_frequency"`
	RecurrenceUnit      *string     `json:"recurrence_unit"`
	TemplateID          *string     `json:"template_id"`
	ParentTaskID        *string     `json:"parent_task_id"`
	TaskTypeID          *string     `json:"task_type_id"`
	ContactID           *string     `json:"contact_id"`
	Status              string      `json:"status"`
	Priority            string      `json:"priority"`
	AssigneeIDs         []string    `json:"assignee_ids"`
	ProjectIDs          []string    `json:"project_ids"`
}

func (req createTaskRequest) toDomain() (*domain.Task, error) {
	t := &domain.Task{
		Title:               req.Title,
		Description:         req.Description,
		StartDate:           req.StartDate,
		DueDate:             req.DueDate,
		IsMilestone:         req.IsMilestone,
		IsRecurring:         req.IsRecurring,
		RecurrenceFrequency: req.RecurrenceFrequency,
		TemplateID:          req.TemplateID,
		ParentTaskID:        req.ParentTaskID,
		TaskTypeID:          req.TaskTypeID,
		ContactID:           req.ContactID,
		Status:              domain.TaskStatus(req.Status),
		Priority:            domain.TaskPriority(req.Priority),
		AssigneeIDs:         req.AssigneeIDs,
		ProjectIDs:          req.ProjectIDs,
	}
	if req.RecurrenceUnit != nil {
		unit, err := domain.NewRecurrenceUnit(*req.RecurrenceUnit)
		if err != nil {
			return nil, err
		}
		t.RecurrenceUnit = &unit
	}
	return t, nil
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type addDependencyRequest struct {
	DependsOnTaskID string `json:"depends_on_task_id"`
	DependencyType  string `json:"dependency_type"`
	LagDays         int    `json:"lag_days"`
}

type seriesRequest struct {
	From  *civil.Date `json:"from"`
	Until civil.Date  `json:"until"`
}

// === Responses ===

type taskResponse struct {
	ID                     string      `json:"id"`
	Title                  string      `json:"title"`
	Description            string      `json:"description,omitempty"`
	StartDate              *civil.Date `json:"start_date"`
	DueDate                *civil.Date `json:"due_date"`
	IsMilestone            bool        `json:"is_milestone"`
	IsRecurring            bool        `json:"is_recurring"`
	RecurrenceFrequency    *int        `json:"recurrence_frequency,omitempty"`
	RecurrenceUnit         string      `json:"recurrence_unit,omitempty"`
	RecurrenceSourceTaskID *string     `json:"recurrence_source_task_id,omitempty"`
	TemplateID             *string     `json:"template_id,omitempty"`
	ParentTaskID           *string     `json:"parent_task_id,omitempty"`
	TaskTypeID             *string     `json:"task_type_id,omitempty"`
	ContactID              *string     `json:"contact_id,omitempty"`
	Status                 string      `json:"status"`
	Priority               string      `json:"priority"`
	AssigneeIDs            []string    `json:"assignee_ids"`
	ProjectIDs             []string    `json:"project_ids"`
	CreatedBy              string      `json:"created_by,omitempty"`
	CompletedAt            *time.Time  `json:"completed_at,omitempty"`
	CreatedAt              time.Time   `json:"created_at"`
	UpdatedAt              time.Time   `json:"updated_at"`
}

func taskToResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:                     t.ID,
		Title:                  t.Title,
		Description:            t.Description,
		StartDate:              t.StartDate,
		DueDate:                t.DueDate,
		IsMilestone:            t.IsMilestone,
		IsRecurring:            t.IsRecurring,
		RecurrenceFrequency:    t.RecurrenceFrequency,
		RecurrenceUnit:         ptr.ToString(t.RecurrenceUnit),
		RecurrenceSourceTaskID: t.RecurrenceSourceTaskID,
		TemplateID:             t.TemplateID,
		ParentTaskID:           t.ParentTaskID,
		TaskTypeID:             t.TaskTypeID,
		ContactID:              t.ContactID,
		Status:                 string(t.Status),
		Priority:               string(t.Priority),
		AssigneeIDs:            nonNil(t.AssigneeIDs),
		ProjectIDs:             nonNil(t.ProjectIDs),
		CreatedBy:              ptr.Deref(t.CreatedBy, ""),
		CompletedAt:            t.CompletedAt,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
}

func tasksToResponse(tasks []domain.Task) []taskResponse {
	out := make([]taskResponse, len(tasks))
	for i := range tasks {
		out[i] = taskToResponse(&tasks[i])
	}
	return out
}

type listTasksResponse struct {
	Tasks         []taskResponse `json:"tasks"`
	NextPageToken *string        `json:"next_page_token,omitempty"`
}

type statusChangeResponse struct {
	Task     taskResponse  `json:"task"`
	FollowUp *taskResponse `json:"follow_up,omitempty"`
	Warnings []string      `json:"warnings"`
}

func statusChangeToResponse(res *task.StatusChangeResult) statusChangeResponse {
	out := statusChangeResponse{Task: taskToResponse(res.Task), Warnings: nonNil(res.Warnings)}
	if res.FollowUp != nil {
		f := taskToResponse(res.FollowUp)
		out.FollowUp = &f
	}
	return out
}

type seriesResponse struct {
	Source      taskResponse   `json:"source"`
	Occurrences []taskResponse `json:"occurrences"`
}

type dependencyResponse struct {
	ID              string    `json:"id"`
	TaskID          string    `json:"task_id"`
	DependsOnTaskID string    `json:"depends_on_task_id"`
	DependencyType  string    `json:"dependency_type"`
	LagDays         int       `json:"lag_days"`
	CreatedAt       time.Time `json:"created_at"`
}

func dependencyToResponse(d domain.TaskDependency) dependencyResponse {
	return dependencyResponse{
		ID:              d.ID,
		TaskID:          d.TaskID,
		DependsOnTaskID: d.DependsOnTaskID,
		DependencyType:  string(d.Type),
		LagDays:         d.LagDays,
		CreatedAt:       d.CreatedAt,
	}
}

type chainLinkResponse struct {
	TemplateID   string `json:"template_id"`
	Name         string `json:"name"`
	DefaultTitle string `json:"default_title"`
	DelayDays    int    `json:"delay_days"`
}

func chainToResponse(chain []workflow.ChainLink) []chainLinkResponse {
	out := make([]chainLinkResponse, len(chain))
	for i, link := range chain {
		out[i] = chainLinkResponse{
			TemplateID:   link.Template.ID,
			Name:         link.Template.Name,
			DefaultTitle: link.Template.DefaultTitle,
			DelayDays:    link.DelayDays,
		}
	}
	return out
}

type ganttTaskResponse struct {
	taskResponse
	ProjectNames  []string `json:"project_names"`
	AssigneeNames []string `json:"assignee_names"`
	ContactName   string   `json:"contact_name,omitempty"`
}

type ganttRowResponse struct {
	Kind    gantt.RowKind      `json:"kind"`
	Group   string             `json:"group"`
	GroupID string             `json:"group_id,omitempty"`
	Y       float64            `json:"y"`
	Task    *ganttTaskResponse `json:"task,omitempty"`
	Bar     *gantt.Bar         `json:"bar,omitempty"`
}

type ganttResponse struct {
	Timeline  *gantt.Timeline    `json:"timeline"`
	Rows      []ganttRowResponse `json:"rows"`
	Arrows    []gantt.Arrow      `json:"arrows"`
	Height    float64            `json:"height"`
	TaskCount int                `json:"task_count"`
	Warnings  []string           `json:"warnings"`
}

func ganttToResponse(res *task.GanttResult) ganttResponse {
	l := res.Layout
	out := ganttResponse{
		Timeline:  l.Timeline,
		Rows:      make([]ganttRowResponse, len(l.Rows)),
		Arrows:    l.Arrows,
		Height:    l.Height,
		TaskCount: l.TaskCount,
		Warnings:  nonNil(res.Warnings),
	}
	for i, row := range l.Rows {
		out.Rows[i] = ganttRowResponse{Kind: row.Kind, Group: row.Group, GroupID: row.GroupID, Y: row.Y, Bar: row.Bar}
		if row.Task != nil {
			out.Rows[i].Task = &ganttTaskResponse{
				taskResponse:  taskToResponse(&row.Task.Task),
				ProjectNames:  nonNil(row.Task.ProjectNames),
				AssigneeNames: nonNil(row.Task.AssigneeNames),
				ContactName:   row.Task.ContactName,
			}
		}
	}
	return out
}

// === Query parameters ===

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (*civil.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD", name)
	}
	return &d, nil
}

func queryString(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
