package domain

import "cloud.google.com/go/civil"

// TaskFilter narrows a task listing. Nil or empty fields apply no filter.
//
// Common use cases:
//   - "Tasks visible in a Gantt window": HasDates=true, StartsBefore=windowEnd, DueAfter=windowStart
//   - "Children of a completed task": ParentTaskID=X
//   - "A recurring series": RecurrenceSourceTaskID=X
type TaskFilter struct {
	IDs                    []string
	Statuses               []TaskStatus
	ProjectID              *string
	AssigneeID             *string
	ParentTaskID           *string
	RecurrenceSourceTaskID *string
	TemplateID             *string

	// HasDates restricts to tasks with both start and due dates.
	HasDates     bool
	StartsBefore *civil.Date // start_date <= value
	DueAfter     *civil.Date // due_date >= value

	Limit  int // 0 = store default
	Offset int
}

// Names holds the related rows needed to denormalize tasks for display.
type Names struct {
	Employees map[string]Employee
	Projects  map[string]Project
	Contacts  map[string]Contact
}

// Denormalize resolves the task's related ids into names. Ids with no
// matching row are skipped.
func (n Names) Denormalize(t Task) GanttTask {
	gt := GanttTask{Task: t}
	for _, id := range t.ProjectIDs {
		if p, ok := n.Projects[id]; ok {
			gt.Projects = append(gt.Projects, p)
			gt.ProjectNames = append(gt.ProjectNames, p.Name)
		}
	}
	for _, id := range t.AssigneeIDs {
		if e, ok := n.Employees[id]; ok {
			gt.AssigneeNames = append(gt.AssigneeNames, e.FullName())
		}
	}
	if t.ContactID != nil {
		if c, ok := n.Contacts[*t.ContactID]; ok {
			gt.ContactName = c.FullName()
		}
	}
	return gt
}
