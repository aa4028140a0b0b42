package domain

// Command is a side effect produced by a status transition.
// The application layer executes commands; this package only decides them.
type Command interface {
	command()
}

// SetCompletedAt stamps the completion instant on the task.
type SetCompletedAt struct{}

// ClearCompletedAt removes a previous completion instant.
type ClearCompletedAt struct{}

// CreateFollowUpTask asks for the next task in the template's workflow chain.
type CreateFollowUpTask struct {
	ParentTaskID string
	TemplateID   string
}

func (SetCompletedAt) command()     {}
func (ClearCompletedAt) command()   {}
func (CreateFollowUpTask) command() {}

// OnStatusChange returns the commands implied by moving task from old to next.
//
// Entering completed sets completed_at and, when the task came from a template,
// requests a follow-up. Leaving completed clears completed_at. Re-saving the
// same status produces nothing.
func OnStatusChange(old, next TaskStatus, task Task) []Command {
	if old == next {
		return nil
	}

	var cmds []Command
	switch {
	case next == TaskStatusCompleted:
		cmds = append(cmds, SetCompletedAt{})
		if task.TemplateID != nil {
			cmds = append(cmds, CreateFollowUpTask{
				ParentTaskID: task.ID,
				TemplateID:   *task.TemplateID,
			})
		}
	case old == TaskStatusCompleted:
		cmds = append(cmds, ClearCompletedAt{})
	}
	return cmds
}
