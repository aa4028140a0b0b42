package task

import "fmt"

// Step names reported by StepError.
const (
	StepRemoveDependencies = "remove_dependencies"
	StepRemoveAssignees    = "remove_assignees"
	StepRemoveProjects     = "remove_projects"
	StepDetachChildren     = "detach_children"
	StepDeleteTask         = "delete_task"

	StepUpdateSource  = "update_source"
	StepInsertTask    = "insert_task"
	StepLinkAssignees = "link_assignees"
	StepLinkProjects  = "link_projects"
)

// StepError reports which step of a multi-step operation failed.
// Steps before it have already been applied and are not undone.
type StepError struct {
	Op     string // delete_task, materialize_series, create_task
	Step   string
	TaskID string
	Done   int // steps that completed before the failure
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step %s failed for task %s after %d completed steps: %v",
		e.Op, e.Step, e.TaskID, e.Done, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
