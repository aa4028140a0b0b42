package workflow

import (
	"fmt"
	"sort"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

// WarningKind classifies a workflow authoring problem.
type WarningKind string

const (
	WarnMultipleSuccessors WarningKind = "multiple_successors"
	WarnSelfStep           WarningKind = "self_step"
	WarnDanglingReference  WarningKind = "dangling_reference"
	WarnCycle              WarningKind = "cycle"
)

// Warning describes a workflow that still runs but not as authored.
type Warning struct {
	Kind       WarningKind `json:"kind"`
	TemplateID string      `json:"template_id"`
	Message    string      `json:"message"`
}

// Validate reports authoring problems in the step table. Only the first
// outgoing step of a template is ever followed, so extra steps are reported
// rather than chosen between.
func Validate(templates []domain.TaskTemplate, steps []domain.TaskWorkflowStep) []Warning {
	known := make(map[string]bool, len(templates))
	for _, t := range templates {
		known[t.ID] = true
	}

	var warnings []Warning

	outgoing := make(map[string][]domain.TaskWorkflowStep)
	for _, s := range steps {
		outgoing[s.TemplateID] = append(outgoing[s.TemplateID], s)

		if s.TemplateID == s.NextTemplateID {
			warnings = append(warnings, Warning{
				Kind:       WarnSelfStep,
				TemplateID: s.TemplateID,
				Message:    fmt.Sprintf("step %s points template %s at itself", s.ID, s.TemplateID),
			})
		}
		for _, id := range []string{s.TemplateID, s.NextTemplateID} {
			if !known[id] {
				warnings = append(warnings, Warning{
					Kind:       WarnDanglingReference,
					TemplateID: id,
					Message:    fmt.Sprintf("step %s references unknown template %s", s.ID, id),
				})
			}
		}
	}

	ids := make([]string, 0, len(outgoing))
	for id := range outgoing {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if n := len(outgoing[id]); n > 1 {
			warnings = append(warnings, Warning{
				Kind:       WarnMultipleSuccessors,
				TemplateID: id,
				Message: fmt.Sprintf("template %s has %d outgoing steps; only step %s is followed",
					id, n, outgoing[id][0].ID),
			})
		}
	}

	return append(warnings, cycles(steps)...)
}

// cycles follows first successors from every template and reports each
// cycle once, keyed by the first template reached on it.
func cycles(steps []domain.TaskWorkflowStep) []Warning {
	next := successors(steps)

	starts := make([]string, 0, len(next))
	for id := range next {
		starts = append(starts, id)
	}
	sort.Strings(starts)

	var warnings []Warning
	inCycle := make(map[string]bool)
	for _, start := range starts {
		pos := map[string]int{}
		var path []string
		for cur := start; ; {
			if inCycle[cur] {
				break
			}
			if i, seen := pos[cur]; seen {
				loop := path[i:]
				if len(loop) > 1 {
					for _, id := range loop {
						inCycle[id] = true
					}
					warnings = append(warnings, Warning{
						Kind:       WarnCycle,
						TemplateID: loop[0],
						Message:    fmt.Sprintf("templates form a cycle: %v", append(loop, loop[0])),
					})
				}
				break
			}
			pos[cur] = len(path)
			path = append(path, cur)
			step, ok := next[cur]
			if !ok {
				break
			}
			cur = step.NextTemplateID
		}
	}
	return warnings
}
