// Package workflow resolves template chains: template A is followed by
// template B after a delay, and so on.
package workflow

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/JakTech215/crm-app-sub000/internal/calendar"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

// ChainLink is one template in a resolved chain. DelayDays is the delay from
// the previous link and is zero for the root.
type ChainLink struct {
	Template  domain.TaskTemplate
	DelayDays int
}

// ResolveChain returns the full chain, root first, that contains anchorID.
//
// Roots are templates never named as a step's next template, taken in input
// order. Each root is walked forward until a template has no outgoing step,
// a step points at an unknown template, or a template repeats. The first
// walk of length > 1 containing the anchor wins. No match is an empty chain.
func ResolveChain(anchorID string, templates []domain.TaskTemplate, steps []domain.TaskWorkflowStep) []ChainLink {
	byID := make(map[string]domain.TaskTemplate, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}
	next := successors(steps)

	referenced := make(map[string]bool, len(steps))
	for _, s := range steps {
		referenced[s.NextTemplateID] = true
	}

	for _, root := range templates {
		if referenced[root.ID] {
			continue
		}
		chain := walk(root, byID, next)
		if len(chain) < 2 {
			continue
		}
		for _, link := range chain {
			if link.Template.ID == anchorID {
				return chain
			}
		}
	}
	return []ChainLink{}
}

// Successor returns the step that follows templateID. With several outgoing
// steps the first in input order is returned; Validate reports that case.
func Successor(templateID string, steps []domain.TaskWorkflowStep) (domain.TaskWorkflowStep, bool) {
	for _, s := range steps {
		if s.TemplateID == templateID {
			return s, true
		}
	}
	return domain.TaskWorkflowStep{}, false
}

// FollowUpDueDate computes the due date of the task that follows a completion:
// now plus delayDays, then the next template's own due offset, read in zone.
func FollowUpDueDate(now time.Time, delayDays int, offset domain.DueOffset, zone *calendar.Zone) civil.Date {
	local := now.In(zone.Location()).AddDate(0, 0, delayDays)
	return zone.DateOf(offset.Apply(local))
}

func walk(root domain.TaskTemplate, byID map[string]domain.TaskTemplate, next map[string]domain.TaskWorkflowStep) []ChainLink {
	chain := []ChainLink{{Template: root}}
	visited := map[string]bool{root.ID: true}

	current := root.ID
	for {
		step, ok := next[current]
		if !ok || visited[step.NextTemplateID] {
			return chain
		}
		tmpl, ok := byID[step.NextTemplateID]
		if !ok {
			return chain
		}
		chain = append(chain, ChainLink{Template: tmpl, DelayDays: step.DelayDays})
		visited[tmpl.ID] = true
		current = tmpl.ID
	}
}

// successors maps each template to its first outgoing step.
func successors(steps []domain.TaskWorkflowStep) map[string]domain.TaskWorkflowStep {
	next := make(map[string]domain.TaskWorkflowStep, len(steps))
	for _, s := range steps {
		if _, seen := next[s.TemplateID]; !seen {
			next[s.TemplateID] = s
		}
	}
	return next
}
