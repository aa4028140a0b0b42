package task

import (
	"context"
	"fmt"

	"github.com/JakTech215/crm-app-sub000/internal/workflow"
)

// ResolveChain returns the template chain containing templateID, root first.
// A template outside any chain yields an empty slice.
func (s *Service) ResolveChain(ctx context.Context, templateID string) ([]workflow.ChainLink, error) {
	if _, err := s.repo.FindTemplateByID(ctx, templateID); err != nil {
		return nil, err
	}
	templates, err := s.repo.FindTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	steps, err := s.repo.FindWorkflowSteps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow steps: %w", err)
	}
	return workflow.ResolveChain(templateID, templates, steps), nil
}

// ValidateWorkflow reports authoring problems across all workflow steps.
func (s *Service) ValidateWorkflow(ctx context.Context) ([]workflow.Warning, error) {
	templates, err := s.repo.FindTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	steps, err := s.repo.FindWorkflowSteps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow steps: %w", err)
	}
	warnings := workflow.Validate(templates, steps)
	if warnings == nil {
		warnings = []workflow.Warning{}
	}
	return warnings, nil
}
