package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/novabotics/agent-go/internal/personality/traits"
	"github.com/novabotics/agent-go/pkg/llm"
	"github.com/sirupsen/logrus"
)

// NewProcessor creates a planner bound to an agent's action registry.
func NewProcessor(config Config) (*Processor, error) {
	if config.LLM == nil {
		return nil, fmt.Errorf("LLM is required")
	}
	if config.Agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}

	return &Processor{
		logger: config.Logger,
		llm:    config.LLM,
		agent:  config.Agent,
	}, nil
}

// Plan asks the language model to choose one action for the goal. Only
// actions not excluded from prompt construction are offered.
func (p *Processor) Plan(ctx context.Context, goal string) (*Decision, error) {
	labels := p.agent.PromptActions()
	if len(labels) == 0 {
		return nil, fmt.Errorf("no actions available for planning")
	}

	// Excluded actions stay out of the valid-choice list too, not just the
	// label block; the model must never see them.
	names := p.agent.PromptActionNames()
	prompt := traits.NewAgentPrompt(names, strings.Join(labels, "\n"))
	formatted, err := prompt.Format(map[string]any{
		"actions":      strings.Join(labels, "\n"),
		"action_names": strings.Join(names, ", "),
		"input":        goal,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format prompt: %w", err)
	}

	completion, err := p.llm.Generate(ctx, formatted,
		llm.WithTemperature(0.2),
		llm.WithMaxTokens(500),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate decision: %w", err)
	}

	decision, err := ParseDecision(completion)
	if err != nil {
		return nil, err
	}
	decision.Goal = goal

	p.logger.WithFields(logrus.Fields{
		"decision_id": decision.ID,
		"action":      decision.Action,
		"goal":        goal,
	}).Info("Planned action")

	return decision, nil
}

// Execute dispatches a planned decision through the agent.
func (p *Processor) Execute(ctx context.Context, decision *Decision) error {
	log := p.logger.WithFields(logrus.Fields{
		"decision_id": decision.ID,
		"action":      decision.Action,
	})

	if err := p.agent.DispatchArgs(ctx, decision.Action, decision.Args); err != nil {
		log.WithError(err).Error("Decision dispatch failed")
		return fmt.Errorf("failed to execute decision %s: %w", decision.ID, err)
	}

	log.Info("Decision executed")
	return nil
}

// PlanAndExecute runs one full plan-then-dispatch cycle for a goal.
func (p *Processor) PlanAndExecute(ctx context.Context, goal string) (*Decision, error) {
	decision, err := p.Plan(ctx, goal)
	if err != nil {
		return nil, err
	}
	if err := p.Execute(ctx, decision); err != nil {
		return decision, err
	}
	return decision, nil
}

// ParseDecision reads a model completion into a Decision. The completion must
// contain a JSON object with an "action" string and an optional "args"
// object; surrounding prose is tolerated.
func ParseDecision(raw string) (*Decision, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &ParseError{Raw: raw, Reason: "no JSON object in completion"}
	}

	var body struct {
		Action string         `json:"action"`
		Args   map[string]any `json:"args"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &body); err != nil {
		return nil, &ParseError{Raw: raw, Reason: err.Error()}
	}
	if body.Action == "" {
		return nil, &ParseError{Raw: raw, Reason: "missing action field"}
	}
	if body.Args == nil {
		body.Args = make(map[string]any)
	}

	return &Decision{
		ID:        uuid.New().String(),
		Action:    body.Action,
		Args:      body.Args,
		Raw:       raw,
		CreatedAt: time.Now(),
	}, nil
}
