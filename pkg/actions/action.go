package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
)

// Action is the runtime view of a registered agent action. It erases the
// connector's input type so the agent can hold heterogeneous actions in one
// registry; the generic AgentAction below is the only implementation.
type Action interface {
	// Name returns the unique identifier for this action
	Name() string
	// LLMLabel returns the label used when presenting the action to a
	// language model
	LLMLabel() string
	// ExcludedFromPrompt reports whether the action is hidden from prompt
	// construction
	ExcludedFromPrompt() bool
	// InputType returns the input type the action's connector accepts
	InputType() reflect.Type
	// DecodeArgs converts loosely-typed arguments (as produced by an LLM
	// decision) into the connector's input type
	DecodeArgs(args map[string]any) (any, error)
	// Dispatch routes a payload to the action's connector
	Dispatch(ctx context.Context, payload any) error
	// Tick runs one maintenance pass of the action's connector
	Tick(ctx context.Context) error
}

// InputTypeError reports a dispatched payload whose type does not match the
// action's declared input type.
type InputTypeError struct {
	Action string
	Want   reflect.Type
	Got    any
}

func (e *InputTypeError) Error() string {
	return fmt.Sprintf("action %s expects input of type %s, got %T", e.Action, e.Want, e.Got)
}

// AgentAction ties together an action's name, its LLM-facing label, the
// input type it expects, the connector that performs it, and whether it is
// hidden from prompt construction.
type AgentAction[I any] struct {
	name              string
	llmLabel          string
	connector         Connector[I]
	excludeFromPrompt bool
}

// NewAgentAction creates an AgentAction for the given connector.
func NewAgentAction[I any](name, llmLabel string, connector Connector[I], excludeFromPrompt bool) (*AgentAction[I], error) {
	if name == "" {
		return nil, fmt.Errorf("action name is required")
	}
	if connector == nil {
		return nil, fmt.Errorf("action %s requires a connector", name)
	}
	if llmLabel == "" {
		llmLabel = name
	}

	return &AgentAction[I]{
		name:              name,
		llmLabel:          llmLabel,
		connector:         connector,
		excludeFromPrompt: excludeFromPrompt,
	}, nil
}

// Name returns the unique identifier for this action.
func (a *AgentAction[I]) Name() string {
	return a.name
}

// LLMLabel returns the label presented to the language model.
func (a *AgentAction[I]) LLMLabel() string {
	return a.llmLabel
}

// ExcludedFromPrompt reports whether the action is hidden from prompts.
func (a *AgentAction[I]) ExcludedFromPrompt() bool {
	return a.excludeFromPrompt
}

// Connector returns the typed connector backing this action.
func (a *AgentAction[I]) Connector() Connector[I] {
	return a.connector
}

// InputType returns the input type the connector accepts.
func (a *AgentAction[I]) InputType() reflect.Type {
	return reflect.TypeOf((*I)(nil)).Elem()
}

// DecodeArgs converts a loosely-typed argument map into the action's input
// type via a JSON round trip, so planner decisions can be dispatched without
// per-action decoding code.
func (a *AgentAction[I]) DecodeArgs(args map[string]any) (any, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode args for action %s: %w", a.name, err)
	}

	var input I
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, fmt.Errorf("failed to decode args for action %s: %w", a.name, err)
	}
	return input, nil
}

// Dispatch executes the action's connector with the given payload. The
// payload must be assignable to the action's input type.
func (a *AgentAction[I]) Dispatch(ctx context.Context, payload any) error {
	input, ok := payload.(I)
	if !ok {
		return &InputTypeError{
			Action: a.name,
			Want:   a.InputType(),
			Got:    payload,
		}
	}
	return a.connector.Connect(ctx, input)
}

// Tick runs one maintenance pass of the connector.
func (a *AgentAction[I]) Tick(ctx context.Context) error {
	return a.connector.Tick(ctx)
}
