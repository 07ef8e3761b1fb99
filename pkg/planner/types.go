package planner

import (
	"fmt"
	"time"

	"github.com/novabotics/agent-go/pkg/agent"
	"github.com/novabotics/agent-go/pkg/llm"
	"github.com/sirupsen/logrus"
)

// Decision is one action choice produced by the language model for a goal.
type Decision struct {
	ID        string
	Goal      string
	Action    string
	Args      map[string]any
	Raw       string
	CreatedAt time.Time
}

// ParseError reports language model output that could not be read as a
// decision.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable decision: %s", e.Reason)
}

// Config holds the configuration for the planner.
type Config struct {
	Logger *logrus.Logger
	LLM    llm.LLM
	Agent  *agent.Agent
}

// Processor turns goals into dispatched actions using a language model.
type Processor struct {
	logger *logrus.Logger
	llm    llm.LLM
	agent  *agent.Agent
}
