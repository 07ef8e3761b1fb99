package prompts

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

// AgentBasePromptConfig holds the configuration for agent prompts
type AgentBasePromptConfig struct {
	SystemPrompt     string
	ActionNames      []string
	AvailableActions string
	Sections         map[string]string
}

// NewAgentBasePrompt creates a new prompt template for the agent
func NewAgentBasePrompt(config AgentBasePromptConfig) prompts.PromptTemplate {
	if config.SystemPrompt == "" {
		config.SystemPrompt = buildDefaultPrompt(config)
	}

	return prompts.NewPromptTemplate(
		config.SystemPrompt,
		[]string{"actions", "action_names", "input"},
	)
}

// buildDefaultPrompt constructs the prompt from config sections
func buildDefaultPrompt(config AgentBasePromptConfig) string {
	var promptBuilder strings.Builder

	promptBuilder.WriteString("You are the onboard AI of an autonomous mobile robot. Your character and operating rules are:\n\n")

	// Add numbered sections
	sections := []string{"Personality", "Operating Style", "Primary Goal", "Safety Considerations", "Output Constraints"}
	for i, section := range sections {
		content, exists := config.Sections[section]
		if exists {
			promptBuilder.WriteString(fmt.Sprintf("%d. %s:\n%s\n\n", i+1, section, content))
		}
	}

	// Add actions section
	promptBuilder.WriteString("You can perform the following actions:\n\n{{.actions}}\n\n")

	// Add format section
	promptBuilder.WriteString(`Respond with a single JSON object and nothing else:

{"action": "<one of [{{.action_names}}]>", "args": {<arguments for the action>}}

Goal: {{.input}}`)

	return promptBuilder.String()
}
