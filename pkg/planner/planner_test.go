package planner_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/novabotics/agent-go/pkg/actions"
	"github.com/novabotics/agent-go/pkg/agent"
	"github.com/novabotics/agent-go/pkg/llm"
	"github.com/novabotics/agent-go/pkg/planner"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeLLM returns a canned completion and records the prompt it was given.
type fakeLLM struct {
	mu         sync.Mutex
	completion string
	err        error
	prompts    []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.completion, f.err
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type moveConnector struct {
	actions.BaseConnector

	mu     sync.Mutex
	inputs []actions.MoveCommand
}

func (c *moveConnector) Connect(ctx context.Context, input actions.MoveCommand) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputs = append(c.inputs, input)
	return nil
}

func (c *moveConnector) received() []actions.MoveCommand {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]actions.MoveCommand(nil), c.inputs...)
}

var _ = Describe("Processor", func() {
	var (
		robotAgent *agent.Agent
		connector  *moveConnector
		model      *fakeLLM
		proc       *planner.Processor
	)

	BeforeEach(func() {
		var err error
		robotAgent, err = agent.New(agent.Config{})
		Expect(err).NotTo(HaveOccurred())

		connector = &moveConnector{BaseConnector: actions.NewBaseConnector(nil)}
		action, err := actions.NewAgentAction[actions.MoveCommand](
			"move",
			"move: drive the robot. Args: dx, yaw, speed",
			connector,
			false,
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(robotAgent.RegisterAction(action)).To(Succeed())

		model = &fakeLLM{completion: `{"action": "move", "args": {"dx": 1.0, "yaw": 0.5}}`}

		proc, err = planner.NewProcessor(planner.Config{
			LLM:   model,
			Agent: robotAgent,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewProcessor", func() {
		It("requires an LLM and an agent", func() {
			_, err := planner.NewProcessor(planner.Config{Agent: robotAgent})
			Expect(err).To(HaveOccurred())

			_, err = planner.NewProcessor(planner.Config{LLM: model})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Plan", func() {
		It("produces a decision from the model completion", func() {
			decision, err := proc.Plan(context.Background(), "go to the charging dock")
			Expect(err).NotTo(HaveOccurred())

			Expect(decision.ID).NotTo(BeEmpty())
			Expect(decision.Action).To(Equal("move"))
			Expect(decision.Goal).To(Equal("go to the charging dock"))
			Expect(decision.Args).To(HaveKey("dx"))
		})

		It("offers only non-excluded actions in the prompt", func() {
			hidden, err := actions.NewAgentAction[actions.MoveCommand](
				"pay", "pay: transfer funds", &moveConnector{}, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(robotAgent.RegisterAction(hidden)).To(Succeed())

			_, err = proc.Plan(context.Background(), "go forward")
			Expect(err).NotTo(HaveOccurred())

			Expect(model.lastPrompt()).To(ContainSubstring("move: drive the robot"))
			// Neither the label nor the bare name may reach the model,
			// so the valid-choice list is checked too.
			Expect(model.lastPrompt()).NotTo(ContainSubstring("pay"))
			Expect(model.lastPrompt()).To(ContainSubstring(`"<one of [move]>"`))
			Expect(model.lastPrompt()).To(ContainSubstring("go forward"))
		})

		It("fails when the model output has no decision", func() {
			model.completion = "I would rather not."

			_, err := proc.Plan(context.Background(), "go forward")
			Expect(err).To(HaveOccurred())

			var parseErr *planner.ParseError
			Expect(errors.As(err, &parseErr)).To(BeTrue())
		})

		It("propagates model failures", func() {
			model.err = errors.New("rate limited")

			_, err := proc.Plan(context.Background(), "go forward")
			Expect(err).To(MatchError(ContainSubstring("rate limited")))
		})

		It("fails when no actions are available", func() {
			empty, err := agent.New(agent.Config{})
			Expect(err).NotTo(HaveOccurred())

			emptyProc, err := planner.NewProcessor(planner.Config{LLM: model, Agent: empty})
			Expect(err).NotTo(HaveOccurred())

			_, err = emptyProc.Plan(context.Background(), "go forward")
			Expect(err).To(MatchError(ContainSubstring("no actions available")))
		})
	})

	Describe("Execute", func() {
		It("dispatches the decided action with decoded args", func() {
			decision, err := proc.Plan(context.Background(), "go forward one meter")
			Expect(err).NotTo(HaveOccurred())
			Expect(proc.Execute(context.Background(), decision)).To(Succeed())

			received := connector.received()
			Expect(received).To(HaveLen(1))
			Expect(received[0].DX).To(Equal(1.0))
			Expect(received[0].Yaw).To(Equal(0.5))
		})

		It("fails when the decision names an unknown action", func() {
			err := proc.Execute(context.Background(), &planner.Decision{
				ID:     "d-1",
				Action: "teleport",
				Args:   map[string]any{},
			})
			Expect(err).To(MatchError(ContainSubstring("not registered")))
		})
	})
})

var _ = Describe("ParseDecision", func() {
	It("tolerates prose around the JSON object", func() {
		decision, err := planner.ParseDecision(
			"Here is my decision:\n{\"action\": \"speak\", \"args\": {\"text\": \"coming through\"}}\nDone.")
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Action).To(Equal("speak"))
		Expect(decision.Args).To(HaveKeyWithValue("text", "coming through"))
		Expect(decision.CreatedAt).To(BeTemporally("~", time.Now(), time.Minute))
	})

	It("defaults args to an empty map", func() {
		decision, err := planner.ParseDecision(`{"action": "halt"}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Args).NotTo(BeNil())
	})

	It("rejects output without an action field", func() {
		_, err := planner.ParseDecision(`{"args": {}}`)

		var parseErr *planner.ParseError
		Expect(errors.As(err, &parseErr)).To(BeTrue())
	})

	It("rejects malformed JSON", func() {
		_, err := planner.ParseDecision(`{"action": "move",`)

		var parseErr *planner.ParseError
		Expect(errors.As(err, &parseErr)).To(BeTrue())
	})
})
