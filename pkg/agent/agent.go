package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/novabotics/agent-go/pkg/actions"
	"github.com/novabotics/agent-go/pkg/memory"
	"github.com/sirupsen/logrus"
)

// Agent owns the registry of actions and drives each registered connector's
// tick loop while the agent runs. Commands reach connectors through Dispatch.
type Agent struct {
	logger  *logrus.Logger
	store   *memory.CommandStore
	actions map[string]*registeredAction
	done    chan struct{}
	mu      sync.RWMutex
}

// registeredAction pairs an action with the stop channel its tick loop
// watches. RemoveAction closes the channel so the loop ends without waiting
// for the whole agent to shut down.
type registeredAction struct {
	action actions.Action
	stop   chan struct{}
}

// Config holds the configuration for the Agent.
type Config struct {
	Logger *logrus.Logger
	// Store is optional; when set, every dispatched command is recorded
	Store *memory.CommandStore
}

// New creates a new Agent instance.
func New(config Config) (*Agent, error) {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}

	return &Agent{
		logger:  config.Logger,
		store:   config.Store,
		actions: make(map[string]*registeredAction),
		done:    make(chan struct{}),
	}, nil
}

// RegisterAction adds a new action to the agent
func (a *Agent) RegisterAction(action actions.Action) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	name := action.Name()
	if _, exists := a.actions[name]; exists {
		return fmt.Errorf("action %s already registered", name)
	}

	a.actions[name] = &registeredAction{
		action: action,
		stop:   make(chan struct{}),
	}
	return nil
}

// RemoveAction stops the action's tick loop and unregisters it.
func (a *Agent) RemoveAction(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if reg, ok := a.actions[name]; ok {
		close(reg.stop)
		delete(a.actions, name)
	}
}

// Action returns the registered action with the given name.
func (a *Agent) Action(name string) (actions.Action, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	reg, ok := a.actions[name]
	if !ok {
		return nil, false
	}
	return reg.action, true
}

// ActionNames returns the names of all registered actions, sorted.
func (a *Agent) ActionNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.actions))
	for name := range a.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PromptActionNames returns the names of every action that is not excluded
// from prompt construction, sorted. Excluded actions must never reach the
// language model, not even as a bare name.
func (a *Agent) PromptActionNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.promptNames()
}

// PromptActions returns the LLM labels of every action that is not excluded
// from prompt construction, sorted by action name so prompts are stable.
func (a *Agent) PromptActions() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := a.promptNames()
	labels := make([]string, 0, len(names))
	for _, name := range names {
		labels = append(labels, a.actions[name].action.LLMLabel())
	}
	return labels
}

// promptNames assumes the caller holds at least a read lock.
func (a *Agent) promptNames() []string {
	names := make([]string, 0, len(a.actions))
	for name, reg := range a.actions {
		if reg.action.ExcludedFromPrompt() {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run drives the tick loop of every registered action until ctx is cancelled,
// Stop is called, or a tick loop reports an error. Each action ticks in its
// own goroutine so a slow connector never stalls the others; the first tick
// failure stops them all.
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("Starting agent with registered actions")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	a.mu.RLock()
	errChan := make(chan error, len(a.actions))
	for name, reg := range a.actions {
		wg.Add(1)
		go func(name string, reg *registeredAction) {
			defer wg.Done()

			a.logger.WithField("action", name).Info("Starting tick loop")
			if err := a.runTickLoop(runCtx, reg); err != nil {
				a.logger.WithError(err).WithField("action", name).Error("Tick loop failed")
				errChan <- fmt.Errorf("action %s failed: %w", name, err)
			}
			a.logger.WithField("action", name).Info("Tick loop stopped")
		}(name, reg)
	}
	a.mu.RUnlock()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Context cancelled, stopping all actions")
		runErr = ctx.Err()
	case <-a.done:
		a.logger.Info("Agent stopped")
	case err := <-errChan:
		a.logger.WithError(err).Error("Action error occurred, stopping all actions")
		runErr = err
	}

	cancel()
	wg.Wait()
	return runErr
}

// Stop ends the agent's run loop.
func (a *Agent) Stop() {
	select {
	case <-a.done:
	default:
		close(a.done)
	}
}

// runTickLoop ticks the action until its stop channel closes or ctx is
// cancelled. Each loop gets its own context so removal and shutdown interrupt
// a tick that is mid-interval.
func (a *Agent) runTickLoop(ctx context.Context, reg *registeredAction) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-reg.stop:
			cancel()
		case <-loopCtx.Done():
		}
	}()

	for {
		select {
		case <-loopCtx.Done():
			return nil
		default:
		}
		if err := reg.action.Tick(loopCtx); err != nil {
			if loopCtx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Dispatch routes a payload to the named action's connector and records the
// command when a store is configured.
func (a *Agent) Dispatch(ctx context.Context, name string, payload any) error {
	action, ok := a.Action(name)
	if !ok {
		return fmt.Errorf("action %s is not registered", name)
	}

	log := a.logger.WithFields(logrus.Fields{
		"action":  name,
		"payload": fmt.Sprintf("%+v", payload),
	})

	var eventID string
	if a.store != nil {
		event, err := a.store.RecordDispatch(ctx, name, payload)
		if err != nil {
			log.WithError(err).Warn("Failed to record dispatch")
		} else {
			eventID = event.ID
			log = log.WithField("command_id", eventID)
		}
	}

	log.Info("Dispatching command")

	if err := action.Dispatch(ctx, payload); err != nil {
		if a.store != nil && eventID != "" {
			if storeErr := a.store.MarkFailed(ctx, eventID, err); storeErr != nil {
				log.WithError(storeErr).Warn("Failed to record command failure")
			}
		}
		return fmt.Errorf("action %s dispatch failed: %w", name, err)
	}

	if a.store != nil && eventID != "" {
		if err := a.store.MarkCompleted(ctx, eventID); err != nil {
			log.WithError(err).Warn("Failed to record command completion")
		}
	}

	return nil
}

// DispatchArgs decodes a loosely-typed argument map into the named action's
// input type and dispatches it. Planner decisions arrive through this path.
func (a *Agent) DispatchArgs(ctx context.Context, name string, args map[string]any) error {
	action, ok := a.Action(name)
	if !ok {
		return fmt.Errorf("action %s is not registered", name)
	}

	payload, err := action.DecodeArgs(args)
	if err != nil {
		return err
	}
	return a.Dispatch(ctx, name, payload)
}
