package actions

import (
	"context"
	"time"
)

// DefaultTickInterval is how long a connector idles between maintenance
// passes when its configuration does not say otherwise.
const DefaultTickInterval = 60 * time.Second

// Connector translates action commands into hardware-specific or
// service-specific operations. Every connector must supply Connect; Tick has
// a default implementation via BaseConnector.
type Connector[I any] interface {
	// Connect executes the action using the provided input
	Connect(ctx context.Context, input I) error
	// Tick is the periodic maintenance hook for the connector. It is
	// expected to occupy the caller for one maintenance interval and
	// return early when ctx is cancelled. A non-nil error stops the
	// agent's run loop.
	Tick(ctx context.Context) error
}

// Interface pairs the input value an action accepts with the output value it
// produces.
type Interface[I, O any] struct {
	Input  I
	Output O
}

// BaseConnector carries the shared connector state and the default Tick
// behavior. Concrete connectors embed it and supply Connect themselves;
// BaseConnector deliberately does not implement Connect, so embedding it is
// not enough to satisfy the Connector interface.
type BaseConnector struct {
	config *ActionConfig
}

// NewBaseConnector creates a BaseConnector with the given configuration.
// A nil config is allowed and means all defaults.
func NewBaseConnector(config *ActionConfig) BaseConnector {
	return BaseConnector{config: config}
}

// Config returns the connector configuration, which may be nil.
func (b *BaseConnector) Config() *ActionConfig {
	return b.config
}

// TickInterval returns the configured "tick_interval" or DefaultTickInterval.
func (b *BaseConnector) TickInterval() time.Duration {
	if b.config != nil {
		if d := b.config.GetDuration("tick_interval", 0); d > 0 {
			return d
		}
	}
	return DefaultTickInterval
}

// Tick blocks for one tick interval or until ctx is cancelled, whichever
// comes first. Connectors with real polling or maintenance work override it.
func (b *BaseConnector) Tick(ctx context.Context) error {
	timer := time.NewTimer(b.TickInterval())
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
	return nil
}
