// Package move connects the move action to the robot's motion gateway.
package move

import (
	"context"
	"fmt"

	"github.com/novabotics/agent-go/pkg/actions"
	"github.com/novabotics/agent-go/pkg/interfaces/motion"
	"github.com/sirupsen/logrus"
)

// DefaultLowBatteryPct is the battery level below which ticks start warning.
const DefaultLowBatteryPct = 15.0

// Connector translates MoveCommands into motion gateway calls. Its tick polls
// the gateway status so the logs carry a live view of pose and battery.
type Connector struct {
	actions.BaseConnector
	client *motion.MotionClient
	logger *logrus.Logger
}

var _ actions.Connector[actions.MoveCommand] = (*Connector)(nil)

// New creates a move connector.
func New(client *motion.MotionClient, logger *logrus.Logger, config *actions.ActionConfig) (*Connector, error) {
	if client == nil {
		return nil, fmt.Errorf("motion client is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Connector{
		BaseConnector: actions.NewBaseConnector(config),
		client:        client,
		logger:        logger,
	}, nil
}

// Connect sends one motion command to the gateway.
func (c *Connector) Connect(ctx context.Context, cmd actions.MoveCommand) error {
	log := c.logger.WithFields(logrus.Fields{
		"connector": "move",
		"dx":        cmd.DX,
		"yaw":       cmd.Yaw,
		"speed":     cmd.Speed,
	})

	req := motion.MoveRequest{
		DX:           cmd.DX,
		Yaw:          cmd.Yaw,
		StartX:       cmd.StartX,
		StartY:       cmd.StartY,
		TurnComplete: cmd.TurnComplete,
		Speed:        cmd.Speed,
	}

	if err := c.client.SendMove(ctx, req); err != nil {
		log.WithError(err).Error("Failed to send move command")
		return fmt.Errorf("failed to send move command: %w", err)
	}

	log.Info("Move command sent")
	return nil
}

// Tick idles for the configured interval, then polls the gateway for status.
// Poll failures are transient and logged rather than returned.
func (c *Connector) Tick(ctx context.Context) error {
	if err := c.BaseConnector.Tick(ctx); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	status, err := c.client.GetStatus(ctx)
	if err != nil {
		c.logger.WithError(err).WithField("connector", "move").Warn("Status poll failed")
		return nil
	}

	log := c.logger.WithFields(logrus.Fields{
		"connector":   "move",
		"state":       status.State,
		"x":           status.Pose.X,
		"y":           status.Pose.Y,
		"heading":     status.Pose.Heading,
		"battery_pct": status.BatteryPct,
	})
	log.Debug("Robot status")

	threshold := DefaultLowBatteryPct
	if cfg := c.Config(); cfg != nil {
		threshold = cfg.GetFloat("low_battery_pct", DefaultLowBatteryPct)
	}
	if status.BatteryPct < threshold {
		log.Warn("Battery below threshold")
	}
	return nil
}
