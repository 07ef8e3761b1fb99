package agentconfig

import (
	"time"

	"github.com/novabotics/agent-go/pkg/actions"
	"github.com/novabotics/agent-go/pkg/connectors/move"
	"github.com/novabotics/agent-go/pkg/connectors/payment"
	"github.com/novabotics/agent-go/pkg/connectors/speech"
	"github.com/novabotics/agent-go/pkg/interfaces/motion"
	"github.com/novabotics/agent-go/pkg/wallet"
	"github.com/sirupsen/logrus"
)

type ActionConfig struct {
	MotionClient *motion.MotionClient
	// Wallet is optional; the pay action is only registered when it is set
	Wallet *wallet.Wallet
	Logger *logrus.Logger
}

// ConfigureActions sets up all agent actions
func ConfigureActions(config ActionConfig) ([]actions.Action, error) {
	moveConnector, err := move.New(config.MotionClient, config.Logger, actions.NewActionConfig(map[string]any{
		"tick_interval":   30 * time.Second,
		"low_battery_pct": 20.0,
	}))
	if err != nil {
		return nil, err
	}

	moveAction, err := actions.NewAgentAction[actions.MoveCommand](
		"move",
		"move: drive the robot. Args: dx (meters forward), yaw (radians to rotate), speed (0.0-1.0, optional)",
		moveConnector,
		false,
	)
	if err != nil {
		return nil, err
	}

	speechConnector, err := speech.New(config.MotionClient, config.Logger, actions.NewActionConfig(map[string]any{
		"voice": "default",
	}))
	if err != nil {
		return nil, err
	}

	speechAction, err := actions.NewAgentAction[speech.SpeechCommand](
		"speak",
		"speak: say something through the robot's speaker. Args: text (what to say)",
		speechConnector,
		false,
	)
	if err != nil {
		return nil, err
	}

	configured := []actions.Action{moveAction, speechAction}

	if config.Wallet != nil {
		paymentConnector, err := payment.New(config.Wallet, config.Logger, actions.NewActionConfig(map[string]any{
			"tick_interval": 5 * time.Minute,
		}))
		if err != nil {
			return nil, err
		}

		// Payments never go through the planner, so the action is hidden
		// from prompt construction.
		paymentAction, err := actions.NewAgentAction[payment.PaymentCommand](
			"pay",
			"pay: transfer funds to a service endpoint",
			paymentConnector,
			true,
		)
		if err != nil {
			return nil, err
		}
		configured = append(configured, paymentAction)
	}

	return configured, nil
}
