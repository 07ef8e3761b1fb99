// Package speech connects the speak action to the gateway's speaker.
package speech

import (
	"context"
	"fmt"

	"github.com/novabotics/agent-go/pkg/actions"
	"github.com/novabotics/agent-go/pkg/interfaces/motion"
	"github.com/sirupsen/logrus"
)

// SpeechCommand is one utterance for the robot to play.
type SpeechCommand struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// Connector plays utterances through the motion gateway. The default tick is
// kept; the speaker needs no maintenance between commands.
type Connector struct {
	actions.BaseConnector
	client *motion.MotionClient
	logger *logrus.Logger
}

var _ actions.Connector[SpeechCommand] = (*Connector)(nil)

// New creates a speech connector.
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

// Connect plays one utterance.
func (c *Connector) Connect(ctx context.Context, cmd SpeechCommand) error {
	if cmd.Text == "" {
		return fmt.Errorf("speech text is required")
	}

	voice := cmd.Voice
	if voice == "" {
		if cfg := c.Config(); cfg != nil {
			voice = cfg.GetString("voice", "")
		}
	}

	if err := c.client.SendSpeech(ctx, motion.SpeechRequest{Text: cmd.Text, Voice: voice}); err != nil {
		return fmt.Errorf("failed to send speech command: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"connector": "speech",
		"text":      cmd.Text,
	}).Info("Speech command sent")

	return nil
}
