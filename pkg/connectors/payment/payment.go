// Package payment connects the pay action to the robot's on-chain wallet.
// It is excluded from prompt construction; payments are only dispatched by
// trusted code paths, never chosen by the language model.
package payment

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/novabotics/agent-go/pkg/actions"
	"github.com/sirupsen/logrus"
)

// PaymentCommand asks the robot to transfer funds, e.g. to a charging dock.
type PaymentCommand struct {
	To        string `json:"to"`
	AmountWei string `json:"amount_wei"`
	Memo      string `json:"memo,omitempty"`
}

// Wallet is the funds source the connector draws on.
type Wallet interface {
	Address() common.Address
	Balance(ctx context.Context) (*big.Int, error)
	Send(ctx context.Context, to common.Address, amount *big.Int) (common.Hash, error)
}

// Connector executes payments through the wallet. Its tick refreshes the
// cached balance so low funds surface in the logs before a payment fails.
type Connector struct {
	actions.BaseConnector
	wallet Wallet
	logger *logrus.Logger

	mu      sync.Mutex
	balance *big.Int
}

var _ actions.Connector[PaymentCommand] = (*Connector)(nil)

// New creates a payment connector.
func New(w Wallet, logger *logrus.Logger, config *actions.ActionConfig) (*Connector, error) {
	if w == nil {
		return nil, fmt.Errorf("wallet is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Connector{
		BaseConnector: actions.NewBaseConnector(config),
		wallet:        w,
		logger:        logger,
	}, nil
}

// Connect executes one payment.
func (c *Connector) Connect(ctx context.Context, cmd PaymentCommand) error {
	if !common.IsHexAddress(cmd.To) {
		return fmt.Errorf("invalid payment address %q", cmd.To)
	}
	amount, ok := new(big.Int).SetString(cmd.AmountWei, 10)
	if !ok || amount.Sign() <= 0 {
		return fmt.Errorf("invalid payment amount %q", cmd.AmountWei)
	}

	log := c.logger.WithFields(logrus.Fields{
		"connector": "payment",
		"to":        cmd.To,
		"amount":    amount.String(),
		"memo":      cmd.Memo,
	})

	hash, err := c.wallet.Send(ctx, common.HexToAddress(cmd.To), amount)
	if err != nil {
		log.WithError(err).Error("Payment failed")
		return fmt.Errorf("payment failed: %w", err)
	}

	log.WithField("tx_hash", hash.Hex()).Info("Payment completed")
	return nil
}

// Tick idles for the configured interval, then refreshes the cached balance.
// A failed refresh is transient and logged rather than returned.
func (c *Connector) Tick(ctx context.Context) error {
	if err := c.BaseConnector.Tick(ctx); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	balance, err := c.wallet.Balance(ctx)
	if err != nil {
		c.logger.WithError(err).WithField("connector", "payment").Warn("Balance refresh failed")
		return nil
	}

	c.mu.Lock()
	c.balance = balance
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"connector": "payment",
		"address":   c.wallet.Address().Hex(),
		"balance":   balance.String(),
	}).Debug("Wallet balance")
	return nil
}

// CachedBalance returns the balance recorded by the last tick, or nil when no
// tick has completed yet.
func (c *Connector) CachedBalance() *big.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.balance == nil {
		return nil
	}
	return new(big.Int).Set(c.balance)
}
