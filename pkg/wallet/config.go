package wallet

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const gweiPerWei = 1_000_000_000

// WalletConfig holds the network and signing settings for the robot's wallet.
type WalletConfig struct {
	// RPCURL is the HTTP(S) endpoint for connecting to the network
	RPCURL string

	// ChainID is the unique identifier for the blockchain network
	ChainID int64

	// PrivateKeyHex is the hex-encoded signing key, without 0x prefix
	PrivateKeyHex string

	// MaxGasPrice bounds gas price; payments are refused above it
	MaxGasPrice *big.Int

	// MaxRetries specifies how many times to poll for a receipt
	MaxRetries int

	// RetryDelay is the duration to wait between receipt polls
	RetryDelay time.Duration
}

// NewWalletConfig builds a WalletConfig from environment variables.
func NewWalletConfig() (*WalletConfig, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	chainID, _ := strconv.ParseInt(getEnvOrDefault("WALLET_CHAIN_ID", "8453"), 10, 64)
	maxGasGwei, _ := strconv.ParseInt(getEnvOrDefault("WALLET_MAX_GAS_GWEI", "100"), 10, 64)

	config := &WalletConfig{
		RPCURL:        os.Getenv("WALLET_RPC_URL"),
		ChainID:       chainID,
		PrivateKeyHex: os.Getenv("WALLET_PRIVATE_KEY"),
		MaxGasPrice:   new(big.Int).Mul(big.NewInt(maxGasGwei), big.NewInt(gweiPerWei)),
		MaxRetries:    10,
		RetryDelay:    3 * time.Second,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks required fields and applies defaults.
func (c *WalletConfig) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("RPC URL is required")
	}
	if c.PrivateKeyHex == "" {
		return fmt.Errorf("private key is required")
	}
	if c.ChainID == 0 {
		return fmt.Errorf("chain ID is required")
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 10
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 3 * time.Second
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
