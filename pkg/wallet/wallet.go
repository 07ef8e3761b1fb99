package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// transferGasLimit is the fixed gas cost of a plain value transfer.
const transferGasLimit = 21000

// Wallet signs and sends value transfers from the robot's account.
type Wallet struct {
	client  *ethclient.Client
	config  *WalletConfig
	key     *ecdsa.PrivateKey
	address common.Address
	logger  *logrus.Logger
}

// New connects to the configured RPC endpoint and loads the signing key.
func New(config *WalletConfig, logger *logrus.Logger) (*Wallet, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}

	client, err := ethclient.Dial(config.RPCURL)
	if err != nil {
		return nil, newWalletError(ErrCodeRPCError, "failed to connect to RPC endpoint", err)
	}

	key, err := crypto.HexToECDSA(config.PrivateKeyHex)
	if err != nil {
		return nil, newWalletError(ErrCodeInvalidPrivateKey, "failed to parse private key", err)
	}

	return &Wallet{
		client:  client,
		config:  config,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		logger:  logger,
	}, nil
}

// Address returns the wallet's account address.
func (w *Wallet) Address() common.Address {
	return w.address
}

// Balance returns the account balance in wei at the latest block.
func (w *Wallet) Balance(ctx context.Context) (*big.Int, error) {
	balance, err := w.client.BalanceAt(ctx, w.address, nil)
	if err != nil {
		return nil, newWalletError(ErrCodeRPCError, "failed to fetch balance", err)
	}
	return balance, nil
}

// Send transfers amount wei to the given address and waits for the receipt.
func (w *Wallet) Send(ctx context.Context, to common.Address, amount *big.Int) (common.Hash, error) {
	log := w.logger.WithFields(logrus.Fields{
		"from":   w.address.Hex(),
		"to":     to.Hex(),
		"amount": amount.String(),
	})

	balance, err := w.Balance(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	if balance.Cmp(amount) < 0 {
		return common.Hash{}, newWalletError(ErrCodeInsufficientFunds,
			fmt.Sprintf("balance %s is below payment amount %s", balance, amount), nil)
	}

	nonce, err := w.client.PendingNonceAt(ctx, w.address)
	if err != nil {
		return common.Hash{}, newWalletError(ErrCodeRPCError, "failed to fetch nonce", err)
	}

	gasPrice, err := w.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, newWalletError(ErrCodeRPCError, "failed to fetch gas price", err)
	}
	if w.config.MaxGasPrice != nil && gasPrice.Cmp(w.config.MaxGasPrice) > 0 {
		return common.Hash{}, newWalletError(ErrCodeGasPrice,
			fmt.Sprintf("suggested gas price %s exceeds maximum %s", gasPrice, w.config.MaxGasPrice), nil)
	}

	tx := types.NewTransaction(nonce, to, amount, transferGasLimit, gasPrice, nil)
	signed, err := types.SignTx(tx, types.NewEIP155Signer(big.NewInt(w.config.ChainID)), w.key)
	if err != nil {
		return common.Hash{}, newWalletError(ErrCodeTransactionFailed, "failed to sign transaction", err)
	}

	if err := w.client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, newWalletError(ErrCodeTransactionFailed, "failed to send transaction", err)
	}

	hash := signed.Hash()
	log.WithField("tx_hash", hash.Hex()).Info("Payment transaction sent")

	if err := w.waitForReceipt(ctx, hash); err != nil {
		return hash, err
	}

	log.WithField("tx_hash", hash.Hex()).Info("Payment confirmed")
	return hash, nil
}

func (w *Wallet) waitForReceipt(ctx context.Context, hash common.Hash) error {
	for attempt := 0; attempt < w.config.MaxRetries; attempt++ {
		receipt, err := w.client.TransactionReceipt(ctx, hash)
		if err == nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return newWalletError(ErrCodeTransactionFailed,
					fmt.Sprintf("transaction %s reverted", hash.Hex()), nil)
			}
			return nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return newWalletError(ErrCodeRPCError, "failed to fetch receipt", err)
		}

		select {
		case <-ctx.Done():
			return newWalletError(ErrCodeReceiptNotFound, "receipt wait cancelled", ctx.Err())
		case <-time.After(w.config.RetryDelay):
		}
	}

	return newWalletError(ErrCodeReceiptNotFound,
		fmt.Sprintf("no receipt for %s after %d attempts", hash.Hex(), w.config.MaxRetries), nil)
}
