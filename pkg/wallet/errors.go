// Package wallet provides the on-chain payment functionality the robot uses
// for machine-to-machine charges such as charging docks and toll gates.
package wallet

import (
	"fmt"
)

// Error codes for wallet operations
const (
	// ErrCodeInvalidAddress indicates an invalid blockchain address format
	ErrCodeInvalidAddress = "INVALID_ADDRESS"
	// ErrCodeInvalidPrivateKey indicates an invalid or malformed private key
	ErrCodeInvalidPrivateKey = "INVALID_PRIVATE_KEY"
	// ErrCodeInsufficientFunds indicates insufficient balance for a payment
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	// ErrCodeGasPrice indicates gas price exceeds the configured maximum
	ErrCodeGasPrice = "GAS_PRICE_TOO_HIGH"
	// ErrCodeTransactionFailed indicates a transaction failed to execute
	ErrCodeTransactionFailed = "TRANSACTION_FAILED"
	// ErrCodeReceiptNotFound indicates the transaction receipt never arrived
	ErrCodeReceiptNotFound = "RECEIPT_NOT_FOUND"
	// ErrCodeRPCError indicates an RPC connection or call failed
	ErrCodeRPCError = "RPC_ERROR"
)

// WalletError represents a wallet-specific error with the failed operation's
// error code and underlying cause.
type WalletError struct {
	Code    string
	Message string
	Err     error
}

func (e *WalletError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *WalletError) Unwrap() error {
	return e.Err
}

func newWalletError(code, message string, err error) *WalletError {
	return &WalletError{Code: code, Message: message, Err: err}
}
