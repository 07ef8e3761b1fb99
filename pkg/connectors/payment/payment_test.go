package payment_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/novabotics/agent-go/pkg/actions"
	"github.com/novabotics/agent-go/pkg/connectors/payment"
	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const dockAddress = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"

type sentPayment struct {
	to     common.Address
	amount *big.Int
}

// fakeWallet records payments and serves a canned balance.
type fakeWallet struct {
	mu         sync.Mutex
	balance    *big.Int
	balanceErr error
	sendErr    error
	sent       []sentPayment
}

func (f *fakeWallet) Address() common.Address {
	return common.HexToAddress("0x0000000000000000000000000000000000000001")
}

func (f *fakeWallet) Balance(ctx context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return new(big.Int).Set(f.balance), nil
}

func (f *fakeWallet) Send(ctx context.Context, to common.Address, amount *big.Int) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return common.Hash{}, f.sendErr
	}
	f.sent = append(f.sent, sentPayment{to: to, amount: new(big.Int).Set(amount)})
	return common.HexToHash("0xdeadbeef"), nil
}

func (f *fakeWallet) payments() []sentPayment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentPayment(nil), f.sent...)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

var _ = Describe("Connector", func() {
	var (
		robotWallet *fakeWallet
		connector   *payment.Connector
	)

	BeforeEach(func() {
		robotWallet = &fakeWallet{balance: big.NewInt(1_000_000)}

		var err error
		connector, err = payment.New(robotWallet, quietLogger(), actions.NewActionConfig(map[string]any{
			"tick_interval": 5 * time.Millisecond,
		}))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("New", func() {
		It("requires a wallet", func() {
			_, err := payment.New(nil, quietLogger(), nil)
			Expect(err).To(MatchError(ContainSubstring("wallet is required")))
		})
	})

	Describe("Connect", func() {
		It("sends the parsed amount to the parsed address", func() {
			err := connector.Connect(context.Background(), payment.PaymentCommand{
				To:        dockAddress,
				AmountWei: "42000",
				Memo:      "dock charge",
			})
			Expect(err).NotTo(HaveOccurred())

			sent := robotWallet.payments()
			Expect(sent).To(HaveLen(1))
			Expect(sent[0].to).To(Equal(common.HexToAddress(dockAddress)))
			Expect(sent[0].amount.String()).To(Equal("42000"))
		})

		It("rejects malformed addresses without touching the wallet", func() {
			err := connector.Connect(context.Background(), payment.PaymentCommand{
				To:        "charging-dock-7",
				AmountWei: "42000",
			})
			Expect(err).To(MatchError(ContainSubstring("invalid payment address")))
			Expect(robotWallet.payments()).To(BeEmpty())
		})

		It("rejects non-positive or unparseable amounts", func() {
			for _, amount := range []string{"", "0", "-5", "lots"} {
				err := connector.Connect(context.Background(), payment.PaymentCommand{
					To:        dockAddress,
					AmountWei: amount,
				})
				Expect(err).To(MatchError(ContainSubstring("invalid payment amount")))
			}
			Expect(robotWallet.payments()).To(BeEmpty())
		})

		It("wraps wallet failures", func() {
			robotWallet.sendErr = errors.New("insufficient funds")

			err := connector.Connect(context.Background(), payment.PaymentCommand{
				To:        dockAddress,
				AmountWei: "42000",
			})
			Expect(err).To(MatchError(ContainSubstring("payment failed")))
		})
	})

	Describe("Tick", func() {
		It("refreshes the cached balance", func() {
			Expect(connector.CachedBalance()).To(BeNil())

			Expect(connector.Tick(context.Background())).To(Succeed())

			cached := connector.CachedBalance()
			Expect(cached).NotTo(BeNil())
			Expect(cached.String()).To(Equal("1000000"))
		})

		It("returns a copy of the cached balance", func() {
			Expect(connector.Tick(context.Background())).To(Succeed())

			connector.CachedBalance().SetInt64(0)
			Expect(connector.CachedBalance().String()).To(Equal("1000000"))
		})

		It("keeps the previous balance when the refresh fails", func() {
			Expect(connector.Tick(context.Background())).To(Succeed())

			robotWallet.balanceErr = errors.New("rpc down")
			Expect(connector.Tick(context.Background())).To(Succeed())

			Expect(connector.CachedBalance().String()).To(Equal("1000000"))
		})

		It("skips the refresh when the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			Expect(connector.Tick(ctx)).To(Succeed())
			Expect(connector.CachedBalance()).To(BeNil())
		})
	})
})
