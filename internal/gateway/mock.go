package gateway

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/squadgrid/payment-dashboard/internal/domain"
)

// ErrDeclined is returned when the settlement network rejects a transfer.
var ErrDeclined = errors.New("settlement declined by network")

// Receipt is the network's proof of settlement: a transaction signature plus
// the rail's transfer reference.
type Receipt struct {
	Signature   string
	TransferRef string
}

// Gateway represents the stablecoin settlement rail.
type Gateway interface {
	// Settle submits a transfer to the network and returns its receipt.
	Settle(ctx context.Context, wallet, amount, currency string) (Receipt, error)
}

// MockGateway simulates the settlement rail. It introduces a small random
// delay and declines a configurable fraction of transfers.
type MockGateway struct {
	// FailureRate is the probability of a decline (0.0 to 1.0). Default: 0.05.
	FailureRate float64

	// MaxDelay bounds the simulated network latency. Zero disables the delay,
	// which keeps tests fast.
	MaxDelay time.Duration
}

// NewMockGateway creates a MockGateway with the default 5% decline rate.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		FailureRate: 0.05,
		MaxDelay:    300 * time.Millisecond,
	}
}

// Settle simulates submitting a transfer. It waits a random slice of MaxDelay,
// then either declines per FailureRate or returns a receipt with a fresh
// signature and transfer reference.
func (g *MockGateway) Settle(ctx context.Context, wallet, amount, currency string) (Receipt, error) {
	if g.MaxDelay > 0 {
		delay := time.Duration(rand.Int63n(int64(g.MaxDelay)))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Receipt{}, fmt.Errorf("gateway call canceled: %w", ctx.Err())
		}
	}

	if rand.Float64() < g.FailureRate {
		return Receipt{}, ErrDeclined
	}

	return Receipt{
		Signature:   domain.NewSignature(),
		TransferRef: domain.NewTransferRef(),
	}, nil
}
