package domain

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// NewShortID returns an 8-character public identifier for payment links and
// virtual accounts. Collisions are tolerated at this scale; there is no
// uniqueness retry.
func NewShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NewWalletAddress returns a mock Solana wallet address: 32 random bytes,
// base58 encoded.
func NewWalletAddress() string {
	return randomBase58(32)
}

// NewSignature returns a mock Solana transaction signature: 64 random bytes,
// base58 encoded.
func NewSignature() string {
	return randomBase58(64)
}

// NewTransferRef returns a mock Grid transfer reference.
func NewTransferRef() string {
	return "grid_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func randomBase58(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the platform entropy source is broken;
		// fall back to a uuid-derived value rather than returning an empty id.
		seed := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
		decoded, _ := hex.DecodeString(seed)
		copy(buf, decoded)
	}
	return base58.Encode(buf)
}
