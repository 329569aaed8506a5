package signature

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mocketh/walletd/pkg/utils"
	"go.uber.org/zap"
)

// MockSignature skips verification entirely when the bypass flag is enabled.
// It is a test escape hatch, not a security boundary: the sentinel alone is
// never honored unless MOCK_SIGNATURE_BYPASS is set on the process.
const MockSignature = "0x_mock_signature_for_testing"

// Verifier checks that a personal_sign signature over a message was produced
// by the key behind a claimed address. It is stateless.
type Verifier struct {
	bypassEnabled bool
	logger        *zap.Logger
}

// New reads the MOCK_SIGNATURE_BYPASS flag (default off).
func New(logger *zap.Logger) *Verifier {
	v := &Verifier{
		bypassEnabled: utils.EnvBool("MOCK_SIGNATURE_BYPASS", false),
		logger:        logger,
	}
	if v.bypassEnabled {
		logger.Warn("Mock signature bypass is enabled; do not run this in production")
	}
	return v
}

// NewWithBypass is used by tests to control the bypass gate directly.
func NewWithBypass(logger *zap.Logger, bypass bool) *Verifier {
	return &Verifier{bypassEnabled: bypass, logger: logger}
}

// Bypassed reports whether sig is the mock sentinel and the bypass gate is open.
func (v *Verifier) Bypassed(sig string) bool {
	return v.bypassEnabled && sig == MockSignature
}

// Verify recovers the signer of an EIP-191 personal message and compares it
// case-insensitively to the claimed address. Malformed signatures, bad hex and
// recovery failures all return false, never an error.
func (v *Verifier) Verify(message, sig, claimedAddress string) bool {
	raw, err := hexutil.Decode(sig)
	if err != nil || len(raw) != crypto.SignatureLength {
		return false
	}

	// Wallets emit V as 27/28; crypto.SigToPub wants 0/1.
	rec := make([]byte, crypto.SignatureLength)
	copy(rec, raw)
	if rec[64] >= 27 {
		rec[64] -= 27
	}
	if rec[64] > 1 {
		return false
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), rec)
	if err != nil {
		v.logger.Debug("Signature recovery failed", zap.Error(err))
		return false
	}

	recovered := crypto.PubkeyToAddress(*pub).Hex()
	return strings.EqualFold(recovered, claimedAddress)
}

// IsHexAddress reports whether s is a well-formed 20-byte hex address.
func IsHexAddress(s string) bool {
	return common.IsHexAddress(s)
}
