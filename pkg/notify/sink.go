package notify

import (
	"errors"
	"fmt"

	"github.com/alitto/pond/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Sink dispatches wallet emails through a small worker pool so sends never
// block or fail the transfer path. Every method is fire-and-forget: delivery
// errors are logged and swallowed.
type Sink struct {
	pool   pond.Pool
	mailer Mailer
	logger *zap.Logger
}

func NewSink(mailer Mailer, logger *zap.Logger) *Sink {
	return &Sink{
		pool:   pond.NewPool(4, pond.WithQueueSize(256)),
		mailer: mailer,
		logger: logger,
	}
}

func (s *Sink) submit(to, subject, body string) {
	if to == "" {
		return
	}
	s.pool.Submit(func() {
		if err := s.mailer.Send(to, subject, body); err != nil {
			if errors.Is(err, errNotConfigured) {
				s.logger.Debug("Skipping email, SMTP not configured", zap.String("subject", subject))
				return
			}
			s.logger.Warn("Failed to send email",
				zap.String("subject", subject),
				zap.Error(err))
			return
		}
		s.logger.Info("Email sent", zap.String("subject", subject))
	})
}

// Welcome is sent after a wallet is created.
func (s *Sink) Welcome(email, address string, balance decimal.Decimal) {
	body := fmt.Sprintf(`
		<h2>Welcome to ETH Mock Wallet!</h2>
		<p>Your wallet has been created successfully.</p>
		<p><strong>Address:</strong> %s</p>
		<p><strong>Starting Balance:</strong> %s ETH</p>
		<p>You can now start sending and receiving ETH!</p>`,
		address, balance)
	s.submit(email, "Welcome to ETH Mock Wallet!", body)
}

// TransferSent notifies the sender of a committed transfer.
func (s *Sink) TransferSent(email string, amount decimal.Decimal, toAddress, txHash string, rate *decimal.Decimal) {
	body := fmt.Sprintf(`
		<h2>Transaction Successful</h2>
		<p>You have sent <strong>%s ETH</strong></p>
		<p><strong>To:</strong> %s</p>
		<p><strong>Transaction Hash:</strong> %s</p>%s`,
		amount.StringFixed(6), toAddress, txHash, rateLine(rate))
	s.submit(email, "Transaction Sent", body)
}

// TransferReceived notifies the recipient of a committed transfer.
func (s *Sink) TransferReceived(email string, amount decimal.Decimal, fromAddress, txHash string, rate *decimal.Decimal) {
	body := fmt.Sprintf(`
		<h2>You've Received ETH!</h2>
		<p>You have received <strong>%s ETH</strong></p>
		<p><strong>From:</strong> %s</p>
		<p><strong>Transaction Hash:</strong> %s</p>%s`,
		amount.StringFixed(6), fromAddress, txHash, rateLine(rate))
	s.submit(email, "ETH Received", body)
}

func rateLine(rate *decimal.Decimal) string {
	if rate == nil {
		return ""
	}
	return fmt.Sprintf(`
		<p><strong>ETH Price:</strong> $%s</p>`, rate.StringFixed(2))
}

// Close drains the pool, waiting for in-flight sends.
func (s *Sink) Close() {
	s.pool.StopAndWait()
}
