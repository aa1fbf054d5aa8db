package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	gomail "github.com/wneessen/go-mail"

	"github.com/trashtdl/todosync-server/internal/logger"
)

const (
	sendAttempts = 3
	sendBackoff  = 500 * time.Millisecond
)

// SMTP implements model.Mailer over an SMTP relay. Transient delivery failures
// are retried with exponential backoff before being reported to the caller.
type SMTP struct {
	client  *gomail.Client
	from    string
	baseURL string
	logger  *logger.Logger
}

// NewSMTP creates a mailer that delivers through the given SMTP relay.
// baseURL is the public address used to build verification links.
func NewSMTP(host string, port int, username, password, from, baseURL string, logger *logger.Logger) (*SMTP, error) {
	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTP{
		client:  client,
		from:    from,
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

// SendVerification emails a verification link carrying the code.
func (s *SMTP) SendVerification(ctx context.Context, to, code string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	msg.Subject("Verify Your Email Address")
	msg.SetBodyString(gomail.TypeTextPlain,
		fmt.Sprintf("Please click the following link to verify your email address: %s/api/auth/verify?code=%s", s.baseURL, code))

	backoff := retry.WithMaxRetries(sendAttempts-1, retry.NewExponential(sendBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
			s.logger.Debug("Mailer: delivery attempt failed",
				"to", to,
				"error", err.Error())
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	s.logger.Info("Mailer: verification email sent", "to", to)
	return nil
}
