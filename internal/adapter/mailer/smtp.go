package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/bernardito-luis/eurodelivery/internal/domain/errors"
)

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Options configure SMTP delivery.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPNotifier delivers plain-text e-mails through an SMTP relay.
type SMTPNotifier struct {
	addr    string
	from    string
	auth    smtp.Auth
	timeout time.Duration
	send    SendFunc
	now     func() time.Time
	logger  *slog.Logger
}

// NewSMTPNotifier validates options and builds notifier.
func NewSMTPNotifier(opts Options, logger *slog.Logger) (*SMTPNotifier, error) {
	if strings.TrimSpace(opts.Host) == "" {
		return nil, errors.New("smtp host is required")
	}
	if opts.Port <= 0 {
		return nil, fmt.Errorf("invalid smtp port %d", opts.Port)
	}
	if strings.TrimSpace(opts.From) == "" {
		return nil, errors.New("smtp sender is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	n := &SMTPNotifier{
		addr:    net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		from:    opts.From,
		timeout: opts.Timeout,
		send:    smtp.SendMail,
		now:     time.Now,
		logger:  logger,
	}
	if opts.Username != "" {
		n.auth = smtp.PlainAuth("", opts.Username, opts.Password, opts.Host)
	}
	return n, nil
}

// Send delivers one message, honouring ctx cancellation.
func (n *SMTPNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return fmt.Errorf("%w: empty recipient", domainErrors.ErrDelivery)
	}

	msg := n.compose(recipient, subject, body)

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- n.send(n.addr, n.auth, n.from, []string{recipient}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			n.logger.Warn("smtp delivery failed", slog.String("recipient", recipient), slog.String("error", err.Error()))
			return fmt.Errorf("%w: %v", domainErrors.ErrDelivery, err)
		}
		n.logger.Debug("message sent", slog.String("recipient", recipient), slog.String("subject", subject))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", domainErrors.ErrDelivery, ctx.Err())
	}
}

func (n *SMTPNotifier) compose(recipient, subject, body string) []byte {
	var b strings.Builder
	writeHeader := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}
	writeHeader("From", n.from)
	writeHeader("To", recipient)
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", subject))
	writeHeader("Date", n.now().Format(time.RFC1123Z))
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", `text/plain; charset="utf-8"`)
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))
	return []byte(b.String())
}
