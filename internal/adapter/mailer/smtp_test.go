package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"
	"time"

	domainErrors "github.com/bernardito-luis/eurodelivery/internal/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testNotifier(t *testing.T, send SendFunc) *SMTPNotifier {
	t.Helper()
	n, err := NewSMTPNotifier(Options{Host: "mail.local", Port: 2525, Username: "bot", Password: "secret", From: "admin@eurodelivery.test"}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n.send = send
	n.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return n
}

func TestNewSMTPNotifierValidates(t *testing.T) {
	cases := map[string]Options{
		"missing host": {Port: 25, From: "a@b.c"},
		"bad port":     {Host: "h", Port: 0, From: "a@b.c"},
		"missing from": {Host: "h", Port: 25},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewSMTPNotifier(opts, testLogger()); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	n, err := NewSMTPNotifier(Options{Host: "h", Port: 25, From: "a@b.c"}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.auth != nil {
		t.Fatal("expected anonymous relay without username")
	}
	if n.addr != "h:25" || n.timeout != 10*time.Second {
		t.Fatalf("unexpected defaults: addr=%s timeout=%s", n.addr, n.timeout)
	}
}

func TestSendComposesMessage(t *testing.T) {
	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  string
		gotAuth smtp.Auth
	)
	n := testNotifier(t, func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, string(msg)
		return nil
	})

	if err := n.Send(context.Background(), " owner@example.com ", "Order #5: Ordered", "line one\nline two"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAddr != "mail.local:2525" || gotFrom != "admin@eurodelivery.test" || gotAuth == nil {
		t.Fatalf("unexpected envelope: addr=%s from=%s auth=%v", gotAddr, gotFrom, gotAuth)
	}
	if len(gotTo) != 1 || gotTo[0] != "owner@example.com" {
		t.Fatalf("unexpected recipients: %v", gotTo)
	}
	for _, want := range []string{
		"From: admin@eurodelivery.test\r\n",
		"To: owner@example.com\r\n",
		"Subject: Order #5: Ordered\r\n",
		"MIME-Version: 1.0\r\n",
		"Date: Fri, 01 Mar 2024 12:00:00 +0000\r\n",
		"\r\n\r\nline one\r\nline two",
	} {
		if !strings.Contains(gotMsg, want) {
			t.Fatalf("message missing %q:\n%s", want, gotMsg)
		}
	}
}

func TestSendEncodesNonASCIISubject(t *testing.T) {
	var gotMsg string
	n := testNotifier(t, func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = string(msg)
		return nil
	})
	if err := n.Send(context.Background(), "owner@example.com", "Заказ #1", "body"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotMsg, "Subject: =?utf-8?q?") {
		t.Fatalf("expected encoded subject, got:\n%s", gotMsg)
	}
}

func TestSendFailures(t *testing.T) {
	n := testNotifier(t, func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("550 mailbox unavailable")
	})
	if err := n.Send(context.Background(), "owner@example.com", "s", "b"); !errors.Is(err, domainErrors.ErrDelivery) {
		t.Fatalf("expected delivery error, got %v", err)
	}

	if err := n.Send(context.Background(), "  ", "s", "b"); !errors.Is(err, domainErrors.ErrDelivery) {
		t.Fatalf("expected delivery error for empty recipient, got %v", err)
	}

	block := make(chan struct{})
	defer close(block)
	slow := testNotifier(t, func(string, smtp.Auth, string, []string, []byte) error {
		<-block
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := slow.Send(ctx, "owner@example.com", "s", "b"); !errors.Is(err, domainErrors.ErrDelivery) {
		t.Fatalf("expected delivery error on cancellation, got %v", err)
	}
}
