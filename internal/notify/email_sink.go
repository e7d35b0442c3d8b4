package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/gearguard/gearguard/pkg/roles"
)

// EmailSink sends notifications over SMTP to a fixed recipient list.
type EmailSink struct {
	cfg EmailConfig
}

// NewEmailSink creates an email sink.
func NewEmailSink(cfg EmailConfig) *EmailSink {
	return &EmailSink{cfg: cfg}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Deliver(ctx context.Context, n roles.AlertNotification) error {
	if s.cfg.Host == "" || s.cfg.From == "" || len(s.cfg.To) == 0 {
		return fmt.Errorf("email sink not configured")
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	subject := fmt.Sprintf("[%s] Equipment alert: %s", n.Severity, n.EquipmentID)
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(s.cfg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n\r\n", subject)
	fmt.Fprintf(&b, "Equipment %s raised a %s alert.\r\n\r\n", n.EquipmentID, n.Severity)
	fmt.Fprintf(&b, "Failure probability: %.2f\r\n", n.FailureProbability)
	fmt.Fprintf(&b, "Days until predicted failure: %d\r\n", n.DaysUntilFailure)
	fmt.Fprintf(&b, "Health score: %.1f\r\n", n.HealthScore)
	fmt.Fprintf(&b, "Confidence: %s\r\n\r\n", n.Confidence)
	fmt.Fprintf(&b, "Recommended action: %s\r\n", n.RecommendedAction)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := smtp.SendMail(addr, auth, s.cfg.From, s.cfg.To, []byte(b.String())); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	return nil
}
