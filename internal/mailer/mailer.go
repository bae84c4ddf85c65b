package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"memberd/internal/metrics"
	"memberd/internal/utils/logger"
)

// ErrTemplateNotFound indicates a deployment defect: a caller asked for a
// template that was never registered. Unlike delivery failures it is
// surfaced loudly and never retried.
var ErrTemplateNotFound = errors.New("email template not found")

// Message is a rendered email ready for a provider
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Provider delivers a rendered message. Implementations must respect the
// context deadline.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Service renders named templates and attempts delivery via the primary
// provider, falling back to the secondary on any failure. Delivery failure
// is absorbed: callers get a bool, never an operation-failing error.
type Service struct {
	from      string
	providers []Provider
	templates map[string]*template.Template
	subjects  map[string]string

	attemptTimeout time.Duration
	backoff        time.Duration
	log            *logger.Logger
}

func NewService(from string, primary, secondary Provider) *Service {
	providers := []Provider{primary}
	if secondary != nil {
		providers = append(providers, secondary)
	}

	s := &Service{
		from:           from,
		providers:      providers,
		templates:      make(map[string]*template.Template),
		subjects:       make(map[string]string),
		attemptTimeout: 10 * time.Second,
		backoff:        2 * time.Second,
		log:            logger.New("MAILER"),
	}
	s.registerDefaults()
	return s
}

// RegisterTemplate compiles and registers a named template
func (s *Service) RegisterTemplate(name, subject, body string) error {
	tmpl, err := template.New(name).Parse(body)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	s.templates[name] = tmpl
	s.subjects[name] = subject
	return nil
}

// Send renders the named template with the context map and attempts
// delivery. The returned error is non-nil only for template resolution or
// rendering failures; delivery failures are logged and reported via the
// bool.
func (s *Service) Send(ctx context.Context, to, templateName string, data map[string]string) (bool, error) {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return false, fmt.Errorf("failed to render template %s: %w", templateName, err)
	}

	msg := Message{
		From:    s.from,
		To:      to,
		Subject: s.subjects[templateName],
		HTML:    body.String(),
	}

	for i, provider := range s.providers {
		if i > 0 {
			select {
			case <-ctx.Done():
				return false, nil
			case <-time.After(s.backoff):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
		err := provider.Send(attemptCtx, msg)
		cancel()

		if err == nil {
			metrics.Emails.WithLabelValues(provider.Name(), "sent").Inc()
			return true, nil
		}

		metrics.Emails.WithLabelValues(provider.Name(), "failed").Inc()
		s.log.Warn("provider %s failed to deliver %s to %s: %v", provider.Name(), templateName, to, err)
	}

	s.log.Warn("all providers failed to deliver %s to %s", templateName, to)
	return false, nil
}

// sendOrLog wraps Send for the Notifier methods: template errors are
// deployment defects and logged at error level.
func (s *Service) sendOrLog(ctx context.Context, to, templateName string, data map[string]string) bool {
	ok, err := s.Send(ctx, to, templateName, data)
	if err != nil {
		_ = s.log.Error("email dispatch failed", err)
		return false
	}
	return ok
}

// AccountApproved implements services.Notifier
func (s *Service) AccountApproved(ctx context.Context, email, name string) bool {
	return s.sendOrLog(ctx, email, TemplateAccountApproved, map[string]string{"Name": name})
}

// AccountRejected implements services.Notifier
func (s *Service) AccountRejected(ctx context.Context, email, name string) bool {
	return s.sendOrLog(ctx, email, TemplateAccountRejected, map[string]string{"Name": name})
}

// VerifyEmail implements services.Notifier
func (s *Service) VerifyEmail(ctx context.Context, email, name, verificationURL string) bool {
	return s.sendOrLog(ctx, email, TemplateVerifyEmail, map[string]string{
		"Name":            name,
		"VerificationURL": verificationURL,
	})
}

// PasswordReset implements services.Notifier
func (s *Service) PasswordReset(ctx context.Context, email, name, resetURL string) bool {
	return s.sendOrLog(ctx, email, TemplatePasswordReset, map[string]string{
		"Name":     name,
		"ResetURL": resetURL,
	})
}
