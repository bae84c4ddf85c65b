package tasks

import (
	"context"

	"memberd/internal/mailer"
)

// Notifier implements services.Notifier by enqueueing email tasks. Delivery
// happens on the task server, detached from the triggering operation.
type Notifier struct {
	client *TaskClient
}

func NewNotifier(client *TaskClient) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) AccountApproved(ctx context.Context, email, name string) bool {
	return n.client.EnqueueEmail(ctx, EmailTaskPayload{
		To:       email,
		Template: mailer.TemplateAccountApproved,
		Data:     map[string]string{"Name": name},
	})
}

func (n *Notifier) AccountRejected(ctx context.Context, email, name string) bool {
	return n.client.EnqueueEmail(ctx, EmailTaskPayload{
		To:       email,
		Template: mailer.TemplateAccountRejected,
		Data:     map[string]string{"Name": name},
	})
}

func (n *Notifier) VerifyEmail(ctx context.Context, email, name, verificationURL string) bool {
	return n.client.EnqueueEmail(ctx, EmailTaskPayload{
		To:       email,
		Template: mailer.TemplateVerifyEmail,
		Data: map[string]string{
			"Name":            name,
			"VerificationURL": verificationURL,
		},
	})
}

func (n *Notifier) PasswordReset(ctx context.Context, email, name, resetURL string) bool {
	return n.client.EnqueueEmail(ctx, EmailTaskPayload{
		To:       email,
		Template: mailer.TemplatePasswordReset,
		Data: map[string]string{
			"Name":     name,
			"ResetURL": resetURL,
		},
	})
}
