package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name string
	err  error
	sent []Message
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Send(ctx context.Context, msg Message) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, msg)
	return nil
}

func newTestService(primary, secondary Provider) *Service {
	s := NewService("no-reply@example.org", primary, secondary)
	// keep failing-provider tests fast
	s.backoff = time.Millisecond
	return s
}

func TestSendViaPrimary(t *testing.T) {
	primary := &fakeProvider{name: "primary"}
	secondary := &fakeProvider{name: "secondary"}
	svc := newTestService(primary, secondary)

	ok, err := svc.Send(context.Background(), "member@example.org", TemplateAccountApproved, map[string]string{"Name": "Ada"})
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, primary.sent, 1)
	assert.Empty(t, secondary.sent)

	msg := primary.sent[0]
	assert.Equal(t, "no-reply@example.org", msg.From)
	assert.Equal(t, "member@example.org", msg.To)
	assert.Equal(t, "Your membership has been approved", msg.Subject)
	assert.True(t, strings.Contains(msg.HTML, "Dear Ada"))
}

func TestSendFallsBackToSecondary(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("connection refused")}
	secondary := &fakeProvider{name: "secondary"}
	svc := newTestService(primary, secondary)

	ok, err := svc.Send(context.Background(), "member@example.org", TemplateAccountRejected, map[string]string{"Name": "Ada"})
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, secondary.sent, 1)
}

func TestSendAllProvidersFail(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("down")}
	secondary := &fakeProvider{name: "secondary", err: errors.New("also down")}
	svc := newTestService(primary, secondary)

	ok, err := svc.Send(context.Background(), "member@example.org", TemplateAccountApproved, map[string]string{"Name": "Ada"})
	// Delivery failure is absorbed, not returned as an error
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSendMissingTemplate(t *testing.T) {
	svc := newTestService(&fakeProvider{name: "primary"}, nil)

	_, err := svc.Send(context.Background(), "member@example.org", "no_such_template", nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestSendWithoutSecondaryProvider(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("down")}
	svc := newTestService(primary, nil)

	ok, err := svc.Send(context.Background(), "member@example.org", TemplateAccountApproved, map[string]string{"Name": "Ada"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNotifierMethodsRenderTheirTemplates(t *testing.T) {
	primary := &fakeProvider{name: "primary"}
	svc := newTestService(primary, nil)
	ctx := context.Background()

	assert.True(t, svc.VerifyEmail(ctx, "m@example.org", "Ada", "https://example.org/verify/tok"))
	assert.True(t, svc.PasswordReset(ctx, "m@example.org", "Ada", "https://example.org/reset?code=c"))

	require.Len(t, primary.sent, 2)
	assert.True(t, strings.Contains(primary.sent[0].HTML, "https://example.org/verify/tok"))
	assert.True(t, strings.Contains(primary.sent[1].HTML, "https://example.org/reset?code=c"))
}

func TestRegisterTemplateRejectsBadSyntax(t *testing.T) {
	svc := newTestService(&fakeProvider{name: "primary"}, nil)

	err := svc.RegisterTemplate("broken", "subject", "{{.Name")
	assert.Error(t, err)
}
