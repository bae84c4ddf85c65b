package mailer

// Template names resolved by the notification side-channel
const (
	TemplateAccountApproved = "account_approved"
	TemplateAccountRejected = "account_rejected"
	TemplateVerifyEmail     = "verify_email"
	TemplatePasswordReset   = "password_reset"
	TemplatePendingDigest   = "pending_digest"
)

var defaultTemplates = []struct {
	name    string
	subject string
	body    string
}{
	{
		name:    TemplateAccountApproved,
		subject: "Your membership has been approved",
		body: `<p>Dear {{.Name}},</p>
<p>Your membership registration has been approved. You can now sign in and access member services.</p>
<p>Best regards,<br>The Membership Team</p>`,
	},
	{
		name:    TemplateAccountRejected,
		subject: "Update on your membership registration",
		body: `<p>Dear {{.Name}},</p>
<p>We regret to inform you that your membership registration was not approved. Please contact the secretariat for further details.</p>
<p>Best regards,<br>The Membership Team</p>`,
	},
	{
		name:    TemplateVerifyEmail,
		subject: "Verify your email address",
		body: `<p>Dear {{.Name}},</p>
<p>Please verify your email address by clicking the link below:</p>
<p><a href="{{.VerificationURL}}">Verify email</a></p>
<p>The link expires in 24 hours.</p>`,
	},
	{
		name:    TemplatePasswordReset,
		subject: "Reset your password",
		body: `<p>Dear {{.Name}},</p>
<p>A password reset was requested for your account. Use the link below to set a new password:</p>
<p><a href="{{.ResetURL}}">Reset password</a></p>
<p>If you did not request this, you can ignore this email.</p>`,
	},
	{
		name:    TemplatePendingDigest,
		subject: "Pending membership approvals",
		body: `<p>There are {{.Count}} membership registration(s) waiting for approval.</p>
<p>Please review them in the admin dashboard.</p>`,
	},
}

func (s *Service) registerDefaults() {
	for _, t := range defaultTemplates {
		// Default templates are compile-time constants; a parse failure
		// here is a programming error
		if err := s.RegisterTemplate(t.name, t.subject, t.body); err != nil {
			panic(err)
		}
	}
}
