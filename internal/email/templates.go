package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var invitationTemplate = template.Must(template.New("invitation").Parse(`
<html>
<body style="font-family: sans-serif;">
  <h2>You have been invited</h2>
  <p>{{.InviterName}} invited you to join as <strong>{{.Role}}</strong>.</p>
  <p><a href="{{.AcceptURL}}">Accept the invitation</a></p>
  <p>This invitation expires on {{.ExpiresAt}}.</p>
</body>
</html>`))

var organizationApprovedTemplate = template.Must(template.New("org_approved").Parse(`
<html>
<body style="font-family: sans-serif;">
  <h2>Your organization has been approved</h2>
  <p><strong>{{.Organization}}</strong> is now active.</p>
  <p><a href="{{.ResetURL}}">Set your password</a> to start administering it.</p>
</body>
</html>`))

var organizationRejectedTemplate = template.Must(template.New("org_rejected").Parse(`
<html>
<body style="font-family: sans-serif;">
  <h2>Your organization application was not approved</h2>
  <p><strong>{{.Organization}}</strong> was rejected.</p>
  <p>Reason: {{.Reason}}</p>
</body>
</html>`))

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`
<html>
<body style="font-family: sans-serif;">
  <h2>Password reset requested</h2>
  <p><a href="{{.ResetURL}}">Reset your password</a></p>
  <p>The link expires on {{.ExpiresAt}}. If you did not request this, ignore this message.</p>
</body>
</html>`))

var verifyEmailTemplate = template.Must(template.New("verify_email").Parse(`
<html>
<body style="font-family: sans-serif;">
  <h2>Verify your email address</h2>
  <p><a href="{{.VerifyURL}}">Confirm your email</a></p>
  <p>The link expires on {{.ExpiresAt}}.</p>
</body>
</html>`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func formatExpiry(ts time.Time) string {
	return ts.UTC().Format("Jan 2, 2006 15:04 MST")
}
