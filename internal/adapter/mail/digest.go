package mail

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/datapolis/indicators-backend/internal/domain"
)

const digestSubject = "Indicators pending update"

var digestTmpl = template.Must(template.New("digest").Parse(`<html>
<body>
<p>Hi {{.Salutation}},</p>
<p>The following indicators you are assigned to are due for an update:</p>
<ul>
{{- range .Items}}
<li><strong>{{.Name}}</strong> (#{{.IndicatorID}}) &mdash; due since {{.ExpiredAt.Format "2 Jan 2006"}}</li>
{{- end}}
</ul>
<p>Please review them and publish fresh values.</p>
</body>
</html>
`))

// Mailer renders staleness digests and hands them to a Sender.
type Mailer struct {
	sender Sender
}

// NewMailer wraps a sender with digest rendering.
func NewMailer(sender Sender) *Mailer {
	return &Mailer{sender: sender}
}

// SendDigest renders and delivers one per-user digest.
func (m *Mailer) SendDigest(ctx context.Context, digest domain.Digest) error {
	var body strings.Builder
	if err := digestTmpl.Execute(&body, digest); err != nil {
		return fmt.Errorf("render digest for user %d: %w", digest.UserID, err)
	}

	return m.sender.Send(ctx, Message{
		To:       digest.Email,
		Subject:  digestSubject,
		HTMLBody: body.String(),
	})
}
