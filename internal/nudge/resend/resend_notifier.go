package resend

import (
	"bytes"
	"html/template"

	"github.com/resend/resend-go/v2"
)

type emailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type ResendNotifier struct {
	From   string
	To     string
	emails emailSender
}

func New(apiKey, from, to string) *ResendNotifier {
	return &ResendNotifier{
		From:   from,
		To:     to,
		emails: resend.NewClient(apiKey).Emails,
	}
}

var (
	nudgeTemplate = template.Must(template.New("nudge").Parse(`
<p>Still to do today:</p>
<ul>
{{range .}}
  <li>{{.}}</li>
{{end}}
</ul>
`))

	messageTemplate = template.Must(template.New("message").Parse(`<p>{{.}}</p>`))
)

func (r *ResendNotifier) SendNudge(habits []string) error {
	var buf bytes.Buffer
	if err := nudgeTemplate.Execute(&buf, habits); err != nil {
		return err
	}
	return r.send("Habits still due today", buf.String())
}

// Send emails a plain-text body, escaped into a paragraph.
func (r *ResendNotifier) Send(subject, body string) error {
	var buf bytes.Buffer
	if err := messageTemplate.Execute(&buf, body); err != nil {
		return err
	}
	return r.send(subject, buf.String())
}

func (r *ResendNotifier) send(subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    r.From,
		To:      []string{r.To},
		Subject: subject,
		Html:    html,
	}
	_, err := r.emails.Send(params)
	return err
}
