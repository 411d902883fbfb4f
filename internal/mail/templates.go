package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"jhs/backend/internal/models"
)

var templateFuncs = template.FuncMap{
	"lines": func(s string) []string {
		return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	},
	"orNA": func(s *string) string {
		if s == nil || strings.TrimSpace(*s) == "" {
			return "N/A"
		}
		return *s
	},
}

var inquiryTemplate = template.Must(template.New("inquiry").Funcs(templateFuncs).Parse(`<h2>New Project Inquiry</h2>
<ul>
  <li><strong>Name:</strong> {{.Name}}</li>
  <li><strong>Email:</strong> {{.Email}}</li>
  <li><strong>Phone:</strong> {{orNA .Phone}}</li>
  <li><strong>Project Type:</strong> {{orNA .ProjectType}}</li>
  <li><strong>Message:</strong><br>{{range $i, $line := lines .Message}}{{if $i}}<br>{{end}}{{$line}}{{end}}</li>
</ul>
`))

var resetTemplate = template.Must(template.New("reset").Parse(
	`<p>Click <a href="{{.Link}}">here</a> to reset your password (expires in {{.Expiry}}).</p>
`))

// InquiryNotification builds the message sent to the site owner for a new inquiry.
func InquiryNotification(inquiry models.Inquiry, to string) (Message, error) {
	var body bytes.Buffer
	if err := inquiryTemplate.Execute(&body, inquiry); err != nil {
		return Message{}, fmt.Errorf("render inquiry mail: %w", err)
	}
	return Message{
		FromName: "JHS Website",
		To:       to,
		ReplyTo:  inquiry.Email,
		Subject:  "New Inquiry from " + inquiry.Name,
		HTML:     body.String(),
	}, nil
}

// PasswordReset builds the reset-link message.
func PasswordReset(to string, link string, expiry string) (Message, error) {
	var body bytes.Buffer
	data := struct {
		Link   string
		Expiry string
	}{Link: link, Expiry: expiry}
	if err := resetTemplate.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("render reset mail: %w", err)
	}
	return Message{
		FromName: "JHS Engineering",
		To:       to,
		Subject:  "Password Reset - JHS Admin",
		HTML:     body.String(),
	}, nil
}
