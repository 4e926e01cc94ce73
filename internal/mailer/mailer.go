// Package mailer renders templated email and delivers it over SMTP. The
// workflow engine never talks to this package directly; it dispatches jobs
// through the Notifier in notifier.go and the queue consumer calls back
// into Send.
package mailer

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"

	"github.com/portapro/portapro-api/internal/config"
	"github.com/portapro/portapro-api/internal/queue"
)

//go:embed templates/*.html
var templateFS embed.FS

var subjects = map[string]string{
	queue.TemplateConfirmation:  "Welcome to PortaPro! Confirm your Email",
	queue.TemplatePasswordReset: "Password Reset Request",
}

// Mailer delivers rendered email jobs through an SMTP relay. When no relay
// is configured it logs the rendered message instead, so registration and
// reset flows keep working in development.
type Mailer struct {
	cfg  config.MailConfig
	tmpl *template.Template
}

// New parses the embedded templates and returns a ready Mailer.
func New(cfg config.MailConfig) (*Mailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Mailer{cfg: cfg, tmpl: tmpl}, nil
}

// Render produces the subject and HTML body for a job.
func (m *Mailer) Render(job queue.EmailJob) (subject, body string, err error) {
	subject, ok := subjects[job.Template]
	if !ok {
		return "", "", fmt.Errorf("unknown mail template %q", job.Template)
	}
	var b strings.Builder
	if err := m.tmpl.ExecuteTemplate(&b, job.Template+".html", job); err != nil {
		return "", "", fmt.Errorf("render %s: %w", job.Template, err)
	}
	return subject, b.String(), nil
}

// Send renders and delivers one job. It is used as the queue consumer's
// handler; returning an error rejects the message.
func (m *Mailer) Send(job queue.EmailJob) error {
	subject, body, err := m.Render(job)
	if err != nil {
		return err
	}
	if m.cfg.SMTPHost == "" {
		log.Printf("mailer: SMTP disabled, would send %q to %s", subject, job.To)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + job.To,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{job.To}, []byte(msg))
}
