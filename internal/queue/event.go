// Package queue defines the mail job payload exchanged over the message
// broker and the background consumer that drains it.
package queue

// MailQueueName is the durable queue carrying outbound email jobs.
const MailQueueName = "mail.outbound"

// Template names understood by the mailer.
const (
	TemplateConfirmation  = "confirmation"
	TemplatePasswordReset = "reset-password"
)

// EmailJob is one outbound email. It carries everything the worker needs to
// render and deliver the message without querying the primary database.
type EmailJob struct {
	To       string `json:"to"`
	Name     string `json:"name"`
	Template string `json:"template"`
	Token    string `json:"token"`
}
