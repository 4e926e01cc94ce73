package mailer

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/portapro/portapro-api/internal/model"
	"github.com/portapro/portapro-api/internal/queue"
)

// QueueNotifier dispatches email jobs to the durable mail queue. Delivery
// is fire-and-forget: the enclosing workflow has already succeeded by the
// time a job is published, and publish failures fall back to a direct
// in-process delivery attempt rather than surfacing to the caller.
type QueueNotifier struct {
	amqpURL  string
	fallback *Mailer
}

// NewQueueNotifier builds a notifier publishing to amqpURL. fallback
// handles jobs when the broker is unreachable.
func NewQueueNotifier(amqpURL string, fallback *Mailer) *QueueNotifier {
	return &QueueNotifier{amqpURL: amqpURL, fallback: fallback}
}

// SendConfirmation dispatches an email-verification code to the user.
func (n *QueueNotifier) SendConfirmation(ctx context.Context, u *model.User, token string) error {
	return n.dispatch(ctx, queue.EmailJob{
		To:       u.Email,
		Name:     u.FirstName,
		Template: queue.TemplateConfirmation,
		Token:    token,
	})
}

// SendPasswordReset dispatches a password-reset code to the user.
func (n *QueueNotifier) SendPasswordReset(ctx context.Context, u *model.User, token string) error {
	return n.dispatch(ctx, queue.EmailJob{
		To:       u.Email,
		Name:     u.FirstName,
		Template: queue.TemplatePasswordReset,
		Token:    token,
	})
}

func (n *QueueNotifier) dispatch(ctx context.Context, job queue.EmailJob) error {
	if err := n.publish(ctx, job); err != nil {
		log.Printf("mailer: publish failed: %v; attempting direct delivery", err)
		if n.fallback != nil {
			go func() {
				if err := n.fallback.Send(job); err != nil {
					log.Printf("mailer: direct delivery to %s failed: %v", job.To, err)
				}
			}()
		}
		return err
	}
	return nil
}

// publish opens a short-lived connection and places the job on the durable
// queue. Messages are marked persistent so they survive broker restarts.
func (n *QueueNotifier) publish(ctx context.Context, job queue.EmailJob) error {
	conn, err := amqp.Dial(n.amqpURL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.MailQueueName, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",                  // default exchange
		queue.MailQueueName, // routing key = queue name
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}
