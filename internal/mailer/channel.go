package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"gopkg.in/gomail.v2"

	"github.com/rohithwtcrofficial/roastery-backoffice/internal/aws"
)

// Sender is the delivery channel the dispatcher talks to. The production
// implementation is Channel; tests inject fakes.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// MailCredentials is the JSON shape of the mail secret.
type MailCredentials struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
	FromName string `json:"from_name"`
}

// Channel is a thin wrapper around an SMTP transport. The underlying dialer
// is built on first use from credentials pulled out of Secrets Manager and
// kept for the life of the process; a failed fetch is not kept, so the next
// send retries it and a transient secrets blip does not poison a warm
// process. There is no retry logic here: redelivery is the trigger
// platform's job and the dispatcher stays correct under duplicates.
type Channel struct {
	secrets    aws.SecretsManagerAPI
	secretName string

	mu     sync.Mutex
	dialer *gomail.Dialer
	creds  MailCredentials
}

// NewChannel returns a Channel that will lazily resolve its credentials
// from the named secret.
func NewChannel(secrets aws.SecretsManagerAPI, secretName string) *Channel {
	return &Channel{
		secrets:    secrets,
		secretName: secretName,
	}
}

func (c *Channel) getOrCreate(ctx context.Context) (*gomail.Dialer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dialer != nil {
		return c.dialer, nil
	}

	out, err := c.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &c.secretName,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch mail secret: %w", err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("mail secret %s has no string value", c.secretName)
	}
	if err := json.Unmarshal([]byte(*out.SecretString), &c.creds); err != nil {
		return nil, fmt.Errorf("decode mail secret: %w", err)
	}
	c.dialer = gomail.NewDialer(c.creds.Host, c.creds.Port, c.creds.Username, c.creds.Password)
	return c.dialer, nil
}

// Send delivers one HTML email. Errors propagate to the dispatcher, which
// records them and swallows them.
func (c *Channel) Send(ctx context.Context, to, subject, html string) error {
	dialer, err := c.getOrCreate(ctx)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	from := c.creds.From
	if c.creds.FromName != "" {
		from = m.FormatAddress(c.creds.From, c.creds.FromName)
	}
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
