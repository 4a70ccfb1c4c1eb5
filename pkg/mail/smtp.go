package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Options struct {
	Host       string
	Port       int
	Username   string
	Password   string
	FromEmail  string
	FromName   string
	SSL        bool
	TLS        bool
	AuthMethod string // plain, login, cram-md5
	Timeout    time.Duration
}

// SMTPMailer sends HTML mail through one SMTP relay. A new connection is
// made for every message.
type SMTPMailer struct {
	client *gomail.Client
	from   string
	name   string
}

func NewSMTPMailer(opts Options) (*SMTPMailer, error) {
	if opts.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if opts.FromEmail == "" {
		return nil, errors.New("smtp sender address is required")
	}

	clientOpts := []gomail.Option{gomail.WithPort(opts.Port)}
	if opts.Timeout > 0 {
		clientOpts = append(clientOpts, gomail.WithTimeout(opts.Timeout))
	}
	if opts.Username != "" {
		clientOpts = append(clientOpts,
			gomail.WithSMTPAuth(authType(opts.AuthMethod)),
			gomail.WithUsername(opts.Username),
			gomail.WithPassword(opts.Password),
		)
	}
	switch {
	case opts.SSL:
		clientOpts = append(clientOpts, gomail.WithSSL())
	case opts.TLS:
		clientOpts = append(clientOpts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	default:
		clientOpts = append(clientOpts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	client, err := gomail.NewClient(opts.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPMailer{client: client, from: opts.FromEmail, name: opts.FromName}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, message *Message) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.name, m.from); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(message.To); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(message.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, message.HTML)
	if message.Text != "" {
		msg.AddAlternativeString(gomail.TypeTextPlain, message.Text)
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// Probe connects and authenticates without sending anything.
func (m *SMTPMailer) Probe(ctx context.Context) error {
	if err := m.client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp probe: %w", err)
	}
	return m.client.Close()
}

func authType(method string) gomail.SMTPAuthType {
	switch strings.ToLower(method) {
	case "login":
		return gomail.SMTPAuthLogin
	case "cram-md5", "crammd5":
		return gomail.SMTPAuthCramMD5
	default:
		return gomail.SMTPAuthPlain
	}
}
