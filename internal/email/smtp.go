package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPNotifier sends notifications over plain SMTP with AUTH.
type SMTPNotifier struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier constructs an SMTPNotifier.
func NewSMTPNotifier(host, port, username, password, from string) *SMTPNotifier {
	return &SMTPNotifier{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		send:     smtp.SendMail,
	}
}

// SendApplicationConfirmation confirms that an application was received.
func (n *SMTPNotifier) SendApplicationConfirmation(ctx context.Context, to, candidateName, jobTitle string) error {
	subject := fmt.Sprintf("Application received: %s", jobTitle)
	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for applying for the %s position. Your application has been received and your interview is ready whenever you are.\n\nBest of luck!\n",
		candidateName, jobTitle,
	)
	return n.deliver(ctx, to, subject, body)
}

// SendInterviewCompletion confirms that the interview was recorded.
func (n *SMTPNotifier) SendInterviewCompletion(ctx context.Context, to, candidateName, jobTitle string) error {
	subject := fmt.Sprintf("Interview complete: %s", jobTitle)
	body := fmt.Sprintf(
		"Hi %s,\n\nYou have completed your interview for the %s position. Our team will review your responses and reach out if we move forward together.\n\nThank you!\n",
		candidateName, jobTitle,
	)
	return n.deliver(ctx, to, subject, body)
}

func (n *SMTPNotifier) deliver(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	addr := n.Host + ":" + n.Port
	auth := smtp.PlainAuth("", n.Username, n.Password, n.Host)
	sendFn := n.send
	if sendFn == nil {
		sendFn = smtp.SendMail
	}
	return sendFn(addr, auth, n.From, []string{to}, []byte(msg.String()))
}

var _ Notifier = (*SMTPNotifier)(nil)
