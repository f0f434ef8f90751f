package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends the transactional email the API produces: activation links,
// password-reset links and seller enquiries.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	replyTo string
}

func New(host string, port int, username, password, from, replyTo string) *Mailer {
	return &Mailer{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		replyTo: replyTo,
	}
}

// Send delivers a branded HTML email to a single recipient.
func (m *Mailer) Send(to, subject, content string) error {
	return m.send(to, subject, content, m.replyTo)
}

// SendWithReplyTo is Send with the Reply-To header pointed at someone else,
// so a seller can answer an enquiry directly.
func (m *Mailer) SendWithReplyTo(to, subject, content, replyTo string) error {
	return m.send(to, subject, content, replyTo)
}

func (m *Mailer) send(to, subject, content, replyTo string) error {
	if to == "" {
		return fmt.Errorf("no recipient specified")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	if replyTo != "" {
		msg.SetHeader("Reply-To", replyTo)
	}
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", Envelope(content))

	return m.dialer.DialAndSend(msg)
}
