package digest

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/abelbrown/newsreel/internal/config"
	"github.com/abelbrown/newsreel/internal/logging"
)

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Render produces the RFC 5322 wire form of the message.
func (m Message) Render(now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", now.UTC().Format("Mon, 02 Jan 2006 15:04:05 +0000"))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return []byte(b.String())
}

// Mailer delivers a digest with progressive fallback: SMTP when a host is
// configured, then local sendmail, then an .eml file in the outbox.
// Delivery never fails the run as long as the outbox is writable.
type Mailer struct {
	Creds  config.Credentials
	Outbox string

	smtpSend     func(Message) error
	sendmailSend func(Message) error
	now          func() time.Time
}

// NewMailer wires a mailer against the real SMTP and sendmail transports.
func NewMailer(creds config.Credentials, outbox string) *Mailer {
	m := &Mailer{Creds: creds, Outbox: outbox, now: time.Now}
	m.smtpSend = m.sendSMTP
	m.sendmailSend = sendViaSendmail
	return m
}

// Deliver sends msg and reports how: "smtp", "sendmail", or the path of
// the .eml file written as a last resort.
func (m *Mailer) Deliver(msg Message) (string, error) {
	if m.Creds.SMTPHost != "" {
		err := m.smtpSend(msg)
		if err == nil {
			logging.Info("digest sent via smtp", "host", m.Creds.SMTPHost, "to", msg.To)
			return "smtp", nil
		}
		logging.Warn("smtp delivery failed", "host", m.Creds.SMTPHost, "error", err)
	}

	if err := m.sendmailSend(msg); err == nil {
		logging.Info("digest sent via sendmail", "to", msg.To)
		return "sendmail", nil
	}

	path, err := m.writeEML(msg)
	if err != nil {
		return "", fmt.Errorf("all delivery methods failed: %w", err)
	}
	logging.Info("digest written to outbox", "path", path)
	return path, nil
}

func (m *Mailer) sendSMTP(msg Message) error {
	host := m.Creds.SMTPHost
	port := m.Creds.SMTPPort
	if port == "" {
		port = "587"
	}
	addr := net.JoinHostPort(host, port)

	var client *smtp.Client
	var err error
	if port == "465" {
		conn, dialErr := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
		if dialErr != nil {
			return fmt.Errorf("smtp ssl dial: %w", dialErr)
		}
		client, err = smtp.NewClient(conn, host)
	} else {
		client, err = smtp.Dial(addr)
		if err == nil {
			if ok, _ := client.Extension("STARTTLS"); ok {
				err = client.StartTLS(&tls.Config{ServerName: host})
			}
		}
	}
	if err != nil {
		return fmt.Errorf("smtp connect: %w", err)
	}
	defer client.Close()

	if m.Creds.SMTPUser != "" && m.Creds.SMTPPass != "" {
		auth := smtp.PlainAuth("", m.Creds.SMTPUser, m.Creds.SMTPPass, host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(msg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg.Render(m.now())); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return client.Quit()
}

func sendViaSendmail(msg Message) error {
	path, err := exec.LookPath("sendmail")
	if err != nil {
		path = "/usr/sbin/sendmail"
		if _, statErr := os.Stat(path); statErr != nil {
			return fmt.Errorf("sendmail not found")
		}
	}

	cmd := exec.Command(path, "-t", "-oi")
	cmd.Stdin = strings.NewReader(string(msg.Render(time.Now())))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("sendmail: %w", err)
	}
	return nil
}

func (m *Mailer) writeEML(msg Message) (string, error) {
	if err := os.MkdirAll(m.Outbox, 0755); err != nil {
		return "", fmt.Errorf("create outbox: %w", err)
	}

	now := m.now()
	name := fmt.Sprintf("news_digest_%s.eml", now.UTC().Format("20060102T150405Z"))
	path := filepath.Join(m.Outbox, name)
	if err := os.WriteFile(path, msg.Render(now), 0644); err != nil {
		return "", fmt.Errorf("write eml: %w", err)
	}
	return path, nil
}
