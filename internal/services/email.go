package services

import (
	"crypto/tls"
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"github.com/google/uuid"

	"github.com/foxxcyber/vitrine/internal/config"
	"github.com/foxxcyber/vitrine/internal/models"
)

// SMTPConfig holds the outgoing mail server settings
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	FromAddr string
	FromName string
}

// EmailService sends lead notifications via SMTP
type EmailService struct {
	smtp    SMTPConfig
	siteURL string
}

// NewEmailService returns nil when SMTP is not configured
func NewEmailService(cfg *config.Config) *EmailService {
	if !cfg.MailEnabled() {
		return nil
	}
	return &EmailService{
		smtp: SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			FromAddr: cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		},
		siteURL: strings.TrimSuffix(cfg.PublicSiteURL, "/"),
	}
}

// Email is a rendered message ready to send
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// LeadEmail renders the notification sent to the broker a lead was assigned
// to. property may be nil for general contact requests.
func LeadEmail(to string, lead *models.Lead, property *models.Property, siteURL string) Email {
	subject := "Novo contato: " + lead.Name
	if property != nil {
		subject = "Novo contato sobre " + property.Title
	}

	var text strings.Builder
	var body strings.Builder

	line := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&text, "%s: %s\n", label, value)
		fmt.Fprintf(&body, "<p><strong>%s:</strong> %s</p>\n", label, html.EscapeString(value))
	}

	line("Nome", lead.Name)
	if lead.Email != nil {
		line("E-mail", *lead.Email)
	}
	if lead.Phone != nil {
		line("Telefone", *lead.Phone)
	}
	if property != nil {
		line("Imóvel", property.Title)
		if property.PropertyCode != nil {
			line("Código", *property.PropertyCode)
		}
		if property.Slug != nil && siteURL != "" {
			line("Link", siteURL+"/imoveis/"+*property.Slug)
		}
	}
	line("Origem", lead.Source)
	if lead.Message != nil {
		line("Mensagem", *lead.Message)
	}

	return Email{
		To:       []string{to},
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: "<html><body>\n" + body.String() + "</body></html>",
	}
}

// NotifyLead sends the lead notification to the assigned broker
func (s *EmailService) NotifyLead(to string, lead *models.Lead, property *models.Property) error {
	return s.Send(LeadEmail(to, lead, property, s.siteURL))
}

// Send delivers a rendered message
func (s *EmailService) Send(e Email) error {
	if len(e.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}
	return s.sendMail(e.To, buildMessage(s.smtp, e))
}

// buildMessage assembles a multipart/alternative message
func buildMessage(cfg SMTPConfig, e Email) string {
	boundary := "vitrine-" + uuid.NewString()

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", cfg.FromName, cfg.FromAddr))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(e.To, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", sanitizeHeader(e.Subject)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary))
	msg.WriteString("\r\n")

	// Plain text part
	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(e.TextBody)
	msg.WriteString("\r\n")

	// HTML part
	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(e.HTMLBody)
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return msg.String()
}

// sanitizeHeader drops line breaks so visitor input cannot inject headers
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

func (s *EmailService) sendMail(to []string, msg string) error {
	addr := fmt.Sprintf("%s:%d", s.smtp.Host, s.smtp.Port)

	var auth smtp.Auth
	if s.smtp.User != "" && s.smtp.Password != "" {
		auth = smtp.PlainAuth("", s.smtp.User, s.smtp.Password, s.smtp.Host)
	}

	var client *smtp.Client
	if s.smtp.Port == 465 {
		// Implicit TLS
		conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.smtp.Host})
		if err != nil {
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		client, err = smtp.NewClient(conn, s.smtp.Host)
		if err != nil {
			conn.Close()
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
	} else {
		var err error
		client, err = smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.smtp.Host}); err != nil {
				client.Close()
				return fmt.Errorf("STARTTLS failed: %w", err)
			}
		}
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(s.smtp.FromAddr); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, recipient := range to {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
