package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"lms/config"
	"lms/logger"
	"lms/models"
	"lms/models/course"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const appName = "LMS Academy"

// Mailer delivers one HTML message.
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

// SMTPMailer sends through an authenticated SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     string
	From     string
	Password string
}

func (m SMTPMailer) Send(to []string, subject string, htmlBody string) error {
	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: %s <%s>\r\n", appName, m.From)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, to, []byte(msg))
}

// SendGridMailer sends through the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendGridMailer(apiKey, fromEmail string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(appName, fromEmail),
	}
}

func (m *SendGridMailer) Send(to []string, subject string, htmlBody string) error {
	p := sgmail.NewPersonalization()
	p.Subject = subject
	for _, addr := range to {
		p.AddTos(sgmail.NewEmail("", addr))
	}

	msg := sgmail.NewV3Mail()
	msg.SetFrom(m.from)
	msg.AddPersonalizations(p)
	msg.AddContent(sgmail.NewContent("text/html", htmlBody))

	resp, err := m.client.Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// NewMailerFromConfig prefers SendGrid when an API key is set. It returns nil when no sender
// is configured.
func NewMailerFromConfig(cfg *config.Config) Mailer {
	if cfg.EmailSender == "" {
		return nil
	}
	if cfg.SendGridAPIKey != "" {
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailSender)
	}
	return SMTPMailer{Host: cfg.SMTPHost, Port: cfg.SMTPPort, From: cfg.EmailSender, Password: cfg.Password}
}

// EmailNotifier turns enrollment and certificate events into emails.
type EmailNotifier struct {
	mailer Mailer
	log    *logger.Logger
}

func NewEmailNotifier(mailer Mailer, log *logger.Logger) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, log: log.With("service", "EmailNotifier")}
}

func (n *EmailNotifier) EnrollmentConfirmed(user *models.User, c *course.Course) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have successfully enrolled in:</p>
		<h3 style="text-align: center;">%s</h3>
		<div class="info-box">
			Complete every lesson and pass the final quiz to earn your certificate.
		</div>
	`, user.Name, c.Title)
	n.send(user.Email, "Course Enrollment Confirmation", getEmailTemplate("Enrollment Successful!", body))
}

func (n *EmailNotifier) CertificateIssued(user *models.User, c *course.Course, certificateID string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing the course:</p>
		<h3 style="text-align: center;">%s</h3>
		<div class="info-box">
			Your Certificate ID: <strong>%s</strong>
		</div>
		<p>You can use this certificate ID for verification purposes.</p>
	`, user.Name, c.Title, certificateID)
	n.send(user.Email, "Course Completion Certificate", getEmailTemplate("Certificate of Completion", body))
}

func (n *EmailNotifier) send(to, subject, html string) {
	if err := n.mailer.Send([]string{to}, subject, html); err != nil {
		n.log.Error("email delivery failed", "subject", subject, "error", err)
		return
	}
	n.log.Debug("email sent", "subject", subject)
}

// HTML wrapper shared by every notification.
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F3A5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F3A5F; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #4CAF50; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				Happy Learning!
			</div>
		</div>
	</body>
	</html>
	`, strings.ToUpper(appName), title, bodyContent)
}
