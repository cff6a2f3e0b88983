package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/edgehq/edge-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService delivers the workflow emails. Every send is fire-and-forget
// from the workflow's point of view; failures are logged and retried here,
// never surfaced as workflow errors.
type EmailService interface {
	SendReviewFinalized(to, employeeName, cycleName, dashboardLink string) error
	SendRevisionRequested(to, managerName, employeeName, notes string) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type reviewFinalizedEmailData struct {
	EmployeeName  string
	CycleName     string
	DashboardLink string
}

// SendReviewFinalized tells the employee their review is ready to acknowledge
func (s *emailServiceImpl) SendReviewFinalized(to, employeeName, cycleName, dashboardLink string) error {
	data := reviewFinalizedEmailData{
		EmployeeName:  employeeName,
		CycleName:     cycleName,
		DashboardLink: dashboardLink,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "review_finalized.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Your %s review is ready", cycleName), body.String())
}

type revisionRequestedEmailData struct {
	ManagerName  string
	EmployeeName string
	Notes        string
}

// SendRevisionRequested tells the manager an admin sent their review back
func (s *emailServiceImpl) SendRevisionRequested(to, managerName, employeeName, notes string) error {
	data := revisionRequestedEmailData{
		ManagerName:  managerName,
		EmployeeName: employeeName,
		Notes:        notes,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "revision_requested.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Revision requested: review for %s", employeeName), body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: EDGE <%s>\r\n", from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
