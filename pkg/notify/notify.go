// Package notify delivers team assignments to participants by email.
package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/arnavshah/team-former-api-go/pkg/config"
	"github.com/arnavshah/team-former-api-go/pkg/models"
	"go.uber.org/zap"
)

// TeamAssignmentTemplate is the template name used by NotifyTeams
const TeamAssignmentTemplate = "team_assignment"

// ErrNoRecipients is returned by Send when the recipient list is empty
var ErrNoRecipients = errors.New("no recipients")

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Notifier sends a rendered template to a list of recipients
type Notifier interface {
	Send(ctx context.Context, templateName string, to []string, payload map[string]any) error
}

// Render executes the named embedded template with payload
func Render(templateName string, payload map[string]any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, templateName+".html", payload); err != nil {
		return "", fmt.Errorf("render template %s: %w", templateName, err)
	}
	return body.String(), nil
}

// SMTPNotifier delivers mail through an SMTP server. Port 465 uses implicit
// TLS, any other port uses STARTTLS.
type SMTPNotifier struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Subject  func(templateName string, payload map[string]any) string
}

// NewSMTPNotifier builds a notifier from the SMTP settings in cfg
func NewSMTPNotifier(cfg *config.Config) *SMTPNotifier {
	return &SMTPNotifier{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	}
}

func (n *SMTPNotifier) subject(templateName string, payload map[string]any) string {
	if n.Subject != nil {
		return n.Subject(templateName, payload)
	}
	if id, ok := payload["TeamID"]; ok {
		return fmt.Sprintf("Your team assignment: Team %v", id)
	}
	return "Team assignment"
}

// Send renders templateName and mails it to every recipient in one message
func (n *SMTPNotifier) Send(ctx context.Context, templateName string, to []string, payload map[string]any) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := Render(templateName, payload)
	if err != nil {
		return err
	}

	msg := []byte("To: " + strings.Join(to, ", ") + "\r\n" +
		"From: " + n.From + "\r\n" +
		"Subject: " + n.subject(templateName, payload) + "\r\n" +
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", n.Host, n.Port)
	tlsConfig := &tls.Config{ServerName: n.Host}

	var client *smtp.Client
	if n.Port == 465 {
		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("tls dial: %w", err)
		}
		client, err = smtp.NewClient(conn, n.Host)
		if err != nil {
			conn.Close()
			return fmt.Errorf("smtp client: %w", err)
		}
	} else {
		client, err = smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial: %w", err)
		}
		if err = client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return fmt.Errorf("starttls: %w", err)
		}
	}
	defer client.Quit()

	if n.Username != "" {
		if err := client.Auth(smtp.PlainAuth("", n.Username, n.Password, n.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(n.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}
	return nil
}

// TeamPayload builds the template payload for one team
func TeamPayload(team models.TeamRoster) map[string]any {
	names := make([]string, 0, len(team.Members))
	for _, m := range team.Members {
		if first := strings.Fields(m.Name); len(first) > 0 {
			names = append(names, first[0])
		}
	}
	return map[string]any{
		"TeamID":     team.TeamID,
		"FirstNames": strings.Join(names, ", "),
		"Members":    team.Members,
	}
}

// NotifyTeams sends each non-empty team its roster. Members without an
// email address are left off the recipient list. It returns the number of
// teams notified and stops at the first delivery error.
func NotifyTeams(ctx context.Context, n Notifier, teams []models.TeamRoster, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}

	sent := 0
	for _, team := range teams {
		var to []string
		for _, m := range team.Members {
			if m.Email != "" {
				to = append(to, m.Email)
			}
		}
		if len(to) == 0 {
			log.Debug("skipping team without recipients", zap.Int("team", team.TeamID))
			continue
		}

		if err := n.Send(ctx, TeamAssignmentTemplate, to, TeamPayload(team)); err != nil {
			log.Error("team notification failed", zap.Int("team", team.TeamID), zap.Error(err))
			return sent, fmt.Errorf("notify team %d: %w", team.TeamID, err)
		}
		log.Info("team notified", zap.Int("team", team.TeamID), zap.Int("recipients", len(to)))
		sent++
	}
	return sent, nil
}
