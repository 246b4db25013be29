package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var errMailDisabled = errors.New("SMTP credentials not configured")

// ContactMessage is a contact form submission.
type ContactMessage struct {
	Name    string `form:"fullName" validate:"required,max=200"`
	Email   string `form:"email" validate:"required,email"`
	Message string `form:"message" validate:"required,max=5000"`
}

// Mailer delivers contact form messages to the owner.
type Mailer interface {
	SendContact(ctx context.Context, msg ContactMessage) error
}

type noMailer struct{}

func (noMailer) SendContact(context.Context, ContactMessage) error {
	return errMailDisabled
}

// SMTPMailer sends mail with PLAIN auth, e.g. through Gmail with an app
// password.
type SMTPMailer struct {
	cfg  config.SMTP
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTPMailer) SendContact(_ context.Context, msg ContactMessage) error {
	if !m.cfg.Enabled() {
		return errMailDisabled
	}
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.send(addr, auth, m.cfg.User, []string{m.cfg.ToEmail}, m.compose(msg)); err != nil {
		return fmt.Errorf("sending contact email: %w", err)
	}
	return nil
}

// headerSafe drops CR and LF so form input cannot add mail headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

func (m *SMTPMailer) compose(msg ContactMessage) []byte {
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	return []byte("To: " + m.cfg.ToEmail + "\r\n" +
		"Subject: Portfolio Contact: " + headerSafe(msg.Name) + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + headerSafe(msg.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

func (s *Server) contact(c *gin.Context) {
	var msg ContactMessage
	if err := c.ShouldBind(&msg); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": "Please fill in every field."})
		return
	}
	msg.Name, msg.Email = strings.TrimSpace(msg.Name), strings.TrimSpace(msg.Email)
	if err := content.Validate(msg); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": "Please check your name, email and message."})
		return
	}

	if err := s.mailer.SendContact(c.Request.Context(), msg); err != nil {
		log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("Error sending email")
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	log.Info().Str("request_id", c.GetString(requestIDKey)).Msg("Contact email sent")
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}
