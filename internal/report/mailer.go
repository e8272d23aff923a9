package report

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends HTML mail over authenticated SMTP with STARTTLS.
type Mailer struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
}

// Send delivers an HTML body to every configured recipient.
func (m *Mailer) Send(subject, htmlBody string) error {
	if m.From == "" || len(m.Recipients) == 0 {
		return fmt.Errorf("mailer: from address and recipients are required")
	}
	if m.Username == "" || m.Password == "" {
		return fmt.Errorf("mailer: smtp credentials are required")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(m.Recipients, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	if err := smtp.SendMail(addr, auth, m.From, m.Recipients, []byte(msg.String())); err != nil {
		return fmt.Errorf("sending report mail: %w", err)
	}
	return nil
}

// ParseRecipients splits a comma or newline separated address list, trimming
// whitespace and dropping empty entries.
func ParseRecipients(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	}) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
