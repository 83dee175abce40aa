// Package mailer sends account notification emails over SMTP.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/nikoksr/notify"
	"github.com/nikoksr/notify/service/mail"
	logrus "github.com/sirupsen/logrus"
)

const passwordChangedBody = `Hi %s,

This is a confirmation that your password for your Bus Tracker account has been changed successfully.

If you did not request this change, please contact our support immediately.

© %d Bus Tracker System. All rights reserved.`

type Mailer struct {
	host     string
	port     string
	user     string
	password string
}

func New(host, port, user, password string) *Mailer {
	return &Mailer{host: host, port: port, user: user, password: password}
}

// Enabled reports whether SMTP is configured for this process.
func (m *Mailer) Enabled() bool {
	return m.host != ""
}

// SendPasswordChanged emails a change confirmation to the user. Callers
// treat failures as non-fatal; the password change itself has already
// been committed.
func (m *Mailer) SendPasswordChanged(ctx context.Context, to, name string) error {
	if !m.Enabled() {
		logrus.WithField("to", to).Debug("mailer disabled, skipping password-changed email")
		return nil
	}
	if name == "" {
		name = "User"
	}

	// Fresh mail service per send — nikoksr/notify accumulates receivers
	// across AddReceivers calls.
	mailSvc := mail.New(m.user, fmt.Sprintf("%s:%s", m.host, m.port))
	mailSvc.AuthenticateSMTP("", m.user, m.password, m.host)
	mailSvc.AddReceivers(to)

	notifier := notify.New()
	notifier.UseServices(mailSvc)

	body := fmt.Sprintf(passwordChangedBody, name, time.Now().Year())
	if err := notifier.Send(ctx, "Bus Tracker Password Changed Successfully", body); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
