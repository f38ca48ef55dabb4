package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/creditbridge/scoring-service/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendAssessmentResult notifies an applicant that their credit assessment
// completed.
func (s *Sender) SendAssessmentResult(to, name string, score int, riskCategory string, repaymentProbability float64) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Your Credit Assessment Result"

	body := fmt.Sprintf(
		"Dear %s,\n\n", name,
	)
	body += fmt.Sprintf(
		"Your credit assessment has been completed on %s.\n\n"+
			"Credit Score: %d\n"+
			"Risk Category: %s\n"+
			"Estimated Repayment Probability: %.1f%%\n\n"+
			"A loan officer will contact you regarding the next steps.\n",
		time.Now().Format("2006-01-02"), score, riskCategory, repaymentProbability*100,
	)
	body += "\nBest regards,\nCreditBridge"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
