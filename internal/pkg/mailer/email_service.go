package mailer

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	Configured() bool
	SendInterviewInvite(ctx context.Context, toEmail, candidateName string, date time.Time, location, duration string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) Configured() bool {
	return s.senderEmail != "" && s.dialer.Password != ""
}

// SendInterviewInvite sends the invitation as a multipart alternative: plain
// text first, then the styled HTML version mail clients prefer.
func (s *emailService) SendInterviewInvite(ctx context.Context, toEmail, candidateName string, date time.Time, location, duration string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dateStr := date.Format("02/01/2006 à 15:04")

	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Invitation à un entretien - Smart-Hire")

	textBody := fmt.Sprintf(`Bonjour %s,

Nous avons le plaisir de vous informer que votre candidature a retenu notre attention.

Nous souhaiterions vous rencontrer pour un entretien afin d'échanger sur votre parcours et le poste proposé.

Détails de l'entretien:
━━━━━━━━━━━━━━━━━━━━━━━━━━
📅 Date: %s
📍 Lieu: %s
⏱️ Durée: %s

Merci de confirmer votre présence en répondant à cet email.

Si cet horaire ne vous convient pas, n'hésitez pas à nous proposer d'autres créneaux.

Nous vous prions de bien vouloir apporter:
• Une pièce d'identité
• Un CV à jour
• Vos diplômes

Nous restons à votre disposition pour toute question.

Cordialement,
L'équipe Smart-Hire

━━━━━━━━━━━━━━━━━━━━━━━━━━
Smart-Hire - Recrutement Intelligent
Email: %s
`, candidateName, dateStr, location, duration, s.senderEmail)

	htmlBody := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto;">
			<div style="background-color: #4CAF50; color: white; padding: 20px; text-align: center; border-radius: 10px 10px 0 0;">
				<h2 style="margin: 0;">Smart-Hire</h2>
				<p style="margin: 5px 0 0;">Invitation à un entretien</p>
			</div>
			<div style="background-color: white; padding: 30px; border-radius: 0 0 10px 10px;">
				<p>Bonjour <strong>%s</strong>,</p>
				<p>Nous avons le plaisir de vous informer que votre candidature a retenu notre attention.</p>
				<p>Nous souhaiterions vous rencontrer pour un entretien afin d'échanger sur votre parcours et le poste proposé.</p>
				<div style="background-color: #e8f5e9; border-left: 4px solid #4CAF50; padding: 15px; margin: 20px 0;">
					<h3 style="margin-top: 0;">📋 Détails de l'entretien</h3>
					<p>📅 <strong>Date :</strong> %s</p>
					<p>📍 <strong>Lieu :</strong> %s</p>
					<p>⏱️ <strong>Durée :</strong> %s</p>
				</div>
				<div style="background-color: #fff8e1; border-left: 4px solid #FFC107; padding: 15px; margin: 20px 0;">
					<h3 style="margin-top: 0;">📝 À apporter le jour de l'entretien</h3>
					<p>• Une pièce d'identité<br>• Un CV à jour<br>• Vos diplômes</p>
				</div>
				<p>Merci de confirmer votre présence en répondant à cet email.</p>
				<p>Cordialement,<br>L'équipe Smart-Hire</p>
			</div>
		</div>
	`, candidateName, dateStr, location, duration)

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send invitation to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Invitation sent to %s\n", toEmail)
	return nil
}
