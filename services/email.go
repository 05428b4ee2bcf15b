package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/smtp"

	"go.uber.org/zap"
)

// GenerateRandomCode returns a numeric verification code of the given length.
func GenerateRandomCode(length int) string {
	code := ""
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			code += "0"
			continue
		}
		code += n.String()
	}
	return code
}

// Mailer sends the account-verification code to a new user.
type Mailer interface {
	SendVerificationCode(to, code string) error
}

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SmtpServer  string
	SmtpPort    string
	SenderEmail string
	SenderPass  string
	SenderName  string
}

// SMTPMailer implements Mailer over plain SMTP.
type SMTPMailer struct {
	config EmailConfig
}

func NewSMTPMailer(config EmailConfig) *SMTPMailer {
	if config.SmtpServer == "" {
		config.SmtpServer = "smtp.gmail.com"
	}
	if config.SmtpPort == "" {
		config.SmtpPort = "465"
	}
	if config.SenderName == "" {
		config.SenderName = "Lizzy Moda Evangelica"
	}
	return &SMTPMailer{config: config}
}

func (m *SMTPMailer) SendVerificationCode(to, code string) error {
	from := fmt.Sprintf("%s <%s>", m.config.SenderName, m.config.SenderEmail)
	headers := map[string]string{
		"From":         from,
		"To":           to,
		"Subject":      "Codigo de verificacao - Lizzy Moda Evangelica",
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + buildVerificationEmailHTML(code)

	auth := smtp.PlainAuth("", m.config.SenderEmail, m.config.SenderPass, m.config.SmtpServer)

	err := smtp.SendMail(
		m.config.SmtpServer+":"+m.config.SmtpPort,
		auth,
		m.config.SenderEmail,
		[]string{to},
		[]byte(message),
	)
	if err != nil {
		zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("to", to))
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func buildVerificationEmailHTML(code string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <h2 style="color: #8C2D4B;">Ola!</h2>
    <p>Obrigado por se cadastrar na Lizzy Moda Evangelica.</p>
    <p>Por favor, use o codigo abaixo para verificar seu email e ativar sua conta:</p>
    <h3 style="color: #8C2D4B; font-size: 24px; text-align: center; border: 1px solid #eee; padding: 10px; border-radius: 5px;">
        %s
    </h3>
    <p>Este codigo e valido por 15 minutos.</p>
    <p>Se voce nao solicitou este codigo, por favor ignore este email.</p>
    <p>Atenciosamente,</p>
    <p>Equipe Lizzy Moda Evangelica</p>
</div>
`, code)
}
