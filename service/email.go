package service

import (
	"fmt"

	"expense-tracker/config"

	"gopkg.in/gomail.v2"
)

// Notifier sends recovery mail. Callers treat delivery as best-effort: a
// returned error is logged, never surfaced to the requester.
type Notifier interface {
	SendResetLinkEmail(toEmail, fullname, resetLink string) error
	SendOTPEmail(toEmail, fullname, code string) error
}

// EmailService SMTP-backed notifier
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates an email service
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendResetLinkEmail sends a password-reset link email
func (s *EmailService) SendResetLinkEmail(toEmail, fullname, resetLink string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("email service disabled, set email.enabled=true")
	}

	subject := "[Expense Tracker] Password Reset"
	body := s.generateResetLinkBody(fullname, resetLink)

	return s.sendEmail(toEmail, subject, body)
}

// SendOTPEmail sends a password-reset OTP email
func (s *EmailService) SendOTPEmail(toEmail, fullname, code string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("email service disabled, set email.enabled=true")
	}

	subject := "[Expense Tracker] Password Reset Code"
	body := s.generateOTPBody(fullname, code)

	return s.sendEmail(toEmail, subject, body)
}

// SendTestEmail sends a configuration test email
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("email service disabled")
	}

	subject := "[Expense Tracker] Email Configuration Test"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>Email configuration works</h2>
    <p>If you received this email, the SMTP settings are correct.</p>
    <p style="color: #666;">Expense Tracker</p>
</body>
</html>
`
	return s.sendEmail(toEmail, subject, body)
}

func (s *EmailService) generateResetLinkBody(fullname, resetLink string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .btn { display: inline-block; background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white !important; text-decoration: none; padding: 14px 40px; border-radius: 8px; font-weight: 600; margin: 20px 0; }
        .warning { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .warning p { margin: 0; color: #856404; font-size: 14px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
        .link { word-break: break-all; color: #2563eb; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Expense Tracker</h1>
        </div>
        <div class="content">
            <p>Hi <strong>%s</strong>,</p>
            <p>We received a request to reset your password. Click the button below to choose a new one:</p>
            <p style="text-align: center;">
                <a href="%s" class="btn">Reset Password</a>
            </p>
            <div class="warning">
                <p>This link expires in <strong>1 hour</strong>.</p>
                <p>If you did not request a password reset, you can safely ignore this email.</p>
            </div>
            <p>If the button does not work, copy this link into your browser:</p>
            <p class="link">%s</p>
        </div>
        <div class="footer">
            <p>This email was sent automatically, please do not reply</p>
            <p>Expense Tracker - your personal finance assistant</p>
        </div>
    </div>
</body>
</html>
`, fullname, resetLink, resetLink)
}

func (s *EmailService) generateOTPBody(fullname, code string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #10b981, #059669); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .code-box { background: linear-gradient(135deg, #f0fdf4, #dcfce7); border: 2px dashed #10b981; border-radius: 12px; padding: 30px; text-align: center; margin: 30px 0; }
        .code { font-size: 36px; font-weight: bold; color: #059669; letter-spacing: 8px; font-family: 'Courier New', monospace; }
        .warning { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .warning p { margin: 0; color: #856404; font-size: 14px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Expense Tracker</h1>
        </div>
        <div class="content">
            <p>Hi <strong>%s</strong>,</p>
            <p>We received a request to reset your password. Use this one-time code:</p>
            <div class="code-box">
                <span class="code">%s</span>
            </div>
            <div class="warning">
                <p>This code expires in <strong>10 minutes</strong>.</p>
                <p>If you did not request a password reset, you can safely ignore this email.</p>
            </div>
        </div>
        <div class="footer">
            <p>This email was sent automatically, please do not reply</p>
            <p>Expense Tracker - your personal finance assistant</p>
        </div>
    </div>
</body>
</html>
`, fullname, code)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
