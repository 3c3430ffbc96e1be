package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type EmailService struct {
	apiKey      string
	fromEmail   string
	frontendURL string
}

func NewEmailService(apiKey, fromEmail, frontendURL string) *EmailService {
	return &EmailService{
		apiKey:      apiKey,
		fromEmail:   fromEmail,
		frontendURL: frontendURL,
	}
}

// SendShareInvitation mails the invitee a link to accept a sharing
// grant. Callers treat failures as non-fatal: the grant exists either
// way and the link can be shared manually.
func (s *EmailService) SendShareInvitation(to, inviterName, token string) error {
	if s.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	acceptURL := fmt.Sprintf("%s/sharing/accept?token=%s", s.frontendURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: sans-serif; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #16a34a; color: white; padding: 30px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; }
        .button { display: inline-block; background: #16a34a; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 CashZ sharing invitation</h1>
        </div>
        <div class="content">
            <p>Hi,</p>
            <p><strong>%s</strong> wants to share their finances with you on CashZ.</p>
            <a href="%s" class="button">Accept invitation</a>
            <p style="color: #e74c3c; margin-top: 30px;">⚠️ This link expires in 7 days.</p>
        </div>
    </div>
</body>
</html>
	`, inviterName, acceptURL)

	payload := map[string]interface{}{
		"from":    fmt.Sprintf("CashZ <%s>", s.fromEmail),
		"to":      []string{to},
		"subject": fmt.Sprintf("%s invited you to share finances", inviterName),
		"html":    htmlBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send email: status %d", resp.StatusCode)
	}

	return nil
}
