package utils

import (
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// SendInviteEmail delivers an organization invitation through Resend. When no
// API key is configured (local dev) the link is only logged.
func SendInviteEmail(apiKey, from, to, orgName, inviteLink string) error {
	if apiKey == "" {
		log.Printf("resend disabled, invite link for %s: %s", to, inviteLink)
		return nil
	}

	client := resend.NewClient(apiKey)
	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: fmt.Sprintf("You've been invited to %s on Orbita", orgName),
		Html: fmt.Sprintf(`
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2 style="color: #333;">Join %s on Orbita</h2>
				<p>You've been invited to collaborate. Accept the invitation below:</p>
				<a href="%s" style="display: inline-block; background: #6366f1; color: white; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: 600;">
					Accept Invitation
				</a>
				<p style="color: #888; font-size: 14px; margin-top: 16px;">
					This invitation expires in 7 days.
				</p>
				<p style="color: #aaa; font-size: 12px;">
					If you weren't expecting this, you can safely ignore this email.
				</p>
			</div>
		`, orgName, inviteLink),
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}
	log.Printf("invite email sent (ID: %s) to %s", sent.Id, to)
	return nil
}
