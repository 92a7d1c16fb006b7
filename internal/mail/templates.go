package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// Email is a fully rendered message ready to hand to the dialer.
type Email struct {
	Subject  string
	TextBody string
	HTMLBody string
}

type actionEmailData struct {
	Heading    string
	Intro      string
	ButtonText string
	Link       string
	ExpiresIn  string
}

func buildVerificationEmail(link string) Email {
	data := actionEmailData{
		Heading:    "Verify your email",
		Intro:      "Thanks for signing up for Inlyne. Click the button below to verify your email address and continue creating your account.",
		ButtonText: "Verify Email",
		Link:       link,
		ExpiresIn:  "1 hour",
	}
	return Email{
		Subject:  "Verify your email - Inlyne",
		TextBody: buildActionText(data),
		HTMLBody: buildActionHTML(data),
	}
}

func buildPasswordResetEmail(link string) Email {
	data := actionEmailData{
		Heading:    "Reset your password",
		Intro:      "We received a request to reset the password for your Inlyne account. Click the button below to choose a new password.",
		ButtonText: "Reset Password",
		Link:       link,
		ExpiresIn:  "15 minutes",
	}
	return Email{
		Subject:  "Reset your password - Inlyne",
		TextBody: buildActionText(data),
		HTMLBody: buildActionHTML(data),
	}
}

func buildSiteInviteEmail(siteName, link string) Email {
	data := actionEmailData{
		Heading:    "You've been invited",
		Intro:      fmt.Sprintf("You've been invited to collaborate on %s in Inlyne. Click the button below to accept the invitation.", siteName),
		ButtonText: "Accept Invitation",
		Link:       link,
		ExpiresIn:  "24 hours",
	}
	return Email{
		Subject:  fmt.Sprintf("You've been invited to %s - Inlyne", siteName),
		TextBody: buildActionText(data),
		HTMLBody: buildActionHTML(data),
	}
}

func buildActionText(data actionEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(data.Intro + "\n\n")
	buf.WriteString(data.Link + "\n\n")
	buf.WriteString(fmt.Sprintf("This link expires in %s.\n\n", data.ExpiresIn))
	buf.WriteString("If you did not expect this email, you can safely ignore it.\n")
	return buf.String()
}

func buildActionHTML(data actionEmailData) string {
	var buf bytes.Buffer
	_ = actionTemplate.Execute(&buf, data)
	return buf.String()
}

var actionTemplate = template.Must(template.New("action").Parse(actionHTMLTemplate))

const actionHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Heading}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">Inlyne</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <h2 style="margin: 0 0 16px; font-size: 20px; font-weight: 600; color: #1f2937;">{{.Heading}}</h2>
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">{{.Intro}}</p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.Link}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">{{.ButtonText}}</a>
                  </td>
                </tr>
              </table>
              <p style="margin: 24px 0 0; font-size: 13px; color: #9ca3af; text-align: center;">This link expires in {{.ExpiresIn}}.</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">If you did not expect this email, you can safely ignore it.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
