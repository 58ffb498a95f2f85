package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

var subjects = map[Kind]func(n Notification) string{
	KindWelcome:         func(Notification) string { return "Welcome to ApniSec!" },
	KindLogin:           func(Notification) string { return "New login to your ApniSec account" },
	KindFailedLogin:     func(Notification) string { return "Failed login attempt detected" },
	KindLogout:          func(Notification) string { return "You logged out of ApniSec" },
	KindPasswordReset:   func(Notification) string { return "Reset your ApniSec password" },
	KindPasswordChanged: func(Notification) string { return "Your ApniSec password was changed" },
	KindProfileUpdated:  func(Notification) string { return "Profile Updated Successfully" },
	KindIssueCreated:    func(n Notification) string { return "New Issue Created: " + n.IssueTitle },
	KindIssueUpdated:    func(n Notification) string { return "Issue Updated: " + n.IssueTitle },
	KindIssueDeleted:    func(n Notification) string { return "Issue Deleted: " + n.IssueTitle },
}

const layout = `{{define "layout"}}<!DOCTYPE html>
<html>
  <head><meta charset="utf-8"><title>{{template "heading" .}}</title></head>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #0369a1; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
      <h1 style="color: white; margin: 0;">{{template "heading" .}}</h1>
    </div>
    <div style="background: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px;">
      {{template "body" .}}
      <p style="margin-top: 30px;">Best regards,<br>The ApniSec Team</p>
    </div>
  </body>
</html>{{end}}`

var bodies = map[Kind]string{
	KindWelcome: `{{define "heading"}}Welcome to ApniSec!{{end}}{{define "body"}}
<p>Hello {{.Name}},</p>
<p>Thank you for joining ApniSec! We're excited to have you on board.</p>
<p>You can now log in to your dashboard and start managing your security issues.</p>{{end}}`,

	KindLogin: `{{define "heading"}}New Login Detected{{end}}{{define "body"}}
<p>Hello {{.Name}},</p>
<p>A new login to your ApniSec account just occurred.</p>
<p>If this wasn't you, please reset your password immediately.</p>{{end}}`,

	KindFailedLogin: `{{define "heading"}}Security Alert{{end}}{{define "body"}}
<p>Hello {{.Name}},</p>
<p>A failed login attempt to your ApniSec account was just detected.</p>
<p>If this wasn't you, please ensure your account is secure by resetting your password.</p>{{end}}`,

	KindLogout: `{{define "heading"}}Logout Detected{{end}}{{define "body"}}
<p>Hello {{.Name}},</p>
<p>You have been successfully logged out of your ApniSec account.</p>{{end}}`,

	KindPasswordReset: `{{define "heading"}}Reset Your Password{{end}}{{define "body"}}
<p>We received a request to reset your password.</p>
<p>Click the link below to set a new password:</p>
<p style="text-align:center; margin: 24px 0;"><a href="{{.ResetLink}}">Reset password</a></p>
<p>If you did not request a password reset, you can safely ignore this email.</p>{{end}}`,

	KindPasswordChanged: `{{define "heading"}}Password Changed{{end}}{{define "body"}}
<p>Your ApniSec account password was changed successfully.</p>
<p>If you did not perform this action, please contact support immediately.</p>{{end}}`,

	KindProfileUpdated: `{{define "heading"}}Profile Updated{{end}}{{define "body"}}
<p>Hello {{.Name}},</p>
<p>Your profile has been successfully updated.</p>
<p>If you did not make this change, please contact our support team immediately.</p>{{end}}`,

	KindIssueCreated: `{{define "heading"}}New Issue Created{{end}}{{define "body"}}
<p>A new issue has been created in your account:</p>
<p><strong>Type:</strong> {{.IssueType}}</p>
<p><strong>Title:</strong> {{.IssueTitle}}</p>
<p><strong>Description:</strong></p>
<p style="background: #f3f4f6; padding: 15px; border-radius: 5px;">{{.IssueDescription}}</p>{{end}}`,

	KindIssueUpdated: `{{define "heading"}}Issue Updated{{end}}{{define "body"}}
<p>An issue in your account has been updated:</p>
<p><strong>Type:</strong> {{.IssueType}}</p>
<p><strong>Title:</strong> {{.IssueTitle}}</p>
{{if .IssueStatus}}<p><strong>New Status:</strong> {{.IssueStatus}}</p>{{end}}{{end}}`,

	KindIssueDeleted: `{{define "heading"}}Issue Deleted{{end}}{{define "body"}}
<p>The following issue has been deleted from your account:</p>
<p><strong>Title:</strong> {{.IssueTitle}}</p>{{end}}`,
}

var templates = mustParse()

func mustParse() map[Kind]*template.Template {
	base := template.Must(template.New("email").Parse(layout))
	out := make(map[Kind]*template.Template, len(bodies))
	for kind, body := range bodies {
		out[kind] = template.Must(template.Must(base.Clone()).Parse(body))
	}
	return out
}

// Render produces the email for n. Template fields are HTML-escaped.
func Render(n Notification) (Message, error) {
	tmpl, ok := templates[n.Kind]
	if !ok {
		return Message{}, fmt.Errorf("unknown notification kind %q", n.Kind)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", n); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", n.Kind, err)
	}
	return Message{To: n.To, Subject: subjects[n.Kind](n), HTML: buf.String()}, nil
}
