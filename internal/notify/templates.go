package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"
	"time"
)

const signupTimeLayout = "January 02, 2006 at 03:04 PM"

// SignupDetails feeds the new volunteer email.
type SignupDetails struct {
	Name       string
	Phone      string
	Email      string
	SignupDate time.Time
	Ministries []MinistryLine
}

// MinistryLine is one selected area with its category.
type MinistryLine struct {
	Category     string
	MinistryArea string
}

// ResetDetails feeds the password reset email.
type ResetDetails struct {
	Link         string
	ValidMinutes int
}

var signupText = template.Must(template.New("signup_text").Parse(`
New Volunteer Signup

A new volunteer has signed up through the CPBC Volunteer App.

Volunteer Information:
----------------------
Name: {{.Name}}
Phone: {{.Phone}}
Email: {{.Email}}
Signup Date: {{.SignupTime}}

Ministry Areas Selected:
------------------------
{{range .Ministries}}  - {{.MinistryArea}} ({{.Category}})
{{end}}
---
This is an automated notification from the CPBC Volunteer App.
`))

var signupHTML = htmltemplate.Must(htmltemplate.New("signup_html").Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #2c5282; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f7fafc; }
        .info-label { font-weight: bold; color: #2c5282; }
        .ministry-list { background-color: white; padding: 15px; border-radius: 5px; }
        .ministry-item { padding: 5px 0; border-bottom: 1px solid #e2e8f0; }
        .footer { text-align: center; padding: 20px; color: #718096; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>New Volunteer Signup</h1></div>
        <div class="content">
            <p>A new volunteer has signed up through the CPBC Volunteer App.</p>
            <h2>Volunteer Information</h2>
            <p><span class="info-label">Name:</span> {{.Name}}</p>
            <p><span class="info-label">Phone:</span> {{.Phone}}</p>
            <p><span class="info-label">Email:</span> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
            <p><span class="info-label">Signup Date:</span> {{.SignupTime}}</p>
            <h2>Ministry Areas Selected</h2>
            <div class="ministry-list">
                {{range .Ministries}}<div class="ministry-item"><strong>{{.MinistryArea}}</strong> <em>({{.Category}})</em></div>
                {{end}}
            </div>
        </div>
        <div class="footer"><p>This is an automated notification from the CPBC Volunteer App.</p></div>
    </div>
</body>
</html>
`))

var resetText = template.Must(template.New("reset_text").Parse(`Password Reset Request

You requested a password reset for the CPBC Volunteer App admin dashboard.

Click the link below to set a new password (valid for {{.Validity}}):
{{.Link}}

If you did not request this, please ignore this email.

---
Cross Point Baptist Church Volunteer App`))

var resetHTML = htmltemplate.Must(htmltemplate.New("reset_html").Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #2c5282; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f7fafc; }
        .button { display: inline-block; background-color: #2c5282; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; margin: 16px 0; }
        .footer { text-align: center; padding: 20px; color: #718096; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>Password Reset</h1></div>
        <div class="content">
            <p>You requested a password reset for the CPBC Volunteer App admin dashboard.</p>
            <p>Click the button below to set a new password. This link is valid for {{.Validity}}.</p>
            <p style="text-align: center;"><a href="{{.Link}}" class="button" style="color: white;">Reset Password</a></p>
            <p style="font-size: 12px; color: #718096;">If the button doesn't work, copy and paste this link:<br>{{.Link}}</p>
            <p>If you did not request this reset, please ignore this email.</p>
        </div>
        <div class="footer"><p>Cross Point Baptist Church Volunteer App</p></div>
    </div>
</body>
</html>`))

// SignupMessage renders the admin notification for a new volunteer.
func SignupMessage(to []string, d SignupDetails) (Message, error) {
	data := struct {
		SignupDetails
		SignupTime string
	}{d, d.SignupDate.Format(signupTimeLayout)}

	text, html, err := render(signupText, signupHTML, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       to,
		Subject:  "New Volunteer Signup: " + d.Name,
		TextBody: text,
		HTMLBody: html,
	}, nil
}

// PasswordResetMessage renders the reset link email for one admin.
func PasswordResetMessage(to string, d ResetDetails) (Message, error) {
	data := struct {
		ResetDetails
		Validity string
	}{d, validity(d.ValidMinutes)}

	text, html, err := render(resetText, resetHTML, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       []string{to},
		Subject:  "Password Reset - CPBC Volunteer App",
		TextBody: text,
		HTMLBody: html,
	}, nil
}

func render(text *template.Template, html *htmltemplate.Template, data any) (string, string, error) {
	var tb, hb bytes.Buffer
	if err := text.Execute(&tb, data); err != nil {
		return "", "", err
	}
	if err := html.Execute(&hb, data); err != nil {
		return "", "", err
	}
	return tb.String(), hb.String(), nil
}

func validity(minutes int) string {
	switch {
	case minutes <= 0 || minutes == 60:
		return "1 hour"
	case minutes%60 == 0:
		return fmt.Sprintf("%d hours", minutes/60)
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}
