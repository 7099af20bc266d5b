// Package views holds the templ components of the HTML pages.
package views

import "github.com/dmitrymomot/mailsender/internal/sentmail"

// MailForm holds the submitted form values and per-field errors.
type MailForm struct {
	Recipient string
	Subject   string
	Body      string
	Errors    map[string]string
}

// IndexData is everything the main page shows.
type IndexData struct {
	Sender    string
	CSRFToken string
	Form      MailForm
	History   []sentmail.Summary
	Sent      bool // set after a successful send
}
