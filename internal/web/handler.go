package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/mailsender/internal/auth"
	"github.com/dmitrymomot/mailsender/internal/mailservice"
	"github.com/dmitrymomot/mailsender/internal/sentmail"
	"github.com/dmitrymomot/mailsender/internal/views"
	"github.com/dmitrymomot/mailsender/pkg/mailer"
)

// MailService is the part of mailservice.Service the pages use.
type MailService interface {
	SendMail(ctx context.Context, sender string, req mailservice.NewMailRequest) error
	SentMailsForSender(ctx context.Context, sender string) ([]sentmail.Summary, error)
}

type handler struct {
	mail MailService
	log  *slog.Logger
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	sender, _ := auth.SenderFromContext(r.Context())
	h.renderIndex(w, r, http.StatusOK, views.IndexData{
		Sender: sender,
		Sent:   r.URL.Query().Get("sent") == "1",
	})
}

func (h *handler) send(w http.ResponseWriter, r *http.Request) {
	sender, _ := auth.SenderFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "The form could not be read.", err)
		return
	}

	req := mailservice.NewMailRequest{
		Recipient: strings.TrimSpace(r.PostForm.Get("recipient")),
		Subject:   r.PostForm.Get("subject"),
		Body:      r.PostForm.Get("body"),
	}
	form := views.MailForm{Recipient: req.Recipient, Subject: req.Subject, Body: req.Body}

	err := h.mail.SendMail(r.Context(), sender, req)
	switch {
	case err == nil:
		h.log.InfoContext(r.Context(), "mail sent", slog.String("recipient", req.Recipient))
		http.Redirect(w, r, "/?sent=1", http.StatusSeeOther)

	case errors.Is(err, mailservice.ErrValidation):
		form.Errors = validationErrors(err)
		h.renderIndex(w, r, http.StatusUnprocessableEntity, views.IndexData{Sender: sender, Form: form})

	case errors.Is(err, mailer.ErrSendFailed):
		h.log.ErrorContext(r.Context(), "mail transport failed", slog.String("error", err.Error()))
		form.Errors = map[string]string{"form": "The mail could not be sent. Please try again."}
		h.renderIndex(w, r, http.StatusBadGateway, views.IndexData{Sender: sender, Form: form})

	default:
		// The message may already have left; only the history write failed.
		h.renderError(w, r, http.StatusInternalServerError,
			"The mail may have been sent, but it could not be recorded.", err)
	}
}

func (h *handler) logoutSuccessful(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *handler) renderIndex(w http.ResponseWriter, r *http.Request, status int, data views.IndexData) {
	history, err := h.mail.SentMailsForSender(r.Context(), data.Sender)
	if err != nil {
		h.renderError(w, r, http.StatusInternalServerError, "Your sent mails could not be loaded.", err)
		return
	}
	data.History = history
	data.CSRFToken = auth.CSRFToken(r.Context())
	h.render(w, r, status, views.IndexPage(data))
}

func (h *handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	h.log.ErrorContext(r.Context(), "request failed",
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	h.render(w, r, status, views.ErrorPage(message))
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		h.log.ErrorContext(r.Context(), "render failed", slog.String("error", err.Error()))
	}
}

func validationErrors(err error) map[string]string {
	if errors.Is(err, mailservice.ErrBlankRecipient) {
		return map[string]string{"recipient": "Recipient is required."}
	}
	return map[string]string{"form": "The mail request is invalid."}
}
