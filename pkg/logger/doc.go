// Package logger builds the process-wide slog logger.
//
// Records go to stdout as JSON (or text) and, when a Sentry DSN is
// configured, to Sentry as well. Request-scoped values such as the request id
// or the signed-in sender are attached through [ContextExtractor] functions,
// so handlers only pass the context:
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor(), auth.SenderExtractor())
//	log.InfoContext(r.Context(), "mail sent")
//
// [NewNope] returns a logger that discards everything, for tests.
package logger
