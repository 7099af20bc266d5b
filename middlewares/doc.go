// Package middlewares contains the net/http middleware shared by every route.
//
//	r := chi.NewRouter()
//	r.Use(
//		middlewares.RequestID(),
//		middlewares.AccessLog(log),
//		middlewares.Recover(log),
//		middlewares.Timeout(30*time.Second),
//	)
//
// Pair RequestID with [RequestIDExtractor] on the logger so every record
// written with the request context carries request_id.
package middlewares
