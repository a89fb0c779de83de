// Package middleware provides the HTTP middleware for the Moveyes API.
//
// Requests pass through, outermost first:
//
//	RequestID -> Logger -> Recovery -> Metrics -> CORS -> RateLimit -> Compress
//
// and protected routes add Auth on top. Middleware that rejects a request
// never writes its own body; it hands an error to an ErrorWriter so every
// failure leaves the service in the same envelope.
//
// # Authentication
//
// Auth accepts "Authorization: Bearer <token>" and stores the validated
// claims in the request context:
//
//	userID := middleware.GetUserID(r.Context())
//
// A missing header, an expired token and any other invalid token each
// produce a 401 with a distinct message.
//
// # Rate Limiting
//
// RateLimiter keeps one golang.org/x/time/rate token bucket per client IP.
// Idle buckets are swept periodically; call Stop on shutdown.
package middleware
