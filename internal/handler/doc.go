// Package handler provides the HTTP layer of the Moveyes API.
//
// Each handler struct is built from a XxxHandlerConfig and calls exactly one
// service. Handlers decode the request, call the service and write the
// resource as JSON. They never write error bodies themselves: every failure
// goes to the ErrorTranslator, which decides the status code and how much
// detail the client sees.
//
// # Error Envelope
//
//	{"status": "fail", "message": "Invalid credentials"}
//
// status is "fail" for 4xx and "error" for 5xx. In verbose mode the error
// chain and a stack trace are added under "error" and "stack".
//
// # Routes
//
// NewRouter mounts the handlers on chi. Routes under /api/profile,
// /api/watch-history and the favorites endpoints require a bearer token.
package handler
