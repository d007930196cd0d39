// Package http implements the HTTP request handlers for the GridPulse
// API. Handlers stay thin: they parse and validate requests, delegate to
// the service layer, and render responses. Errors are rendered as
// RFC 7807 problem details by the shared error handler.
//
// A typical request flows:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Dataset
//
// Handlers never hold dataset state themselves; the services own it.
package http
