// Package server provides the HTTP server: Gin routing behind a net/http
// middleware stack with h2c support, the standard operational endpoints and
// a component wrapper for lifecycle management.
//
// Middleware (server/middleware), outermost first:
//
//   - Recovery: panic to 500 with the error envelope
//   - RequestID: X-Request-Id generation and context propagation
//   - CORS: exact origins plus origin patterns, credentials
//   - BodySizeLimit: request body cap (100MB by default)
//   - RequestLogger: one log line per request
//
// Auth (optional bearer JWT) is a Gin middleware applied per route group.
//
// Endpoints (server/endpoint): /health, /alive, /ready, /info, /version,
// /metrics.
package server
