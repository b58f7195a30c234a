// Package component defines lifecycle-managed infrastructure such as the
// HTTP server and the word stream cache. Components are started in
// registration order, stopped in reverse and polled for health by the
// readiness endpoint.
package component
