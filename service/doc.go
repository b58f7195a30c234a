// Package service implements the alignment use case: it validates a request,
// fetches the word stream from a forced-alignment provider and runs the
// aligner over it. Handlers expose it over HTTP with gin.
package service
