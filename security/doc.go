// Package security holds the TLS settings used for outbound calls to
// forced-alignment providers, such as a self-hosted WhisperX API behind a
// private CA.
package security
