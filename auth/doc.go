// Package auth provides optional bearer-token authentication for the
// alignment API.
//
//   - auth/jwt     generic JWT token service
//   - auth/authctx request context propagation for claims
//
// The top-level package holds the TokenValidator contract consumed by the
// server middleware and a Config that builds one from file settings:
//
//	auth:
//	  enabled: true
//	  jwt:
//	    secret: "change-me"
//	    issuer: "aligner"
//	    access_token_ttl: "1h"
package auth
