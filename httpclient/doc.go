// Package httpclient is a small JSON-oriented HTTP client used to talk to
// hosted inference APIs.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.replicate.com",
//	    Timeout: 2 * time.Minute,
//	    Auth:    httpclient.BearerAuth(token),
//	})
//
//	var out prediction
//	resp, err := client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/v1/predictions/" + id})
//	err = resp.DecodeJSON(&out)
//
// Non-2xx responses come back as *Error together with the response, so the
// caller can still read the body. Transport failures are classified as
// timeout or connection errors.
package httpclient
