package apiclient

import (
	"net/http"

	"golang.org/x/oauth2"
)

// TokenFunc adapts a getter of the current bearer credential to an
// oauth2.TokenSource. An empty string means nobody is signed in.
type TokenFunc func() string

func (f TokenFunc) Token() (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: f(), TokenType: "Bearer"}, nil
}

// bearerTransport attaches the session credential to every outgoing request.
// Unlike oauth2.Transport it sends the request bare when there is no token,
// so the public auth endpoints share the same client.
type bearerTransport struct {
	base   http.RoundTripper
	tokens oauth2.TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, err := t.tokens.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil || tok.AccessToken == "" {
		return t.base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	tok.SetAuthHeader(r)
	return t.base.RoundTrip(r)
}
