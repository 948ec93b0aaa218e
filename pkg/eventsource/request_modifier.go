package eventsource

import "net/http"

// RequestModifier function for modifying the HTTP connection request.
// Modifiers are applied once, to the request that is cloned on every
// connection attempt.
type RequestModifier func(r *http.Request)

// WithBasicAuth adds basic authentication to the HTTP request
func WithBasicAuth(username, password string) RequestModifier {
	return func(r *http.Request) {
		r.SetBasicAuth(username, password)
	}
}

// WithBearerTokenAuth adds bearer token header to the HTTP request
func WithBearerTokenAuth(token string) RequestModifier {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// WithHeader sets a header of the HTTP request
func WithHeader(key, value string) RequestModifier {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}
