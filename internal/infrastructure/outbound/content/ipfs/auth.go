package ipfs

import "net/http"

// basicAuthTransport attaches project credentials to every API request.
type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	authed := req.Clone(req.Context())
	authed.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(authed)
}

func newAPIClient(projectID, projectSecret string, base http.RoundTripper) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	if projectID == "" && projectSecret == "" {
		return &http.Client{Transport: base}
	}
	return &http.Client{
		Transport: &basicAuthTransport{
			username: projectID,
			password: projectSecret,
			base:     base,
		},
	}
}
