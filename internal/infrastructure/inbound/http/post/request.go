package post_http

import (
	"encoding/json"
	"errors"
	"net/http"
)

const defaultMaxRequestBytes = 1 << 20

type PostRequestInternal struct {
	Title string `json:"title" validate:"required,max=255"`
	Body  string `json:"body"`
}

var errRequestTooLarge = errors.New("request body too large")

func decodePostRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (*PostRequestInternal, error) {
	if maxBytes <= 0 {
		maxBytes = defaultMaxRequestBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	var req PostRequestInternal
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errRequestTooLarge
		}
		return nil, err
	}
	return &req, nil
}
