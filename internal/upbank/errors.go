package upbank

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrorKind classifies a failed Up API call.
type ErrorKind int

const (
	// ErrorKindUnreachable — the request never produced an HTTP response.
	ErrorKindUnreachable ErrorKind = iota + 1
	// ErrorKindRejected — upstream answered 4xx (bad request, auth failure, not found).
	ErrorKindRejected
	// ErrorKindUnavailable — upstream answered 5xx.
	ErrorKindUnavailable
)

// String returns the caller-facing label for the kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindUnreachable:
		return "UpstreamUnreachable"
	case ErrorKindRejected:
		return "UpstreamRejected"
	case ErrorKindUnavailable:
		return "UpstreamUnavailable"
	default:
		return "Unknown"
	}
}

// APIError is returned for every failed Up API call. Status is zero when the
// request never reached the upstream; Detail preserves the upstream's own
// error text where one was given.
type APIError struct {
	Kind   ErrorKind
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Kind == ErrorKindUnreachable {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: Up API returned %d: %s", e.Kind, e.Status, e.Detail)
}

// errorFromResponse maps an HTTP error response to an APIError, pulling the
// detail out of the upstream's JSON:API error document when present:
//
//	{"errors": [{"status": "401", "title": "Not Authorized", "detail": "..."}]}
func errorFromResponse(status int, body []byte) *APIError {
	kind := ErrorKindRejected
	if status >= 500 {
		kind = ErrorKindUnavailable
	}

	detail := string(body)
	if first := gjson.GetBytes(body, "errors.0"); first.Exists() {
		title := first.Get("title").String()
		d := first.Get("detail").String()
		switch {
		case title != "" && d != "":
			detail = fmt.Sprintf("%s: %s", title, d)
		case d != "":
			detail = d
		case title != "":
			detail = title
		}
	}

	return &APIError{Kind: kind, Status: status, Detail: detail}
}
