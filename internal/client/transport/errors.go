package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Kind classifies a failed exchange.
type Kind int

const (
	// KindNetwork means no response was obtained.
	KindNetwork Kind = iota + 1
	// KindHTTP means the backend answered with a status >= 400.
	KindHTTP
	// KindMalformed means the response body did not have the expected shape.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Sentinels matched by (*Error).Is.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrUnavailable       = errors.New("backend unavailable")
	ErrMalformedResponse = errors.New("malformed response")
)

// Error is returned for every failed exchange.
type Error struct {
	Kind    Kind
	Status  int // 0 when no response was obtained
	Message string
	Method  string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Method != "" {
		fmt.Fprintf(&b, "%s %s: ", e.Method, e.Path)
	}

	switch e.Kind {
	case KindHTTP:
		fmt.Fprintf(&b, "%d %s", e.Status, http.StatusText(e.Status))
		if e.Message != "" {
			b.WriteString(": " + e.Message)
		}
	case KindNetwork:
		b.WriteString("request failed")
		if e.Err != nil {
			b.WriteString(": " + e.Err.Error())
		}
	default:
		b.WriteString("malformed response")
		if e.Message != "" {
			b.WriteString(": " + e.Message)
		}
		if e.Err != nil {
			b.WriteString(": " + e.Err.Error())
		}
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindHTTP && (e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
	case ErrNotFound:
		return e.Kind == KindHTTP && e.Status == http.StatusNotFound
	case ErrUnavailable:
		return e.Kind == KindNetwork ||
			(e.Kind == KindHTTP && e.Status >= http.StatusBadGateway && e.Status <= http.StatusGatewayTimeout)
	case ErrMalformedResponse:
		return e.Kind == KindMalformed
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var te *Error
	if errors.As(err, &te) {
		return te.Status
	}
	return 0
}

// Malformed builds a KindMalformed error for req.
func Malformed(req *Request, status int, err error) *Error {
	e := &Error{Kind: KindMalformed, Status: status, Err: err}
	if req != nil {
		e.Method, e.Path = req.Method, req.Path
	}
	return e
}

const maxMessageLen = 200

// errorMessage pulls a human readable message out of an error body. The
// backend uses {message}, {error} or {error: {message}}; anything else is
// shown as short plain text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		var s string
		if json.Unmarshal(payload.Error, &s) == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
		return ""
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxMessageLen {
		cut := maxMessageLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}
