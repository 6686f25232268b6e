package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindNetwork: the request never produced a response.
	KindNetwork Kind = iota + 1
	// KindAuthentication: 401, credential missing, invalid or expired.
	KindAuthentication
	// KindValidation: any other 4xx.
	KindValidation
	// KindServer: 5xx and any other unexpected status.
	KindServer
)

var (
	ErrNetwork        = errors.New("network error")
	ErrAuthentication = errors.New("authentication error")
	ErrValidation     = errors.New("validation error")
	ErrServer         = errors.New("server error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindAuthentication:
		return ErrAuthentication
	case KindValidation:
		return ErrValidation
	case KindServer:
		return ErrServer
	default:
		return nil
	}
}

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the tagged failure returned by Gateway.Do.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Detail is the raw "detail" member of the error body, if any.
	Detail json.RawMessage
	Method  string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s %s: %s (%d): %s", e.Method, e.Path, e.Kind, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of err, or 0 when err did not come from a Gateway.
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return 0
}

// MessageOf returns the service-supplied message of a gateway error, or
// err.Error() for anything else.
func MessageOf(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return err.Error()
}

func classify(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthentication
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationItem struct {
	Msg string `json:"msg"`
	Loc []any  `json:"loc"`
}

// parseDetail extracts the raw detail and a human readable message from an
// error body. Plain string details are used as-is; lists of validation
// items are joined by "; ".
func parseDetail(status int, body []byte) (json.RawMessage, string) {
	fallback := http.StatusText(status)

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return nil, fallback
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		if s == "" {
			return eb.Detail, fallback
		}
		return eb.Detail, s
	}

	var items []validationItem
	if err := json.Unmarshal(eb.Detail, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg == "" {
				continue
			}
			if field := lastLoc(it.Loc); field != "" {
				msgs = append(msgs, field+": "+it.Msg)
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return eb.Detail, strings.Join(msgs, "; ")
		}
	}

	return eb.Detail, fallback
}

func lastLoc(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok {
		return s
	}
	return ""
}
