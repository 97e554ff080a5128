package awserr

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// ErrorKind groups provider error codes by how callers react to them.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotFound
	KindThrottled
	KindAccessDenied
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not-found"
	case KindThrottled:
		return "throttled"
	case KindAccessDenied:
		return "access-denied"
	default:
		return "other"
	}
}

var throttleCodes = map[string]bool{
	"Throttling":                true,
	"ThrottlingException":       true,
	"RequestLimitExceeded":      true,
	"TooManyRequestsException":  true,
	"RequestThrottled":          true,
	"RequestThrottledException": true,
}

var accessDeniedCodes = map[string]bool{
	"AccessDenied":          true,
	"AccessDeniedException": true,
	"UnauthorizedOperation": true,
	"AuthFailure":           true,
	"OptInRequired":         true,
}

// ErrorCode returns the provider error code carried by err, or "" when err
// did not come from the service.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// Classify maps err to an ErrorKind. Codes ending in ".NotFound" (for example
// InvalidVolume.NotFound) are KindNotFound.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	code := ErrorCode(err)
	switch {
	case code == "":
		return KindOther
	case strings.HasSuffix(code, ".NotFound"):
		return KindNotFound
	case throttleCodes[code]:
		return KindThrottled
	case accessDeniedCodes[code]:
		return KindAccessDenied
	}
	return KindOther
}

// IsCode reports whether err carries the given provider error code.
func IsCode(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}
