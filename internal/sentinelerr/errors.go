// Package sentinelerr provides the machine-readable error taxonomy shared
// across the configuration loader, triage engine, snapshot builder,
// scheduler, and HTTP surface.
package sentinelerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Code is a stable machine-readable error code of the form E_[A-Z0-9_]+.
type Code string

const (
	ArgRequired Code = "E_SENTINEL_ARG_REQUIRED"
	ArgInvalid  Code = "E_SENTINEL_ARG_INVALID"
	ArgUnknown  Code = "E_SENTINEL_ARG_UNKNOWN"
	Help        Code = "E_SENTINEL_HELP"

	ConfigNotFound      Code = "E_SENTINEL_CONFIG_NOT_FOUND"
	ConfigRead          Code = "E_SENTINEL_CONFIG_READ"
	ConfigInvalidJSON   Code = "E_SENTINEL_CONFIG_INVALID_JSON"
	ConfigInvalid       Code = "E_SENTINEL_CONFIG_INVALID"

	Git                          Code = "E_SENTINEL_GIT"
	RepoResolveFailed            Code = "E_SENTINEL_REPO_RESOLVE_FAILED"
	PRResolveFailed              Code = "E_SENTINEL_PR_RESOLVE_FAILED"
	AuthMissing                  Code = "E_SENTINEL_AUTH_MISSING"
	ProviderUnsupported          Code = "E_PROVIDER_UNSUPPORTED"
	ProviderNotImplemented       Code = "E_SENTINEL_PROVIDER_NOT_IMPLEMENTED"

	APIError                     Code = "E_SENTINEL_API_ERROR"
	NotificationsScopeRequired   Code = "E_SENTINEL_NOTIFICATIONS_SCOPE_REQUIRED"

	DashboardPending       Code = "E_DASHBOARD_PENDING"
	DashboardUnknown       Code = "E_DASHBOARD_UNKNOWN"
	DashboardAuthRequired  Code = "E_DASHBOARD_AUTH_REQUIRED"
	DashboardAssetForbidden Code = "E_DASHBOARD_ASSET_FORBIDDEN"
	DashboardMethodNotAllowed Code = "E_DASHBOARD_METHOD_NOT_ALLOWED"
	DashboardPortInUse     Code = "E_DASHBOARD_PORT_IN_USE"
	DashboardServerStart   Code = "E_DASHBOARD_SERVER_START"
	DashboardAssetsMissing Code = "E_DASHBOARD_ASSETS_MISSING"
)

// Error is the carrier type implementing the error interface. It
// deliberately excludes HTTP status mapping (that lives in
// internal/httpapi), keeping this package transport-agnostic.
type Error struct {
	Code    Code
	Message string
	Details map[string]interface{}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New builds an *Error from a code and a formatted message.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails attaches a details map and returns the same error for chaining.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

var codePrefix = regexp.MustCompile(`^([A-Z0-9_]+):\s*(.*)$`)

// ExtractCode parses the leading "CODE: message" convention out of an
// arbitrary error string, falling back to DashboardUnknown when the text
// does not match. Messages are truncated to 220 characters, per the
// snapshot builder's serialization rule.
func ExtractCode(err error) (Code, string) {
	code, message, _ := ExtractCodeWithDetails(err)
	return code, message
}

// ExtractCodeWithDetails behaves like ExtractCode but also surfaces the
// structured details map carried by *Error values, so a section error's
// explicit retryAfterSeconds/retryAfterMs hint survives serialization.
func ExtractCodeWithDetails(err error) (Code, string, map[string]interface{}) {
	if err == nil {
		return "", "", nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code, truncate(se.Message, 220), se.Details
	}
	text := err.Error()
	if m := codePrefix.FindStringSubmatch(text); m != nil {
		return Code(m[1]), truncate(m[2], 220), nil
	}
	return DashboardUnknown, truncate(text, 220), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// retryable is the explicit set of codes the scheduler treats as
// transient. E_PROVIDER_UNSUPPORTED is deliberately absent: it is
// non-retryable even though it shares the provider-resolution family.
var retryable = map[Code]bool{
	APIError:                   true,
	AuthMissing:                true,
	NotificationsScopeRequired: true,
	DashboardAuthRequired:      true,
}

var retryableMessage = regexp.MustCompile(`(?i)status=429|timed out`)

// IsRetryable reports whether the scheduler should back off and retry
// rather than publish the failing snapshot as final.
func IsRetryable(code Code, message string) bool {
	if retryable[code] {
		return true
	}
	if code == ProviderUnsupported {
		return false
	}
	return retryableMessage.MatchString(message)
}

// ParseRetryAfterSeconds extracts an explicit retry-after hint from error
// details or message text, in the priority order the scheduler expects:
// details.retryAfterSeconds, details.retryAfterMs, then a message regex.
func ParseRetryAfterSeconds(details map[string]interface{}, message string) (int, bool) {
	if details != nil {
		if v, ok := details["retryAfterSeconds"]; ok {
			if secs, ok := toInt(v); ok {
				return secs, true
			}
		}
		if v, ok := details["retryAfterMs"]; ok {
			if ms, ok := toInt(v); ok {
				return ms / 1000, true
			}
		}
	}
	if m := retryAfterMessage.FindStringSubmatch(message); m != nil {
		var secs int
		if _, err := fmt.Sscanf(m[1], "%d", &secs); err == nil {
			return secs, true
		}
	}
	return 0, false
}

var retryAfterMessage = regexp.MustCompile(`(?i)retry-?after(?:=|\s+)(\d+)`)

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// Sanitize rewrites err into the "CODE: message" wire convention used by
// ExtractCode, preserving *Error values and falling back to
// DashboardUnknown-wrapping for everything else.
func Sanitize(err error) string {
	if err == nil {
		return ""
	}
	if se, ok := err.(*Error); ok {
		return se.Error()
	}
	text := strings.TrimSpace(err.Error())
	if codePrefix.MatchString(text) {
		return text
	}
	return fmt.Sprintf("%s: %s", DashboardUnknown, text)
}
