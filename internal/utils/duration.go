// internal/utils/duration.go
package utils

import (
	"regexp"
	"strconv"
	"time"
)

var durationPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// DurationNever is the literal token for a license that never expires.
const DurationNever = "never"

// ParseDuration converts a token of the form <integer><unit> (unit s, m, h or
// d) into a duration. "never" and any non-matching token yield zero, which
// callers treat as "no expiry". The API edge validates tokens with the
// "duration" tag, so the zero fallback is only reachable programmatically.
func ParseDuration(token string) time.Duration {
	if token == DurationNever {
		return 0
	}

	match := durationPattern.FindStringSubmatch(token)
	if match == nil {
		return 0
	}

	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0
	}

	switch match[2] {
	case "s":
		return time.Duration(value) * time.Second
	case "m":
		return time.Duration(value) * time.Minute
	case "h":
		return time.Duration(value) * time.Hour
	case "d":
		return time.Duration(value) * 24 * time.Hour
	}
	return 0
}

// IsDurationToken reports whether the token is "never" or a well-formed
// <integer><unit> duration.
func IsDurationToken(token string) bool {
	return token == DurationNever || durationPattern.MatchString(token)
}

// ExpiryFromDuration resolves a duration token into an absolute expiry
// instant. "never" and malformed tokens yield nil (no expiry); a well-formed
// zero-length token like "0s" yields an expiry at now, so the license is
// already expired when checked.
func ExpiryFromDuration(now time.Time, token string) *time.Time {
	if token == DurationNever || !durationPattern.MatchString(token) {
		return nil
	}
	expiry := now.Add(ParseDuration(token))
	return &expiry
}
