package utils

import (
	ua "github.com/mssola/user_agent"
)

// DeviceType classifies the client behind a User-Agent string as
// mobile, bot or desktop. It is recorded alongside refresh tokens
// so sessions can be told apart.
func DeviceType(userAgent string) string {
	if userAgent == "" {
		return "unknown"
	}

	parser := ua.New(userAgent)
	switch {
	case parser.Bot():
		return "bot"
	case parser.Mobile():
		return "mobile"
	default:
		return "desktop"
	}
}
