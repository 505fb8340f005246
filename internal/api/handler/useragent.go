package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wowlabz/accounts-api/internal/core/domain"
)

// clientMetadata fingerprints the calling client from its User-Agent so a
// session row can be traced back to its origin. The parse is deliberately
// coarse; the fields are observational only.
func clientMetadata(c echo.Context) domain.ClientMetadata {
	ua := c.Request().UserAgent()
	return domain.ClientMetadata{
		OS:      uaOS(ua),
		Device:  uaDevice(ua),
		Browser: uaBrowser(ua),
	}
}

func uaOS(ua string) string {
	switch {
	case strings.Contains(ua, "Windows"):
		return "Windows"
	case strings.Contains(ua, "iPhone"), strings.Contains(ua, "iPad"):
		return "iOS"
	case strings.Contains(ua, "Mac OS X"):
		return "macOS"
	case strings.Contains(ua, "Android"):
		return "Android"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	default:
		return "Other"
	}
}

func uaDevice(ua string) string {
	if strings.Contains(ua, "Mobile") || strings.Contains(ua, "Android") || strings.Contains(ua, "iPhone") {
		return "mobile"
	}
	return "desktop"
}

func uaBrowser(ua string) string {
	switch {
	case strings.Contains(ua, "Edg/"):
		return "Edge"
	case strings.Contains(ua, "Firefox/"):
		return "Firefox"
	case strings.Contains(ua, "Chrome/"):
		return "Chrome"
	case strings.Contains(ua, "Safari/"):
		return "Safari"
	default:
		return "Other"
	}
}
