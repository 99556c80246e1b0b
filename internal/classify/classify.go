package classify

import (
	"net"
	"net/http"
	"regexp"
	"strings"
)

// Device is the coarse device class derived from the User-Agent.
type Device string

const (
	DeviceMobile  Device = "mobile"
	DeviceTablet  Device = "tablet"
	DeviceDesktop Device = "desktop"
)

// Visitor describes one request's classification for targeting and
// analytics. All fields are derived from headers and connection
// metadata; nothing here touches the store.
type Visitor struct {
	Device    Device
	IsAndroid bool
	IsIOS     bool
	IsBot     bool
	Country   string
	City      string
	Region    string
	Referrer  string
	IP        string
	UserAgent string
}

// botPatterns are the social crawlers that should receive the preview
// page instead of a redirect (lowercase substrings).
var botPatterns = []string{
	"facebookexternalhit",
	"twitterbot",
	"linkedinbot",
	"slackbot",
	"whatsapp",
	"telegrambot",
}

// Android/iOS matching is intentionally separate from the
// mobile/tablet/desktop classifier: the two are used for different
// decisions and their patterns do not coincide (an iPad is a tablet
// but still an iOS device).
var (
	androidPattern = regexp.MustCompile(`(?i)android`)
	iosPattern     = regexp.MustCompile(`(?i)iphone|ipad|ipod`)
)

const unknownValue = "Unknown"

// Classify derives a Visitor from the inbound request.
func Classify(r *http.Request) Visitor {
	ua := r.UserAgent()

	return Visitor{
		Device:    deviceClass(ua),
		IsAndroid: androidPattern.MatchString(ua),
		IsIOS:     iosPattern.MatchString(ua),
		IsBot:     isBot(ua),
		Country:   r.Header.Get("CF-IPCountry"),
		City:      headerOr(r, "CF-IPCity", unknownValue),
		Region:    headerOr(r, "CF-Region", unknownValue),
		Referrer:  headerOr(r, "Referer", unknownValue),
		IP:        ClientIP(r),
		UserAgent: ua,
	}
}

func deviceClass(ua string) Device {
	lower := strings.ToLower(ua)

	switch {
	case strings.Contains(lower, "mobile"):
		return DeviceMobile
	case strings.Contains(lower, "tablet"), strings.Contains(lower, "ipad"):
		return DeviceTablet
	default:
		return DeviceDesktop
	}
}

func isBot(ua string) bool {
	lower := strings.ToLower(ua)

	for _, pattern := range botPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	return false
}

func headerOr(r *http.Request, name, fallback string) string {
	if v := r.Header.Get(name); v != "" {
		return v
	}

	return fallback
}

// ClientIP extracts the client IP from the request, considering proxies.
func ClientIP(r *http.Request) string {
	// Check X-Forwarded-For first (may contain multiple IPs)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first IP (original client)
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	// Check X-Real-IP
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return ip
}

// Hostname returns the request host with any port stripped, for
// scoping the link lookup.
func Hostname(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.Host)
	if err != nil {
		return r.Host
	}

	return host
}
