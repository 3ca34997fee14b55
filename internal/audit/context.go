package audit

import (
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/pawpoint/vetclinic/internal/models"
)

// RequestContext is the request snapshot stamped onto audit records.
type RequestContext struct {
	URLPath   string
	Method    string
	IPAddress string
	UserAgent string
}

// ExtractContext pulls actor-independent request context. It never
// fails: missing or malformed headers degrade to empty fields. Behind
// a proxy the leftmost X-Forwarded-For entry is trusted, matching the
// deployment's edge configuration.
func ExtractContext(r *http.Request) RequestContext {
	if r == nil {
		return RequestContext{}
	}

	rc := RequestContext{
		URLPath: r.URL.Path,
		Method:  r.Method,
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		rc.IPAddress = strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	} else if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		rc.IPAddress = host
	}

	rc.UserAgent = truncateOnRune(r.Header.Get("User-Agent"), models.AuditUserAgentMaxLen)

	return rc
}

// truncateOnRune cuts s to at most max bytes without splitting a
// multi-byte rune at the cut point.
func truncateOnRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size > 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}
