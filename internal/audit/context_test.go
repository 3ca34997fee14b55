package audit

import (
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/pawpoint/vetclinic/internal/models"
)

func TestExtractContextForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/crm/customers", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1, 10.0.0.2")
	req.RemoteAddr = "10.0.0.2:4431"

	rc := ExtractContext(req)
	assert.Equal(t, "203.0.113.9", rc.IPAddress)
	assert.Equal(t, "/crm/customers", rc.URLPath)
	assert.Equal(t, "GET", rc.Method)
}

func TestExtractContextRemoteAddrFallback(t *testing.T) {
	req := httptest.NewRequest("POST", "/billing/invoices", nil)
	req.RemoteAddr = "192.0.2.4:51002"

	rc := ExtractContext(req)
	assert.Equal(t, "192.0.2.4", rc.IPAddress)
}

func TestExtractContextBareRemoteAddr(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.4"

	rc := ExtractContext(req)
	assert.Equal(t, "192.0.2.4", rc.IPAddress)
}

func TestExtractContextTruncatesUserAgent(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("User-Agent", strings.Repeat("x", 900))

	rc := ExtractContext(req)
	assert.Len(t, rc.UserAgent, models.AuditUserAgentMaxLen)
}

func TestExtractContextTruncationKeepsValidUTF8(t *testing.T) {
	// A two-byte rune straddling the limit must be dropped whole, not
	// cut in the middle.
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("User-Agent", strings.Repeat("x", models.AuditUserAgentMaxLen-1)+"é")

	rc := ExtractContext(req)
	assert.True(t, utf8.ValidString(rc.UserAgent))
	assert.Len(t, rc.UserAgent, models.AuditUserAgentMaxLen-1)
}

func TestExtractContextMissingEverything(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = ""
	req.Header.Del("User-Agent")

	rc := ExtractContext(req)
	assert.Equal(t, "", rc.IPAddress)
	assert.Equal(t, "", rc.UserAgent)

	assert.Equal(t, RequestContext{}, ExtractContext(nil))
}
