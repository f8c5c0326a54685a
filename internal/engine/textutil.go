package engine

import (
	"regexp"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
	"golang.org/x/net/html"
)

// UserAgentChrome is sent on outbound requests that set no User-Agent.
const UserAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// CleanHTML strips HTML tags and trims whitespace.
func CleanHTML(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}

// CleanCaption turns raw timedtext content into plain text.
// Timedtext bodies are entity-escaped twice, so the XML decoder leaves
// entities like &#39; behind; those are resolved before tags are stripped.
func CleanCaption(s string) string {
	return CleanHTML(html.UnescapeString(s))
}

// Snippet caps s at limit runes for logs and error messages.
func Snippet(s string, limit int) string {
	return strutil.TruncateWith(strings.TrimSpace(s), limit, "...")
}
