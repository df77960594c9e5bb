// Package input parses command line request items into content objects.
package input

import (
	"net/http"
	"net/url"

	"github.com/huykingsofm/hyperad/content"
)

// Request is the parsed form of the command line: a method, a target URL,
// extra headers, and the content to submit (nil when no request item
// contributed anything).
type Request struct {
	Method  string
	URL     *url.URL
	Header  http.Header
	Content content.Content
}
