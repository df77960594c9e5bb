// Package content provides typed holders for outgoing HTTP request data.
// Each content object knows how to contribute to the URL query string, the
// request body, and the request headers; the exchange package turns the
// result into an *http.Request.
package content

import (
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// MIME types emitted by content objects.
const (
	TypeJSON        = "application/json"
	TypeForm        = "application/x-www-form-urlencoded"
	TypeMultipart   = "multipart/form-data"
	TypeText        = "text/plain"
	TypeOctetStream = "application/octet-stream"
)

// ErrDuplicateName is returned when two multipart members of a Form share
// the same part name.
var ErrDuplicateName = errors.New("duplicate part name")

// Content is one piece of outgoing request data.
type Content interface {
	// Name returns the name the content was constructed with.
	Name() string

	// Enctype returns the MIME type the content contributes to the request
	// body, or "" when it carries no body (Param).
	Enctype() string

	// Build constructs the payload this content contributes to a request.
	Build() (*Payload, error)
}

// BodyType discriminates how a payload's body is encoded.
type BodyType int

const (
	EmptyBody BodyType = iota
	FormBody
	JSONBody
	MultipartBody
	RawBody
)

// Part is a single multipart/form-data part.
type Part struct {
	FieldName   string
	Filename    string // empty for JSON parts
	ContentType string
	Body        []byte
}

// Payload is what a content object contributes to an outgoing request.
type Payload struct {
	Params url.Values
	Header http.Header

	BodyType BodyType
	Fields   url.Values  // FormBody and MultipartBody
	Parts    []Part      // MultipartBody
	JSON     interface{} // JSONBody
	Raw      []byte      // RawBody
}

func newPayload() *Payload {
	return &Payload{
		Params: url.Values{},
		Header: http.Header{},
		Fields: url.Values{},
	}
}

func validateName(name string) error {
	if name == "" {
		return errors.New("content name must not be empty")
	}
	return nil
}
