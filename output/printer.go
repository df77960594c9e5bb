// Package output prints HTTP exchanges and writes downloaded bodies to
// disk.
package output

import (
	"io"
	"net/http"
)

type Printer interface {
	PrintStatusLine(proto string, status string) error
	PrintRequestLine(request *http.Request) error
	PrintHeader(header http.Header) error
	PrintBody(body io.Reader, contentType string) error
}
