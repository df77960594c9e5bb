package content

import (
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// File is an upload sent to the server. Standalone it becomes the raw
// request body with attachment headers; inside a Form it becomes one
// multipart part.
type File struct {
	name     string
	filename string
	enctype  string
	data     []byte
}

type named interface {
	Name() string
}

// NewFile reads r and wraps it as file content. The filename may be empty
// when r exposes one itself (e.g. *os.File); it is reduced to its basename.
// The content type is taken from the filename extension, or sniffed from
// the data when the extension resolves to nothing.
func NewFile(name string, r io.Reader, filename string) (*File, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	if filename == "" {
		if n, ok := r.(named); ok {
			filename = n.Name()
		}
	}
	if filename == "" {
		return nil, errors.New("filename must be given explicitly when the reader does not provide one")
	}

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "reading file content of '%s'", name)
	}

	filename = filepath.Base(filename)
	return &File{
		name:     name,
		filename: filename,
		enctype:  detectType(filename, data),
		data:     data,
	}, nil
}

// FileFromPath reads the file at path and wraps it as file content.
func FileFromPath(name, path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening file for '%s'", name)
	}
	defer f.Close()
	return NewFile(name, f, "")
}

func detectType(filename string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	detected := mimetype.Detect(data)
	switch {
	case detected.Is(TypeText):
		return TypeText
	case detected.Is(TypeOctetStream):
		return TypeOctetStream
	default:
		return detected.String()
	}
}

func (f *File) Name() string {
	return f.name
}

func (f *File) Filename() string {
	return f.filename
}

func (f *File) Enctype() string {
	return f.enctype
}

// Build produces the raw-body payload used when the file is sent on its
// own. Content-Type and Content-Disposition let the server recover the
// type and original filename.
func (f *File) Build() (*Payload, error) {
	payload := newPayload()
	payload.BodyType = RawBody
	payload.Raw = f.data
	payload.Header.Set("Content-Type", f.enctype)
	payload.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", f.filename))
	return payload, nil
}

func (f *File) part() Part {
	return Part{
		FieldName:   f.name,
		Filename:    f.filename,
		ContentType: f.enctype,
		Body:        f.data,
	}
}
