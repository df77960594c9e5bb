package output

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"code.cloudfoundry.org/bytefmt"
)

type FileWriter struct {
	fullPath string
	progress io.Writer
}

// NewFileWriter decides where a downloaded body ends up. Precedence:
// explicit OutputFile, filename from the Content-Disposition header, then
// the basename of the request URL. Existing files are not clobbered unless
// Overwrite is set.
func NewFileWriter(resp *http.Response, options *Options) *FileWriter {
	fullPath := options.OutputFile
	if fullPath == "" {
		fullPath = fmt.Sprintf("./%s", responseFilename(resp))
	}

	if !options.Overwrite {
		fullPath = makeNonOverlappingFilename(fullPath)
	}

	return &FileWriter{
		fullPath: fullPath,
		progress: os.Stderr,
	}
}

func responseFilename(resp *http.Response) string {
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		if name := filepath.Base(params["filename"]); name != "." && name != string(filepath.Separator) {
			return name
		}
	}
	if resp.Request != nil {
		if name := filepath.Base(resp.Request.URL.Path); name != "." && name != string(filepath.Separator) {
			return name
		}
	}
	return "index"
}

func makeNonOverlappingFilename(path string) string {
	_, err := os.Stat(path)
	if err == nil {
		re := regexp.MustCompile(`\.(\d+)$`)
		newPath := re.ReplaceAllStringFunc(path, func(index string) string {
			i, err := strconv.Atoi(strings.TrimPrefix(index, "."))
			if err != nil {
				panic(err)
			}
			i++
			return fmt.Sprintf(".%d", i)
		})
		if path == newPath {
			path = fmt.Sprintf("%s.%d", path, 1)
		} else {
			path = newPath
		}
		path = makeNonOverlappingFilename(path)
	}
	return path
}

// Download streams the response body into the target file and reports the
// number of bytes written.
func (f *FileWriter) Download(resp *http.Response) (int64, error) {
	file, err := os.Create(f.fullPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	// Without a Content-Length there is no percentage to show
	if resp.ContentLength <= 0 {
		return io.Copy(file, resp.Body)
	}

	buf := make([]byte, 32*1024)
	var totalRead int64
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				return totalRead, werr
			}
			totalRead += int64(n)
			fmt.Fprintf(f.progress, "\r%s / %s (%d%%)",
				bytefmt.ByteSize(uint64(totalRead)),
				bytefmt.ByteSize(uint64(resp.ContentLength)),
				totalRead*100/resp.ContentLength)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return totalRead, err
		}
	}
	fmt.Fprintln(f.progress)

	return totalRead, nil
}

func (f *FileWriter) Path() string {
	return f.fullPath
}

func (f *FileWriter) Filename() string {
	return filepath.Base(f.fullPath)
}
