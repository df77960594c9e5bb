// Package exchange turns content objects into ready-to-send *http.Request
// values and builds the clients that carry them.
package exchange

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"

	"github.com/huykingsofm/hyperad/content"
	"github.com/huykingsofm/hyperad/version"
	"github.com/pkg/errors"
)

// BuildHTTPRequest formats c into an outgoing request. Query parameters
// from the content are merged into the query string already present in
// rawurl. Headers given in extra override headers derived from the content,
// which is the precedence the original per-call header arguments had.
// c may be nil for a bodyless request.
func BuildHTTPRequest(method, rawurl string, c content.Content, extra http.Header, options *Options) (*http.Request, error) {
	payload, err := buildPayload(c)
	if err != nil {
		return nil, err
	}

	u, err := buildURL(rawurl, payload.Params)
	if err != nil {
		return nil, err
	}

	header := buildHeader(payload, extra)

	bodyTuple, err := buildBody(payload)
	if err != nil {
		return nil, err
	}

	if header.Get("Content-Type") == "" && bodyTuple.contentType != "" {
		header.Set("Content-Type", bodyTuple.contentType)
	}
	if header.Get("User-Agent") == "" {
		header.Set("User-Agent", fmt.Sprintf("hyperad-go/%s", version.Current()))
	}
	if options != nil && options.Auth.Enabled {
		header.Set("Authorization", "Basic "+basicCredentials(options.Auth.UserName, options.Auth.Password))
	}

	r := http.Request{
		Method:        method,
		URL:           u,
		Header:        header,
		Host:          header.Get("Host"),
		Body:          bodyTuple.body,
		ContentLength: bodyTuple.contentLength,
	}
	return &r, nil
}

func buildPayload(c content.Content) (*content.Payload, error) {
	if c == nil {
		return &content.Payload{}, nil
	}
	payload, err := c.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "building content '%s'", c.Name())
	}
	return payload, nil
}

func buildURL(rawurl string, params url.Values) (*url.URL, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing URL: %s", rawurl)
	}

	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return nil, errors.Wrap(err, "parsing query string")
	}
	for name, values := range params {
		for _, value := range values {
			q.Add(name, value)
		}
	}

	u.RawQuery = q.Encode()
	return u, nil
}

func buildHeader(payload *content.Payload, extra http.Header) http.Header {
	header := make(http.Header)
	for name, values := range payload.Header {
		header[name] = append([]string(nil), values...)
	}
	for name, values := range extra {
		header[textproto.CanonicalMIMEHeaderKey(name)] = append([]string(nil), values...)
	}
	return header
}

type bodyTuple struct {
	body          io.ReadCloser
	contentLength int64
	contentType   string
}

func buildBody(payload *content.Payload) (bodyTuple, error) {
	switch payload.BodyType {
	case content.EmptyBody:
		return bodyTuple{}, nil
	case content.FormBody:
		return buildFormBody(payload), nil
	case content.JSONBody:
		return buildJSONBody(payload)
	case content.MultipartBody:
		return buildMultipartBody(payload)
	case content.RawBody:
		return buildRawBody(payload), nil
	default:
		return bodyTuple{}, errors.Errorf("unknown body type: %v", payload.BodyType)
	}
}

func buildFormBody(payload *content.Payload) bodyTuple {
	body := payload.Fields.Encode()
	return bodyTuple{
		body:          ioutil.NopCloser(strings.NewReader(body)),
		contentLength: int64(len(body)),
		contentType:   content.TypeForm + "; charset=utf-8",
	}
}

func buildJSONBody(payload *content.Payload) (bodyTuple, error) {
	body, err := json.Marshal(payload.JSON)
	if err != nil {
		return bodyTuple{}, errors.Wrap(err, "marshaling JSON of HTTP body")
	}
	return bodyTuple{
		body:          ioutil.NopCloser(bytes.NewReader(body)),
		contentLength: int64(len(body)),
		contentType:   content.TypeJSON,
	}, nil
}

func buildMultipartBody(payload *content.Payload) (bodyTuple, error) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	// url.Values carries no order; write fields sorted for stable output.
	names := make([]string, 0, len(payload.Fields))
	for name := range payload.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range payload.Fields[name] {
			if err := writer.WriteField(name, value); err != nil {
				return bodyTuple{}, errors.Wrapf(err, "writing field '%s'", name)
			}
		}
	}

	for _, part := range payload.Parts {
		w, err := writer.CreatePart(partHeader(part))
		if err != nil {
			return bodyTuple{}, errors.Wrapf(err, "creating part '%s'", part.FieldName)
		}
		if _, err := w.Write(part.Body); err != nil {
			return bodyTuple{}, errors.Wrapf(err, "writing part '%s'", part.FieldName)
		}
	}

	if err := writer.Close(); err != nil {
		return bodyTuple{}, errors.Wrap(err, "finishing multipart body")
	}
	return bodyTuple{
		body:          ioutil.NopCloser(bytes.NewReader(buffer.Bytes())),
		contentLength: int64(buffer.Len()),
		contentType:   writer.FormDataContentType(),
	}, nil
}

var partNameEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func partHeader(part content.Part) textproto.MIMEHeader {
	disposition := fmt.Sprintf(`form-data; name="%s"`, partNameEscaper.Replace(part.FieldName))
	if part.Filename != "" {
		disposition += fmt.Sprintf(`; filename="%s"`, partNameEscaper.Replace(part.Filename))
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", disposition)
	h.Set("Content-Type", part.ContentType)
	return h
}

func buildRawBody(payload *content.Payload) bodyTuple {
	return bodyTuple{
		body:          ioutil.NopCloser(bytes.NewReader(payload.Raw)),
		contentLength: int64(len(payload.Raw)),
		contentType:   "",
	}
}

func basicCredentials(user, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
}
