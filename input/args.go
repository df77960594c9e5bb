package input

import (
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/huykingsofm/hyperad/content"
	"github.com/pkg/errors"
)

var (
	reMethod          = regexp.MustCompile(`^[a-zA-Z]+$`)
	reHeaderFieldName = regexp.MustCompile("^[-!#$%&'*+.^_|~a-zA-Z0-9]+$")
	reScheme          = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+-.]*://`)
)

type itemType int

const (
	unknownItem itemType = iota
	httpHeaderItem
	urlParameterItem
	dataFieldItem
	rawJSONFieldItem
	formFileFieldItem
)

type UsageError string

func (e *UsageError) Error() string {
	return string(*e)
}

func newUsageError(message string) error {
	u := UsageError(message)
	return errors.WithStack(&u)
}

// ParseArgs turns positional arguments into a Request. The first argument
// may be a method; the next is the URL; the rest are request items:
//
//	name==value  URL parameter
//	name=value   body field
//	name@file    file upload
//	name:=json   raw JSON value
//	name:value   HTTP header
func ParseArgs(args []string) (*Request, error) {
	var argMethod string
	var argURL string
	var argItems []string
	switch len(args) {
	case 0:
		return nil, newUsageError("URL is required")
	case 1:
		argURL = args[0]
	default:
		if reMethod.MatchString(args[0]) {
			argMethod = args[0]
			argURL = args[1]
			argItems = args[2:]
		} else if reScheme.MatchString(args[1]) {
			// The second argument is unmistakably a URL, so the first must
			// have been meant as a method.
			return nil, errors.Errorf("METHOD must consist of alphabets: %s", args[0])
		} else {
			argURL = args[0]
			argItems = args[1:]
		}
	}

	u, err := parseURL(argURL)
	if err != nil {
		return nil, err
	}

	request := Request{
		URL:    u,
		Header: http.Header{},
	}

	form, err := content.NewForm("cli")
	if err != nil {
		return nil, err
	}
	contentItems := 0
	bodyItems := 0
	for _, arg := range argItems {
		isBody, isContent, err := parseItem(arg, form, request.Header)
		if err != nil {
			return nil, err
		}
		if isContent {
			contentItems++
		}
		if isBody {
			bodyItems++
		}
	}
	if contentItems > 0 {
		request.Content = form
	}

	if argMethod != "" {
		method, err := parseMethod(argMethod)
		if err != nil {
			return nil, err
		}
		request.Method = method
	} else {
		request.Method = guessMethod(bodyItems)
	}

	return &request, nil
}

func parseMethod(s string) (string, error) {
	if !reMethod.MatchString(s) {
		return "", errors.Errorf("METHOD must consist of alphabets: %s", s)
	}
	return strings.ToUpper(s), nil
}

func guessMethod(bodyItems int) string {
	if bodyItems == 0 {
		return "GET"
	}
	return "POST"
}

func parseURL(s string) (*url.URL, error) {
	defaultScheme := "http"
	defaultHost := "localhost"

	// ex) :8080/hello or /hello
	if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "/") {
		s = defaultHost + s
	}

	// ex) example.com/hello
	if !reScheme.MatchString(s) {
		s = defaultScheme + "://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, newUsageError("Invalid URL: " + s)
	}
	u.Host = strings.TrimSuffix(u.Host, ":")
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

// parseItem parses one request item into the form or the header set. It
// reports whether the item contributes to the body and whether it became a
// content object.
func parseItem(s string, form *content.Form, header http.Header) (bool, bool, error) {
	itemType, name, value := splitItem(s)
	switch itemType {
	case urlParameterItem:
		param, err := content.NewParam(name, value)
		if err != nil {
			return false, false, err
		}
		return false, true, form.Add(param)
	case dataFieldItem:
		field, err := content.NewField(name, value)
		if err != nil {
			return false, false, err
		}
		return true, true, form.Add(field)
	case rawJSONFieldItem:
		var v interface{}
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return false, false, errors.Errorf("invalid JSON at '%s': %s", name, value)
		}
		j, err := content.NewJSON(name, v)
		if err != nil {
			return false, false, err
		}
		return true, true, form.Add(j)
	case formFileFieldItem:
		file, err := content.FileFromPath(name, value)
		if err != nil {
			return false, false, err
		}
		return true, true, form.Add(file)
	case httpHeaderItem:
		if !isValidHeaderFieldName(name) {
			return false, false, errors.Errorf("invalid header field name: %s", name)
		}
		header.Add(name, value)
		return false, false, nil
	default:
		return false, false, errors.Errorf("unknown request item: %s", s)
	}
}

func splitItem(s string) (itemType, string, string) {
	for i, c := range s {
		switch c {
		case ':':
			if i+1 < len(s) && s[i+1] == '=' {
				return rawJSONFieldItem, s[:i], s[i+2:]
			}
			return httpHeaderItem, s[:i], s[i+1:]
		case '=':
			if i+1 < len(s) && s[i+1] == '=' {
				return urlParameterItem, s[:i], s[i+2:]
			}
			return dataFieldItem, s[:i], s[i+1:]
		case '@':
			return formFileFieldItem, s[:i], s[i+1:]
		}
	}
	return unknownItem, "", ""
}

func isValidHeaderFieldName(s string) bool {
	return reHeaderFieldName.MatchString(s)
}
