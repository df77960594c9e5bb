package input

import (
	"io/ioutil"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/huykingsofm/hyperad/content"
)

func TestParseArgsMethodAndURL(t *testing.T) {
	testCases := []struct {
		title          string
		args           []string
		expectedMethod string
		expectedURL    string
		shouldBeError  bool
	}{
		{
			title:          "Happy case",
			args:           []string{"GET", "http://example.com/hello"},
			expectedMethod: "GET",
			expectedURL:    "http://example.com/hello",
		},
		{
			title:         "Invalid method",
			args:          []string{"GET/POST", "http://example.com/hello"},
			shouldBeError: true,
		},
		{
			title:          "Method is guessed as GET without body items",
			args:           []string{"example.com/hello"},
			expectedMethod: "GET",
			expectedURL:    "http://example.com/hello",
		},
		{
			title:          "Method is guessed as POST with body items",
			args:           []string{"example.com/hello", "foo=bar"},
			expectedMethod: "POST",
			expectedURL:    "http://example.com/hello",
		},
		{
			title:          "URL parameters alone keep GET",
			args:           []string{"example.com/hello", "foo==bar"},
			expectedMethod: "GET",
			expectedURL:    "http://example.com/hello",
		},
		{
			title:          "Method is upcased",
			args:           []string{"post", "example.com"},
			expectedMethod: "POST",
			expectedURL:    "http://example.com/",
		},
		{
			title:          "Scheme and host defaults",
			args:           []string{":8080/hello"},
			expectedMethod: "GET",
			expectedURL:    "http://localhost:8080/hello",
		},
		{
			title:          "Path-only URL",
			args:           []string{"/hello"},
			expectedMethod: "GET",
			expectedURL:    "http://localhost/hello",
		},
		{
			title:         "URL is required",
			args:          []string{},
			shouldBeError: true,
		},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			request, err := ParseArgs(tt.args)
			if tt.shouldBeError {
				if err == nil {
					t.Errorf("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: err=%+v", err)
			}
			if request.Method != tt.expectedMethod {
				t.Errorf("unexpected method: expected=%s, actual=%s", tt.expectedMethod, request.Method)
			}
			if request.URL.String() != tt.expectedURL {
				t.Errorf("unexpected URL: expected=%s, actual=%s", tt.expectedURL, request.URL)
			}
		})
	}
}

func TestParseArgsItems(t *testing.T) {
	// Setup
	path := filepath.Join(t.TempDir(), "avatar.png")
	if err := ioutil.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0644); err != nil {
		t.Fatalf("failed to write temporary file: %s", err)
	}

	// Exercise
	request, err := ParseArgs([]string{
		"example.com/profile",
		"q==golang",
		"name=huy",
		"X-Foo:fizz",
		`meta:={"level":3}`,
		"avatar@" + path,
	})
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	if request.Method != "POST" {
		t.Errorf("unexpected method: %s", request.Method)
	}
	if got := request.Header.Get("X-Foo"); got != "fizz" {
		t.Errorf("unexpected header: %s", got)
	}

	form, ok := request.Content.(*content.Form)
	if !ok {
		t.Fatalf("content should be a form: %T", request.Content)
	}
	if form.Enctype() != content.TypeMultipart {
		t.Errorf("a file item should switch the form to multipart: %s", form.Enctype())
	}

	payload, err := form.Build()
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	if !reflect.DeepEqual([]string{"golang"}, payload.Params["q"]) {
		t.Errorf("unexpected params: %v", payload.Params)
	}
	if !reflect.DeepEqual([]string{"huy"}, payload.Fields["name"]) {
		t.Errorf("unexpected fields: %v", payload.Fields)
	}
	if len(payload.Parts) != 2 {
		t.Fatalf("unexpected number of parts: %d", len(payload.Parts))
	}
	if payload.Parts[0].FieldName != "meta" || payload.Parts[0].ContentType != content.TypeJSON {
		t.Errorf("unexpected JSON part: %+v", payload.Parts[0])
	}
	if string(payload.Parts[0].Body) != `{"level":3}` {
		t.Errorf("unexpected JSON part body: %s", payload.Parts[0].Body)
	}
	if payload.Parts[1].FieldName != "avatar" || payload.Parts[1].Filename != "avatar.png" {
		t.Errorf("unexpected file part: %+v", payload.Parts[1])
	}
}

func TestParseArgsRejectsBadItems(t *testing.T) {
	testCases := []struct {
		title string
		item  string
	}{
		{title: "Unknown item", item: "justaword"},
		{title: "Invalid JSON", item: "meta:={broken"},
		{title: "Invalid header name", item: "Bad Header:value"},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			if _, err := ParseArgs([]string{"example.com", tt.item}); err == nil {
				t.Errorf("expected an error for item %q", tt.item)
			}
		})
	}
}

func TestParseArgsWithoutItemsHasNoContent(t *testing.T) {
	request, err := ParseArgs([]string{"example.com"})
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	if request.Content != nil {
		t.Errorf("content should be nil without request items: %v", request.Content)
	}
}
