package hyperad

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huykingsofm/hyperad/content"
	"github.com/huykingsofm/hyperad/exchange"
)

func newApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&exchange.Options{})
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	return app
}

func TestAppSubmitsURLEncodedForm(t *testing.T) {
	// Setup
	type received struct {
		method      string
		contentType string
		query       string
		form        map[string][]string
	}
	var got received
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %s", err)
		}
		got = received{
			method:      r.Method,
			contentType: r.Header.Get("Content-Type"),
			query:       r.URL.Query().Get("lang"),
			form:        r.PostForm,
		}
	}))
	defer server.Close()

	username, _ := content.NewField("username", "admin")
	password, _ := content.NewField("password", "ratatatata")
	lang, _ := content.NewParam("lang", "en")
	form, _ := content.NewForm("login-form")
	if err := form.Add(username, password, lang); err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Exercise
	resp, err := newApp(t).Post(context.Background(), server.URL+"/login", form)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	resp.Body.Close()

	// Verify
	if got.method != "POST" {
		t.Errorf("unexpected method: %s", got.method)
	}
	if !strings.HasPrefix(got.contentType, "application/x-www-form-urlencoded") {
		t.Errorf("unexpected Content-Type: %s", got.contentType)
	}
	if got.query != "en" {
		t.Errorf("unexpected query parameter: %s", got.query)
	}
	if len(got.form["username"]) != 1 || got.form["username"][0] != "admin" {
		t.Errorf("unexpected form values: %v", got.form)
	}
	if len(got.form["password"]) != 1 || got.form["password"][0] != "ratatatata" {
		t.Errorf("unexpected form values: %v", got.form)
	}
}

func TestAppSubmitsMultipartForm(t *testing.T) {
	// Setup
	var gotTitle, gotFile, gotFilename string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %s", err)
			return
		}
		gotTitle = r.FormValue("title")
		file, header, err := r.FormFile("notes")
		if err != nil {
			t.Errorf("failed to read file part: %s", err)
			return
		}
		defer file.Close()
		data, _ := ioutil.ReadAll(file)
		gotFile = string(data)
		gotFilename = header.Filename
	}))
	defer server.Close()

	title, _ := content.NewField("title", "meeting")
	notes, err := content.NewFile("notes", strings.NewReader("remember the milk"), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	form, _ := content.NewForm("upload")
	if err := form.Add(title, notes); err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Exercise
	resp, err := newApp(t).Post(context.Background(), server.URL+"/upload", form)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	resp.Body.Close()

	// Verify
	if gotTitle != "meeting" {
		t.Errorf("unexpected title field: %s", gotTitle)
	}
	if gotFile != "remember the milk" {
		t.Errorf("unexpected file content: %s", gotFile)
	}
	if gotFilename != "notes.txt" {
		t.Errorf("unexpected filename: %s", gotFilename)
	}
}

func TestAppSubmitHeaderOverridesContentHeaders(t *testing.T) {
	// Setup
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
	}))
	defer server.Close()

	file, err := content.NewFile("blob", strings.NewReader("xxxx"), "blob.txt")
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	header := http.Header{}
	header.Set("Content-Type", "application/octet-stream")

	// Exercise
	resp, err := newApp(t).SubmitHeader(context.Background(), http.MethodPut, server.URL, file, header)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	resp.Body.Close()

	// Verify
	if gotContentType != "application/octet-stream" {
		t.Errorf("per-call header should override content header: %s", gotContentType)
	}
}

func TestAppGetWithoutContent(t *testing.T) {
	// Setup
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("unexpected method: %s", r.Method)
		}
		w.Write([]byte("pong"))
	}))
	defer server.Close()

	// Exercise
	resp, err := newApp(t).Get(context.Background(), server.URL+"/ping", nil)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	defer resp.Body.Close()

	// Verify
	body, _ := ioutil.ReadAll(resp.Body)
	if string(body) != "pong" {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestAppDownload(t *testing.T) {
	// Setup
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("file payload"))
	}))
	defer server.Close()

	saveAs := filepath.Join(t.TempDir(), "payload.bin")

	// Exercise
	path, err := newApp(t).Download(context.Background(), http.MethodGet, server.URL+"/payload.bin", nil, saveAs)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	if path != saveAs {
		t.Errorf("unexpected path: expected=%s, actual=%s", saveAs, path)
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %s", err)
	}
	if string(data) != "file payload" {
		t.Errorf("unexpected file content: %s", data)
	}
}

func TestAppDownloadRejectsRedirectStatus(t *testing.T) {
	// Setup
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "http://example.com/moved.bin")
		w.WriteHeader(http.StatusMovedPermanently)
		w.Write([]byte("<a href=\"http://example.com/moved.bin\">Moved Permanently</a>"))
	}))
	defer server.Close()

	saveAs := filepath.Join(t.TempDir(), "moved.bin")

	// Exercise
	_, err := newApp(t).Download(context.Background(), http.MethodGet, server.URL+"/old.bin", nil, saveAs)

	// Verify
	if err == nil {
		t.Fatalf("a redirect response must not be saved as the download")
	}
	if _, statErr := os.Stat(saveAs); !os.IsNotExist(statErr) {
		t.Errorf("no file should be written for a redirect response")
	}
}

func TestAppDownloadFailsOnBadStatus(t *testing.T) {
	// Setup
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	// Exercise
	_, err := newApp(t).Download(context.Background(), http.MethodGet, server.URL+"/missing", nil, filepath.Join(t.TempDir(), "f"))

	// Verify
	if err == nil {
		t.Errorf("expected an error for a 404 response")
	}
}
