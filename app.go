// Package hyperad is a thin convenience layer over net/http. Content
// objects (package content) describe outgoing request data; an App formats
// them into requests and delegates to the underlying *http.Client.
package hyperad

import (
	"context"
	"net/http"
	"time"

	"github.com/huykingsofm/hyperad/content"
	"github.com/huykingsofm/hyperad/exchange"
	"github.com/huykingsofm/hyperad/output"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// App is a session for submitting content objects to a web server.
//
//	field, _ := content.NewField("username", "admin")
//	form, _ := content.NewForm("login-form")
//	form.Add(field)
//	app, _ := hyperad.NewApp(nil)
//	resp, err := app.Post(ctx, "http://some.url/login", form)
type App struct {
	client  *http.Client
	options *exchange.Options
	logger  zerolog.Logger
}

// NewApp builds a session. A nil options uses the defaults of
// exchange.Options (no timeout, redirects not followed).
func NewApp(options *exchange.Options) (*App, error) {
	if options == nil {
		options = &exchange.Options{}
	}
	client, err := exchange.BuildHTTPClient(options)
	if err != nil {
		return nil, err
	}
	return &App{
		client:  client,
		options: options,
		logger:  zerolog.Nop(),
	}, nil
}

// SetLogger installs a logger for request/response debug lines. The
// default logger discards everything.
func (a *App) SetLogger(logger zerolog.Logger) {
	a.logger = logger
}

// Submit formats c and sends it to url with the given method.
func (a *App) Submit(ctx context.Context, method, url string, c content.Content) (*http.Response, error) {
	return a.SubmitHeader(ctx, method, url, c, nil)
}

// SubmitHeader is Submit with extra headers. Extra headers override
// headers derived from the content.
func (a *App) SubmitHeader(ctx context.Context, method, url string, c content.Content, header http.Header) (*http.Response, error) {
	r, err := exchange.BuildHTTPRequest(method, url, c, header, a.options)
	if err != nil {
		return nil, err
	}
	r = r.WithContext(ctx)

	a.logger.Debug().
		Str("method", method).
		Str("url", r.URL.String()).
		Msg("submitting request")

	started := time.Now()
	resp, err := a.client.Do(r)
	if err != nil {
		return nil, errors.Wrap(err, "sending HTTP request")
	}

	a.logger.Debug().
		Str("method", method).
		Str("url", r.URL.String()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Int64("content_length", resp.ContentLength).
		Msg("received response")
	return resp, nil
}

func (a *App) Get(ctx context.Context, url string, c content.Content) (*http.Response, error) {
	return a.Submit(ctx, http.MethodGet, url, c)
}

func (a *App) Post(ctx context.Context, url string, c content.Content) (*http.Response, error) {
	return a.Submit(ctx, http.MethodPost, url, c)
}

func (a *App) Put(ctx context.Context, url string, c content.Content) (*http.Response, error) {
	return a.Submit(ctx, http.MethodPut, url, c)
}

func (a *App) Delete(ctx context.Context, url string, c content.Content) (*http.Response, error) {
	return a.Submit(ctx, http.MethodDelete, url, c)
}

func (a *App) Options(ctx context.Context, url string, c content.Content) (*http.Response, error) {
	return a.Submit(ctx, http.MethodOptions, url, c)
}

func (a *App) Head(ctx context.Context, url string, c content.Content) (*http.Response, error) {
	return a.Submit(ctx, http.MethodHead, url, c)
}

func (a *App) Patch(ctx context.Context, url string, c content.Content) (*http.Response, error) {
	return a.Submit(ctx, http.MethodPatch, url, c)
}

// Download submits the request and streams the response body to disk.
// The target path is saveAs when given; otherwise it is derived from the
// response (Content-Disposition filename or URL basename) and suffixed to
// avoid clobbering existing files. Returns the path written.
func (a *App) Download(ctx context.Context, method, url string, c content.Content, saveAs string) (string, error) {
	resp, err := a.Submit(ctx, method, url, c)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// Redirects are not followed by default, so a 30x would otherwise be
	// saved as the downloaded file.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.Errorf("downloading %s: server returned %s", url, resp.Status)
	}

	writer := output.NewFileWriter(resp, &output.Options{OutputFile: saveAs})
	written, err := writer.Download(resp)
	if err != nil {
		return "", err
	}

	a.logger.Debug().
		Str("path", writer.Path()).
		Int64("bytes", written).
		Msg("download finished")
	return writer.Path(), nil
}
