package exchange

import (
	"crypto/tls"
	"net/http"
)

// BuildHTTPClient constructs the client an App sends requests with.
// Redirects are not followed unless the options ask for it, so that the
// caller always sees the first response.
func BuildHTTPClient(options *Options) (*http.Client, error) {
	client := &http.Client{
		Timeout:   options.Timeout,
		Transport: buildTransport(options),
	}
	if !options.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client, nil
}

func buildTransport(options *Options) http.RoundTripper {
	transp := options.Transport
	if transp == nil {
		transp = http.DefaultTransport.(*http.Transport).Clone()
	}

	httpTransport, ok := transp.(*http.Transport)
	if !ok {
		return transp
	}
	if httpTransport.TLSClientConfig == nil {
		httpTransport.TLSClientConfig = &tls.Config{}
	}
	httpTransport.TLSClientConfig.InsecureSkipVerify = options.SkipVerify
	if options.ForceHTTP1 {
		httpTransport.TLSClientConfig.NextProtos = []string{"http/1.1", "http/1.0"}
		httpTransport.TLSNextProto = make(map[string]func(string, *tls.Conn) http.RoundTripper)
	}
	return httpTransport
}
