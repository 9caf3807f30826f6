package feed

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/harborlabs/medcatalog-backend/pkg/config"
	pkgerrors "github.com/harborlabs/medcatalog-backend/pkg/errors"
)

// Source yields the raw feed stream for one import run.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads the feed from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("open feed file %s", s.Path))
	}
	return f, nil
}

// HTTPSource fetches the feed over HTTP(S). The caller streams the body
// for the whole run, so the client must not carry an overall timeout:
// connection setup and response headers are bounded, body reads are
// governed by the request context alone.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = newStreamingClient(5 * time.Minute)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build feed request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch feed")
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("feed fetch returned status %d", resp.StatusCode))
	}
	return resp.Body, nil
}

// newStreamingClient bounds dialing, TLS and the wait for response headers
// without capping how long the body may be read.
func newStreamingClient(headerTimeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: 15 * time.Second}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: headerTimeout,
		},
	}
}

// SourceFromConfig picks the configured feed source; the URL wins when both
// are set. The feed timeout bounds the fetch handshake, not the stream.
func SourceFromConfig(cfg config.ImportConfig) (Source, error) {
	if cfg.FeedURL != "" {
		return HTTPSource{
			URL:    cfg.FeedURL,
			Client: newStreamingClient(cfg.FeedTimeout),
		}, nil
	}
	if cfg.FeedPath != "" {
		return FileSource{Path: cfg.FeedPath}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("either %s or %s must be configured", config.EnvFeedURL, config.EnvFeedPath))
}
