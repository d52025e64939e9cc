// Package fetch acquires dataset files from local paths or HTTP(S) URLs.
package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"
)

// ErrStatus is returned for a non-200 HTTP response.
var ErrStatus = errors.New("unexpected HTTP status")

// maxBody caps a downloaded dataset after decompression.
const maxBody = 256 << 20

// Client fetches dataset files.
type Client struct {
	http *http.Client
}

// NewClient returns a Client whose HTTP requests time out after timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// IsURL reports whether src should be fetched over HTTP.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Get returns the decompressed contents of src, a local path or an http(s) URL.
// Bodies ending in .gz or .zst (or served with Content-Encoding: gzip) are
// decompressed.
func (c *Client) Get(ctx context.Context, src string) ([]byte, error) {
	if !IsURL(src) {
		f, err := os.Open(src)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readAll(f, src, "")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("GET %s: %w %d: %s", src, ErrStatus, resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return readAll(resp.Body, src, resp.Header.Get("Content-Encoding"))
}

// GetPair fetches two sources concurrently.
func (c *Client) GetPair(ctx context.Context, a, b string) ([]byte, []byte, error) {
	var da, db []byte
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		da, err = c.Get(ctx, a)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", a, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		db, err = c.Get(ctx, b)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", b, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return da, db, nil
}

// readAll decompresses r according to the source suffix or content encoding.
func readAll(r io.Reader, src, encoding string) ([]byte, error) {
	name := src
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}

	var body io.Reader = r
	switch {
	case strings.HasSuffix(name, ".zst"):
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		body = dec
	case strings.HasSuffix(name, ".gz") || strings.EqualFold(encoding, "gzip"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		body = gz
	}

	data, err := io.ReadAll(io.LimitReader(body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	if len(data) > maxBody {
		return nil, fmt.Errorf("read %s: larger than %d bytes", src, maxBody)
	}
	return data, nil
}
