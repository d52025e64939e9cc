package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
)

const csvBody = "match_id,map_name\n1,Mirage\n"

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	w.Close()
	return buf.Bytes()
}

func zstdBytes(t *testing.T, s string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()
	return enc.EncodeAll([]byte(s), nil)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/maps.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(csvBody))
	})
	mux.HandleFunc("/maps.csv.gz", func(w http.ResponseWriter, r *http.Request) {
		w.Write(gzipBytes(t, csvBody))
	})
	mux.HandleFunc("/maps.csv.zst", func(w http.ResponseWriter, r *http.Request) {
		w.Write(zstdBytes(t, csvBody))
	})
	mux.HandleFunc("/missing.csv", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetHTTP(t *testing.T) {
	srv := newServer(t)
	c := NewClient(5 * time.Second)
	for _, path := range []string{"/maps.csv", "/maps.csv.gz", "/maps.csv.zst", "/maps.csv.gz?token=x"} {
		got, err := c.Get(context.Background(), srv.URL+path)
		if err != nil {
			t.Fatalf("Get %s: %v", path, err)
		}
		if string(got) != csvBody {
			t.Errorf("Get %s: got %q", path, got)
		}
	}
}

func TestGetHTTPStatus(t *testing.T) {
	srv := newServer(t)
	_, err := NewClient(5*time.Second).Get(context.Background(), srv.URL+"/missing.csv")
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("want ErrStatus, got %v", err)
	}
}

func TestGetLocalFile(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "maps.csv")
	gz := filepath.Join(dir, "maps.csv.gz")
	if err := os.WriteFile(plain, []byte(csvBody), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(gz, gzipBytes(t, csvBody), 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewClient(time.Second)
	for _, p := range []string{plain, gz} {
		got, err := c.Get(context.Background(), p)
		if err != nil {
			t.Fatalf("Get %s: %v", p, err)
		}
		if string(got) != csvBody {
			t.Errorf("Get %s: got %q", p, got)
		}
	}
	if _, err := c.Get(context.Background(), filepath.Join(dir, "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPair(t *testing.T) {
	srv := newServer(t)
	c := NewClient(5 * time.Second)
	a, b, err := c.GetPair(context.Background(), srv.URL+"/maps.csv", srv.URL+"/maps.csv.zst")
	if err != nil {
		t.Fatalf("GetPair: %v", err)
	}
	if string(a) != csvBody || string(b) != csvBody {
		t.Errorf("GetPair bodies: %q %q", a, b)
	}
	if _, _, err := c.GetPair(context.Background(), srv.URL+"/maps.csv", srv.URL+"/missing.csv"); err == nil {
		t.Error("expected error when one source fails")
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("https://example.com/a.csv") || !IsURL("http://x/y") {
		t.Error("expected URLs to be detected")
	}
	if IsURL("data/matches.csv") || IsURL("httpdata.csv") {
		t.Error("local paths misdetected as URLs")
	}
}
