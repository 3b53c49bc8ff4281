package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const postingHTML = `<html><head><title>Jobs</title><script>track()</script></head>
<body><h1>Backend Engineer</h1><p>Empresa: Acme Corp</p><ul><li>Build APIs in Go</li><li>Run Kubernetes</li></ul></body></html>`

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "   ", want: ""},
		{name: "adds scheme", input: "example.com/jobs/1", want: "https://example.com/jobs/1"},
		{name: "protocol relative", input: "//example.com/jobs", want: "https://example.com/jobs"},
		{name: "keeps http", input: "http://example.com", want: "http://example.com"},
		{name: "trims", input: "  https://www.examplecorp.com/jobs/42 ", want: "https://www.examplecorp.com/jobs/42"},
		{name: "rejects ftp", input: "ftp://example.com/file", want: ""},
		{name: "rejects missing host", input: "https://", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeURL(tt.input); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFetchTextReducesHTML(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer server.Close()

	client := New(zap.NewNop())
	text := client.FetchText(context.Background(), server.URL)

	if gotUA != userAgent {
		t.Fatalf("expected user agent %q, got %q", userAgent, gotUA)
	}

	for _, want := range []string{"Backend Engineer", "Empresa: Acme Corp", "• Build APIs in Go", "• Run Kubernetes"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in fetched text, got %q", want, text)
		}
	}

	if strings.Contains(text, "track()") || strings.ContainsAny(text, "<>") {
		t.Fatalf("expected markup and scripts to be removed, got %q", text)
	}
}

func TestFetchTextDecodesGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, _ = gz.Write([]byte(postingHTML))
		_ = gz.Close()

		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	text := New(nil).FetchText(context.Background(), server.URL)
	if !strings.Contains(text, "Backend Engineer") {
		t.Fatalf("expected decoded text, got %q", text)
	}
}

func TestFetchTextTruncates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(strings.Repeat("a", 500)))
	}))
	defer server.Close()

	client := New(nil)
	client.MaxChars = 100

	if got := client.FetchText(context.Background(), server.URL); len(got) != 100 {
		t.Fatalf("expected 100 chars, got %d", len(got))
	}
}

func TestFetchTextFailSoft(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "binary payload",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				_, _ = w.Write([]byte("%PDF-1.4"))
			},
		},
		{
			name: "image payload",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "image/png")
				_, _ = w.Write([]byte{0x89, 0x50, 0x4e, 0x47})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			core, observed := observer.New(zapcore.WarnLevel)
			client := New(zap.New(core))

			if got := client.FetchText(context.Background(), server.URL); got != "" {
				t.Fatalf("expected empty text, got %q", got)
			}

			if observed.Len() != 1 {
				t.Fatalf("expected a single warning, got %d", observed.Len())
			}
		})
	}
}

func TestFetchTextTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := New(nil)
	client.HTTPClient.Timeout = 50 * time.Millisecond

	if got := client.FetchText(context.Background(), server.URL); got != "" {
		t.Fatalf("expected empty text on timeout, got %q", got)
	}
}

func TestFetchTextSkipsInvalidURL(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	client := New(zap.New(core))

	if got := client.FetchText(context.Background(), ""); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
	if observed.Len() != 0 {
		t.Fatalf("expected no logs for empty url, got %d", observed.Len())
	}

	if got := client.FetchText(context.Background(), "ftp://example.com"); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}
