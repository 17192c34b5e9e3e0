package static

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/scraper/internal/engine"
	"github.com/law-makers/scraper/internal/proxy"
)

func TestFetcher_Fetch_BasicHTML(t *testing.T) {
	var gotUA, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>Hello World</title></head><body><h1>Hi</h1></body></html>`))
	}))
	defer server.Close()

	f := New(nil, nil)
	page, err := f.Fetch(context.Background(), engine.Target{URL: server.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if page.StatusCode != 200 {
		t.Errorf("Expected status code 200, got %d", page.StatusCode)
	}
	if !strings.Contains(page.HTML, "<title>Hello World</title>") {
		t.Errorf("HTML missing title: %s", page.HTML)
	}
	if page.ContentType != "text/html; charset=utf-8" {
		t.Errorf("unexpected content type %q", page.ContentType)
	}
	if !strings.HasPrefix(gotUA, "Mozilla/5.0") {
		t.Errorf("expected a browser user agent, got %q", gotUA)
	}
	if gotLang != "en-US,en;q=0.5" {
		t.Errorf("unexpected Accept-Language %q", gotLang)
	}
}

func TestFetcher_Fetch_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("session"); err != nil {
			http.Error(w, "missing cookie", http.StatusBadRequest)
			return
		}
		w.Write([]byte("<html><body>moved</body></html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	page, err := New(nil, nil).Fetch(context.Background(), engine.Target{URL: server.URL + "/old", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if page.FinalURL != server.URL+"/new" {
		t.Errorf("expected final URL %s/new, got %s", server.URL, page.FinalURL)
	}
}

func TestFetcher_Fetch_HTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := New(nil, nil).Fetch(context.Background(), engine.Target{URL: server.URL, Timeout: 5 * time.Second})

	var fe *engine.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Code != engine.ErrCodeHTTPStatus || fe.StatusCode != http.StatusNotFound {
		t.Errorf("unexpected error: %+v", fe)
	}
}

func TestFetcher_Fetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	start := time.Now()
	_, err := New(nil, nil).Fetch(context.Background(), engine.Target{URL: server.URL, Timeout: 200 * time.Millisecond})
	elapsed := time.Since(start)

	if !errors.Is(err, &engine.FetchError{Code: engine.ErrCodeTimeout}) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if elapsed > time.Second {
		t.Errorf("timeout overshoot too large: %s", elapsed)
	}
}

func TestFetcher_Fetch_Transport(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(nil, nil).Fetch(context.Background(), engine.Target{URL: url, Timeout: 2 * time.Second})
	if !errors.Is(err, &engine.FetchError{Code: engine.ErrCodeTransport}) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestFetcher_Fetch_DecodesCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "Café" in Latin-1
		w.Write([]byte("<html><body><h1>Caf\xe9</h1></body></html>"))
	}))
	defer server.Close()

	page, err := New(nil, nil).Fetch(context.Background(), engine.Target{URL: server.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !strings.Contains(page.HTML, "Café") {
		t.Errorf("expected UTF-8 decoded body, got %q", page.HTML)
	}
}

func TestFetcher_Fetch_ExtraHeaders(t *testing.T) {
	var gotAccept, gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotReferer = r.Header.Get("Referer")
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	f := New(nil, nil).WithHeaders(http.Header{"Accept": {"text/html"}, "Referer": {"https://shop.example/"}})
	if _, err := f.Fetch(context.Background(), engine.Target{URL: server.URL, Timeout: 5 * time.Second}); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotAccept != "text/html" || gotReferer != "https://shop.example/" {
		t.Errorf("extra headers not applied: accept=%q referer=%q", gotAccept, gotReferer)
	}
}

func TestFetcher_Fetch_RotatesProxies(t *testing.T) {
	var proxiedHost string
	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxiedHost = r.URL.Host
		w.Write([]byte("<html><title>via proxy</title></html>"))
	}))
	defer live.Close()

	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	pool, err := proxy.NewPool([]string{dead.URL, live.URL}, time.Minute)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	transport := &http.Transport{Proxy: proxy.FromRequest(nil)}
	f := New(transport, nil).WithProxies(pool)
	target := engine.Target{URL: "http://shop.example/p/1", Timeout: 2 * time.Second}

	if _, err := f.Fetch(context.Background(), target); !errors.Is(err, &engine.FetchError{Code: engine.ErrCodeTransport}) {
		t.Fatalf("expected transport error through the dead proxy, got %v", err)
	}

	// The dead proxy is cooling down so both fetches use the live one
	for i := 0; i < 2; i++ {
		page, err := f.Fetch(context.Background(), target)
		if err != nil {
			t.Fatalf("Fetch through live proxy failed: %v", err)
		}
		if !strings.Contains(page.HTML, "via proxy") || proxiedHost != "shop.example" {
			t.Errorf("request did not go through the proxy: host=%q", proxiedHost)
		}
	}
}
