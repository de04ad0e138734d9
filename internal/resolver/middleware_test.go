package resolver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"guestwall/internal/model"
)

func newTestHandler(t *testing.T, st *fakeStore) (http.Handler, *string) {
	t.Helper()

	var seenPath string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	r := New(newFakeCache(), st, nil, logrus.NewEntry(logrus.New()))
	h := Handler(next, r, HostConfig{
		PlatformDomain: "guestwall.io",
		PreviewSuffix:  ".guestwall-preview.app",
	})
	return h, &seenPath
}

func request(h http.Handler, host, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = host
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func storeWith(domain string, gb *model.Guestbook) *fakeStore {
	return &fakeStore{domains: map[string]*model.Guestbook{domain: gb}}
}

func TestPlatformHostPassesThrough(t *testing.T) {
	h, seenPath := newTestHandler(t, &fakeStore{})

	for _, host := range []string{
		"guestwall.io",
		"app.guestwall.io",
		"pr-42.guestwall-preview.app",
		"localhost:3000",
		"127.0.0.1:8080",
	} {
		rec := request(h, host, "/anything")
		if rec.Code != http.StatusOK {
			t.Errorf("host %s: status = %d; want pass-through 200", host, rec.Code)
		}
		if *seenPath != "/anything" {
			t.Errorf("host %s: path rewritten to %s; want untouched", host, *seenPath)
		}
	}
}

func TestCustomHostRootRewrite(t *testing.T) {
	h, seenPath := newTestHandler(t, storeWith("love.example.com", guestbook(42, "love")))

	rec := request(h, "Love.Example.com:443", "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if *seenPath != "/wall/love" {
		t.Errorf("path = %s; want /wall/love", *seenPath)
	}
}

func TestCustomHostCollectRewrite(t *testing.T) {
	h, seenPath := newTestHandler(t, storeWith("love.example.com", guestbook(42, "love")))

	rec := request(h, "love.example.com", "/collect")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if *seenPath != "/collect/love" {
		t.Errorf("path = %s; want /collect/love", *seenPath)
	}
}

func TestCustomHostUnknownPath404(t *testing.T) {
	h, _ := newTestHandler(t, storeWith("love.example.com", guestbook(42, "love")))

	rec := request(h, "love.example.com", "/admin")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", rec.Code)
	}
}

func TestUnconfiguredCustomHost404(t *testing.T) {
	h, _ := newTestHandler(t, &fakeStore{domains: map[string]*model.Guestbook{}})

	rec := request(h, "ghost.example.com", "/")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", rec.Code)
	}
	if body := rec.Body.String(); body != `{"error":"Domain not configured"}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestStaticPrefixBypassesResolver(t *testing.T) {
	st := &fakeStore{domains: map[string]*model.Guestbook{}}
	h, seenPath := newTestHandler(t, st)

	rec := request(h, "ghost.example.com", "/static/app.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want pass-through 200", rec.Code)
	}
	if *seenPath != "/static/app.css" {
		t.Errorf("path = %s; want untouched", *seenPath)
	}
	if st.reads != 0 {
		t.Error("static paths must not trigger resolution")
	}
}
