package gwclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"resty.dev/v3"

	walkererrors "github.com/altwalker/altwalker/internal/errors"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c := &Client{http: resty.New(), base: srv.URL}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestHasNextEmptyBodyTreatedAsNoMoreWhenAlive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	c.SetAliveChecker(func() bool { return true })

	has, err := c.HasNext(context.Background())
	if err != nil {
		t.Fatalf("HasNext() error = %v, want nil", err)
	}
	if has {
		t.Errorf("HasNext() = true, want false")
	}
}

func TestHasNextEmptyBodyErrorsWhenNotAlive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	c.SetAliveChecker(func() bool { return false })

	_, err := c.HasNext(context.Background())
	var genErr *walkererrors.GeneratorError
	if genErr, _ = err.(*walkererrors.GeneratorError); genErr == nil {
		t.Fatalf("HasNext() error = %v (%T), want *GeneratorError", err, err)
	}
}

func TestHasNextEmptyBodyErrorsWhenNoAliveChecker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)

	_, err := c.HasNext(context.Background())
	if err == nil {
		t.Fatal("HasNext() error = nil, want error")
	}
}

func TestHasNextOkEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{"result":"ok","hasNext":"true"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)

	has, err := c.HasNext(context.Background())
	if err != nil {
		t.Fatalf("HasNext() error = %v, want nil", err)
	}
	if !has {
		t.Errorf("HasNext() = false, want true")
	}
}
