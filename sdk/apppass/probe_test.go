package apppass

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProbe_DefaultBackoffIsOneSecond(t *testing.T) {
	if defaultRetryBackoff != time.Second {
		t.Fatalf("defaultRetryBackoff = %v, want 1s", defaultRetryBackoff)
	}
	if maxAttempts != 3 {
		t.Fatalf("maxAttempts = %d, want 3", maxAttempts)
	}
}

func TestProbe_TransportFailuresThenSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ok","email":"a@b.com","appPassToken":"T"}`)
	}))
	defer server.Close()

	host := &fakeHost{granted: true, id: "ext-1"}
	transport := &countingTransport{fail: 2, next: http.DefaultTransport}
	backoff := 30 * time.Millisecond
	client, err := NewClient(Options{
		Endpoint:     server.URL,
		Host:         host,
		HTTPClient:   &http.Client{Transport: transport},
		RetryBackoff: backoff,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	start := time.Now()
	result := client.CheckAppPass(context.Background())
	elapsed := time.Since(start)

	if result.Status != StatusOK || result.Email != "a@b.com" || result.AppPassToken != "T" {
		t.Fatalf("unexpected result %+v", result)
	}
	if transport.calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", transport.calls)
	}
	// Two failed attempts mean two backoff waits.
	if elapsed < 2*backoff {
		t.Errorf("elapsed %v, want at least %v of backoff", elapsed, 2*backoff)
	}
}

func TestProbe_AllTransportFailures(t *testing.T) {
	host := &fakeHost{granted: true, id: "ext-1"}
	transport := &countingTransport{fail: maxAttempts}
	client := newTestClient(t, nil, host, transport)

	result := client.CheckAppPass(context.Background())

	if result.Status != StatusErr {
		t.Fatalf("expected %s, got %s", StatusErr, result.Status)
	}
	if result.Message != connectivityMessage {
		t.Errorf("message = %q, want %q", result.Message, connectivityMessage)
	}
	if result.Email != "" || result.AppPassToken != "" {
		t.Errorf("credentials populated on failure: %+v", result)
	}
	if transport.calls != maxAttempts {
		t.Errorf("expected %d attempts, got %d", maxAttempts, transport.calls)
	}
}

func TestProbe_ServerErrorsExhaustRetries(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	host := &fakeHost{granted: true, id: "ext-1"}
	client := newTestClient(t, server, host, http.DefaultTransport)

	result := client.CheckAppPass(context.Background())

	if result.Status != StatusErr || result.Message != connectivityMessage {
		t.Fatalf("unexpected result %+v", result)
	}
	if attempts != maxAttempts {
		t.Errorf("expected %d attempts, got %d", maxAttempts, attempts)
	}
}

func TestProbe_ServerErrorThenSuccess(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"status":"ext_inactive","message":"extension disabled"}`)
	}))
	defer server.Close()

	host := &fakeHost{granted: true, id: "ext-1"}
	client := newTestClient(t, server, host, http.DefaultTransport)

	result := client.CheckAppPass(context.Background())

	if result.Status != StatusExtensionInactive || result.Message != "extension disabled" {
		t.Fatalf("unexpected result %+v", result)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestProbe_ClientErrorIsTerminal(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":"no_apppass","message":"sign in first"}`)
	}))
	defer server.Close()

	host := &fakeHost{granted: true, id: "ext-1"}
	client := newTestClient(t, server, host, http.DefaultTransport)

	result := client.CheckAppPass(context.Background())

	if result.Status != StatusNoAppPass || result.Message != "sign in first" {
		t.Fatalf("unexpected result %+v", result)
	}
	if attempts != 1 {
		t.Errorf("4xx must not be retried, got %d attempts", attempts)
	}
}

func TestProbe_MalformedBodyMapsToUnknownError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<!doctype html><html>oops</html>`)
	}))
	defer server.Close()

	host := &fakeHost{granted: true, id: "ext-1"}
	client := newTestClient(t, server, host, http.DefaultTransport)

	result := client.CheckAppPass(context.Background())

	if result.Status != StatusUnknownError {
		t.Fatalf("expected %s, got %s", StatusUnknownError, result.Status)
	}
}

func TestProbe_StatusIsAlwaysEnumerated(t *testing.T) {
	bodies := []string{
		`{"status":"ok"}`,
		`{"status":"no_apppass"}`,
		`{"status":"something_new"}`,
		`{"status":42}`,
		`{}`,
		``,
	}
	for _, body := range bodies {
		body := body
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		}))

		host := &fakeHost{granted: true, id: "ext-1"}
		client := newTestClient(t, server, host, http.DefaultTransport)
		result := client.CheckAppPass(context.Background())
		server.Close()

		if !result.Status.Known() {
			t.Errorf("body %q produced non-enumerated status %q", body, result.Status)
		}
	}
}

func TestTerminalStatus(t *testing.T) {
	cases := []struct {
		code     int
		terminal bool
	}{
		{200, true},
		{204, true},
		{400, true},
		{404, true},
		{499, true},
		{301, false},
		{500, false},
		{503, false},
	}
	for _, tc := range cases {
		if got := terminalStatus(tc.code); got != tc.terminal {
			t.Errorf("terminalStatus(%d) = %v, want %v", tc.code, got, tc.terminal)
		}
	}
}
