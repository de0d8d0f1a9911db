package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClient(url, "cashbox", 5*time.Second)
}

func TestFetchBatchMixedIDTypes(t *testing.T) {
	// The legacy endpoint serves ids both as numbers and quoted strings.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"ID": 101, "Symbol": "SPX", "BuySell": "B"},
			{"ID": "102", "Symbol": "SPX", "BuySell": "S"},
			{"id": 103, "symbol": "NDX", "action": "Long"}
		]`))
	}))
	defer srv.Close()

	ideas, err := newTestClient(srv.URL).FetchBatch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ideas) != 3 {
		t.Fatalf("expected 3 ideas, got %d", len(ideas))
	}
	if ideas[0].ID != 101 || ideas[1].ID != 102 || ideas[2].ID != 103 {
		t.Fatalf("unexpected ids: %+v", ideas)
	}
	if ideas[1].Action != "S" {
		t.Fatalf("expected action S, got %q", ideas[1].Action)
	}
	if ideas[2].Symbol != "NDX" {
		t.Fatalf("expected lowercase field fallback, got %q", ideas[2].Symbol)
	}
	for _, idea := range ideas {
		if idea.SourceTag != "cashbox" {
			t.Fatalf("expected source tag on every idea, got %q", idea.SourceTag)
		}
	}
}

func TestFetchBatchDropsRecordsWithoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"Symbol": "SPX", "BuySell": "B"}, {"ID": 7, "Symbol": "SPX", "BuySell": "S"}]`))
	}))
	defer srv.Close()

	ideas, err := newTestClient(srv.URL).FetchBatch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ideas) != 1 || ideas[0].ID != 7 {
		t.Fatalf("expected only the record with a usable id, got %+v", ideas)
	}
}

func TestFetchBatchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).FetchBatch(context.Background()); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}

func TestFetchBatchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	if _, err := newTestClient(srv.URL).FetchBatch(context.Background()); err == nil {
		t.Fatal("expected a transport error")
	}
}

func TestFetchBatchNonArrayResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "maintenance"}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).FetchBatch(context.Background()); err == nil {
		t.Fatal("expected an error for a non-array body")
	}
}
