package catalog_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"MiniCart/internal/catalog"
)

func newTS(t *testing.T) *httptest.Server {
	t.Helper()

	h := catalog.NewHandler(&catalog.Server{Store: catalog.NewStore(), Log: zap.NewNop()}, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	})
	return httptest.NewServer(h)
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func TestCatalogAPI_ActiveLookup(t *testing.T) {
	ts := newTS(t)
	t.Cleanup(ts.Close)

	// p3 is seeded inactive; unknown ids are dropped.
	resp, raw := get(t, ts.URL+"/products/active?ids=p1,p3,nope")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	var got map[string]catalog.Product
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v (%s)", err, raw)
	}
	if len(got) != 1 {
		t.Fatalf("expected only p1, got %#v", got)
	}
	if _, ok := got["p1"]; !ok {
		t.Fatalf("p1 missing: %#v", got)
	}
}

func TestCatalogAPI_ActiveLookupRequiresIDs(t *testing.T) {
	ts := newTS(t)
	t.Cleanup(ts.Close)

	resp, _ := get(t, ts.URL+"/products/active")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.StatusCode)
	}
}

func TestCatalogAPI_GetProduct(t *testing.T) {
	ts := newTS(t)
	t.Cleanup(ts.Close)

	resp, raw := get(t, ts.URL+"/products/p1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	var p catalog.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID != "p1" {
		t.Fatalf("unexpected product: %#v", p)
	}

	resp, _ = get(t, ts.URL+"/products/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", resp.StatusCode)
	}
}
