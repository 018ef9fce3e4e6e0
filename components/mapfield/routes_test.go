package mapfield

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func testAssets() fstest.MapFS {
	return fstest.MapFS{
		ScriptName:     {Data: []byte("window.googlemapfieldInit = function () {};")},
		StylesheetName: {Data: []byte(".googlemapfield-map { height: 300px; }")},
	}
}

func TestRegisterAssetRoutes_ServesBundledFiles(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := RegisterAssetRoutes(mux, "/admin/assets", testAssets())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if pattern != "/admin/assets/" {
		t.Fatalf("unexpected pattern: %q", pattern)
	}

	set := Assets("/admin/assets", nil, func(string) (string, bool) { return "", false })
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, set.Scripts[0].Src, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), InitCallback) {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestRegisterAssetRoutes_RootBasePath(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := RegisterAssetRoutes(mux, "", testAssets())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if pattern != "/" {
		t.Fatalf("unexpected pattern: %q", pattern)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+StylesheetName, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAssetsHandler_RejectsWritesAndListings(t *testing.T) {
	handler := AssetsHandler(testAssets())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/"+ScriptName, nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != "GET, HEAD" {
		t.Fatalf("unexpected Allow header: %q", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for listing, got %d", rec.Code)
	}
}

func TestRegisterAssetRoutes_RequiresMux(t *testing.T) {
	if _, err := RegisterAssetRoutes(nil, "/assets", testAssets()); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}
