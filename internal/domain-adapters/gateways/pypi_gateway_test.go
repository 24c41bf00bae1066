package gateways

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/troml/dev-status/internal/domain/interfaces"
)

func testNow() time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
}

func newTestGateway(serverURL string) *PyPIGateway {
	gw := NewPyPIGatewayWithBaseURL(serverURL, &interfaces.NoOpLogger{})
	gw.now = testNow
	return gw
}

func projectJSON(latest string, releases map[string][]string, uploads map[string]string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`{"info":{"name":"demo","version":"%s"},"releases":{`, latest))
	first := true
	for version, files := range releases {
		if !first {
			b.WriteString(",")
		}
		first = false
		b.WriteString(fmt.Sprintf(`"%s":[`, version))
		for i, f := range files {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(fmt.Sprintf(`{"filename":"%s","upload_time_iso_8601":"%s","yanked":false}`, f, uploads[f]))
		}
		b.WriteString("]")
	}
	b.WriteString("}}")
	return b.String()
}

func TestSnapshotProjectNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)
	snap, err := gw.Snapshot(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.Found {
		t.Error("expected Found=false for a 404 project")
	}
	if snap.Project != "missing" {
		t.Errorf("Project = %q, want %q", snap.Project, "missing")
	}
}

func TestSnapshotAggregatesReleases(t *testing.T) {
	releases := map[string][]string{
		"1.0.0": {"demo-1.0.0.tar.gz"},
		"1.2.0": {"demo-1.2.0.tar.gz", "demo-1.2.0-py3-none-any.whl"},
		"0.9.0": {"demo-0.9.0.tar.gz"},
	}
	uploads := map[string]string{
		"demo-1.0.0.tar.gz":            "2024-06-01T00:00:00Z",
		"demo-1.2.0.tar.gz":            "2026-01-10T00:00:00Z",
		"demo-1.2.0-py3-none-any.whl":  "2026-01-11T00:00:00Z",
		"demo-0.9.0.tar.gz":            "2023-01-01T00:00:00Z",
	}
	attested := map[string]bool{
		"demo-1.2.0.tar.gz":           true,
		"demo-1.2.0-py3-none-any.whl": false,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/pypi/demo/json":
			fmt.Fprint(w, projectJSON("1.2.0", releases, uploads))
		case strings.HasPrefix(r.URL.Path, "/integrity/"):
			parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
			filename := parts[len(parts)-2]
			if attested[filename] {
				fmt.Fprint(w, `{"attestation_bundles":[{}]}`)
			} else {
				w.WriteHeader(http.StatusNotFound)
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)
	snap, err := gw.Snapshot(context.Background(), "demo")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if !snap.Found {
		t.Fatal("expected Found=true")
	}
	if snap.ReleaseCount != 3 {
		t.Errorf("ReleaseCount = %d, want 3", snap.ReleaseCount)
	}
	if snap.LatestVersion != "1.2.0" {
		t.Errorf("LatestVersion = %q, want %q", snap.LatestVersion, "1.2.0")
	}
	if snap.ReleasesLast12mo != 1 {
		t.Errorf("ReleasesLast12mo = %d, want 1", snap.ReleasesLast12mo)
	}
	wantOrder := []string{"1.2.0", "1.0.0", "0.9.0"}
	if len(snap.Versions) != len(wantOrder) {
		t.Fatalf("Versions = %v, want %v", snap.Versions, wantOrder)
	}
	for i, v := range wantOrder {
		if snap.Versions[i] != v {
			t.Errorf("Versions[%d] = %q, want %q", i, snap.Versions[i], v)
		}
	}
	if len(snap.Files) != 2 {
		t.Fatalf("expected 2 files for latest release, got %d", len(snap.Files))
	}
	if !snap.AnyFileAttested {
		t.Error("expected AnyFileAttested=true")
	}
	if snap.AllFilesAttested {
		t.Error("expected AllFilesAttested=false when one file lacks attestations")
	}
	wantUpload := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)
	if !snap.LatestUpload.Equal(wantUpload) {
		t.Errorf("LatestUpload = %v, want %v", snap.LatestUpload, wantUpload)
	}
}

func TestSnapshotSkipsEmptyReleases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/pypi/demo/json" {
			fmt.Fprint(w, `{"info":{"name":"demo","version":""},"releases":{"1.0.0":[]}}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)
	snap, err := gw.Snapshot(context.Background(), "demo")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if !snap.Found {
		t.Error("expected Found=true")
	}
	if snap.ReleaseCount != 0 {
		t.Errorf("ReleaseCount = %d, want 0 for file-less releases", snap.ReleaseCount)
	}
}

func TestFileHasAttestationsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)
	attested, raw, err := gw.FileHasAttestations(context.Background(), "demo", "1.0.0", "demo-1.0.0.tar.gz")
	if err != nil {
		t.Fatalf("FileHasAttestations() error = %v", err)
	}
	if attested {
		t.Error("expected attested=false for 404")
	}
	if raw != nil {
		t.Error("expected nil provenance payload for 404")
	}
}

func TestFileHasAttestationsFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"attestation_bundles":[{"publisher":"github"}]}`)
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)
	attested, raw, err := gw.FileHasAttestations(context.Background(), "demo", "1.0.0", "demo-1.0.0.tar.gz")
	if err != nil {
		t.Fatalf("FileHasAttestations() error = %v", err)
	}
	if !attested {
		t.Error("expected attested=true")
	}
	if len(raw) == 0 {
		t.Error("expected raw provenance payload")
	}
}

func TestSnapshotRetriesOnServerError(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"info":{"name":"demo","version":""},"releases":{}}`)
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)
	snap, err := gw.Snapshot(context.Background(), "demo")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if !snap.Found {
		t.Error("expected Found=true after retry")
	}
	if attempts < 2 {
		t.Errorf("expected a retry, got %d attempt(s)", attempts)
	}
}

func TestSortVersionsDescendingLenient(t *testing.T) {
	versions := []string{"1.0", "2.0.0rc1", "not-a-version", "2.0.0", "0.1"}
	got := sortVersionsDescending(versions, func(s string) string { return s })
	want := []string{"2.0.0", "2.0.0rc1", "1.0", "0.1", "not-a-version"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", got, want)
		}
	}
}
