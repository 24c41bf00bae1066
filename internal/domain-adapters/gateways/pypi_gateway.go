// Package gateways implements adapters for external data sources.
package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	goversion "github.com/hashicorp/go-version"
	"github.com/troml/dev-status/internal/domain/entities"
	"github.com/troml/dev-status/internal/domain/interfaces"
)

const (
	// Max retries for transient errors
	maxRetries = 3
	// Initial backoff duration
	initialBackoff = 1 * time.Second
	// Max backoff duration
	maxBackoff = 16 * time.Second

	defaultPyPIBaseURL = "https://pypi.org"
)

// PyPIGateway fetches project metadata and attestation status from the
// PyPI JSON and integrity APIs.
type PyPIGateway struct {
	baseURL   string
	client    *http.Client
	userAgent string
	log       interfaces.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewPyPIGateway creates a PyPI gateway with sane timeouts.
func NewPyPIGateway(log interfaces.Logger) *PyPIGateway {
	return NewPyPIGatewayWithBaseURL(defaultPyPIBaseURL, log)
}

// NewPyPIGatewayWithBaseURL creates a gateway against a non-default
// registry endpoint (mirrors, test servers).
func NewPyPIGatewayWithBaseURL(baseURL string, log interfaces.Logger) *PyPIGateway {
	if log == nil {
		log = &interfaces.NoOpLogger{}
	}
	return &PyPIGateway{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "dev-status/1.0",
		log:       log,
		now:       time.Now,
	}
}

// pypiProject mirrors the registry's JSON document.
type pypiProject struct {
	Info struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"info"`
	Releases map[string][]pypiFile `json:"releases"`
}

type pypiFile struct {
	Filename   string    `json:"filename"`
	UploadTime time.Time `json:"upload_time_iso_8601"`
	Yanked     bool      `json:"yanked"`
}

// isRetryableStatus reports whether the status code merits a retry.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// calculateBackoff returns the backoff duration for a retry attempt.
func calculateBackoff(attempt int) time.Duration {
	backoff := float64(initialBackoff) * math.Pow(2, float64(attempt))
	if backoff > float64(maxBackoff) {
		backoff = float64(maxBackoff)
	}
	return time.Duration(backoff)
}

// doWithRetry executes a request with exponential backoff on transient
// failures.
func (g *PyPIGateway) doWithRetry(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := calculateBackoff(attempt - 1)
			g.log.Debug("retrying registry request",
				interfaces.F("attempt", attempt), interfaces.F("backoff", backoff))
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(backoff):
			}
		}

		resp, err = g.client.Do(req)
		if err != nil {
			if attempt < maxRetries {
				continue
			}
			return nil, err
		}

		if !isRetryableStatus(resp.StatusCode) || attempt == maxRetries {
			return resp, nil
		}

		//nolint:errcheck // Best effort close before retry
		resp.Body.Close()
	}
	return resp, err
}

func (g *PyPIGateway) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", g.userAgent)
	return g.doWithRetry(req)
}

// fetchProject retrieves the project JSON document. A project that does
// not exist returns (nil, nil).
func (g *PyPIGateway) fetchProject(ctx context.Context, project string) (*pypiProject, error) {
	resp, err := g.get(ctx, fmt.Sprintf("/pypi/%s/json", url.PathEscape(project)))
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d for %s", resp.StatusCode, project)
	}

	var doc pypiProject
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode project document: %w", err)
	}
	return &doc, nil
}

// Snapshot retrieves and summarizes a project's registry presence,
// including attestation status for every file of the latest release.
func (g *PyPIGateway) Snapshot(ctx context.Context, project string) (*entities.RegistrySnapshot, error) {
	doc, err := g.fetchProject(ctx, project)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return &entities.RegistrySnapshot{Project: project, Found: false}, nil
	}

	snap := &entities.RegistrySnapshot{
		Project: doc.Info.Name,
		Found:   true,
	}

	type release struct {
		version string
		files   []pypiFile
		upload  time.Time
	}
	var releases []release
	for version, files := range doc.Releases {
		if len(files) == 0 {
			continue
		}
		r := release{version: version, files: files}
		for _, f := range files {
			if f.UploadTime.After(r.upload) {
				r.upload = f.UploadTime
			}
		}
		releases = append(releases, r)
	}
	snap.ReleaseCount = len(releases)
	if snap.ReleaseCount == 0 {
		return snap, nil
	}

	snap.Versions = sortVersionsDescending(releases, func(r release) string { return r.version })

	yearAgo := g.now().AddDate(-1, 0, 0)
	for _, r := range releases {
		if r.upload.After(yearAgo) {
			snap.ReleasesLast12mo++
		}
	}

	// info.version names the latest release; fall back to the highest
	// sorted version when it is absent.
	latest := doc.Info.Version
	if _, ok := doc.Releases[latest]; !ok || latest == "" {
		latest = snap.Versions[0]
	}
	snap.LatestVersion = latest

	latestFiles := doc.Releases[latest]
	snap.AllFilesAttested = len(latestFiles) > 0
	for _, f := range latestFiles {
		if f.UploadTime.After(snap.LatestUpload) {
			snap.LatestUpload = f.UploadTime
		}
		attested, _, err := g.FileHasAttestations(ctx, project, latest, f.Filename)
		if err != nil {
			return nil, err
		}
		snap.Files = append(snap.Files, entities.ReleaseFile{
			Filename:        f.Filename,
			UploadTime:      f.UploadTime,
			HasAttestations: attested,
		})
		if attested {
			snap.AnyFileAttested = true
		} else {
			snap.AllFilesAttested = false
		}
	}
	return snap, nil
}

// FileHasAttestations probes the integrity API for one distribution
// file. A 404 means no attestations and is not an error.
func (g *PyPIGateway) FileHasAttestations(ctx context.Context, project, version, filename string) (bool, json.RawMessage, error) {
	path := fmt.Sprintf("/integrity/%s/%s/%s/provenance",
		url.PathEscape(project), url.PathEscape(version), url.PathEscape(filename))
	resp, err := g.get(ctx, path)
	if err != nil {
		return false, nil, fmt.Errorf("integrity request failed: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, nil, fmt.Errorf("integrity API returned status %d for %s", resp.StatusCode, filename)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, nil, fmt.Errorf("failed to read provenance: %w", err)
	}
	return true, json.RawMessage(data), nil
}

// sortVersionsDescending orders version strings newest first, using
// lenient parsing; strings that do not parse at all sort last in their
// original relative order.
func sortVersionsDescending[T any](items []T, key func(T) string) []string {
	type parsed struct {
		raw string
		v   *goversion.Version
	}
	out := make([]parsed, 0, len(items))
	for _, item := range items {
		raw := key(item)
		v, err := goversion.NewVersion(raw)
		if err != nil {
			v = nil
		}
		out = append(out, parsed{raw: raw, v: v})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.v == nil:
			return false
		case b.v == nil:
			return true
		default:
			return a.v.GreaterThan(b.v)
		}
	})
	versions := make([]string, len(out))
	for i, p := range out {
		versions[i] = p.raw
	}
	return versions
}
