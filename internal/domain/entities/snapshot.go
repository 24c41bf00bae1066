package entities

import "time"

// Pyproject is the subset of pyproject.toml the checks care about.
type Pyproject struct {
	Name         string
	Version      string
	Description  string
	License      string
	Dependencies []string
	URLs         map[string]string
}

// HygieneFindings collects anti-pattern evidence gathered during the
// repository walk. Empty slices mean the corresponding check passes.
type HygieneFindings struct {
	CommittedVenvs   []string
	CommittedCaches  []string
	CommittedEggInfo []string
	ConflictMarkers  []string
	ZeroByteModules  []string
	PrintCalls       []string
	DebuggerCalls    []string
	SecretLiterals   []string
	BareExcepts      []string
	OSJunkFiles      []string
}

// RepoSnapshot is everything the checks need from one pass over a
// project directory. Building it is the scanner's job; interpreting it
// belongs to the check definitions.
type RepoSnapshot struct {
	Root string

	// Governance maps category name to discovered files (relative
	// paths), in deterministic category and path order.
	Governance map[string][]string

	CIConfigs     []string
	MultiPythonCI bool

	TestFileCount     int
	SourceModuleCount int

	// TypeHintCoverage is the percentage of public functions carrying a
	// return annotation; TypeHintTotal is the number of public functions
	// observed.
	TypeHintCoverage float64
	TypeHintTotal    int

	ReadmePath    string
	ReadmeContent string

	ChangelogPath    string
	ChangelogContent string

	HasDocs      bool
	HasSetupPy   bool
	HasPyproject bool
	Pyproject    *Pyproject

	Hygiene HygieneFindings
}

// GovernanceFound reports whether any file was discovered for the named
// governance category.
func (s *RepoSnapshot) GovernanceFound(category string) bool {
	return len(s.Governance[category]) > 0
}

// ReleaseFile is one distribution file of a registry release.
type ReleaseFile struct {
	Filename        string    `json:"filename"`
	UploadTime      time.Time `json:"upload_time"`
	HasAttestations bool      `json:"has_attestations"`
}

// RegistrySnapshot summarizes a project's registry presence: release
// history plus attestation status of the latest release files.
type RegistrySnapshot struct {
	Project          string        `json:"project"`
	Found            bool          `json:"found"`
	LatestVersion    string        `json:"version"`
	Versions         []string      `json:"versions"` // descending
	ReleaseCount     int           `json:"release_count"`
	LatestUpload     time.Time     `json:"latest_upload"`
	ReleasesLast12mo int           `json:"releases_last_12mo"`
	Files            []ReleaseFile `json:"files"`
	AnyFileAttested  bool          `json:"any_file_attested"`
	AllFilesAttested bool          `json:"all_files_attested"`
}
