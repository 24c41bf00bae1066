package gateways

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/troml/dev-status/internal/domain/entities"
	"github.com/troml/dev-status/internal/domain/interfaces"
	pyprojecttoml "github.com/troml/dev-status/internal/external-adapters/toml"
	ciyaml "github.com/troml/dev-status/internal/external-adapters/yaml"
)

// RepoScanner builds a RepoSnapshot from one pass over a project
// directory, honoring .gitignore and skipping the usual noise dirs.
type RepoScanner struct {
	log interfaces.Logger
}

func NewRepoScanner(log interfaces.Logger) *RepoScanner {
	if log == nil {
		log = &interfaces.NoOpLogger{}
	}
	return &RepoScanner{log: log}
}

// governanceCategory describes how one category's files are discovered.
// Multi-word bases match with "-", "_", " " and bare concatenation as
// joiners, each with .md/.rst/.txt or no extension, case-insensitive.
type governanceCategory struct {
	name  string
	bases []string
	exact []string
}

// Order is fixed so Governance listings stay deterministic.
var governanceCategories = []governanceCategory{
	{name: "security", bases: []string{"security"}},
	{name: "code_of_conduct", bases: []string{"code of conduct"}},
	{name: "contributing", bases: []string{"contributing"}},
	{name: "release_notes", bases: []string{"changelog", "changes", "history", "news", "release notes", "releases"}},
	{name: "meta", bases: []string{"codeowners", "governance", "support", "authors", "maintainers"}},
	{name: "automation", exact: []string{
		".pre-commit-config.yaml", ".pre-commit-config.yml", "tox.ini", "noxfile.py",
		"makefile", "justfile", ".editorconfig", "ruff.toml", ".flake8", ".pylintrc",
	}},
	{name: "funding", bases: []string{"funding", "sponsors", "backers"}},
	{name: "templates", bases: []string{"pull request template", "issue template"}},
	{name: "citation", bases: []string{"citation"}, exact: []string{"citation.cff"}},
	{name: "legal", bases: []string{"license", "licence", "copying", "notice"}},
	{name: "roadmap", bases: []string{"roadmap", "milestones"}},
	{name: "style", bases: []string{"style guide", "code style"}},
}

// GovernanceCategoryNames returns the category names in their canonical
// discovery order.
func GovernanceCategoryNames() []string {
	out := make([]string, 0, len(governanceCategories))
	for _, cat := range governanceCategories {
		out = append(out, cat.name)
	}
	return out
}

// FlattenGovernance lists discovered files in canonical category order.
// A non-empty include set restricts the listing to those categories;
// exclude removes categories afterwards.
func FlattenGovernance(gov map[string][]string, include, exclude []string) []string {
	included := map[string]bool{}
	for _, name := range include {
		included[name] = true
	}
	excluded := map[string]bool{}
	for _, name := range exclude {
		excluded[name] = true
	}

	var out []string
	for _, cat := range governanceCategories {
		if len(include) > 0 && !included[cat.name] {
			continue
		}
		if excluded[cat.name] {
			continue
		}
		out = append(out, gov[cat.name]...)
	}
	return out
}

// GovernanceSummary gives per-category file counts.
func GovernanceSummary(gov map[string][]string) map[string]int {
	out := make(map[string]int, len(governanceCategories))
	for _, cat := range governanceCategories {
		out[cat.name] = len(gov[cat.name])
	}
	return out
}

var nameJoiners = []string{"-", "_", " ", ""}
var nameExtensions = []string{"", ".md", ".rst", ".txt"}

// variants expands a category into the set of lowercased filenames it
// accepts.
func (c governanceCategory) variants() map[string]bool {
	out := map[string]bool{}
	for _, base := range c.bases {
		words := strings.Fields(strings.ToLower(base))
		for _, join := range nameJoiners {
			stem := strings.Join(words, join)
			for _, ext := range nameExtensions {
				out[stem+ext] = true
			}
		}
	}
	for _, name := range c.exact {
		out[strings.ToLower(name)] = true
	}
	return out
}

var (
	testFileRe   = regexp.MustCompile(`^(test_.*|.*_test)\.py$`)
	conflictRe   = regexp.MustCompile(`(?m)^(<<<<<<< |>>>>>>> )`)
	printCallRe  = regexp.MustCompile(`(?m)^\s*print\(`)
	debuggerRe   = regexp.MustCompile(`pdb\.set_trace\(|breakpoint\(\)|import ipdb`)
	secretRe     = regexp.MustCompile(`(?i)(password|passwd|secret|api_key|apikey|auth_token)\s*=\s*["'][^"']{4,}["']`)
	bareExceptRe = regexp.MustCompile(`(?m)^\s*except\s*:`)
	defRe        = regexp.MustCompile(`^(\s*)(async\s+)?def\s+([A-Za-z_]\w*)\s*\(`)
)

var osJunkNames = map[string]bool{
	".ds_store":   true,
	"thumbs.db":   true,
	"desktop.ini": true,
}

// Scan walks root and assembles the snapshot plus the project's
// [tool.dev-status] configuration.
func (s *RepoScanner) Scan(root string) (*entities.RepoSnapshot, entities.ProjectConfig, error) {
	cfg := entities.DefaultProjectConfig()

	info, err := os.Stat(root)
	if err != nil {
		return nil, cfg, fmt.Errorf("cannot access project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, cfg, fmt.Errorf("%s is not a directory", root)
	}

	snap := &entities.RepoSnapshot{
		Root:       root,
		Governance: map[string][]string{},
	}

	matcher, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		matcher = nil
	}

	if data, err := os.ReadFile(filepath.Join(root, "pyproject.toml")); err == nil {
		snap.HasPyproject = true
		p, projCfg, perr := pyprojecttoml.ParsePyproject(data)
		if perr != nil {
			s.log.Warn("pyproject.toml could not be parsed", interfaces.F("error", perr.Error()))
		} else {
			snap.Pyproject = p
			cfg = projCfg
		}
	}
	if _, err := os.Stat(filepath.Join(root, "setup.py")); err == nil {
		snap.HasSetupPy = true
	}

	s.collectGovernance(root, snap)
	s.collectCI(root, snap)
	s.loadReadme(root, snap)
	s.loadChangelog(root, snap)
	snap.HasDocs = hasDocs(root)

	sourceRoot := findSourceRoot(root, snap.Pyproject)

	hintAnnotated := 0
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.Type()&fs.ModeSymlink != 0 {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			switch {
			case name == ".git" || name == "node_modules":
				return filepath.SkipDir
			case name == "__pycache__":
				snap.Hygiene.CommittedCaches = append(snap.Hygiene.CommittedCaches, rel)
				return filepath.SkipDir
			case strings.HasSuffix(name, ".egg-info"):
				snap.Hygiene.CommittedEggInfo = append(snap.Hygiene.CommittedEggInfo, rel)
				return filepath.SkipDir
			case isVirtualenvDir(path, name):
				snap.Hygiene.CommittedVenvs = append(snap.Hygiene.CommittedVenvs, rel)
				return filepath.SkipDir
			}
			if matcher != nil && matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}

		if osJunkNames[strings.ToLower(name)] {
			snap.Hygiene.OSJunkFiles = append(snap.Hygiene.OSJunkFiles, rel)
			return nil
		}

		if !strings.HasSuffix(name, ".py") {
			return nil
		}

		data, rerr := os.ReadFile(path)
		if rerr != nil {
			s.log.Warn("unreadable file skipped", interfaces.F("path", rel))
			return nil
		}
		content := string(data)

		if conflictRe.MatchString(content) {
			snap.Hygiene.ConflictMarkers = append(snap.Hygiene.ConflictMarkers, rel)
		}

		if testFileRe.MatchString(name) && underTestDir(rel) {
			snap.TestFileCount++
			return nil
		}
		if name == "setup.py" || name == "conftest.py" {
			return nil
		}
		if !isSourceModule(rel, sourceRoot) {
			return nil
		}

		if name != "__init__.py" {
			snap.SourceModuleCount++
		}
		if len(data) == 0 && name != "__init__.py" {
			snap.Hygiene.ZeroByteModules = append(snap.Hygiene.ZeroByteModules, rel)
		}
		if printCallRe.MatchString(content) {
			snap.Hygiene.PrintCalls = append(snap.Hygiene.PrintCalls, rel)
		}
		if debuggerRe.MatchString(content) {
			snap.Hygiene.DebuggerCalls = append(snap.Hygiene.DebuggerCalls, rel)
		}
		if secretRe.MatchString(content) {
			snap.Hygiene.SecretLiterals = append(snap.Hygiene.SecretLiterals, rel)
		}
		if bareExceptRe.MatchString(content) {
			snap.Hygiene.BareExcepts = append(snap.Hygiene.BareExcepts, rel)
		}

		total, annotated := countTypeHints(content)
		snap.TypeHintTotal += total
		hintAnnotated += annotated
		return nil
	})
	if walkErr != nil {
		return nil, cfg, fmt.Errorf("repository walk failed: %w", walkErr)
	}

	if snap.TypeHintTotal > 0 {
		snap.TypeHintCoverage = 100 * float64(hintAnnotated) / float64(snap.TypeHintTotal)
	}

	s.log.Debug("repository scanned",
		interfaces.F("modules", snap.SourceModuleCount),
		interfaces.F("tests", snap.TestFileCount),
		interfaces.F("governance_files", len(FlattenGovernance(snap.Governance, nil, nil))))
	return snap, cfg, nil
}

// collectGovernance looks for governance files in the repo root,
// .github/ and docs/, in that order within each category.
func (s *RepoScanner) collectGovernance(root string, snap *entities.RepoSnapshot) {
	dirs := []string{"", ".github", "docs"}
	listings := make(map[string][]string, len(dirs))
	for _, dir := range dirs {
		listings[dir] = sortedEntries(filepath.Join(root, dir))
	}

	for _, cat := range governanceCategories {
		accepted := cat.variants()
		var found []string
		for _, dir := range dirs {
			for _, name := range listings[dir] {
				if accepted[strings.ToLower(name)] {
					found = append(found, filepath.ToSlash(filepath.Join(dir, name)))
				}
			}
		}
		if cat.name == "templates" {
			if tpl := filepath.Join(root, ".github", "ISSUE_TEMPLATE"); dirHasFiles(tpl) {
				found = append(found, ".github/ISSUE_TEMPLATE")
			}
		}
		if cat.name == "funding" {
			if _, err := os.Stat(filepath.Join(root, ".github", "FUNDING.yml")); err == nil {
				found = append(found, ".github/FUNDING.yml")
			}
		}
		if len(found) > 0 {
			snap.Governance[cat.name] = dedupe(found)
		}
	}
}

var ciConfigPaths = []string{
	".gitlab-ci.yml",
	".travis.yml",
	"azure-pipelines.yml",
	".circleci/config.yml",
	"Jenkinsfile",
}

func (s *RepoScanner) collectCI(root string, snap *entities.RepoSnapshot) {
	workflows := filepath.Join(root, ".github", "workflows")
	for _, name := range sortedEntries(workflows) {
		if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
			continue
		}
		rel := ".github/workflows/" + name
		snap.CIConfigs = append(snap.CIConfigs, rel)
		data, err := os.ReadFile(filepath.Join(workflows, name))
		if err != nil {
			continue
		}
		multi, perr := ciyaml.HasMultiPythonMatrix(data)
		if perr != nil {
			s.log.Warn("workflow could not be parsed", interfaces.F("path", rel))
			continue
		}
		if multi {
			snap.MultiPythonCI = true
		}
	}
	for _, rel := range ciConfigPaths {
		if _, err := os.Stat(filepath.Join(root, rel)); err == nil {
			snap.CIConfigs = append(snap.CIConfigs, rel)
		}
	}
}

var readmeNames = []string{"README.md", "README.rst", "README.txt", "README"}

func (s *RepoScanner) loadReadme(root string, snap *entities.RepoSnapshot) {
	for _, name := range readmeNames {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		snap.ReadmePath = name
		snap.ReadmeContent = string(data)
		return
	}
}

var changelogNames = []string{"CHANGELOG.md", "CHANGELOG.rst", "CHANGELOG.txt", "CHANGELOG", "CHANGES.md", "HISTORY.md", "NEWS.md"}

func (s *RepoScanner) loadChangelog(root string, snap *entities.RepoSnapshot) {
	for _, name := range changelogNames {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		snap.ChangelogPath = name
		snap.ChangelogContent = string(data)
		return
	}
}

func hasDocs(root string) bool {
	for _, name := range []string{"docs", "doc"} {
		if dirHasFiles(filepath.Join(root, name)) {
			return true
		}
	}
	for _, name := range []string{"mkdocs.yml", "mkdocs.yaml"} {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			return true
		}
	}
	return false
}

// findSourceRoot locates the package directory: src layout wins, then a
// directory named after the project (dashes become underscores).
func findSourceRoot(root string, p *entities.Pyproject) string {
	if dirHasFiles(filepath.Join(root, "src")) {
		return "src"
	}
	if p == nil || p.Name == "" {
		return ""
	}
	for _, candidate := range []string{p.Name, strings.ReplaceAll(p.Name, "-", "_")} {
		if _, err := os.Stat(filepath.Join(root, candidate, "__init__.py")); err == nil {
			return candidate
		}
	}
	return ""
}

// underTestDir reports whether a repo-relative path lives inside a
// test/ or tests/ directory at any depth.
func underTestDir(rel string) bool {
	for _, segment := range strings.Split(rel, "/") {
		if segment == "test" || segment == "tests" {
			return true
		}
	}
	return false
}

// isSourceModule reports whether a repo-relative .py path belongs to the
// shipped package rather than tests, examples or tooling.
func isSourceModule(rel, sourceRoot string) bool {
	if sourceRoot != "" {
		return strings.HasPrefix(rel, sourceRoot+"/")
	}
	top := rel
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		top = rel[:i]
	}
	switch top {
	case "tests", "test", "examples", "scripts", "docs", "doc", "tools":
		return false
	}
	return true
}

func isVirtualenvDir(path, name string) bool {
	if name == ".venv" {
		return true
	}
	if name != "venv" && name != "env" {
		return false
	}
	_, err := os.Stat(filepath.Join(path, "pyvenv.cfg"))
	return err == nil
}

// countTypeHints counts public function definitions and how many carry
// a return annotation. Signatures may span lines; the search for "->"
// stops at the colon that closes the signature.
func countTypeHints(content string) (total, annotated int) {
	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); i++ {
		m := defRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		if strings.HasPrefix(m[3], "_") {
			continue
		}
		total++
		sig := lines[i]
		for j := i + 1; j < len(lines) && j < i+20 && !signatureClosed(sig); j++ {
			sig += "\n" + lines[j]
		}
		if closing := strings.LastIndex(sig, ")"); closing >= 0 {
			if strings.Contains(sig[closing:], "->") {
				annotated++
			}
		}
	}
	return total, annotated
}

// signatureClosed reports whether the accumulated signature text has
// balanced parentheses followed by its terminating colon.
func signatureClosed(sig string) bool {
	depth := 0
	opened := false
	for i := 0; i < len(sig); i++ {
		switch sig[i] {
		case '(':
			depth++
			opened = true
		case ')':
			depth--
		case ':':
			if opened && depth == 0 {
				return true
			}
		}
	}
	return false
}

func sortedEntries(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func dirHasFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
