package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// TypesOfChange are the accepted "### " change-group headings, per the
// Keep a Changelog convention.
var TypesOfChange = []string{"added", "changed", "deprecated", "removed", "fixed", "security"}

// maxHeadingDepth is the deepest heading a changelog may use: document
// title, version heading, change-type heading.
const maxHeadingDepth = 3

// ChangelogError is a single structural violation with its 1-based line.
type ChangelogError struct {
	Line    int
	Message string
}

// ChangelogValidator validates changelog content against the structural
// subset of Keep a Changelog that the R5 check enforces.
type ChangelogValidator struct {
	// FileName is used only for context in messages from callers; the
	// validator itself operates on content.
	FileName string
}

// NewChangelogValidator creates a validator for the named file.
func NewChangelogValidator(fileName string) *ChangelogValidator {
	return &ChangelogValidator{FileName: fileName}
}

var (
	headingRe     = regexp.MustCompile(`^(#+)\s*(.*)$`)
	versionTagRe  = regexp.MustCompile(`^\[([^\]]+)\](.*)$`)
	dateTrailerRe = regexp.MustCompile(`^\s*-\s*(\S+)\s*$`)
	isoDateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Validate checks the content and returns every violation found.
// Non-heading lines (prose, bullets) are ignored.
func (v *ChangelogValidator) Validate(content string) []ChangelogError {
	var errs []ChangelogError

	for i, line := range strings.Split(content, "\n") {
		m := headingRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		lineNo := i + 1
		depth := len(m[1])
		text := strings.TrimSpace(m[2])

		switch {
		case depth > maxHeadingDepth:
			errs = append(errs, ChangelogError{lineNo, "Heading depth is too high"})

		case depth == 2:
			errs = append(errs, v.validateVersionHeading(lineNo, text)...)

		case depth == 3:
			errs = append(errs, v.validateChangeHeading(lineNo, text)...)
		}
	}
	return errs
}

func (v *ChangelogValidator) validateVersionHeading(lineNo int, text string) []ChangelogError {
	m := versionTagRe.FindStringSubmatch(text)
	if m == nil {
		return []ChangelogError{{lineNo, "Missing version tag like [1.0.0] or [Unreleased]"}}
	}
	version, rest := m[1], m[2]

	if strings.EqualFold(version, "Unreleased") {
		return nil
	}

	var errs []ChangelogError
	if _, err := semver.StrictNewVersion(version); err != nil {
		errs = append(errs, ChangelogError{lineNo,
			fmt.Sprintf("Version '%s' is not SemVer compliant", version)})
	}

	if strings.TrimSpace(rest) == "" {
		errs = append(errs, ChangelogError{lineNo,
			fmt.Sprintf("Missing date metadata for version '%s'", version)})
		return errs
	}

	dm := dateTrailerRe.FindStringSubmatch(rest)
	if dm == nil || !isoDateRe.MatchString(dm[1]) {
		date := rest
		if dm != nil {
			date = dm[1]
		}
		errs = append(errs, ChangelogError{lineNo,
			fmt.Sprintf("Date '%s' for version '%s' is not 'YYYY-MM-DD' format",
				strings.TrimSpace(date), version)})
	}
	return errs
}

func (v *ChangelogValidator) validateChangeHeading(lineNo int, text string) []ChangelogError {
	lowered := strings.ToLower(text)
	for _, t := range TypesOfChange {
		if lowered == t {
			return nil
		}
	}
	titled := make([]string, len(TypesOfChange))
	for i, t := range TypesOfChange {
		titled[i] = strings.ToUpper(t[:1]) + t[1:]
	}
	return []ChangelogError{{lineNo,
		"Incompatible change type, MUST be one of: " + strings.Join(titled, ", ")}}
}
