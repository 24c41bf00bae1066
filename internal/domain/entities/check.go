// Package entities defines core domain models and data structures.
package entities

// CheckID identifies a single quality check. The vocabulary is closed:
// every identifier the system can produce is declared below, and the
// category tables reference only these constants.
type CheckID string

// Release and packaging checks
const (
	CheckR1 CheckID = "R1"        // at least one release published
	CheckR2 CheckID = "R2"        // latest release within 24 months
	CheckR3 CheckID = "R3"        // more than one release published
	CheckR4 CheckID = "R4 (12mo)" // a release within the last 12 months
	CheckR5 CheckID = "R5"        // structurally valid changelog
	CheckR6 CheckID = "R6"        // latest release files are attested
)

// Quality and process checks
const (
	CheckQ1 CheckID = "Q1" // CI configuration present
	CheckQ2 CheckID = "Q2" // CI exercises multiple Python versions
	CheckQ3 CheckID = "Q3" // test files exist
	CheckQ4 CheckID = "Q4" // healthy test-to-module ratio
	CheckQ5 CheckID = "Q5" // type-hint coverage of public functions
	CheckQ6 CheckID = "Q6" // lint/format automation configured
	CheckQ7 CheckID = "Q7" // documentation present
	CheckQ8 CheckID = "Q8" // README rated complete
	CheckQ9 CheckID = "Q9" // project URLs declared
)

// Structure, security and community checks
const (
	CheckS1    CheckID = "S1"        // security policy file
	CheckD1    CheckID = "D1"        // dependency specifiers are bounded
	CheckC1    CheckID = "C1"        // contributing guide
	CheckC2    CheckID = "C2"        // citation file
	CheckC3    CheckID = "C3"        // code of conduct
	CheckC4    CheckID = "C4"        // issue/PR templates
	CheckCmpl1 CheckID = "Cmpl1"     // non-empty README
	CheckCmpl2 CheckID = "Cmpl2"     // license file
	CheckCmpl3 CheckID = "Cmpl3"     // complete pyproject metadata
	CheckCmpl4 CheckID = "Cmpl4"     // release notes present
	CheckM1    CheckID = "M1"        // release within 6 months
	CheckM2    CheckID = "M2 (12mo)" // two or more releases in 12 months
)

// Hygiene checks. Each one certifies the absence of a specific
// anti-pattern, so passed means clean.
const (
	CheckFail0  CheckID = "Fail0"  // no committed virtualenv
	CheckFail1  CheckID = "Fail1"  // no committed __pycache__
	CheckFail2  CheckID = "Fail2"  // no committed egg-info
	CheckFail3  CheckID = "Fail3"  // no merge conflict markers
	CheckFail4  CheckID = "Fail4"  // no zero-byte modules
	CheckFail5  CheckID = "Fail5"  // no wildcard dependency pins
	CheckFail6  CheckID = "Fail6"  // no print-debugging in package code
	CheckFail7  CheckID = "Fail7"  // no leftover debugger invocations
	CheckFail8  CheckID = "Fail8"  // no hardcoded secret-looking literals
	CheckFail9  CheckID = "Fail9"  // no setup.py-only metadata
	CheckFail10 CheckID = "Fail10" // no bare except clauses
	CheckFail11 CheckID = "Fail11" // no committed OS junk files
	CheckFail12 CheckID = "Fail12" // no unreleased-only changelog
)

// AllChecks is the complete closed vocabulary in stable order.
var AllChecks = []CheckID{
	CheckR1, CheckR2, CheckR3, CheckR4, CheckR5, CheckR6,
	CheckQ1, CheckQ2, CheckQ3, CheckQ4, CheckQ5, CheckQ6, CheckQ7, CheckQ8, CheckQ9,
	CheckS1, CheckD1,
	CheckC1, CheckC2, CheckC3, CheckC4,
	CheckCmpl1, CheckCmpl2, CheckCmpl3, CheckCmpl4,
	CheckM1, CheckM2,
	CheckFail0, CheckFail1, CheckFail2, CheckFail3, CheckFail4, CheckFail5,
	CheckFail6, CheckFail7, CheckFail8, CheckFail9, CheckFail10, CheckFail11, CheckFail12,
}

// CheckTitles maps each identifier to a short human description used in
// CLI listings. Evidence strings carry the per-run detail.
var CheckTitles = map[CheckID]string{
	CheckR1:     "At least one release published",
	CheckR2:     "Latest release within 24 months",
	CheckR3:     "More than one release published",
	CheckR4:     "A release within the last 12 months",
	CheckR5:     "Changelog is structurally valid",
	CheckR6:     "Latest release files carry attestations",
	CheckQ1:     "CI configuration present",
	CheckQ2:     "CI tests multiple Python versions",
	CheckQ3:     "Test files exist",
	CheckQ4:     "Test files cover source modules",
	CheckQ5:     "Public functions are type-hinted",
	CheckQ6:     "Lint/format automation configured",
	CheckQ7:     "Documentation present",
	CheckQ8:     "README is complete",
	CheckQ9:     "Project URLs declared",
	CheckS1:     "Security policy present",
	CheckD1:     "Dependency specifiers are bounded",
	CheckC1:     "Contributing guide present",
	CheckC2:     "Citation file present",
	CheckC3:     "Code of conduct present",
	CheckC4:     "Issue/PR templates present",
	CheckCmpl1:  "README exists and is non-empty",
	CheckCmpl2:  "License file present",
	CheckCmpl3:  "pyproject metadata complete",
	CheckCmpl4:  "Release notes present",
	CheckM1:     "Release within the last 6 months",
	CheckM2:     "Two or more releases in 12 months",
	CheckFail0:  "No committed virtualenv",
	CheckFail1:  "No committed __pycache__",
	CheckFail2:  "No committed egg-info",
	CheckFail3:  "No merge conflict markers",
	CheckFail4:  "No zero-byte modules",
	CheckFail5:  "No wildcard dependency pins",
	CheckFail6:  "No print-debugging in package code",
	CheckFail7:  "No leftover debugger invocations",
	CheckFail8:  "No hardcoded secret-looking literals",
	CheckFail9:  "No setup.py-only metadata",
	CheckFail10: "No bare except clauses",
	CheckFail11: "No committed OS junk files",
	CheckFail12: "Changelog has released entries",
}

// Category membership tables. A check may belong to several categories;
// the overlap is intentional (e.g. R6 counts toward process, completeness
// and long-term support at once).

// EPSChecks is the 16-item engagement/process score set.
var EPSChecks = []CheckID{
	CheckR2, CheckR3, CheckR5, CheckR6,
	CheckQ1, CheckQ2, CheckQ3, CheckQ4, CheckQ5, CheckQ6, CheckQ7,
	CheckS1, CheckC1, CheckC3, CheckC4, CheckM1,
}

// CompletenessChecks is the 16-item documentation/structure set.
var CompletenessChecks = []CheckID{
	CheckC1, CheckC3, CheckC4,
	CheckCmpl1, CheckCmpl2, CheckCmpl3, CheckCmpl4,
	CheckQ1, CheckQ2, CheckQ3, CheckQ4, CheckQ6, CheckQ7,
	CheckR5, CheckR6, CheckS1,
}

// BadnessChecks is the 13-item hygiene set.
var BadnessChecks = []CheckID{
	CheckFail0, CheckFail1, CheckFail2, CheckFail3, CheckFail4, CheckFail5,
	CheckFail6, CheckFail7, CheckFail8, CheckFail9, CheckFail10, CheckFail11, CheckFail12,
}

// LTSChecks is the 5-item long-term-support readiness set, required in
// full only for the Mature tier.
var LTSChecks = []CheckID{
	CheckQ7, CheckD1, CheckQ2, CheckR6, CheckM1,
}

// VenvExcludedChecks lists checks that cannot be observed when analyzing
// an installed artifact instead of a source checkout. CI configuration is
// not shipped inside wheels, so Q1 is unknowable there.
var VenvExcludedChecks = []CheckID{
	CheckQ1,
}

// Categories returns the category names a check belongs to, in stable
// order. Used by the CLI vocabulary listing only; scoring walks the
// membership tables above.
func (id CheckID) Categories() []string {
	var out []string
	named := []struct {
		name string
		set  []CheckID
	}{
		{"eps", EPSChecks},
		{"completeness", CompletenessChecks},
		{"badness", BadnessChecks},
		{"lts", LTSChecks},
	}
	for _, c := range named {
		for _, member := range c.set {
			if member == id {
				out = append(out, c.name)
				break
			}
		}
	}
	return out
}
