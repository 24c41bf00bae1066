package entities

// CheckResult is the outcome of a single check: a verdict plus the
// evidence that produced it. Results are immutable once produced.
type CheckResult struct {
	Passed   bool   `json:"passed"`
	Evidence string `json:"evidence"`
}

// Results maps check identifiers to their outcomes. The map need not
// cover the whole vocabulary; a missing identifier is treated as failed,
// never as passed.
type Results map[CheckID]CheckResult

// Passed reports whether the identified check is present and passed.
func (r Results) Passed(id CheckID) bool {
	res, ok := r[id]
	return ok && res.Passed
}

// Metrics is an opaque numeric bag carried alongside Results. The
// classification engine forwards it unchanged; only reports and future
// consumers interpret it.
type Metrics map[string]float64
