package entities

// Status is the ordinal maturity tier of a project. Tiers start at 1 so
// the zero value is detectably invalid.
type Status int

// Tiers in ascending order of maturity.
const (
	StatusPlanning Status = iota + 1
	StatusPreAlpha
	StatusAlpha
	StatusBeta
	StatusProduction
	StatusMature
)

var statusClassifiers = map[Status]string{
	StatusPlanning:   "Development Status :: 1 - Planning",
	StatusPreAlpha:   "Development Status :: 2 - Pre-Alpha",
	StatusAlpha:      "Development Status :: 3 - Alpha",
	StatusBeta:       "Development Status :: 4 - Beta",
	StatusProduction: "Development Status :: 5 - Production/Stable",
	StatusMature:     "Development Status :: 6 - Mature",
}

// Classifier returns the PyPI trove classifier string for the tier.
// Downstream consumers parse this exact format, so it must not change.
func (s Status) Classifier() string {
	return statusClassifiers[s]
}

// String returns the short tier name, e.g. "Production/Stable".
func (s Status) String() string {
	switch s {
	case StatusPlanning:
		return "Planning"
	case StatusPreAlpha:
		return "Pre-Alpha"
	case StatusAlpha:
		return "Alpha"
	case StatusBeta:
		return "Beta"
	case StatusProduction:
		return "Production/Stable"
	case StatusMature:
		return "Mature"
	}
	return "Unknown"
}
