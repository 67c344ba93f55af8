package enums

// Severity tags a flash message for the presentation layer.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
	SeverityInfo    Severity = "info"
)

func (s Severity) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeveritySuccess, SeverityDanger, SeverityInfo:
		return true
	}
	return false
}
