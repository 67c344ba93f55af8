package workitems

import (
	"fmt"

	"github.com/angelmondragon/propertyhub/pkg/enums"
)

// Kind describes one work item category: its capabilities and the wording
// used in notices.
type Kind struct {
	Name      string
	Label     string
	Noun      string
	View      enums.Capability
	Manage    enums.Capability
	HasStatus bool
}

var (
	Complaints = Kind{
		Name:   "complaint",
		Label:  "Complaint",
		Noun:   "complaint",
		View:   enums.CapabilityViewComplaints,
		Manage: enums.CapabilityManageComplaints,
	}
	Repairs = Kind{
		Name:      "repair",
		Label:     "Repair request",
		Noun:      "repair request",
		View:      enums.CapabilityViewRepairs,
		Manage:    enums.CapabilityManageRepairs,
		HasStatus: true,
	}
	Replacements = Kind{
		Name:      "replacement",
		Label:     "Replacement request",
		Noun:      "replacement request",
		View:      enums.CapabilityViewReplacements,
		Manage:    enums.CapabilityManageReplacements,
		HasStatus: true,
	}
)

// Kinds lists every category in dashboard order.
func Kinds() []Kind {
	return []Kind{Complaints, Repairs, Replacements}
}

// ParseKind resolves a route segment such as "repair".
func ParseKind(name string) (Kind, error) {
	for _, kind := range Kinds() {
		if kind.Name == name {
			return kind, nil
		}
	}
	return Kind{}, fmt.Errorf("unknown work item kind %q", name)
}

func (k Kind) SuccessMessage(verb string) string {
	return fmt.Sprintf("%s %s successfully", k.Label, verb)
}

func (k Kind) deniedMessage(verb string) string {
	return fmt.Sprintf("You are not authorized to %s this %s", verb, k.Noun)
}

func (k Kind) notFoundMessage() string {
	return fmt.Sprintf("%s not found", k.Label)
}

// columns are the mutable columns an update overwrites.
func (k Kind) columns() []string {
	cols := []string{"item", "remark", "unit"}
	if k.HasStatus {
		cols = append(cols, "status")
	}
	return cols
}
