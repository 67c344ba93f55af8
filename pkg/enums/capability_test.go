package enums

import "testing"

func TestParseCapability(t *testing.T) {
	for _, c := range Capabilities() {
		got, err := ParseCapability(c.String())
		if err != nil {
			t.Fatalf("parse %s: %v", c, err)
		}
		if got != c {
			t.Fatalf("expected %s, got %s", c, got)
		}
	}
	if _, err := ParseCapability("can_fly"); err == nil {
		t.Fatal("expected unknown capability to fail parsing")
	}
	if Capability("can_fly").IsValid() {
		t.Fatal("unknown capability must not be valid")
	}
}

func TestCapabilitiesReturnsCopy(t *testing.T) {
	caps := Capabilities()
	if len(caps) != 8 {
		t.Fatalf("expected 8 capabilities, got %d", len(caps))
	}
	caps[0] = "mutated"
	if Capabilities()[0] != CapabilityViewComplaints {
		t.Fatal("Capabilities must not expose internal slice")
	}
}

func TestSeverityIsValid(t *testing.T) {
	for _, s := range []Severity{SeveritySuccess, SeverityDanger, SeverityInfo} {
		if !s.IsValid() {
			t.Fatalf("expected %s valid", s)
		}
	}
	if Severity("warning").IsValid() {
		t.Fatal("warning is not a flash severity")
	}
}
