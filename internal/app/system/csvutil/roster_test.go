package csvutil

import (
	"strings"
	"testing"
)

func TestPreScanRoster_PlainLines(t *testing.T) {
	in := "Santos, Roi\nBañares, Ana\n\nDela Cruz, Maria\n"
	names, problems := PreScanRoster(strings.NewReader(in))
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	want := []string{"Santos, Roi", "Bañares, Ana", "Dela Cruz, Maria"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestPreScanRoster_SkipsHeader(t *testing.T) {
	in := "name\nSantos, Roi\n"
	names, problems := PreScanRoster(strings.NewReader(in))
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if len(names) != 1 || names[0] != "Santos, Roi" {
		t.Fatalf("got %v, want [Santos, Roi]", names)
	}
}

func TestPreScanRoster_BadFormat(t *testing.T) {
	in := "Santos, Roi\nJust A Name\n"
	names, problems := PreScanRoster(strings.NewReader(in))
	if names != nil {
		t.Fatalf("expected no names on failure, got %v", names)
	}
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1: %v", len(problems), problems)
	}
	if problems[0].Name != "Just A Name" {
		t.Errorf("problem name = %q, want %q", problems[0].Name, "Just A Name")
	}
}

func TestPreScanRoster_DuplicateNormalized(t *testing.T) {
	in := "Santos, Roi\nSANTOS,  ROI\n"
	names, problems := PreScanRoster(strings.NewReader(in))
	if names != nil {
		t.Fatalf("expected no names on failure, got %v", names)
	}
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1: %v", len(problems), problems)
	}
	if !strings.Contains(problems[0].Reason, "duplicate") {
		t.Errorf("reason = %q, want duplicate", problems[0].Reason)
	}
}

func TestPreScanRoster_QuotedCSVExport(t *testing.T) {
	in := "\"Santos, Roi\"\n\"O'Neil, Sean\"\n"
	names, problems := PreScanRoster(strings.NewReader(in))
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	want := []string{"Santos, Roi", "O'Neil, Sean"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestPreScanRoster_Empty(t *testing.T) {
	names, problems := PreScanRoster(strings.NewReader(""))
	if len(names) != 0 || len(problems) != 0 {
		t.Fatalf("got (%v, %v), want empty", names, problems)
	}
}
