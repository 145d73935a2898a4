// internal/app/system/csvutil/roster.go
package csvutil

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/grouphub/internal/app/system/namematch"
)

// RosterProblem describes one rejected line from a roster upload.
type RosterProblem struct {
	Line   int
	Name   string
	Reason string
}

func (p RosterProblem) String() string {
	name := p.Name
	if name == "" {
		name = "(blank)"
	}
	return fmt.Sprintf("line %d: %s: %s", p.Line, name, p.Reason)
}

// PreScanRoster reads one student name per line from r, skips a "name"
// header if present, and validates every row before anything is written.
// Lines are NOT parsed as comma-separated fields: the comma is part of the
// "Last Name, First Name" form. A line wrapped in double quotes (as
// spreadsheet CSV exports produce for names containing commas) is
// unwrapped first. On success it returns the cleaned names in input
// order; otherwise it returns the full list of problems. It never writes
// to a DB; it's safe to call before any mutations.
func PreScanRoster(r io.Reader) (names []string, problems []RosterProblem) {
	type row struct {
		line int
		name string
	}
	var raw []row

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		name := cleanLine(sc.Text())
		if line == 1 && strings.EqualFold(name, "name") {
			// header detected → skip
			continue
		}
		if name == "" {
			continue
		}
		raw = append(raw, row{line: line, name: name})
		if !namematch.ValidFormat(name) {
			problems = append(problems, RosterProblem{
				Line: line, Name: name,
				Reason: `not in "Last Name, First Name" format`,
			})
		}
	}
	if err := sc.Err(); err != nil {
		problems = append(problems, RosterProblem{Line: line + 1, Reason: "unreadable input: " + err.Error()})
	}

	// In-batch duplicates, detected on the normalized form.
	seen := make(map[string]string, len(raw))
	for _, rw := range raw {
		key := namematch.Normalize(rw.name)
		if first, dup := seen[key]; dup {
			problems = append(problems, RosterProblem{
				Line: rw.line, Name: rw.name,
				Reason: "duplicate of " + first,
			})
			continue
		}
		seen[key] = rw.name
	}

	if len(problems) > 0 {
		return nil, problems
	}
	names = make([]string, 0, len(raw))
	for _, rw := range raw {
		names = append(names, rw.name)
	}
	return names, nil
}

// cleanLine trims a raw input line and unwraps one level of surrounding
// double quotes ("Santos, Roi" → Santos, Roi).
func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
