package nav

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
)

// Severity of an authoring issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one authoring problem found by Check.
type Issue struct {
	Severity Severity
	Area     string // "nav", "sidebar" or "social"
	Section  string // sidebar section title, empty elsewhere
	Index    int    // position within its list
	Target   string
	Message  string
}

func (i Issue) String() string {
	where := i.Area
	if i.Section != "" {
		where += "/" + i.Section
	}
	return fmt.Sprintf("%s %s[%d] %s: %s", i.Severity, where, i.Index, i.Target, i.Message)
}

// Report collects issues in the order they were found.
type Report struct {
	Issues []Issue
}

func (r *Report) add(i Issue) { r.Issues = append(r.Issues, i) }

// Merge appends the issues of other.
func (r *Report) Merge(other Report) { r.Issues = append(r.Issues, other.Issues...) }

func (r Report) count(sev Severity) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == sev {
			n++
		}
	}
	return n
}

func (r Report) Errors() int { return r.count(SeverityError) }
func (r Report) Warnings() int { return r.count(SeverityWarning) }
func (r Report) HasErrors() bool { return r.Errors() > 0 }

// Err returns a validation error summarizing the report, or nil when it has
// no errors.
func (r Report) Err() error {
	if !r.HasErrors() {
		return nil
	}
	var lines []string
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			lines = append(lines, i.String())
		}
	}
	return errors.ValidationError(fmt.Sprintf("navigation has %d authoring error(s)", len(lines))).
		WithContext("issues", strings.Join(lines, "; ")).
		Build()
}

// Check lints the navigation for authoring mistakes. Construction never
// validates; this is run by the check command and in tests.
func Check(n SiteNavigation) Report {
	var r Report
	seen := make(map[string]int, len(n.topNav))
	for i, l := range n.topNav {
		checkLink(&r, "nav", "", i, l)
		if l.Target == "" {
			continue
		}
		if first, dup := seen[l.Target]; dup {
			r.add(Issue{Severity: SeverityError, Area: "nav", Index: i, Target: l.Target,
				Message: fmt.Sprintf("duplicate top navigation target (first at %d)", first)})
			continue
		}
		seen[l.Target] = i
	}
	for si, s := range n.sidebar {
		if strings.TrimSpace(s.Title) == "" {
			r.add(Issue{Severity: SeverityError, Area: "sidebar", Index: si, Message: "section title is empty"})
		}
		if len(s.entries) == 0 {
			r.add(Issue{Severity: SeverityWarning, Area: "sidebar", Section: s.Title, Index: si, Message: "section has no entries"})
		}
		for i, l := range s.entries {
			checkLink(&r, "sidebar", s.Title, i, l)
		}
	}
	for i, l := range n.socialLinks {
		checkLink(&r, "social", "", i, l)
		if l.Target != "" && !l.IsExternal() {
			r.add(Issue{Severity: SeverityWarning, Area: "social", Index: i, Target: l.Target, Message: "social link is not an absolute URL"})
		}
	}
	return r
}

func checkLink(r *Report, area, section string, idx int, l NavLink) {
	if strings.TrimSpace(l.Label) == "" {
		r.add(Issue{Severity: SeverityError, Area: area, Section: section, Index: idx, Target: l.Target, Message: "label is empty"})
	}
	if strings.TrimSpace(l.Target) == "" {
		r.add(Issue{Severity: SeverityError, Area: area, Section: section, Index: idx, Message: "target is empty"})
	}
}
