package process

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// MatchMode selects how a target name is compared with live process names.
type MatchMode int

const (
	MatchExact MatchMode = iota
	MatchContains
)

func (m MatchMode) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchContains:
		return "contains"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m MatchMode) Valid() bool {
	return m == MatchExact || m == MatchContains
}

// ParseMatchMode accepts "exact" or "contains" in any case. Empty means exact.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return MatchExact, nil
	case "contains":
		return MatchContains, nil
	default:
		return MatchExact, fmt.Errorf("unknown match mode %q", s)
	}
}

// Match returns the first entry of procs whose name matches name.
// The comparison is chosen once per call from mode and caseSensitive. A
// case-insensitive exact match also accepts a trailing ".exe" on the live name.
func Match(procs []Info, name string, mode MatchMode, caseSensitive bool) (Info, bool) {
	if name == "" {
		return Info{}, false
	}
	match := comparator(name, mode, caseSensitive)
	for _, p := range procs {
		if match(p.Name) {
			return p, true
		}
	}
	return Info{}, false
}

func comparator(target string, mode MatchMode, caseSensitive bool) func(string) bool {
	switch mode {
	case MatchContains:
		if caseSensitive {
			return func(n string) bool { return strings.Contains(n, target) }
		}
		fold := cases.Fold()
		t := fold.String(target)
		return func(n string) bool { return strings.Contains(fold.String(n), t) }
	case MatchExact:
		if caseSensitive {
			return func(n string) bool { return n == target }
		}
		wantExe := hasExeSuffix(target)
		return func(n string) bool {
			if strings.EqualFold(n, target) {
				return true
			}
			// Windows reports "notepad.exe" where users configure "notepad".
			return !wantExe && hasExeSuffix(n) && strings.EqualFold(n[:len(n)-4], target)
		}
	default:
		return func(string) bool { return false }
	}
}

func hasExeSuffix(s string) bool {
	return len(s) > 4 && strings.EqualFold(s[len(s)-4:], ".exe")
}
