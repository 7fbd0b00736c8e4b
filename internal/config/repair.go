package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// pathKeys are the section.key pairs whose values may hold Windows paths
// or names with spaces.
var pathKeys = map[string]bool{
	"monitor.processname": true,
	"log.file":            true,
	"metrics.listen":      true,
	"notify.server":       true,
}

// RepairFile rewrites path-like values that gcfg would reject or misread,
// such as file = C:\logs\watch.log, as quoted strings with escaped
// backslashes. It reports whether the file changed.
func RepairFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, errors.Wrapf(err, "repair config %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Wrapf(err, "repair config %s", path)
	}
	out, changed := repairINI(string(data))
	if !changed {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, errors.Wrapf(err, "repair config %s", path)
	}
	return true, nil
}

// repairINI keeps comments, sections and line endings as they are.
func repairINI(src string) (string, bool) {
	lines := strings.SplitAfter(src, "\n")
	section := ""
	changed := false
	for i, line := range lines {
		body := strings.TrimRight(line, "\r\n")
		eol := line[len(body):]
		trim := strings.TrimSpace(body)
		switch {
		case trim == "", trim[0] == ';', trim[0] == '#':
			continue
		case trim[0] == '[':
			section = strings.ToLower(strings.Trim(trim, "[] \t"))
			continue
		}
		key, val, ok := strings.Cut(body, "=")
		if !ok || !pathKeys[section+"."+strings.ToLower(strings.TrimSpace(key))] {
			continue
		}
		fixed, ok := repairValue(strings.TrimSpace(val))
		if !ok {
			continue
		}
		lines[i] = strings.TrimRight(key, " \t") + " = " + fixed + eol
		changed = true
	}
	return strings.Join(lines, ""), changed
}

// repairValue returns the quoted form of v and true when v needs fixing.
func repairValue(v string) (string, bool) {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		inner := v[1 : len(v)-1]
		fixed := escapeLoneBackslashes(inner)
		if fixed == inner {
			return "", false
		}
		return `"` + fixed + `"`, true
	}
	if !strings.Contains(v, `\`) {
		return "", false
	}
	return quoteIfNeeded(v), true
}

// escapeLoneBackslashes doubles every backslash that does not already start
// a \\ or \" pair. A path like "C:\temp" would otherwise hold a tab.
func escapeLoneBackslashes(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			b.WriteByte('\\')
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteString(`\\`)
	}
	return b.String()
}
