package app

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

const helpLine = "[c] check now  [p] pause/resume  [k] terminate  [q] quit"

func (a *App) render(d DisplaySnapshot) {
	enableANSI(a.out)
	clearConsole(a.out)

	lines := a.frame(d)
	maxWidth := 0
	for i := range lines {
		w := runewidth.StringWidth(lines[i])
		if w > maxWidth {
			maxWidth = w
		}
	}
	if a.lastRenderWidth > maxWidth {
		maxWidth = a.lastRenderWidth
	}
	a.lastRenderWidth = maxWidth

	for i := range lines {
		lines[i] = padRight(lines[i], maxWidth)
	}
	if a.lastRenderLines > len(lines) {
		for i := 0; i < a.lastRenderLines-len(lines); i++ {
			lines = append(lines, padRight("", maxWidth))
		}
	}
	a.lastRenderLines = len(lines)

	_, _ = fmt.Fprint(a.out, strings.Join(lines, "\n")+"\n")
}

// frame lays out one screen without padding.
func (a *App) frame(d DisplaySnapshot) []string {
	var b strings.Builder
	b.Grow(512)

	fmt.Fprintf(&b, "%s Monitor  %s\n", LogTag, d.Updated)
	if d.Version != "" {
		if ansiEnabled {
			fmt.Fprintf(&b, "Version: \x1b[32m%s\x1b[0m\n", d.Version)
		} else {
			fmt.Fprintf(&b, "Version: %s\n", d.Version)
		}
	}
	b.WriteString("\n")

	it := d.Item
	hung := ""
	if it.Hung {
		hung = "yes"
	}
	headers := []string{"PROCESS", "MATCH", "POLL", "STATUS", "PID", "STARTED", "UPTIME", "CPU%", "MEM MB", "HUNG"}
	row := []string{
		truncateDisplay(it.Process, 40),
		it.Match,
		it.Poll,
		it.Icon,
		it.Pid,
		it.StartedAt,
		it.Uptime,
		it.Cpu,
		it.MemMB,
		hung,
	}
	widths := make([]int, len(headers))
	for i := range headers {
		widths[i] = max(runewidth.StringWidth(headers[i]), runewidth.StringWidth(row[i]))
	}

	b.WriteString(formatRow(headers, widths))
	b.WriteString("\n")
	b.WriteString(formatRow(dividerRow(widths), widths))
	b.WriteString("\n")
	b.WriteString(formatRow(row, widths))
	b.WriteString("\n\n")
	b.WriteString(helpLine)
	if a.notice != "" {
		b.WriteString("\n")
		b.WriteString(truncateDisplay(a.notice, 100))
	}

	return strings.Split(b.String(), "\n")
}

func formatRow(cols []string, widths []int) string {
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += "  "
		}
		out += padRight(c, widths[i])
	}
	return out
}

func dividerRow(widths []int) []string {
	out := make([]string, len(widths))
	for i, w := range widths {
		out[i] = strings.Repeat("-", w)
	}
	return out
}

func truncateDisplay(s string, max int) string {
	if max <= 0 {
		return ""
	}
	return runewidth.Truncate(s, max, "...")
}

func padRight(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-runewidth.StringWidth(s))
}
