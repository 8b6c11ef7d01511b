package converter

import (
	"regexp"
	"strings"
)

var fenceArtifactPattern = regexp.MustCompile("(?s)(```\\w*\\n.*?)\\n\\n```")

// fixFences collapses a blank line left before a closing fence.
func fixFences(markdown string) string {
	return fenceArtifactPattern.ReplaceAllString(markdown, "$1\n```")
}

// PostProcess resolves sentinel markers and normalises task checkboxes and
// panel alerts. The order matters: later steps key off text shapes earlier
// steps produce.
func PostProcess(markdown string) string {
	markdown = ResolveMarkers(markdown, MarkerStatus)
	markdown = ResolveMarkers(markdown, MarkerDate)
	markdown = ResolveMarkers(markdown, MarkerDecision)
	markdown = RenderTaskCheckboxes(markdown)
	markdown = ConvertPanelsToAlerts(markdown)
	return markdown
}

var (
	runTogetherTaskPattern   = regexp.MustCompile(`([^\n\s-])(-\s+\[[ xX]\])`)
	runTogetherBulletPattern = regexp.MustCompile(`([^\n\s-])(-\s+)`)
	unindentedBulletPattern  = regexp.MustCompile(`^-\s+`)
	orderedItemPattern       = regexp.MustCompile(`^\d+\.\s+`)
	taskLinePattern          = regexp.MustCompile(`^(\s*)-\s+\[([ xX])\](.*)$`)
)

// RenderTaskCheckboxes splits bullets and task markers that were run
// together onto their own lines, nests bullets that directly follow an
// ordered item, and replaces task markers with ☐/☑ followed by a blank line.
// Lines inside fenced code are left alone.
func RenderTaskCheckboxes(markdown string) string {
	lines := splitRunTogetherBullets(strings.Split(markdown, "\n"))
	fenced := fenceMask(lines)
	lines = nestBulletsUnderOrderedItems(lines, fenced)

	result := make([]string, 0, len(lines))
	for i, line := range lines {
		match := taskLinePattern.FindStringSubmatch(line)
		if match == nil || fenced[i] {
			result = append(result, line)
			continue
		}
		box := "☑"
		if match[2] == " " {
			box = "☐"
		}
		result = append(result, match[1]+box+match[3])
		if i < len(lines)-1 {
			result = append(result, "")
		}
	}
	return strings.Join(result, "\n")
}

// splitRunTogetherBullets rewrites every unfenced run of lines, moving a
// "- " that follows non-space text onto a new indented line.
func splitRunTogetherBullets(lines []string) []string {
	fenced := fenceMask(lines)
	var out, run []string
	flush := func() {
		if len(run) == 0 {
			return
		}
		text := strings.Join(run, "\n")
		text = runTogetherTaskPattern.ReplaceAllString(text, "$1\n    $2")
		text = splitRunTogetherPlainBullets(text)
		out = append(out, strings.Split(text, "\n")...)
		run = nil
	}
	for i, line := range lines {
		if fenced[i] {
			flush()
			out = append(out, line)
			continue
		}
		run = append(run, line)
	}
	flush()
	return out
}

// splitRunTogetherPlainBullets handles bullets not followed by a task
// marker. A single whitespace before "[" is a task marker and is skipped.
func splitRunTogetherPlainBullets(text string) string {
	matches := runTogetherBulletPattern.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}
	var sb strings.Builder
	last := 0
	for _, m := range matches {
		end := m[1]
		whitespace := m[5] - m[4] - 1
		if end < len(text) && text[end] == '[' && whitespace == 1 {
			continue
		}
		sb.WriteString(text[last:m[2]])
		sb.WriteString(text[m[2]:m[3]])
		sb.WriteString("\n    ")
		sb.WriteString(text[m[4]:m[5]])
		last = end
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// nestBulletsUnderOrderedItems indents unindented bullets that follow an
// ordered item until a root ordered item or unindented text ends the run.
// This is a line heuristic and can nest sibling lists that merely follow an
// ordered list.
func nestBulletsUnderOrderedItems(lines []string, fenced []bool) []string {
	fixed := make([]string, 0, len(lines))
	nested := false
	for i, line := range lines {
		if fenced[i] {
			fixed = append(fixed, line)
			continue
		}
		switch {
		case unindentedBulletPattern.MatchString(line):
			if nested {
				fixed = append(fixed, "    "+line)
				continue
			}
			if i > 0 && orderedItemPattern.MatchString(lines[i-1]) {
				nested = true
				fixed = append(fixed, "    "+line)
				continue
			}
		case orderedItemPattern.MatchString(line):
			nested = false
		case !strings.HasPrefix(line, " ") && strings.TrimSpace(line) != "":
			nested = false
		}
		fixed = append(fixed, line)
	}
	return fixed
}

// fenceMask reports which lines belong to a fenced code block, fences included.
func fenceMask(lines []string) []bool {
	mask := make([]bool, len(lines))
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if fence == "" {
			if marker := fenceMarker(trimmed); marker != "" {
				fence = marker
				mask[i] = true
			}
			continue
		}
		mask[i] = true
		if strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, "`~") == "" {
			fence = ""
		}
	}
	return mask
}

func fenceMarker(line string) string {
	for _, ch := range []string{"`", "~"} {
		n := 0
		for n < len(line) && line[n:n+1] == ch {
			n++
		}
		if n >= 3 {
			return line[:n]
		}
	}
	return ""
}

var (
	panelLabelPattern = regexp.MustCompile(`^>\s*\*\*(INFO|SUCCESS|NOTE|WARNING|ERROR)\*\*\s*$`)
	emptyQuotePattern = regexp.MustCompile(`^>\s*$`)
)

var panelAlertTypes = map[string]string{
	"INFO":    "NOTE",
	"SUCCESS": "TIP",
	"NOTE":    "IMPORTANT",
	"WARNING": "WARNING",
	"ERROR":   "CAUTION",
}

// ConvertPanelsToAlerts rewrites a bold panel label line into a GitHub alert
// marker and drops one empty quoted line after it.
func ConvertPanelsToAlerts(markdown string) string {
	lines := strings.Split(markdown, "\n")
	result := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		match := panelLabelPattern.FindStringSubmatch(lines[i])
		if match == nil {
			result = append(result, lines[i])
			continue
		}
		result = append(result, "> [!"+panelAlertTypes[match[1]]+"]")
		if i+1 < len(lines) && emptyQuotePattern.MatchString(lines[i+1]) {
			i++
		}
	}
	return strings.Join(result, "\n")
}
