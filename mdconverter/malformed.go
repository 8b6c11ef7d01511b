package mdconverter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rgonek/jira-adf-markdown/converter"
)

var (
	unclosedImagePattern = regexp.MustCompile(`!\[[^\]]*$`)
	bracketedTextPattern = regexp.MustCompile(`\[[^\]]+\]`)
	taskMarkerPattern    = regexp.MustCompile(`^-?\s*\[([ xX])\](\s|$)`)
	alertMarkerAnywhere  = regexp.MustCompile(`\[!(NOTE|TIP|IMPORTANT|WARNING|CAUTION)\]`)
	decisionMarkerTag    = regexp.MustCompile(`\[decision:[dau]\]`)
	malformedRulePattern = regexp.MustCompile(`^(-{3,}|_{3,}|\*{3,})[^\s\-_*]`)
)

const excerptLength = 50

// detectMalformed scans the text runs the parser left as plain text for
// syntax that was probably meant as markup. It never affects conversion.
func detectMalformed(tokens []Token) converter.Warnings {
	var warnings converter.Warnings
	add := func(line int, format string, args ...interface{}) {
		warnings = append(warnings, converter.Warning{
			Type:    converter.WarningMalformedMarkdown,
			Line:    line,
			Message: fmt.Sprintf("Line %d: "+format, append([]interface{}{line}, args...)...),
		})
	}

	for i, token := range tokens {
		if token.Type == TokenInline && token.Content != "" && token.Line() > 0 {
			line := token.Line()
			for _, child := range token.Children {
				if child.Type != TokenText || child.Content == "" {
					continue
				}
				text := child.Content
				excerpt := truncateRunes(text, excerptLength)

				if strings.Count(text, "**")%2 != 0 {
					add(line, "Unclosed bold marker (**) in \"%s\"", excerpt)
				}
				if strings.Count(text, "`")%2 != 0 {
					add(line, "Unclosed code marker (`) in \"%s\"", excerpt)
				}
				if unclosedImagePattern.MatchString(text) {
					add(line, "Incomplete image syntax in \"%s\"", excerpt)
				}
				if hasBareBrackets(text) &&
					!taskMarkerPattern.MatchString(strings.TrimSpace(text)) &&
					!alertMarkerAnywhere.MatchString(text) &&
					!decisionMarkerTag.MatchString(text) {
					add(line, "Incomplete link syntax - missing URL in \"%s\"", excerpt)
				}
			}
		}

		if token.Type == TokenParagraphOpen && i+1 < len(tokens) && tokens[i+1].Type == TokenInline {
			inline := tokens[i+1]
			content := strings.TrimSpace(inline.Content)
			if malformedRulePattern.MatchString(content) && startsWithText(inline) && token.Line() > 0 {
				add(token.Line(),
					"Malformed horizontal rule - \"%s\" (should be \"---\", \"***\", or \"___\" alone on a line)",
					content)
			}
		}
	}

	return warnings
}

// hasBareBrackets reports a `[text]` not directly followed by "(". A match
// starting inside a rejected one ends at the same "]".
func hasBareBrackets(text string) bool {
	for _, loc := range bracketedTextPattern.FindAllStringIndex(text, -1) {
		if loc[1] >= len(text) || text[loc[1]] != '(' {
			return true
		}
	}
	return false
}

// startsWithText is false when emphasis parsing consumed the leading run,
// as in "***bold***".
func startsWithText(inline Token) bool {
	return len(inline.Children) > 0 && inline.Children[0].Type == TokenText
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
