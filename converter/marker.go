package converter

import (
	"regexp"
	"strings"
)

// Sentinel code points carrying inline metadata from the transform passes
// through rendering until the post-processors resolve them.
const (
	sentinelDate        = '\u200b'
	sentinelStatus      = '\u200c'
	sentinelStatusSep   = '\u200d'
	sentinelDecision    = '\u200e'
	sentinelDecisionSep = '\u200f'

	sentinelFirst = sentinelDate
	sentinelLast  = sentinelDecisionSep
)

// MarkerKind identifies one sentinel-encoded inline construct.
type MarkerKind int

const (
	MarkerStatus MarkerKind = iota
	MarkerDate
	MarkerDecision
)

// Marker is an inline annotation that survives rendering as invisible
// sentinel text and resolves to an inline-code tag such as `[status:g]Done`.
type Marker struct {
	Kind MarkerKind
	// Code is the single-letter status colour or decision state. Unused for dates.
	Code string
	Text string
}

// Encode returns the sentinel form of the marker.
func (m Marker) Encode() string {
	switch m.Kind {
	case MarkerStatus:
		return string(sentinelStatus) + m.Code + string(sentinelStatusSep) + m.Text + string(sentinelStatus)
	case MarkerDate:
		return string(sentinelDate) + m.Text + string(sentinelDate)
	case MarkerDecision:
		return string(sentinelDecision) + m.Code + string(sentinelDecisionSep) + m.Text + string(sentinelDecision)
	default:
		return m.Text
	}
}

// Tag returns the resolved inline-code form of the marker.
func (m Marker) Tag() string {
	switch m.Kind {
	case MarkerStatus:
		return "`[status:" + m.Code + "]" + m.Text + "`"
	case MarkerDate:
		return "`[date]" + m.Text + "`"
	case MarkerDecision:
		return "`[decision:" + m.Code + "]" + m.Text + "`"
	default:
		return m.Text
	}
}

var (
	statusMarkerPattern   = regexp.MustCompile(`\x{200c}([nrbgypt])\x{200d}([^\x{200c}]+)\x{200c}`)
	dateMarkerPattern     = regexp.MustCompile(`\x{200b}([^\x{200b}]+)\x{200b}`)
	decisionMarkerPattern = regexp.MustCompile(`\x{200e}([dau])\x{200f}([^\x{200e}]+)\x{200e}`)
)

// ResolveMarkers rewrites every sentinel-encoded marker of the given kind
// into its inline-code tag.
func ResolveMarkers(markdown string, kind MarkerKind) string {
	switch kind {
	case MarkerStatus:
		return statusMarkerPattern.ReplaceAllStringFunc(markdown, func(match string) string {
			groups := statusMarkerPattern.FindStringSubmatch(match)
			return Marker{Kind: MarkerStatus, Code: groups[1], Text: groups[2]}.Tag()
		})
	case MarkerDate:
		return dateMarkerPattern.ReplaceAllStringFunc(markdown, func(match string) string {
			groups := dateMarkerPattern.FindStringSubmatch(match)
			return Marker{Kind: MarkerDate, Text: groups[1]}.Tag()
		})
	case MarkerDecision:
		return decisionMarkerPattern.ReplaceAllStringFunc(markdown, func(match string) string {
			groups := decisionMarkerPattern.FindStringSubmatch(match)
			return Marker{Kind: MarkerDecision, Code: groups[1], Text: groups[2]}.Tag()
		})
	default:
		return markdown
	}
}

func isSentinel(r rune) bool {
	return r >= sentinelFirst && r <= sentinelLast
}

// sentinelEscape starts a two-rune escape for sentinel code points found in
// document content. It is followed by sentinelEscape itself or by the
// sentinel's offset from escapedSentinelFirst.
const (
	sentinelEscape       = '\ue000'
	escapedSentinelFirst = '\ue001'
)

func needsEscape(r rune) bool {
	return r == sentinelEscape || isSentinel(r)
}

// EscapeSentinels hides sentinel code points in s behind a private-use escape
// so document content cannot forge markers. UnescapeSentinels restores them.
func EscapeSentinels(s string) string {
	if !strings.ContainsFunc(s, needsEscape) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for _, r := range s {
		switch {
		case r == sentinelEscape:
			sb.WriteRune(sentinelEscape)
			sb.WriteRune(sentinelEscape)
		case isSentinel(r):
			sb.WriteRune(sentinelEscape)
			sb.WriteRune(escapedSentinelFirst + (r - sentinelFirst))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// UnescapeSentinels reverses EscapeSentinels. A dangling escape rune is kept.
func UnescapeSentinels(s string) string {
	if !strings.ContainsRune(s, sentinelEscape) {
		return s
	}
	runes := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != sentinelEscape || i+1 == len(runes) {
			sb.WriteRune(r)
			continue
		}
		next := runes[i+1]
		switch {
		case next == sentinelEscape:
			sb.WriteRune(sentinelEscape)
			i++
		case next >= escapedSentinelFirst && next <= escapedSentinelFirst+(sentinelLast-sentinelFirst):
			sb.WriteRune(sentinelFirst + (next - escapedSentinelFirst))
			i++
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

var (
	statusTagPattern   = regexp.MustCompile(`^\[status:([nrbgypt])\](.+)$`)
	dateTagPattern     = regexp.MustCompile(`^\[date\](.+)$`)
	decisionTagPattern = regexp.MustCompile(`^\[decision:([dau])\](.+)$`)
)

// ParseTag parses the content of an inline-code tag such as
// "[status:g]Done" back into a Marker.
func ParseTag(code string) (Marker, bool) {
	if groups := statusTagPattern.FindStringSubmatch(code); groups != nil {
		return Marker{Kind: MarkerStatus, Code: groups[1], Text: groups[2]}, true
	}
	if groups := dateTagPattern.FindStringSubmatch(code); groups != nil {
		return Marker{Kind: MarkerDate, Text: groups[1]}, true
	}
	if groups := decisionTagPattern.FindStringSubmatch(code); groups != nil {
		return Marker{Kind: MarkerDecision, Code: groups[1], Text: groups[2]}, true
	}
	return Marker{}, false
}

// StatusColor maps a single-letter status code back to its ADF colour.
func StatusColor(code string) string {
	for color, c := range statusColorCodes {
		if c == code {
			return color
		}
	}
	return "neutral"
}

// DecisionState maps a single-letter decision code back to its ADF state.
func DecisionState(code string) string {
	for state, c := range decisionStateCodes {
		if c == code {
			return state
		}
	}
	return "DECIDED"
}
