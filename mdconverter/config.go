package mdconverter

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MentionDetection controls how mention nodes are reconstructed.
type MentionDetection string

const (
	MentionDetectNone MentionDetection = "none"
	// MentionDetectLink turns links to /jira/people/<accountId> into mentions.
	MentionDetectLink MentionDetection = "link"
)

// TagDetection controls whether inline-code tags produced by the forward
// converter are turned back into status, date and decision nodes.
type TagDetection string

const (
	TagDetectNone TagDetection = "none"
	TagDetectAll  TagDetection = "all"
)

// LocalIDStyle controls the localId attribute of task lists, task items and
// decision items.
type LocalIDStyle string

const (
	LocalIDEmpty LocalIDStyle = "empty"
	LocalIDUUID  LocalIDStyle = "uuid"
)

// DefaultImageMarker prefixes the text standing in for a Markdown image.
const DefaultImageMarker = "🖼"

// ReverseConfig configures Markdown to ADF conversion behavior.
type ReverseConfig struct {
	MentionDetection MentionDetection `json:"mentionDetection,omitempty" yaml:"mentionDetection,omitempty"`
	TagDetection     TagDetection     `json:"tagDetection,omitempty" yaml:"tagDetection,omitempty"`
	LocalIDStyle     LocalIDStyle     `json:"localIdStyle,omitempty" yaml:"localIdStyle,omitempty"`

	HeadingOffset int               `json:"headingOffset,omitempty" yaml:"headingOffset,omitempty"`
	LanguageMap   map[string]string `json:"languageMap,omitempty" yaml:"languageMap,omitempty"`
	ImageMarker   string            `json:"imageMarker,omitempty" yaml:"imageMarker,omitempty"`
	// DateFormat and TimeZone parse `[date]...` tags; they should match the
	// forward converter settings.
	DateFormat string `json:"dateFormat,omitempty" yaml:"dateFormat,omitempty"`
	TimeZone   string `json:"timeZone,omitempty" yaml:"timeZone,omitempty"`
}

func (c ReverseConfig) applyDefaults() ReverseConfig {
	if c.MentionDetection == "" {
		c.MentionDetection = MentionDetectLink
	}
	if c.TagDetection == "" {
		c.TagDetection = TagDetectNone
	}
	if c.LocalIDStyle == "" {
		c.LocalIDStyle = LocalIDEmpty
	}
	if c.ImageMarker == "" {
		c.ImageMarker = DefaultImageMarker
	}
	if c.DateFormat == "" {
		c.DateFormat = "2006-01-02"
	}
	if c.TimeZone == "" {
		c.TimeZone = "UTC"
	}
	return c
}

func (c ReverseConfig) clone() ReverseConfig {
	cloned := c
	cloned.LanguageMap = cloneStringMap(c.LanguageMap)
	return cloned
}

// Validate checks that config values are valid.
func (c ReverseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MentionDetection, validation.Required, validation.In(MentionDetectNone, MentionDetectLink)),
		validation.Field(&c.TagDetection, validation.Required, validation.In(TagDetectNone, TagDetectAll)),
		validation.Field(&c.LocalIDStyle, validation.Required, validation.In(LocalIDEmpty, LocalIDUUID)),
		validation.Field(&c.HeadingOffset, validation.Min(-5), validation.Max(5)),
		validation.Field(&c.LanguageMap, validation.By(validateLanguageMap)),
		validation.Field(&c.ImageMarker, validation.Required),
		validation.Field(&c.DateFormat, validation.Required, validation.By(validateDateFormat)),
		validation.Field(&c.TimeZone, validation.Required, validation.By(validateTimeZone)),
	)
}

func validateLanguageMap(value interface{}) error {
	languages, _ := value.(map[string]string)
	for from, to := range languages {
		if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return validation.NewError("validation_language_map", "keys and values must be non-empty")
		}
	}
	return nil
}

func validateDateFormat(value interface{}) error {
	format, _ := value.(string)
	if !hasDateReferenceTokens(format) {
		return validation.NewError("validation_date_format", "must contain Go reference date components")
	}
	return nil
}

func validateTimeZone(value interface{}) error {
	name, _ := value.(string)
	if _, err := time.LoadLocation(name); err != nil {
		return validation.NewError("validation_time_zone", fmt.Sprintf("unknown time zone %q", name))
	}
	return nil
}

func hasDateReferenceTokens(format string) bool {
	format = strings.TrimSpace(format)
	if format == "" {
		return false
	}

	referenceTokens := []string{
		"2006", "06", "Jan", "January", "1", "01",
		"2", "02", "_2", "Mon", "Monday", "15", "3", "03", "4", "04",
		"5", "05", "PM", "pm", "MST", "-0700", "-07:00", "Z0700", "Z07:00", "Z07",
	}
	for _, token := range referenceTokens {
		if strings.Contains(format, token) {
			return true
		}
	}
	return false
}

func cloneStringMap(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}

	dst := make(map[string]string, len(src))
	for key, value := range src {
		dst[key] = value
	}

	return dst
}
