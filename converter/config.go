package converter

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// HardBreakStyle controls how hard line breaks are rendered.
type HardBreakStyle string

const (
	HardBreakBackslash HardBreakStyle = "backslash"
	HardBreakHTML      HardBreakStyle = "html"
)

// UnknownPolicy controls behavior for unrecognized ADF elements.
type UnknownPolicy string

const (
	UnknownSkip        UnknownPolicy = "skip"
	UnknownPlaceholder UnknownPolicy = "placeholder"
)

// DefaultMediaText is the attachment placeholder used for media embeds.
const DefaultMediaText = `(See file "%s" in attachments tab)`

// Config holds all converter configuration options.
type Config struct {
	// BaseURL of the Jira site, used to build absolute mention profile links.
	BaseURL        string            `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	DateFormat     string            `json:"dateFormat,omitempty" yaml:"dateFormat,omitempty"`
	TimeZone       string            `json:"timeZone,omitempty" yaml:"timeZone,omitempty"`
	HeadingOffset  int               `json:"headingOffset,omitempty" yaml:"headingOffset,omitempty"`
	HardBreakStyle HardBreakStyle    `json:"hardBreakStyle,omitempty" yaml:"hardBreakStyle,omitempty"`
	LanguageMap    map[string]string `json:"languageMap,omitempty" yaml:"languageMap,omitempty"`
	UnknownNodes   UnknownPolicy     `json:"unknownNodes,omitempty" yaml:"unknownNodes,omitempty"`
	// MediaText is a fmt format with a single %s for the attachment name.
	MediaText string `json:"mediaText,omitempty" yaml:"mediaText,omitempty"`
}

func (c Config) applyDefaults() Config {
	if c.DateFormat == "" {
		c.DateFormat = "2006-01-02"
	}
	if c.TimeZone == "" {
		c.TimeZone = "UTC"
	}
	if c.HardBreakStyle == "" {
		c.HardBreakStyle = HardBreakBackslash
	}
	if c.UnknownNodes == "" {
		c.UnknownNodes = UnknownSkip
	}
	if c.MediaText == "" {
		c.MediaText = DefaultMediaText
	}
	return c
}

// clone returns a deep copy of Config for map-backed fields.
func (c Config) clone() Config {
	cloned := c
	cloned.LanguageMap = cloneStringMap(c.LanguageMap)
	return cloned
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.By(validateBaseURL)),
		validation.Field(&c.DateFormat, validation.Required, validation.By(validateDateFormat)),
		validation.Field(&c.TimeZone, validation.Required, validation.By(validateTimeZone)),
		validation.Field(&c.HeadingOffset, validation.Min(0), validation.Max(5)),
		validation.Field(&c.HardBreakStyle, validation.Required, validation.In(HardBreakBackslash, HardBreakHTML)),
		validation.Field(&c.LanguageMap, validation.By(validateLanguageMap)),
		validation.Field(&c.UnknownNodes, validation.Required, validation.In(UnknownSkip, UnknownPlaceholder)),
		validation.Field(&c.MediaText, validation.Required, validation.By(validateMediaText)),
	)
}

func validateBaseURL(value interface{}) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return validation.NewError("validation_base_url", "must be an absolute URL")
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

func validateLanguageMap(value interface{}) error {
	languages, _ := value.(map[string]string)
	for from, to := range languages {
		if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return validation.NewError("validation_language_map", "keys and values must be non-empty")
		}
	}
	return nil
}

func validateMediaText(value interface{}) error {
	format, _ := value.(string)
	if strings.Count(format, "%s") != 1 {
		return validation.NewError("validation_media_text", "must contain exactly one %s")
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
