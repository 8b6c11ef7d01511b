package mdconverter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverseConfigDefaults(t *testing.T) {
	cfg := (ReverseConfig{}).applyDefaults()

	assert.Equal(t, MentionDetectLink, cfg.MentionDetection)
	assert.Equal(t, TagDetectNone, cfg.TagDetection)
	assert.Equal(t, LocalIDEmpty, cfg.LocalIDStyle)
	assert.Equal(t, DefaultImageMarker, cfg.ImageMarker)
	assert.Equal(t, "2006-01-02", cfg.DateFormat)
	assert.Equal(t, "UTC", cfg.TimeZone)
	require.NoError(t, cfg.Validate())
}

func TestReverseConfigValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ReverseConfig)
		field  string
	}{
		{name: "mention", mutate: func(c *ReverseConfig) { c.MentionDetection = "at" }, field: "mentionDetection"},
		{name: "tags", mutate: func(c *ReverseConfig) { c.TagDetection = "some" }, field: "tagDetection"},
		{name: "local id", mutate: func(c *ReverseConfig) { c.LocalIDStyle = "random" }, field: "localIdStyle"},
		{name: "heading offset", mutate: func(c *ReverseConfig) { c.HeadingOffset = -6 }, field: "headingOffset"},
		{name: "language map", mutate: func(c *ReverseConfig) { c.LanguageMap = map[string]string{"go": " "} }, field: "languageMap"},
		{name: "date format", mutate: func(c *ReverseConfig) { c.DateFormat = "yyyy" }, field: "dateFormat"},
		{name: "time zone", mutate: func(c *ReverseConfig) { c.TimeZone = "Nowhere/Land" }, field: "timeZone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := (ReverseConfig{}).applyDefaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestNewWrapsConfigError(t *testing.T) {
	_, err := New(ReverseConfig{HeadingOffset: 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestReverseConfigSerialization(t *testing.T) {
	cfg := (ReverseConfig{TagDetection: TagDetectAll}).applyDefaults()

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tagDetection":"all"`)
	assert.NotContains(t, string(data), "languageMap")
}
