package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rgonek/jira-adf-markdown/converter"
	"github.com/rgonek/jira-adf-markdown/mdconverter"
	"gopkg.in/yaml.v3"
)

const (
	presetBalanced = "balanced"
	presetStrict   = "strict"
	presetLossy    = "lossy"
)

// fileConfig is the YAML layout read by --config. Sections override the
// chosen preset field by field.
type fileConfig struct {
	Preset  string                    `yaml:"preset,omitempty"`
	Forward converter.Config          `yaml:"forward,omitempty"`
	Reverse mdconverter.ReverseConfig `yaml:"reverse,omitempty"`
}

func presetConfig(preset string) (converter.Config, mdconverter.ReverseConfig, error) {
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case "", presetBalanced:
		return converter.Config{}, mdconverter.ReverseConfig{
			TagDetection: mdconverter.TagDetectAll,
		}, nil
	case presetStrict:
		return converter.Config{
				UnknownNodes: converter.UnknownPlaceholder,
			}, mdconverter.ReverseConfig{
				MentionDetection: mdconverter.MentionDetectLink,
				TagDetection:     mdconverter.TagDetectAll,
				LocalIDStyle:     mdconverter.LocalIDUUID,
			}, nil
	case presetLossy:
		return converter.Config{
				UnknownNodes: converter.UnknownSkip,
			}, mdconverter.ReverseConfig{
				MentionDetection: mdconverter.MentionDetectNone,
				TagDetection:     mdconverter.TagDetectNone,
			}, nil
	default:
		return converter.Config{}, mdconverter.ReverseConfig{},
			fmt.Errorf("unknown preset %q (allowed: balanced, strict, lossy)", preset)
	}
}

// resolveConfig builds both converter configs from the preset, the
// optional config file and the flag overrides, in that order of
// increasing precedence. An explicit preset flag wins over the file's.
func resolveConfig(path string, opts options) (converter.Config, mdconverter.ReverseConfig, error) {
	var data []byte
	file := fileConfig{}
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return converter.Config{}, mdconverter.ReverseConfig{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return converter.Config{}, mdconverter.ReverseConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	preset := file.Preset
	if opts.preset != "" {
		preset = opts.preset
	}
	forward, reverse, err := presetConfig(preset)
	if err != nil {
		return converter.Config{}, mdconverter.ReverseConfig{}, err
	}

	if data != nil {
		layered := fileConfig{Forward: forward, Reverse: reverse}
		if err := yaml.Unmarshal(data, &layered); err != nil {
			return converter.Config{}, mdconverter.ReverseConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		forward, reverse = layered.Forward, layered.Reverse
	}

	if opts.baseURL != "" {
		forward.BaseURL = opts.baseURL
	}
	return forward, reverse, nil
}
