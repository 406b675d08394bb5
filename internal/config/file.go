package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// FileConfig is the part of the configuration that may live in a JSON5 file,
// mostly credentials and target ids that should not sit in the environment.
type FileConfig struct {
	Reddit        RedditConfig `json:"reddit"`
	SubmissionIDs []string     `json:"submission_ids"`
	PostIDs       []string     `json:"post_ids"`
}

// LoadWithFile loads the environment configuration and then overlays the
// JSON5 file at path (and its .local sibling). A missing file is not an error.
func LoadWithFile(path string) (*Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}

	fc, err := ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := cfg.Apply(fc); err != nil {
		return nil, fmt.Errorf("apply config file %s: %w", path, err)
	}
	return cfg, nil
}

// Apply overlays non-empty file values on top of cfg
func (c *Config) Apply(fc FileConfig) error {
	if err := mergo.Merge(&c.Reddit, fc.Reddit, mergo.WithOverride); err != nil {
		return err
	}
	if len(fc.SubmissionIDs) > 0 {
		c.Responder.SubmissionIDs = fc.SubmissionIDs
	}
	if len(fc.PostIDs) > 0 {
		c.Digest.PostIDs = fc.PostIDs
	}
	return nil
}

// ReadFile reads <name>.<ext> and merges <name>.local.<ext> over it.
// Returns os.ErrNotExist when neither file exists.
func ReadFile(name string) (FileConfig, error) {
	var out FileConfig
	found := false

	base, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(base) > 0 {
		if err := json5.Unmarshal(base, &out); err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		found = true
	}

	localPath := localName(name)
	local, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(local) > 0 {
		var override FileConfig
		if err := json5.Unmarshal(local, &override); err != nil {
			return out, fmt.Errorf("parse %s: %w", localPath, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		log.Printf("[Config] merged local overrides from %s", localPath)
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// localName turns dir/config.json5 into dir/config.local.json5
func localName(name string) string {
	dir := filepath.Dir(name)
	file := filepath.Base(name)
	ext := filepath.Ext(file)
	stem := strings.TrimSuffix(file, ext)
	return filepath.Join(dir, stem+".local"+ext)
}
