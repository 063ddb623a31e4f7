package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of input configuration files
type InputParser struct {
	// Strict rejects unknown keys so typos in hand-written files are caught
	Strict bool
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{Strict: true}
}

// LoadCustomerConfig loads and validates a customer configuration from a YAML file
func (ip *InputParser) LoadCustomerConfig(filename string) (*domain.CustomerConfiguration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseCustomerConfig(data)
}

// ParseCustomerConfig decodes and validates a customer configuration document
func (ip *InputParser) ParseCustomerConfig(data []byte) (*domain.CustomerConfiguration, error) {
	var cfg domain.CustomerConfiguration
	if err := ip.decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveCustomerConfig writes a configuration back out as YAML
func (ip *InputParser) SaveCustomerConfig(cfg *domain.CustomerConfiguration, filename string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}

// LoadTables reads a reference table file without sealing it
func (ip *InputParser) LoadTables(filename string) (*catalog.Tables, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return catalog.DecodeYAML(data)
}

// LoadSnapshot reads, validates and seals a reference table file. Its signature
// matches catalog.LoadFunc so it can drive the table watcher.
func (ip *InputParser) LoadSnapshot(filename string) (*catalog.Snapshot, error) {
	tables, err := ip.LoadTables(filename)
	if err != nil {
		return nil, err
	}
	snap, err := catalog.NewSnapshot(tables)
	if err != nil {
		return nil, fmt.Errorf("invalid reference tables in %s: %w", filename, err)
	}
	return snap, nil
}

// LoadSnapshotOrDefault loads the table file, or the built-in demo tables when
// filename is empty
func (ip *InputParser) LoadSnapshotOrDefault(filename string) (*catalog.Snapshot, error) {
	if filename == "" {
		return catalog.DefaultSnapshot(), nil
	}
	return ip.LoadSnapshot(filename)
}

func (ip *InputParser) decode(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(ip.Strict)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("document is empty")
		}
		return err
	}
	return nil
}
