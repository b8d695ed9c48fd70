package cmd

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// BatchRunBundle holds the configuration for a generate-and-analyze batch
// run, loadable from a YAML file. Nil pointer fields mean "not set in
// YAML" — they do not override a flag default. String fields use empty
// string for "not set".
type BatchRunBundle struct {
	NumTaskset   *int     `yaml:"num_taskset"`
	TasksetSize  *int     `yaml:"taskset_size"`
	Workers      *int     `yaml:"workers"`
	SamplingRate *float64 `yaml:"sampling_rate"`
	Seed         *int64   `yaml:"seed"`
	OutDir       string   `yaml:"out_dir"`
	Test         string   `yaml:"test"`
}

// LoadBatchRunBundle reads and parses a YAML batch-run configuration file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadBatchRunBundle(path string) (*BatchRunBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch run bundle: %w", err)
	}
	var bundle BatchRunBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing batch run bundle: %w", err)
	}
	return &bundle, nil
}

var validTests = map[string]bool{"": true, "sufficient-only": true, "exact-only": true, "both": true}

// ValidTestNames returns sorted valid test-selection names (excluding empty).
func ValidTestNames() []string {
	names := make([]string, 0, len(validTests))
	for k := range validTests {
		if k != "" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// Validate checks that bundle fields are within allowed ranges and that
// the test-selection name is recognized.
func (b *BatchRunBundle) Validate() error {
	if !validTests[b.Test] {
		return fmt.Errorf("unknown test selection %q; valid options: %s", b.Test, strings.Join(ValidTestNames(), ", "))
	}
	if err := validateIntPtr("num_taskset", b.NumTaskset); err != nil {
		return err
	}
	if err := validateIntPtr("taskset_size", b.TasksetSize); err != nil {
		return err
	}
	if err := validateIntPtr("workers", b.Workers); err != nil {
		return err
	}
	if b.SamplingRate != nil {
		if math.IsNaN(*b.SamplingRate) || math.IsInf(*b.SamplingRate, 0) || *b.SamplingRate <= 0 {
			return fmt.Errorf("sampling_rate must be a positive finite number, got %f", *b.SamplingRate)
		}
	}
	return nil
}

func validateIntPtr(name string, val *int) error {
	if val == nil {
		return nil
	}
	if *val <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, *val)
	}
	return nil
}

// applyBatchRunBundle overrides the generate command's flag-derived
// settings with any values the bundle sets explicitly, leaving flags in
// place for anything the bundle omits.
func applyBatchRunBundle(b *BatchRunBundle) {
	if b.NumTaskset != nil {
		genNumTaskset = *b.NumTaskset
	}
	if b.TasksetSize != nil {
		genTasksetSize = *b.TasksetSize
	}
	if b.Workers != nil {
		genWorkers = *b.Workers
	}
	if b.SamplingRate != nil {
		genSamplingRt = *b.SamplingRate
	}
	if b.Seed != nil {
		genSeed = *b.Seed
	}
	if b.OutDir != "" {
		genOutDir = b.OutDir
	}
	if b.Test != "" {
		genTestSelection = b.Test
	}
}
