// SPDX-License-Identifier: MIT

package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/nampc/container"
	"github.com/katalvlaran/nampc/nam"
	"github.com/katalvlaran/nampc/rank"
	"github.com/katalvlaran/nampc/spectral"
)

// Config is one export run. YAML keys match the CLI flag names.
type Config struct {
	Input                string    `yaml:"sc_object_path"`
	ResultDir            string    `yaml:"res_folder"`
	Covariates           []string  `yaml:"covs,omitempty"`
	CorrectBatch         bool      `yaml:"corr_batch"`
	SampleID             string    `yaml:"sampleid"`
	CustomConnectivities string    `yaml:"use_custom_connectivities,omitempty"`
	KsFile               string    `yaml:"ks,omitempty"`
	Schedule             string    `yaml:"schedule"`
	NSteps               int       `yaml:"nsteps,omitempty"`
	Hops                 []int     `yaml:"hops,omitempty,flow"`
	SelfWeight           float64   `yaml:"self_weight"`
	Method               string    `yaml:"method"`
	Seed                 uint64    `yaml:"seed"`
	Thresholds           []float64 `yaml:"thresholds,flow"`
	Standardize          bool      `yaml:"standardize"`
	Summary              bool      `yaml:"summary"`
}

// ScheduleAuto diffuses NSteps fixed hops when NSteps > 0 and otherwise
// stops adaptively on the kurtosis rule.
const ScheduleAuto = "auto"

// DefaultSelfWeight keeps one unit of each cell's own state per hop.
const DefaultSelfWeight = 1.0

// DefaultConfig returns the defaults of every optional field.
func DefaultConfig() Config {
	return Config{
		SampleID:   container.DefaultSampleID,
		Schedule:   ScheduleAuto,
		SelfWeight: DefaultSelfWeight,
		Method:     spectral.DefaultMethod.String(),
		Seed:       spectral.DefaultSeed,
		Thresholds: append([]float64(nil), rank.DefaultThresholds...),
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("LoadConfig: %v: %w", err, ErrConfigFile)
	}
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("LoadConfig: %s: %v: %w", path, err, ErrConfigFile)
	}

	return cfg, nil
}

// ResolvedSchedule turns Schedule, NSteps and Hops into a nam.Schedule.
// NSteps sets the hop count of "fixed" and the maximum of "adaptive";
// "average" reads Hops. Names are case-insensitive.
func (c Config) ResolvedSchedule() (nam.Schedule, error) {
	name := strings.ToLower(strings.TrimSpace(c.Schedule))
	if name == "" || name == ScheduleAuto {
		name = "adaptive"
		if c.NSteps > 0 {
			name = "fixed"
		}
	}
	hops := c.Hops
	if c.NSteps > 0 && name != "average" {
		hops = []int{c.NSteps}
	}

	return nam.ParseSchedule(name, hops)
}

// Validate checks required fields and every enumerated value.
func (c Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("sc_object_path: %w", ErrMissingInput)
	}
	if c.ResultDir == "" {
		return fmt.Errorf("res_folder: %w", ErrMissingOutput)
	}

	return c.validateTuning()
}

// validateTuning checks the knobs that do not depend on paths.
func (c Config) validateTuning() error {
	if c.NSteps < 0 {
		return fmt.Errorf("nsteps=%d: %w", c.NSteps, nam.ErrBadSchedule)
	}
	if math.IsNaN(c.SelfWeight) || math.IsInf(c.SelfWeight, 0) || c.SelfWeight < 0 {
		return fmt.Errorf("self_weight=%g: %w", c.SelfWeight, ErrBadSelfWeight)
	}
	if _, err := c.ResolvedSchedule(); err != nil {
		return err
	}
	if _, err := spectral.ParseMethod(c.Method); err != nil {
		return err
	}

	return nil
}
