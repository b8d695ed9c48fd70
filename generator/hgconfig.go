// HGConfig is the JSON-serializable generator-run configuration named in
// spec §6/§8, modeled on simRT/generator/hypergraph_generator.py's
// HGConfig.save_as_json/from_json: speed_list and period_bound serialize
// in construction order so round-tripping is a bijection.

package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rtsim/gedfsim/sim"
)

// HGConfig bundles the platform, candidate-catalog size, and period bound
// for one generator run.
type HGConfig struct {
	PlatformInfo sim.PlatformInfo
	NumNode      int
	PeriodBound  [2]int
}

type hgConfigPlatform struct {
	SpeedList []sim.Time `json:"speed_list"`
}

type hgConfigJSON struct {
	PlatformInfo hgConfigPlatform `json:"platform_info"`
	NumNode      int              `json:"num_node"`
	PeriodBound  [2]int           `json:"period_bound"`
}

// MarshalJSON implements the stable schema from spec §6: speed_list in
// non-increasing construction order, period_bound as a 2-tuple.
func (c HGConfig) MarshalJSON() ([]byte, error) {
	j := hgConfigJSON{
		PlatformInfo: hgConfigPlatform{SpeedList: c.PlatformInfo.Speeds()},
		NumNode:      c.NumNode,
		PeriodBound:  c.PeriodBound,
	}
	return json.Marshal(j)
}

// UnmarshalJSON implements the inverse of MarshalJSON, reconstructing the
// PlatformInfo through NewPlatformInfo so the decoded value carries the
// same validation as any other platform construction.
func (c *HGConfig) UnmarshalJSON(data []byte) error {
	var j hgConfigJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	p, err := sim.NewPlatformInfo(j.PlatformInfo.SpeedList)
	if err != nil {
		return err
	}
	c.PlatformInfo = p
	c.NumNode = j.NumNode
	c.PeriodBound = j.PeriodBound
	return nil
}

// SaveAsJSON writes the config to path, creating parent directories as
// needed, matching save_as_json's mkdir(parents=True, exist_ok=True).
func (c HGConfig) SaveAsJSON(path string) error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling hg config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating hg config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing hg config: %w", err)
	}
	return nil
}

// LoadHGConfigFromJSON reads and parses an HGConfig JSON file.
func LoadHGConfigFromJSON(path string) (HGConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HGConfig{}, fmt.Errorf("reading hg config: %w", err)
	}
	var c HGConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return HGConfig{}, fmt.Errorf("parsing hg config: %w", err)
	}
	return c, nil
}
