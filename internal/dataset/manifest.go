package dataset

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-synth/internal/config"
	"gopkg.in/yaml.v3"
)

// ManifestFile is written at the root of the output directory.
const ManifestFile = "manifest.yaml"

// SetRecord lists the waves of one set and where they were saved.
type SetRecord struct {
	Index int          `yaml:"index"`
	Waves []WaveRecord `yaml:"waves"`
}

// WaveRecord is one wave of a set.
type WaveRecord struct {
	WaveParams `yaml:",inline"`
	File       string `yaml:"file,omitempty"`
	Clipped    int    `yaml:"clipped,omitempty"`
}

// MixtureRecord describes one mixture and its noisy variants.
type MixtureRecord struct {
	Index    int             `yaml:"index"`
	FirstSet int             `yaml:"first_set"`
	LastSet  int             `yaml:"last_set"`
	Features string          `yaml:"features"`
	Variants []VariantRecord `yaml:"variants"`
}

// VariantRecord is one rendered mixture variant.
type VariantRecord struct {
	Variant string  `yaml:"variant"`
	File    string  `yaml:"file"`
	Clipped int     `yaml:"clipped"`
	Peak    float64 `yaml:"peak"`
	RMSdB   float64 `yaml:"rms_db"`
}

// Manifest summarizes a generated dataset.
type Manifest struct {
	Config   *config.Config  `yaml:"config"`
	Samples  int             `yaml:"samples_per_clip"`
	Sets     []SetRecord     `yaml:"sets"`
	Mixtures []MixtureRecord `yaml:"mixtures"`
}

// WriteFile stores m as YAML at path.
func (m *Manifest) WriteFile(path string) error {
	return writeYAML(path, m)
}

// ReadManifest loads a manifest written by WriteFile.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("dataset: decode manifest: %w", err)
	}
	return &m, nil
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("dataset: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("dataset: write %s: %w", path, err)
	}
	return nil
}
