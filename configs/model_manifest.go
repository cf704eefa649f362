package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ModelSource points at one trained model: a local artifact file or a serving endpoint
type ModelSource struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// IsRemote reports whether the model is served over HTTP
func (s ModelSource) IsRemote() bool { return s.Endpoint != "" }

// ModelManifest is the structure of models.yaml
type ModelManifest struct {
	Version string `yaml:"version"`
	Models  struct {
		ShortTermPrice ModelSource `yaml:"short_term_price"`
		CleaningCost   ModelSource `yaml:"cleaning_cost"`
		LongTermRent   ModelSource `yaml:"long_term_rent"`
	} `yaml:"models"`
}

// LoadModelManifest reads the manifest. Relative artifact paths are resolved
// against the manifest's directory.
func LoadModelManifest(path string) (*ModelManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model manifest: %w", err)
	}

	var m ModelManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model manifest: %w", err)
	}

	base := filepath.Dir(path)
	for _, src := range m.Sources() {
		if src.Path != "" && !filepath.IsAbs(src.Path) {
			src.Path = filepath.Join(base, src.Path)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Sources returns pointers to the three model entries
func (m *ModelManifest) Sources() []*ModelSource {
	return []*ModelSource{&m.Models.ShortTermPrice, &m.Models.CleaningCost, &m.Models.LongTermRent}
}

// Validate checks that every model has exactly one location
func (m *ModelManifest) Validate() error {
	keys := []string{"short_term_price", "cleaning_cost", "long_term_rent"}
	for i, src := range m.Sources() {
		switch {
		case src.Path == "" && src.Endpoint == "":
			return fmt.Errorf("models.%s: path or endpoint is required", keys[i])
		case src.Path != "" && src.Endpoint != "":
			return fmt.Errorf("models.%s: path and endpoint are mutually exclusive", keys[i])
		}
		if src.Name == "" {
			src.Name = keys[i]
		}
	}
	return nil
}
