package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/tally/engine"
	"github.com/spektr-org/tally/format"
)

// ============================================================================
// SCHEMA — Describes the columns of a dataset and how to format them
// ============================================================================
// Discovered from parsed records, or hand-written as YAML and loaded with
// Load. The format kind of each measure drives per-column humanizing.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name       string      `yaml:"name" json:"name"`
	Dimensions []Dimension `yaml:"dimensions" json:"dimensions"`
	Measures   []Measure   `yaml:"measures" json:"measures"`
	Skipped    []Skipped   `yaml:"skipped,omitempty" json:"skipped,omitempty"`
}

// Dimension describes a string field used for grouping and filtering.
type Dimension struct {
	Key             string   `yaml:"key" json:"key"`
	DisplayName     string   `yaml:"display_name" json:"displayName"`
	SampleValues    []string `yaml:"sample_values,omitempty" json:"sampleValues,omitempty"`
	IsTemporal      bool     `yaml:"temporal,omitempty" json:"isTemporal,omitempty"`
	TemporalFormat  string   `yaml:"temporal_format,omitempty" json:"temporalFormat,omitempty"`
	CardinalityHint string   `yaml:"cardinality,omitempty" json:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// Measure describes a numeric field and its display format.
type Measure struct {
	Key                string      `yaml:"key" json:"key"`
	DisplayName        string      `yaml:"display_name" json:"displayName"`
	Kind               format.Kind `yaml:"kind" json:"kind"`
	DefaultAggregation string      `yaml:"default_aggregation" json:"defaultAggregation"`
	NullCount          int         `yaml:"null_count,omitempty" json:"nullCount,omitempty"`
}

// Skipped records why a column was left out.
type Skipped struct {
	Column string `yaml:"column" json:"column"`
	Reason string `yaml:"reason" json:"reason"`
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// ColumnFormats lists every measure with its kind, for engine.HumanizeRecords.
func (c Config) ColumnFormats() []engine.ColumnFormat {
	out := make([]engine.ColumnFormat, len(c.Measures))
	for i, m := range c.Measures {
		out[i] = engine.ColumnFormat{Measure: m.Key, Kind: m.Kind}
	}
	return out
}

// Kinds maps measure keys to their format kind.
func (c Config) Kinds() map[string]format.Kind {
	out := make(map[string]format.Kind, len(c.Measures))
	for _, m := range c.Measures {
		out[m.Key] = m.Kind
	}
	return out
}

// Validate checks that every measure kind is known and keys are unique.
func (c Config) Validate() error {
	seen := make(map[string]bool)
	for _, d := range c.Dimensions {
		if d.Key == "" || seen[d.Key] {
			return fmt.Errorf("schema: empty or duplicate column key %q", d.Key)
		}
		seen[d.Key] = true
	}
	for _, m := range c.Measures {
		if m.Key == "" || seen[m.Key] {
			return fmt.Errorf("schema: empty or duplicate column key %q", m.Key)
		}
		seen[m.Key] = true
		if _, err := format.ParseKind(string(m.Kind)); err != nil {
			return fmt.Errorf("schema: measure %q: %w", m.Key, err)
		}
	}
	return nil
}

// Load reads a YAML schema from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Marshal renders the schema as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
