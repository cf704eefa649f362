package services

import "fmt"

// FeatureSchema is the ordered list of columns a model expects
type FeatureSchema struct {
	name    string
	columns []string
	index   map[string]int
}

// NewFeatureSchema validates that column names are unique and non-empty
func NewFeatureSchema(name string, columns []string) (*FeatureSchema, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("schema %s has no columns", name)
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("schema %s: empty column name at position %d", name, i)
		}
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("schema %s: duplicate column %q", name, c)
		}
		index[c] = i
	}
	return &FeatureSchema{
		name:    name,
		columns: append([]string(nil), columns...),
		index:   index,
	}, nil
}

func mustSchema(name string, columns []string) *FeatureSchema {
	s, err := NewFeatureSchema(name, columns)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema name
func (s *FeatureSchema) Name() string { return s.name }

// Len returns the number of columns
func (s *FeatureSchema) Len() int { return len(s.columns) }

// Columns returns a copy of the ordered column names
func (s *FeatureSchema) Columns() []string {
	return append([]string(nil), s.columns...)
}

// NewVector returns an all-zero vector over the schema
func (s *FeatureSchema) NewVector() *FeatureVector {
	return &FeatureVector{schema: s, values: make([]float64, len(s.columns))}
}

// FeatureVector is one row of model input, aligned with its schema.
// Callers only read it; builders and scenario code work on clones.
type FeatureVector struct {
	schema *FeatureSchema
	values []float64
}

// NewFeatureVector builds a vector from explicit columns and values.
func NewFeatureVector(columns []string, values []float64) (*FeatureVector, error) {
	if len(columns) != len(values) {
		return nil, fmt.Errorf("feature vector has %d columns but %d values", len(columns), len(values))
	}
	schema, err := NewFeatureSchema("adhoc", columns)
	if err != nil {
		return nil, err
	}
	return &FeatureVector{schema: schema, values: append([]float64(nil), values...)}, nil
}

// Schema returns the schema the vector is aligned with
func (v *FeatureVector) Schema() *FeatureSchema { return v.schema }

// Columns returns the ordered column names
func (v *FeatureVector) Columns() []string { return v.schema.Columns() }

// Values returns a copy of the ordered values
func (v *FeatureVector) Values() []float64 {
	return append([]float64(nil), v.values...)
}

// Len returns the number of entries
func (v *FeatureVector) Len() int { return len(v.values) }

// Get returns the value of a column
func (v *FeatureVector) Get(column string) (float64, bool) {
	i, ok := v.schema.index[column]
	if !ok {
		return 0, false
	}
	return v.values[i], true
}

// set writes a column if the schema has it and reports whether it did
func (v *FeatureVector) set(column string, value float64) bool {
	i, ok := v.schema.index[column]
	if !ok {
		return false
	}
	v.values[i] = value
	return true
}

func (v *FeatureVector) clone() *FeatureVector {
	return &FeatureVector{schema: v.schema, values: append([]float64(nil), v.values...)}
}

// project copies selected columns into a vector over another schema.
// mapping is target column -> source column.
func (v *FeatureVector) project(target *FeatureSchema, mapping map[string]string) (*FeatureVector, error) {
	out := target.NewVector()
	for i, col := range target.columns {
		src, ok := mapping[col]
		if !ok {
			return nil, fmt.Errorf("no source column mapped to %q", col)
		}
		val, ok := v.Get(src)
		if !ok {
			return nil, fmt.Errorf("source column %q missing from %s schema", src, v.schema.name)
		}
		out.values[i] = val
	}
	return out, nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
