package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var builtinYAML []byte

// Tables is the plain, serializable form of a table set.
type Tables struct {
	Cities  []CityRecord   `json:"cities" yaml:"cities"`
	Kits    []EquipmentKit `json:"kits" yaml:"kits"`
	Tariffs []TariffRecord `json:"tariffs" yaml:"tariffs"`
}

// Build validates the tables and returns an indexed snapshot.
func (t Tables) Build() (*TableSet, error) {
	return NewTableSet(t.Cities, t.Kits, t.Tariffs)
}

// Tables returns a copy of the snapshot's records.
// Unlike ListKits, an empty kit table stays empty.
func (ts *TableSet) Tables() Tables {
	if ts == nil {
		return Tables{Cities: []CityRecord{}, Kits: []EquipmentKit{}, Tariffs: []TariffRecord{}}
	}
	return Tables{
		Cities:  ts.ListCities(),
		Kits:    append([]EquipmentKit{}, ts.kits...),
		Tariffs: ts.ListTariffs(),
	}
}

// Builtin returns the tables shipped with the binary.
// It panics only if the embedded data is broken, which tests guard against.
func Builtin() *TableSet {
	ts, err := ParseYAML(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in tables are invalid: %v", err))
	}
	return ts
}

// ParseYAML decodes and validates a table set written in the defaults.yaml format.
func ParseYAML(data []byte) (*TableSet, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}
	return t.Build()
}

// EncodeYAML writes a table set in the defaults.yaml format.
func EncodeYAML(ts *TableSet) ([]byte, error) {
	return yaml.Marshal(ts.Tables())
}
