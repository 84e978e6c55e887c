// Package cable sizes PV and AC cable runs against a reference catalog.
package cable

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

// Material is a conductor material.
type Material string

const (
	Copper    Material = "copper"
	Aluminium Material = "aluminium"
)

// InstallMethod is how a cable is laid. Ampacity ratings are per method.
type InstallMethod string

const (
	FreeAir       InstallMethod = "free_air"
	DirectBuried  InstallMethod = "direct_buried"
	Conduit       InstallMethod = "conduit"
	ClippedDirect InstallMethod = "clipped_direct"
)

// FactorType selects a derating table.
type FactorType string

const (
	FactorTemperature FactorType = "temperature"
	FactorGrouping    FactorType = "grouping"
)

// CableSpec is one catalog entry. Reference data, never mutated.
type CableSpec struct {
	CrossSectionMM2    float64                   `yaml:"cross_section_mm2" json:"cross_section_mm2"`
	Material           Material                  `yaml:"material" json:"material"`
	Insulation         string                    `yaml:"insulation" json:"insulation"`
	Cores              int                       `yaml:"cores" json:"cores"`
	ResistanceOhmPerKm float64                   `yaml:"resistance_ohm_per_km" json:"resistance_ohm_per_km"`
	Ampacity           map[InstallMethod]float64 `yaml:"ampacity" json:"ampacity"`
}

// RatedAmpacity returns the base rating for method. ok is false when the
// cable has no rating for that method.
func (c CableSpec) RatedAmpacity(method InstallMethod) (float64, bool) {
	a, ok := c.Ampacity[method]
	return a, ok && a > 0
}

// DeratingTables maps material and factor type to key -> multiplier.
// Temperature keys are °C, grouping keys are circuit counts.
type DeratingTables map[Material]map[FactorType]map[float64]float64

// Factor looks up the multiplier for key. Keys between table entries are
// linearly interpolated and keys outside the table are clamped to the nearest
// end. ok is false only when no table exists for material and typ.
func (d DeratingTables) Factor(material Material, typ FactorType, key float64) (float64, bool) {
	table := d[material][typ]
	if len(table) == 0 {
		return 1.0, false
	}
	keys := make([]float64, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	if key <= keys[0] {
		return table[keys[0]], true
	}
	last := keys[len(keys)-1]
	if key >= last {
		return table[last], true
	}
	i := sort.SearchFloat64s(keys, key)
	if keys[i] == key {
		return table[key], true
	}
	lo, hi := keys[i-1], keys[i]
	frac := (key - lo) / (hi - lo)
	return table[lo] + frac*(table[hi]-table[lo]), true
}

// Catalog is the injected reference data for cable sizing.
type Catalog struct {
	Cables   []CableSpec    `yaml:"cables" json:"cables"`
	Derating DeratingTables `yaml:"derating" json:"derating"`
}

// ByMaterial returns the catalog entries for material in ascending
// cross-section order.
func (c *Catalog) ByMaterial(material Material) []CableSpec {
	var out []CableSpec
	for _, s := range c.Cables {
		if s.Material == material {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b CableSpec) int {
		switch {
		case a.CrossSectionMM2 < b.CrossSectionMM2:
			return -1
		case a.CrossSectionMM2 > b.CrossSectionMM2:
			return 1
		}
		return 0
	})
	return out
}

func (c *Catalog) validate() error {
	if len(c.Cables) == 0 {
		return validation.Invalid("catalog.cables", 0, "catalog has no cables")
	}
	for i, s := range c.Cables {
		path := fmt.Sprintf("catalog.cables[%d]", i)
		if s.CrossSectionMM2 <= 0 {
			return validation.Invalid(path+".cross_section_mm2", s.CrossSectionMM2, "must be greater than 0")
		}
		if s.ResistanceOhmPerKm <= 0 {
			return validation.Invalid(path+".resistance_ohm_per_km", s.ResistanceOhmPerKm, "must be greater than 0")
		}
		if s.Material != Copper && s.Material != Aluminium {
			return validation.Invalid(path+".material", s.Material, "must be copper or aluminium")
		}
	}
	return nil
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing cable catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cable catalog: %w", err)
	}
	return ParseCatalog(data)
}

//go:embed catalog.yaml
var defaultCatalog []byte

// DefaultCatalog returns the built-in single-core XLPE catalog. Each call
// decodes a fresh copy.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded cable catalog: %v", err))
	}
	return c
}
