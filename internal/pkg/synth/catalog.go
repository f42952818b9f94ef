package synth

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogSource []byte

// CatalogEntry is a candidate condition for one modality. Entries are shared
// process-wide; CatalogFor hands out copies.
type CatalogEntry struct {
	ID              string            `yaml:"id"`
	Name            string            `yaml:"name"`
	Severity        Severity          `yaml:"severity"`
	Critical        bool              `yaml:"critical"`
	Normal          bool              `yaml:"normal"`
	Group           string            `yaml:"group"`
	Related         []string          `yaml:"related"`
	Description     string            `yaml:"description"`
	Recommendations []string          `yaml:"recommendations"`
	Location        *LocationTemplate `yaml:"location"`
}

// LocationTemplate bounds where a condition may appear on the image. Each
// field is an inclusive [min, max] pair in percent.
type LocationTemplate struct {
	X      []int `yaml:"x"`
	Y      []int `yaml:"y"`
	Radius []int `yaml:"radius"`
}

// Draw picks a concrete extent inside the template. A nil template is diffuse
// and consumes nothing from the sequence.
func (t *LocationTemplate) Draw(seq Sequence) Extent {
	if t == nil {
		return Diffuse{}
	}
	return Located{
		X:      float64(seq.Next(t.X[0], t.X[1])),
		Y:      float64(seq.Next(t.Y[0], t.Y[1])),
		Radius: float64(seq.Next(t.Radius[0], t.Radius[1])),
	}
}

func (e CatalogEntry) finding(probability int, seq Sequence) Finding {
	return Finding{
		ID:          e.ID,
		Name:        e.Name,
		Severity:    e.Severity,
		Probability: probability,
		Location:    e.Location.Draw(seq),
		Critical:    e.Critical,
		Normal:      e.Normal,
	}
}

func (e CatalogEntry) clone() CatalogEntry {
	e.Related = append([]string(nil), e.Related...)
	e.Recommendations = append([]string(nil), e.Recommendations...)
	if e.Location != nil {
		e.Location = &LocationTemplate{
			X:      append([]int(nil), e.Location.X...),
			Y:      append([]int(nil), e.Location.Y...),
			Radius: append([]int(nil), e.Location.Radius...),
		}
	}
	return e
}

// relatedTo reports whether a secondary condition is clinically linked to the
// primary, either through an explicit related list on either side or a
// shared group.
func (e CatalogEntry) relatedTo(other CatalogEntry) bool {
	if e.Group != "" && e.Group == other.Group {
		return true
	}
	for _, id := range e.Related {
		if id == other.ID {
			return true
		}
	}
	for _, id := range other.Related {
		if id == e.ID {
			return true
		}
	}
	return false
}

type modalityCatalog struct {
	Confidence   []int          `yaml:"confidence"`
	NormalChance int            `yaml:"normal_chance"`
	Sides        []string       `yaml:"sides"`
	Regions      []string       `yaml:"regions"`
	SizeMM       []int          `yaml:"size_mm"`
	Conditions   []CatalogEntry `yaml:"conditions"`

	byID map[string]CatalogEntry
}

type catalogFile struct {
	GeneralRecommendations []string                      `yaml:"general_recommendations"`
	Modalities             map[Modality]*modalityCatalog `yaml:"modalities"`
}

var (
	catalogOnce sync.Once
	catalog     *catalogFile
)

func loadCatalog() *catalogFile {
	catalogOnce.Do(func() {
		file := new(catalogFile)
		if err := yaml.Unmarshal(catalogSource, file); err != nil {
			panic(fmt.Sprintf("synth: decode catalog: %v", err))
		}
		if err := file.validate(); err != nil {
			panic(fmt.Sprintf("synth: invalid catalog: %v", err))
		}
		catalog = file
	})
	return catalog
}

func (f *catalogFile) validate() error {
	if len(f.GeneralRecommendations) == 0 {
		return fmt.Errorf("general recommendations are empty")
	}
	for _, m := range Modalities {
		mc, ok := f.Modalities[m]
		if !ok {
			return fmt.Errorf("modality %s is missing", m)
		}
		if err := mc.validate(); err != nil {
			return fmt.Errorf("modality %s: %w", m, err)
		}
	}
	return nil
}

func (mc *modalityCatalog) validate() error {
	if !isRange(mc.Confidence, 0, 100) {
		return fmt.Errorf("confidence range %v", mc.Confidence)
	}
	if mc.NormalChance < 0 || mc.NormalChance > 100 {
		return fmt.Errorf("normal chance %d", mc.NormalChance)
	}
	if len(mc.Sides) == 0 || len(mc.Regions) == 0 {
		return fmt.Errorf("sides and regions must not be empty")
	}
	if !isRange(mc.SizeMM, 1, 1000) {
		return fmt.Errorf("size range %v", mc.SizeMM)
	}
	if len(mc.Conditions) == 0 {
		return fmt.Errorf("no conditions")
	}

	mc.byID = make(map[string]CatalogEntry, len(mc.Conditions))
	names := make(map[string]bool, len(mc.Conditions))
	for _, c := range mc.Conditions {
		if c.ID == "" || c.Name == "" {
			return fmt.Errorf("condition without id or name")
		}
		if _, dup := mc.byID[c.ID]; dup {
			return fmt.Errorf("duplicate condition id %s", c.ID)
		}
		if names[c.Name] {
			return fmt.Errorf("duplicate condition name %s", c.Name)
		}
		if !c.Severity.valid() {
			return fmt.Errorf("condition %s: severity %q", c.ID, c.Severity)
		}
		if loc := c.Location; loc != nil {
			if !isRange(loc.X, 0, 100) || !isRange(loc.Y, 0, 100) || !isRange(loc.Radius, 1, 100) {
				return fmt.Errorf("condition %s: location out of bounds", c.ID)
			}
		}
		mc.byID[c.ID] = c
		names[c.Name] = true
	}
	for _, c := range mc.Conditions {
		for _, id := range c.Related {
			if _, ok := mc.byID[id]; !ok {
				return fmt.Errorf("condition %s: unknown related id %s", c.ID, id)
			}
		}
	}
	return nil
}

func isRange(r []int, lo, hi int) bool {
	return len(r) == 2 && r[0] >= lo && r[1] <= hi && r[0] <= r[1]
}

func catalogFor(m Modality) *modalityCatalog {
	mc, ok := loadCatalog().Modalities[m]
	if !ok {
		return loadCatalog().Modalities[XRay]
	}
	return mc
}

// CatalogFor returns the ordered candidate conditions for a modality.
func CatalogFor(m Modality) []CatalogEntry {
	mc := catalogFor(m)
	out := make([]CatalogEntry, len(mc.Conditions))
	for i, c := range mc.Conditions {
		out[i] = c.clone()
	}
	return out
}

// Lookup finds a catalog entry by id.
func Lookup(m Modality, id string) (CatalogEntry, bool) {
	c, ok := catalogFor(m).byID[id]
	if !ok {
		return CatalogEntry{}, false
	}
	return c.clone(), true
}

// Describe returns the catalog description of a condition, or "" when the id
// is unknown.
func Describe(m Modality, id string) string {
	return catalogFor(m).byID[id].Description
}

// ConfidenceRange is the inclusive bound every result's confidence is
// clamped to.
func ConfidenceRange(m Modality) (min, max int) {
	r := catalogFor(m).Confidence
	return r[0], r[1]
}

func (mc *modalityCatalog) subset(normal bool) []CatalogEntry {
	var out []CatalogEntry
	for _, c := range mc.Conditions {
		if c.Normal == normal {
			out = append(out, c)
		}
	}
	return out
}
