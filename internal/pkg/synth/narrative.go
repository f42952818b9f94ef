package synth

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"
)

//go:embed narratives.yaml
var narrativeSource []byte

// Tier groups primary findings by how urgently they need follow-up.
type Tier string

const (
	TierUrgent   Tier = "urgent"
	TierFollowUp Tier = "followup"
	TierRoutine  Tier = "routine"
	TierNormal   Tier = "normal"
)

var tiers = []Tier{TierUrgent, TierFollowUp, TierRoutine, TierNormal}

func TierOf(f Finding) Tier {
	switch {
	case f.Normal:
		return TierNormal
	case f.Critical, f.Severity == SeveritySevere, f.Severity == SeverityMalignant:
		return TierUrgent
	case f.Severity == SeverityModerate:
		return TierFollowUp
	default:
		return TierRoutine
	}
}

func categoryOf(f Finding) string {
	switch {
	case f.Normal:
		return "normal"
	case f.Severity == SeverityMalignant:
		return "malignant"
	case f.Severity == SeverityBenign:
		return "benign"
	case f.Critical, f.Severity == SeveritySevere:
		return "critical"
	default:
		return strings.ToLower(string(f.Severity))
	}
}

// NarrativeData is what findings templates are executed against.
type NarrativeData struct {
	Primary Finding
	Side    string
	Region  string
	Size    int
}

// TemplateDescriptor is the narrative template chosen for a primary finding.
// Key records which level of the lookup matched: "condition:<id>",
// "category:<name>" or "fallback".
type TemplateDescriptor struct {
	Modality Modality
	Key      string
	tmpl     *template.Template
}

func (d TemplateDescriptor) Render(data NarrativeData) string {
	return render(d.tmpl, data)
}

type narrativeSet struct {
	Fallback        string            `yaml:"fallback"`
	Incidental      string            `yaml:"incidental"`
	Categories      map[string]string `yaml:"categories"`
	Conditions      map[string]string `yaml:"conditions"`
	Recommendations map[Tier]string   `yaml:"recommendations"`
}

type compiledNarratives struct {
	fallback        *template.Template
	incidental      *template.Template
	categories      map[string]*template.Template
	conditions      map[string]*template.Template
	recommendations map[Tier]string
}

var (
	narrativeOnce sync.Once
	narratives    map[Modality]*compiledNarratives
)

func loadNarratives() map[Modality]*compiledNarratives {
	narrativeOnce.Do(func() {
		var sets map[Modality]narrativeSet
		if err := yaml.Unmarshal(narrativeSource, &sets); err != nil {
			panic(fmt.Sprintf("synth: decode narratives: %v", err))
		}
		compiled := make(map[Modality]*compiledNarratives, len(sets))
		for _, m := range Modalities {
			set, ok := sets[m]
			if !ok {
				panic(fmt.Sprintf("synth: narratives for %s are missing", m))
			}
			compiled[m] = compileNarratives(m, set)
		}
		narratives = compiled
	})
	return narratives
}

func compileNarratives(m Modality, set narrativeSet) *compiledNarratives {
	name := string(m)
	c := &compiledNarratives{
		fallback:        mustParse(name+"/fallback", set.Fallback),
		incidental:      mustParse(name+"/incidental", set.Incidental),
		categories:      make(map[string]*template.Template, len(set.Categories)),
		conditions:      make(map[string]*template.Template, len(set.Conditions)),
		recommendations: set.Recommendations,
	}
	for key, src := range set.Categories {
		c.categories[key] = mustParse(name+"/category/"+key, src)
	}
	for id, src := range set.Conditions {
		if _, ok := catalogFor(m).byID[id]; !ok {
			panic(fmt.Sprintf("synth: narrative for unknown %s condition %s", m, id))
		}
		c.conditions[id] = mustParse(name+"/condition/"+id, src)
	}
	for _, t := range tiers {
		if strings.TrimSpace(set.Recommendations[t]) == "" {
			panic(fmt.Sprintf("synth: %s recommendation template %s is missing", m, t))
		}
	}
	return c
}

func mustParse(name, src string) *template.Template {
	if strings.TrimSpace(src) == "" {
		panic(fmt.Sprintf("synth: template %s is empty", name))
	}
	return template.Must(template.New(name).Funcs(sprig.TxtFuncMap()).Parse(src))
}

func render(tmpl *template.Template, data any) string {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		panic(fmt.Sprintf("synth: execute %s: %v", tmpl.Name(), err))
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// ResolveNarrative picks the most specific template for the primary finding:
// the condition's own template, then its category, then the modality
// fallback.
func ResolveNarrative(m Modality, primary Finding) TemplateDescriptor {
	set := narrativesFor(m)
	if tmpl, ok := set.conditions[primary.ID]; ok {
		return TemplateDescriptor{Modality: m, Key: "condition:" + primary.ID, tmpl: tmpl}
	}
	category := categoryOf(primary)
	if tmpl, ok := set.categories[category]; ok {
		return TemplateDescriptor{Modality: m, Key: "category:" + category, tmpl: tmpl}
	}
	return TemplateDescriptor{Modality: m, Key: "fallback", tmpl: set.fallback}
}

// RecommendationTemplate returns the fixed recommendation text for a tier.
func RecommendationTemplate(m Modality, t Tier) string {
	set := narrativesFor(m)
	return strings.Join(strings.Fields(set.recommendations[t]), " ")
}

func incidentalClause(m Modality, f Finding) string {
	set := narrativesFor(m)
	return render(set.incidental, f)
}

func narrativesFor(m Modality) *compiledNarratives {
	if set, ok := loadNarratives()[m]; ok {
		return set
	}
	return loadNarratives()[XRay]
}
