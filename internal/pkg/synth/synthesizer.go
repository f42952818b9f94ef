package synth

import (
	"slices"
	"strings"
)

const (
	incidentalThreshold = 15
	maxSecondaries      = 4
	generalPicks        = 3
)

// Synthesize fabricates a complete result for one image. The same modality
// and an identically seeded sequence always produce the same result.
func Synthesize(m Modality, seq Sequence) Result {
	mc := catalogFor(m)

	primaryEntry := drawPrimary(mc, seq)
	conditions := []Finding{primaryEntry.finding(primaryProbability(primaryEntry, seq), seq)}

	pool := make([]CatalogEntry, 0, len(mc.Conditions))
	for _, c := range mc.Conditions {
		if c.ID != primaryEntry.ID && !c.Normal {
			pool = append(pool, c)
		}
	}

	count := seq.Next(1, maxSecondaries)
	for i := 0; i < count && len(pool) > 0; i++ {
		idx := seq.Next(0, len(pool)-1)
		entry := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)

		lo, hi := 10, 40
		if primaryEntry.relatedTo(entry) {
			lo, hi = 40, 70
		}
		conditions = append(conditions, entry.finding(seq.Next(lo, hi), seq))
	}

	return Compose(m, conditions, seq)
}

func drawPrimary(mc *modalityCatalog, seq Sequence) CatalogEntry {
	subset := mc.Conditions
	if mc.NormalChance > 0 {
		normal := seq.Next(1, 100) <= mc.NormalChance
		if candidates := mc.subset(normal); len(candidates) > 0 {
			subset = candidates
		}
	}
	return subset[seq.Next(0, len(subset)-1)]
}

func primaryProbability(e CatalogEntry, seq Sequence) int {
	switch {
	case e.Normal:
		return seq.Next(85, 98)
	case e.Critical, e.Severity == SeverityMalignant:
		return seq.Next(65, 95)
	default:
		return seq.Next(55, 90)
	}
}

// Compose turns a set of findings into a result. conditions[0] is taken as
// the primary finding; every other finding is capped below it, the list is
// sorted by strictly descending probability and duplicate names are dropped.
// An empty list is replaced by a freshly drawn primary.
func Compose(m Modality, conditions []Finding, seq Sequence) Result {
	mc := catalogFor(m)
	if len(conditions) == 0 {
		e := drawPrimary(mc, seq)
		conditions = []Finding{e.finding(primaryProbability(e, seq), seq)}
	}

	ordered := orderConditions(conditions)
	primary := ordered[0]

	data := NarrativeData{
		Primary: primary,
		Side:    pickSide(m, mc, primary, seq),
		Region:  mc.Regions[seq.Next(0, len(mc.Regions)-1)],
		Size:    seq.Next(mc.SizeMM[0], mc.SizeMM[1]),
	}
	parts := []string{ResolveNarrative(m, primary).Render(data)}
	for _, f := range ordered[1:] {
		if f.Probability > incidentalThreshold {
			parts = append(parts, incidentalClause(m, f))
		}
	}

	lo, hi := mc.Confidence[0], mc.Confidence[1]
	confidence := clampInt(primary.Probability+seq.Next(-5, 5), lo, hi)

	return Result{
		Modality:        m,
		Findings:        strings.Join(parts, " "),
		Confidence:      confidence,
		Conditions:      ordered,
		Recommendation:  RecommendationTemplate(m, TierOf(primary)),
		Recommendations: adviceFor(mc, ordered, seq),
	}
}

func orderConditions(conditions []Finding) []Finding {
	primary := conditions[0]
	primary.Probability = clampInt(primary.Probability, 0, 100)
	primary.Location = normalizeExtent(primary.Location)

	rest := make([]Finding, 0, len(conditions)-1)
	seen := map[string]bool{primary.Name: true}
	for _, f := range conditions[1:] {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		f.Probability = clampInt(f.Probability, 0, primary.Probability-1)
		f.Location = normalizeExtent(f.Location)
		rest = append(rest, f)
	}
	slices.SortStableFunc(rest, func(a, b Finding) int {
		return b.Probability - a.Probability
	})

	ordered := []Finding{primary}
	prev := primary.Probability
	for _, f := range rest {
		if f.Probability >= prev {
			f.Probability = prev - 1
		}
		if f.Probability < 0 {
			break
		}
		ordered = append(ordered, f)
		prev = f.Probability
	}
	return ordered
}

// pickSide follows the radiological convention for projection imaging: the
// left half of the image is the patient's right.
func pickSide(m Modality, mc *modalityCatalog, primary Finding, seq Sequence) string {
	if loc, ok := primary.Located(); ok && m != Skin && len(mc.Sides) == 2 {
		if loc.X < 50 {
			return "right"
		}
		return "left"
	}
	return mc.Sides[seq.Next(0, len(mc.Sides)-1)]
}

// adviceFor collects the bullet recommendations of every finding above the
// incidental threshold plus a few general lifestyle picks.
func adviceFor(mc *modalityCatalog, conditions []Finding, seq Sequence) []string {
	var advice []string
	add := func(s string) {
		if !slices.Contains(advice, s) {
			advice = append(advice, s)
		}
	}
	for i, f := range conditions {
		if i > 0 && f.Probability <= incidentalThreshold {
			continue
		}
		for _, rec := range mc.byID[f.ID].Recommendations {
			add(rec)
		}
	}
	general := loadCatalog().GeneralRecommendations
	for i := 0; i < generalPicks; i++ {
		add(general[seq.Next(0, len(general)-1)])
	}
	return advice
}
