package synth

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/google/go-cmp/cmp"
)

type synthContext struct {
	modality Modality
	result   Result
	layers   []OverlayLayer
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	sx := &synthContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*sx = synthContext{}
		return ctx, nil
	})

	sc.Step(`^a (\w+) synthesis with seed (\d+)$`, sx.aSynthesisWithSeed)
	sc.Step(`^a (\w+) result whose primary is "([^"]*)" at (\d+) percent$`, sx.aResultWhosePrimaryIs)
	sc.Step(`^the conditions are strictly descending with unique names$`, sx.theConditionsAreStrictlyDescending)
	sc.Step(`^the confidence is between (\d+) and (\d+)$`, sx.theConfidenceIsBetween)
	sc.Step(`^every located condition lies inside the image$`, sx.everyLocatedConditionLiesInside)
	sc.Step(`^synthesizing again with seed (\d+) gives the same result$`, sx.synthesizingAgainGivesTheSameResult)
	sc.Step(`^the recommendation contains "([^"]*)"$`, sx.theRecommendationContains)
	sc.Step(`^the findings contain "([^"]*)"$`, sx.theFindingsContain)
	sc.Step(`^the heatmap is composited$`, sx.theHeatmapIsComposited)
	sc.Step(`^the overlay has (\d+) ellipses?$`, sx.theOverlayHasEllipses)
}

func (sx *synthContext) aSynthesisWithSeed(modality string, seed int64) error {
	m, err := ParseModality(modality)
	if err != nil {
		return err
	}
	sx.modality = m
	sx.result = Synthesize(m, NewLCG(seed))
	return nil
}

func (sx *synthContext) aResultWhosePrimaryIs(modality, id string, probability int) error {
	m, err := ParseModality(modality)
	if err != nil {
		return err
	}
	e, ok := Lookup(m, id)
	if !ok {
		return fmt.Errorf("unknown %s condition %s", m, id)
	}
	sx.modality = m
	sx.result = Compose(m, []Finding{e.finding(probability, NewLCG(int64(probability)))}, NewLCG(1))
	return nil
}

func (sx *synthContext) theConditionsAreStrictlyDescending() error {
	seen := map[string]bool{}
	for i, c := range sx.result.Conditions {
		if seen[c.Name] {
			return fmt.Errorf("duplicate condition %s", c.Name)
		}
		seen[c.Name] = true
		if i > 0 && c.Probability >= sx.result.Conditions[i-1].Probability {
			return fmt.Errorf("condition %s (%d) is not below %s (%d)", c.Name, c.Probability,
				sx.result.Conditions[i-1].Name, sx.result.Conditions[i-1].Probability)
		}
	}
	return nil
}

func (sx *synthContext) theConfidenceIsBetween(min, max int) error {
	if c := sx.result.Confidence; c < min || c > max {
		return fmt.Errorf("confidence %d outside [%d, %d]", c, min, max)
	}
	return nil
}

func (sx *synthContext) everyLocatedConditionLiesInside() error {
	for _, c := range sx.result.Conditions {
		loc, ok := c.Located()
		if !ok {
			continue
		}
		if loc.X < 0 || loc.X > 100 || loc.Y < 0 || loc.Y > 100 || loc.Radius <= 0 {
			return fmt.Errorf("condition %s has location %+v", c.Name, loc)
		}
	}
	return nil
}

func (sx *synthContext) synthesizingAgainGivesTheSameResult(seed int64) error {
	again := Synthesize(sx.modality, NewLCG(seed))
	if diff := cmp.Diff(sx.result, again); diff != "" {
		return fmt.Errorf("results differ (-first +second):\n%s", diff)
	}
	return nil
}

func (sx *synthContext) theRecommendationContains(s string) error {
	if !strings.Contains(sx.result.Recommendation, s) {
		return fmt.Errorf("recommendation %q does not contain %q", sx.result.Recommendation, s)
	}
	return nil
}

func (sx *synthContext) theFindingsContain(s string) error {
	if !strings.Contains(sx.result.Findings, s) {
		return fmt.Errorf("findings %q do not contain %q", sx.result.Findings, s)
	}
	return nil
}

func (sx *synthContext) theHeatmapIsComposited() error {
	uri, ok := Composite(sx.result.Conditions)
	if !ok {
		sx.layers = nil
		return nil
	}
	layers, err := DecodeOverlay(uri)
	if err != nil {
		return err
	}
	sx.layers = layers
	return nil
}

func (sx *synthContext) theOverlayHasEllipses(n int) error {
	if len(sx.layers) != n {
		return fmt.Errorf("expected %d ellipses, got %d", n, len(sx.layers))
	}
	return nil
}
