package consolidate

import (
	"context"
	"regexp"
	"strings"

	"github.com/chemtrack/sds-extractor/internal/llm"
	"github.com/chemtrack/sds-extractor/internal/normalize"
	"github.com/chemtrack/sds-extractor/internal/sds"
)

// GHS keyword buckets: a classification string belongs to the health or
// physical side when it contains one of these substrings (lowercased).
var (
	healthTerms   = []string{"toxic", "health", "irritat", "corrosive", "sensitiz", "mutagen", "carcino", "reproduct", "damage"}
	physicalTerms = []string{"flammable", "explosive", "oxidiz", "gas", "pressure", "react", "peroxide", "corrosive"}

	// Narrower term sets for pulling a category digit.
	healthCatTerms   = []string{"toxic", "health", "irritat", "corrosive", "sensitiz"}
	physicalCatTerms = []string{"flammable", "explosive", "oxidiz", "gas", "pressure"}
)

var categoryNumberRe = regexp.MustCompile(`category\s*(\d+)`)

// MultiPass runs every strategy and folds the results: the direct record
// is the base, hierarchical fills gaps, and the specialized passes patch
// their own fields. Hazard bucketing only runs for fields still empty.
func (c *Consolidator) MultiPass(ctx context.Context, text, filename string) (llm.Result, error) {
	base, err := c.ex.Extract(ctx, text, filename)
	if err != nil {
		return llm.Result{}, err
	}
	rec := base.Record

	hier := c.Hierarchical(ctx, text)
	rec.MergeMissing(hier)

	if fa := c.firstAidPass(ctx, text); fa != nil {
		if v := flattenPairs(fa); v != "" {
			rec[sds.FieldFirstAid] = normalize.Value(v)
		}
	}
	if ff := c.firefightingPass(ctx, text); ff != nil {
		if v := flattenPairs(ff); v != "" {
			rec[sds.FieldFirefighting] = normalize.Value(v)
		}
	}

	if hz := c.hazardPass(ctx, text); hz != nil {
		applyHazardBuckets(rec, hz)
	}

	if props := c.propertiesPass(ctx, text); props != nil {
		applyProperties(rec, props)
	}

	rec = normalize.Record(rec)
	base.Record = rec
	base.Strategy = string(multiPassStrategy)
	return base, nil
}

// applyHazardBuckets distributes the GHS classification list between the
// health and physical fields and digs category digits out of the matching
// classifications. Only empty fields are written.
func applyHazardBuckets(rec sds.Record, hz map[string]any) {
	classifications := asList(hz["GHS Classification"])

	if rec[sds.FieldHealthHazards] == "" {
		health := bucket(classifications, healthTerms)
		if len(health) > 0 {
			rec[sds.FieldHealthHazards] = strings.Join(health, "; ")
		} else {
			rec[sds.FieldHealthHazards] = normalize.FlattenValue(hz["GHS Classification"])
		}
	}

	if rec[sds.FieldHealthCat] == "" {
		if cat := categoryDigit(classifications, healthCatTerms); cat != "" {
			rec[sds.FieldHealthCat] = cat
		}
	}

	if rec[sds.FieldPhysHazards] == "" {
		if physical := bucket(classifications, physicalTerms); len(physical) > 0 {
			rec[sds.FieldPhysHazards] = strings.Join(physical, "; ")
		}
	}

	if rec[sds.FieldPhysCat] == "" {
		if cat := categoryDigit(classifications, physicalCatTerms); cat != "" {
			rec[sds.FieldPhysCat] = cat
		}
	}

	if rec[sds.FieldHazardStatement] == "" {
		rec[sds.FieldHazardStatement] = normalize.FlattenValue(hz["Hazard Statements"])
	}
}

func bucket(classifications, terms []string) []string {
	var out []string
	for _, cls := range classifications {
		lower := strings.ToLower(cls)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				out = append(out, cls)
				break
			}
		}
	}
	return out
}

// categoryDigit finds the first classification that names a category and
// matches one of terms, and returns its digit.
func categoryDigit(classifications, terms []string) string {
	for _, cls := range classifications {
		lower := strings.ToLower(cls)
		if !strings.Contains(lower, "category") {
			continue
		}
		matched := false
		for _, term := range terms {
			if strings.Contains(lower, term) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if m := categoryNumberRe.FindStringSubmatch(lower); m != nil {
			return m[1]
		}
	}
	return ""
}
