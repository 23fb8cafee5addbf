// Package extract implements the local (no-network) SDS field extractors:
// the ordered-pattern extractor, the per-section extractor, and the
// orchestrator that merges the two.
package extract

import (
	"regexp"
	"strings"

	"github.com/chemtrack/sds-extractor/internal/sds"
)

// Apply evaluates a rule table in order and returns the first result:
// the rule's fixed Value if it has one, the first capture group when it
// participated in the match, otherwise the whole match. Returns "" when
// no rule matches. Pure function of its inputs.
func Apply(text string, rules []Rule) string {
	for _, r := range rules {
		m := r.Re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		if r.Value != "" {
			return r.Value
		}
		if len(m) >= 4 && m[2] >= 0 {
			return strings.TrimSpace(text[m[2]:m[3]])
		}
		return strings.TrimSpace(text[m[0]:m[1]])
	}
	return ""
}

var (
	hCodeRe           = regexp.MustCompile(`H\d{3}(?:\+\d{3})*`)
	section2Re        = regexp.MustCompile(`(?is)SECTION\s+2[:.\s]+.*?\n(.*?)(?:SECTION\s+3|$)`)
	categoryDigitRe   = regexp.MustCompile(`(?i)(?:Category|Cat\.?)\s*(\d[A-Z]?)`)
	healthContextRe   = regexp.MustCompile(`(?i)(?:skin|eye|repro|reproductive|toxicity|respir|acute|damage|irritation)[^,\n]*?(?:Category|Cat\.?)[^,\n]*?(\d[A-Z]?)`)
	temperatureLikeRe = regexp.MustCompile(`\d+\s*[°C]`)
	bareNumberRe      = regexp.MustCompile(`^\s*\d+\s*$`)
	odourDescriptorRe = regexp.MustCompile(`(?i)odou?r[^:]*?:\s*([a-zA-Z\s,]+)[^a-zA-Z]`)
)

var smellWords = []string{
	"amine", "ammonia", "fishy", "pungent", "sweet", "sour",
	"acrid", "aromatic", "odorless", "odourless", "characteristic",
}

// ExtractPatternBased extracts a candidate record from raw text using the
// ordered rule tables. Misses degrade to empty strings, never errors.
func ExtractPatternBased(text string, overrides []Override) sds.Record {
	data := sds.NewRecord()

	data[sds.FieldHealthCat] = healthCategory(text)
	data[sds.FieldPhysCat] = Apply(text, physicalCategoryRules)
	data[sds.FieldHazardStatement] = hazardStatement(text)
	data[sds.FieldHealthHazards] = classifyHealthHazards(text)
	data[sds.FieldPhysHazards] = classifyPhysicalHazards(text)
	data[sds.FieldFlashPoint] = Apply(text, flashPointRules)
	data[sds.FieldAppearance] = Apply(text, appearanceRules)
	data[sds.FieldOdour] = odour(text)
	data[sds.FieldColour] = Apply(text, colourRules)
	data[sds.FieldPackingGroup] = Apply(text, packingGroupRules)
	data[sds.FieldDGClass] = Apply(text, dangerousGoodsRules)
	data[sds.FieldStorageUse] = Apply(text, storageRules)
	data[sds.FieldProductName] = Apply(text, productNameRules)
	data[sds.FieldCASNumber] = Apply(text, casNumberRules)
	data[sds.FieldChemicalID] = Apply(text, chemicalIDRules)
	data[sds.FieldPrecautionary] = Apply(text, precautionaryRules)
	data[sds.FieldFirstAid] = Apply(text, firstAidRules)
	data[sds.FieldFirefighting] = Apply(text, firefightingRules)
	data[sds.FieldSupplier] = Apply(text, supplierRules)
	data[sds.FieldEnvHazards] = Apply(text, environmentalRules)

	ApplyOverrides(text, data, overrides)
	return data
}

// healthCategory tries the explicit rule table first; when nothing hits,
// it sweeps section 2 for category numerals and joins the distinct ones.
func healthCategory(text string) string {
	if cat := Apply(text, healthCategoryRules); cat != "" {
		return cat
	}

	m := section2Re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	content := m[1]

	var found []string
	for _, cm := range categoryDigitRe.FindAllStringSubmatch(content, -1) {
		found = append(found, cm[1])
	}
	for _, cm := range healthContextRe.FindAllStringSubmatch(content, -1) {
		found = append(found, cm[1])
	}
	return strings.Join(dedupe(found), ", ")
}

// hazardStatement prefers a worded statement; otherwise it aggregates the
// distinct H-codes found anywhere in the document.
func hazardStatement(text string) string {
	if stmt := Apply(text, hazardStatementRules); stmt != "" {
		return stmt
	}
	return strings.Join(dedupe(hCodeRe.FindAllString(text, -1)), ", ")
}

// odour extracts a smell descriptor, rejecting captures that look like
// temperatures and falling back to a known-word sweep.
func odour(text string) string {
	v := Apply(text, odourRules)
	if v == "" {
		return ""
	}
	if !temperatureLikeRe.MatchString(v) && !bareNumberRe.MatchString(v) {
		return v
	}
	if m := odourDescriptorRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	lower := strings.ToLower(text)
	for _, w := range smellWords {
		if containsWord(lower, w) {
			return w
		}
	}
	return v
}

func containsWord(lower, word string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordByte(lower[start-1])
		afterOK := end == len(lower) || !isWordByte(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// dedupe keeps the first occurrence of each value, preserving order so
// that extraction stays a pure function of the text.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
