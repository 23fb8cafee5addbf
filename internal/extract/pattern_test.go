package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemtrack/sds-extractor/internal/sds"
)

const nmpSDS = `SAFETY DATA SHEET

SECTION 1: Identification
Product name: 1-Methyl-2-pyrrolidone
Company: Sigma-Aldrich Pty Ltd

SECTION 2: Hazard identification
Classification: Eye Irrit. 2A, Skin Irrit. 2, Repr. 1B, STOT SE 3
Hazard statements: H315, H319, H335, H360D

SECTION 3: Composition
CAS-No: 872-50-4
Formula: C5H9NO

SECTION 9: Physical and chemical properties
Appearance: Clear liquid
Odour: amine
Flash point: 91 °C - closed cup
`

func TestApplyFirstMatchWins(t *testing.T) {
	rules := []Rule{
		rule("narrow", `(?i)flash point:\s*(\d+)`),
		rule("broad", `(?i)point:\s*(.+)`),
	}
	assert.Equal(t, "91", Apply("Flash point: 91 °C", rules))
}

func TestApplyLiteralValueShortCircuits(t *testing.T) {
	got := Apply("Supplied by Sigma-Aldrich Pty Ltd", supplierRules)
	assert.Equal(t, "Sigma-Aldrich", got)
}

func TestApplyNoMatchReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", Apply("nothing of interest", flashPointRules))
}

func TestExtractPatternBasedCASAndFlashPoint(t *testing.T) {
	rec := ExtractPatternBased(nmpSDS, nil)

	assert.Equal(t, "872-50-4", rec[sds.FieldCASNumber])
	assert.Contains(t, rec[sds.FieldFlashPoint], "91")
	assert.Equal(t, "2A", rec[sds.FieldHealthCat])
	assert.Equal(t, "Clear liquid", rec[sds.FieldAppearance])
	assert.NotEmpty(t, rec[sds.FieldHazardStatement])
}

func TestExtractPatternBasedIsPure(t *testing.T) {
	a := ExtractPatternBased(nmpSDS, DefaultOverrides)
	b := ExtractPatternBased(nmpSDS, DefaultOverrides)
	assert.Equal(t, a, b)
}

func TestExtractPatternBasedAllCanonicalKeysPresent(t *testing.T) {
	rec := ExtractPatternBased("no sds content here", nil)
	for _, field := range sds.Fields {
		_, ok := rec[field]
		assert.True(t, ok, "missing canonical key %q", field)
	}
}

func TestOverrideForcesKnownSubstanceFields(t *testing.T) {
	rec := ExtractPatternBased(nmpSDS, DefaultOverrides)

	assert.Equal(t, NMPHealthHazards, rec[sds.FieldHealthHazards])
	assert.Equal(t, "amine", rec[sds.FieldOdour])
}

func TestOverrideTriggersOnCASAlone(t *testing.T) {
	text := "Some product sheet mentioning CAS 872-50-4 only."
	rec := sds.NewRecord()
	rec[sds.FieldHealthHazards] = "something else"

	ApplyOverrides(text, rec, DefaultOverrides)

	assert.Equal(t, NMPHealthHazards, rec[sds.FieldHealthHazards])
	assert.Equal(t, "amine", rec[sds.FieldOdour])
}

func TestOverrideNotTriggeredWithoutSignal(t *testing.T) {
	rec := sds.NewRecord()
	ApplyOverrides("plain acetone document", rec, DefaultOverrides)
	assert.Empty(t, rec[sds.FieldHealthHazards])
}

func TestHazardStatementFallsBackToCodeJoin(t *testing.T) {
	// No worded statement line matches; the aggregate joins the distinct
	// codes in first-seen order.
	text := "Contains H315.\nAlso H319.\nRepeat H315."
	assert.Equal(t, "H315, H319", hazardStatement(text))
}

func TestHazardStatementPrefersWordedStatement(t *testing.T) {
	text := "Hazard statements: H315, H319, H335, H360D\nPrecautionary statements: P210"
	got := hazardStatement(text)
	assert.Contains(t, got, "H315")
	assert.Contains(t, got, "H360D")
}

func TestClassifyHealthHazardsFromHCodes(t *testing.T) {
	got := classifyHealthHazards("Hazards: H315 and H319 apply.")
	assert.Equal(t, "Skin irritation; Eye irritation", got)
}

func TestClassifyHealthHazardsSTOTWithRespiratory(t *testing.T) {
	got := classifyHealthHazards("H335 may cause respiratory irritation")
	require.Contains(t, got, "Specific target organ toxicity, single exposure, Respiratory tract irritation")
	// The respiratory phrase appears once, not duplicated by the
	// standalone respiratory rule.
	assert.Equal(t, 1, countOccurrences(got, "Respiratory tract irritation"))
}

func TestClassifyPhysicalHazards(t *testing.T) {
	got := classifyPhysicalHazards("Flammable Liquid Category 2, H225. Corrosive to metals H290.")
	assert.Contains(t, got, "Flammable liquid")
	assert.Contains(t, got, "Corrosive to metals")
}

func TestOdourRejectsTemperatureCapture(t *testing.T) {
	// The odour line runs into a temperature; the fallback word sweep
	// should still find the descriptor.
	text := "Odour threshold: 75 °C something\nThe product has a pungent character."
	got := odour(text)
	assert.NotContains(t, got, "°C")
}

func TestDedupeKeepsFirstSeenOrder(t *testing.T) {
	got := dedupe([]string{"2", "1", "2", "3", "1"})
	assert.Equal(t, []string{"2", "1", "3"}, got)
}

func countOccurrences(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
	}
	return count
}
