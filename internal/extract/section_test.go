package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/chemtrack/sds-extractor/internal/sds"
)

func TestCompositionFallbackTruncatesOnCharacters(t *testing.T) {
	// No chemical-name line, so the cleaned body fallback applies; the cap
	// counts characters, and the cut must not split a rune.
	content := strings.Repeat("α", 300)
	got := compositionInfo(content)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 200, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

const sectionedSDS = `SAFETY DATA SHEET

SECTION 1: Identification
Product name: Acetone
Company: Example Chemicals Ltd
Address: 1 Industry Road
Phone: +61 2 9999 0000

SECTION 2: Hazard identification
Classification: Flammable liquid Category 2, Eye irritation Category 2A

SECTION 3: Composition
Chemical name: Propan-2-one
CAS-No: 67-64-1

SECTION 4: First-aid measures
Inhalation: Move to fresh air and keep at rest.
Skin contact: Wash off with soap and water.
Eye contact: Rinse cautiously with water for several minutes.
Ingestion: Rinse mouth and do NOT induce vomiting.

SECTION 5: Firefighting measures
Suitable extinguishing media: Water spray, alcohol-resistant foam.
Special hazards: Vapours may form explosive mixtures with air.

SECTION 7: Handling and storage
Storage: Keep container tightly closed in a cool place.
Handling: Avoid contact with skin and eyes.

SECTION 12: Ecological information
Toxic to aquatic life with long lasting effects.
`

func TestSectionBasedIdentification(t *testing.T) {
	rec := ExtractSectionBased(sectionedSDS)

	assert.Equal(t, "Acetone", rec[sds.FieldProductName])
	assert.Equal(t, "Propan-2-one", rec[sds.FieldChemicalID])
	assert.Equal(t, "67-64-1", rec[sds.FieldCASNumber])
}

func TestSectionBasedHazardClassification(t *testing.T) {
	rec := ExtractSectionBased(sectionedSDS)
	assert.Contains(t, rec[sds.FieldHealthHazards], "Flammable liquid Category 2")
}

func TestSectionBasedFirstAidSubheads(t *testing.T) {
	rec := ExtractSectionBased(sectionedSDS)
	fa := rec[sds.FieldFirstAid]

	assert.Contains(t, fa, "Inhalation: Move to fresh air")
	assert.Contains(t, fa, "Skin contact: Wash off with soap and water.")
	assert.Contains(t, fa, "Eye contact:")
	assert.Contains(t, fa, "Ingestion:")
}

func TestSectionBasedFirefighting(t *testing.T) {
	rec := ExtractSectionBased(sectionedSDS)
	ff := rec[sds.FieldFirefighting]

	assert.Contains(t, ff, "Extinguishing media: Water spray, alcohol-resistant foam.")
	assert.Contains(t, ff, "Special hazards: Vapours may form explosive mixtures with air.")
}

func TestSectionBasedStorageAndHandling(t *testing.T) {
	rec := ExtractSectionBased(sectionedSDS)
	st := rec[sds.FieldStorageUse]

	assert.Contains(t, st, "Storage: Keep container tightly closed in a cool place.")
	assert.Contains(t, st, "Handling: Avoid contact with skin and eyes.")
}

func TestSectionBasedEnvironmental(t *testing.T) {
	rec := ExtractSectionBased(sectionedSDS)
	assert.Equal(t, "Toxic to aquatic life with long lasting effects.", rec[sds.FieldEnvHazards])
}

func TestSectionBasedMissingSectionsStayEmpty(t *testing.T) {
	rec := ExtractSectionBased("SECTION 1: Identification\nProduct name: Acetone\n")

	assert.Equal(t, "Acetone", rec[sds.FieldProductName])
	assert.Empty(t, rec[sds.FieldFirstAid])
	assert.Empty(t, rec[sds.FieldEnvHazards])
}

func TestSectionBasedPStatementsWinOverSubheads(t *testing.T) {
	text := `SECTION 7: Handling and storage
P233: Keep container tightly closed.
P403: Store in a well-ventilated place.
`
	rec := ExtractSectionBased(text)
	assert.Equal(t, "Keep container tightly closed., Store in a well-ventilated place.", rec[sds.FieldStorageUse])
}
