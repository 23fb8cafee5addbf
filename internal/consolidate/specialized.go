// Package consolidate implements the multi-call model strategies:
// specialized per-topic passes, hierarchical extraction, and the
// multi-pass combiner that folds every pass into one record.
package consolidate

import (
	"context"
	"sort"
	"strings"

	"github.com/chemtrack/sds-extractor/internal/llm"
	"github.com/chemtrack/sds-extractor/internal/normalize"
)

const (
	hazardSystem       = "You are a chemical safety expert specializing in GHS hazard classification. Respond only with JSON."
	firstAidSystem     = "You are a chemical safety expert specializing in first aid procedures. Respond only with JSON."
	firefightingSystem = "You are a chemical safety expert specializing in firefighting procedures. Respond only with JSON."
	identitySystem     = "You are a chemical identification specialist. Respond only with JSON."
	propertiesSystem   = "You are a chemical properties specialist. Respond only with JSON."
	structureSystem    = "You are a document structure analyzer specializing in Safety Data Sheets. Respond only with JSON."
)

const hazardPrompt = `Analyze this Safety Data Sheet text and extract ONLY the following hazard information:

1. GHS Classification: List all GHS hazard classifications (e.g., Flammable liquid Category 2)
2. Signal Word: The signal word (Danger or Warning)
3. Hazard Statements: All H-statements with codes (e.g., H225: Highly flammable liquid and vapor)
4. Precautionary Statements: All P-statements with codes
5. Pictograms: All applicable GHS pictograms (e.g., Flame, Health Hazard, Exclamation Mark)
6. Health Hazards: Any health hazard classifications or statements (e.g., Acute toxicity Category 3, Skin corrosion Category 1A)
7. Health Category: Highest category number for health hazards (e.g., "1" for most severe or "4" for least severe)
8. Physical Hazards: Any physical hazard classifications (e.g., Flammable liquid Category 2, Explosive Division 1.1)
9. Physical Category: Highest category number for physical hazards

Format as JSON with these exact keys. If information is not found, use empty strings or arrays.

Safety Data Sheet text:
`

const firstAidPrompt = `Extract detailed first aid measures from this Safety Data Sheet.
Focus on Section 4: First Aid Measures only.

Create a structured JSON response with these categories:
- Inhalation: First aid measures for inhalation exposure
- Skin Contact: First aid measures for skin contact
- Eye Contact: First aid measures for eye contact
- Ingestion: First aid measures for ingestion
- General Advice: Any general first aid advice provided
- Notes to Physician: Any notes for medical professionals

Include the exact text from the SDS, not your own recommendations.
If a category is not mentioned, leave it as an empty string.

Safety Data Sheet text:
`

const firefightingPrompt = `Extract detailed firefighting measures from this Safety Data Sheet.
Focus on Section 5: Firefighting Measures only.

Create a structured JSON response with these categories:
- Suitable Extinguishing Media: Recommended firefighting agents
- Unsuitable Extinguishing Media: Extinguishing media to avoid
- Special Hazards: Special hazards arising from the substance
- Protective Equipment: Protective equipment for firefighters
- Specific Methods: Specific firefighting methods or instructions
- Additional Information: Any other relevant information

Include the exact text from the SDS, not your own recommendations.
If a category is not mentioned, leave it as an empty string.

Safety Data Sheet text:
`

const identityPrompt = `Extract only the following basic identification information from this Safety Data Sheet:

1. Product Name: The exact product name/identifier
2. CAS Number: Chemical Abstract Service registry number (format: xxx-xx-x)
3. Chemical Identification: Chemical name or formula
4. Supplier/Manufacturer: Company name that supplies/manufactures the chemical
5. Recommended Use: Intended use of the chemical

Format your response as JSON with these exact field names.
If information is not found, use empty strings.

SDS Document text:
`

const propertiesPrompt = `Extract only the following physical and chemical properties from this Safety Data Sheet (focus on Section 9):

1. Appearance: Physical appearance description
2. Colour: Color description
3. Odour: Description of smell/odour
4. pH: pH value
5. Melting Point: Melting point in degrees C
6. Boiling Point: Boiling point in degrees C
7. Flash Point: Flash point in degrees C
8. Density: Density value with units
9. Solubility: Solubility description
10. Vapour Pressure: Vapour pressure with units

Format your response as JSON with these exact field names.
If information is not found, use empty strings.

SDS Document text:
`

const structurePrompt = `Analyze this Safety Data Sheet and identify the start and end positions of each of the following sections:

1. Identification (Section 1)
2. Hazard Identification (Section 2)
3. Composition/Information on Ingredients (Section 3)
4. First Aid Measures (Section 4)
5. Firefighting Measures (Section 5)
6. Accidental Release Measures (Section 6)
7. Handling and Storage (Section 7)
8. Exposure Controls/Personal Protection (Section 8)
9. Physical and Chemical Properties (Section 9)

For each section, provide the approximate paragraph numbers where they start and end.
Format your response as JSON with section names as keys and objects containing "start" and "end" values.
`

// identityWindow bounds the identification pass to the document head
// where section 1 lives; structureWindow bounds the section hint pass.
const (
	identityWindow  = 3000
	structureWindow = 5000
)

// pass runs one specialized completion and decodes the reply. Failures
// return nil: specialized passes are best effort and never abort a run.
func (c *Consolidator) pass(ctx context.Context, name, system, prompt, text string) map[string]any {
	reply, _, err := c.ex.Complete(ctx, system, prompt+text)
	if err != nil {
		c.log.Warn("consolidate.pass_failed", "pass", name, "error", err)
		return nil
	}
	doc, err := llm.DecodeModelJSON(reply)
	if err != nil {
		c.log.Warn("consolidate.pass_parse_failed", "pass", name, "reply_len", len(reply))
		return nil
	}
	return doc
}

func (c *Consolidator) hazardPass(ctx context.Context, text string) map[string]any {
	return c.pass(ctx, "hazard", hazardSystem, hazardPrompt, text)
}

func (c *Consolidator) firstAidPass(ctx context.Context, text string) map[string]any {
	return c.pass(ctx, "first_aid", firstAidSystem, firstAidPrompt, text)
}

func (c *Consolidator) firefightingPass(ctx context.Context, text string) map[string]any {
	return c.pass(ctx, "firefighting", firefightingSystem, firefightingPrompt, text)
}

func (c *Consolidator) identityPass(ctx context.Context, text string) map[string]any {
	return c.pass(ctx, "identification", identitySystem, identityPrompt, head(text, identityWindow))
}

func (c *Consolidator) propertiesPass(ctx context.Context, text string) map[string]any {
	return c.pass(ctx, "properties", propertiesSystem, propertiesPrompt, text)
}

func head(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// flattenPairs renders a structured pass result as "Key: value; ..."
// with empty values skipped and keys sorted for stable output.
func flattenPairs(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		v := normalize.FlattenValue(m[k])
		if v == "" {
			continue
		}
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, "; ")
}

// asList coerces a decoded JSON value into a string slice. A bare
// non-empty string becomes a single-element list.
func asList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			if s := normalize.FlattenValue(it); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{t}
	default:
		return nil
	}
}
