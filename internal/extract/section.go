package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/chemtrack/sds-extractor/internal/document"
	"github.com/chemtrack/sds-extractor/internal/normalize"
	"github.com/chemtrack/sds-extractor/internal/sds"
)

// sectionTargets maps an SDS section number to the fields extracted from
// that section's content only.
var sectionTargets = map[string][]string{
	"1":  {sds.FieldProductName, sds.FieldSupplier},
	"2":  {sds.FieldHealthHazards},
	"3":  {sds.FieldChemicalID, sds.FieldCASNumber},
	"4":  {sds.FieldFirstAid},
	"5":  {sds.FieldFirefighting},
	"7":  {sds.FieldStorageUse},
	"12": {sds.FieldEnvHazards},
}

var sectionProductRules = []Rule{
	rule("product-name-line", `(?i)product\s+name[:\s]+(.*?)(?:\n|$)`),
	rule("product-identifier-line", `(?i)product\s+identifier[:\s]+(.*?)(?:\n|$)`),
}

var sectionCASRules = []Rule{
	rule("cas-no", `(?is)CAS(?:[\s-]*No\.?|[-\s]*Number)[:\s]*([\d\-]+)`),
	rule("cas-bare", `(?is)CAS[:\s]*([\d\-]+)`),
}

var sectionChemIDRules = []Rule{
	rule("chemical-name-line", `(?is)Chemical(?:\s+name|\s+identification)[:\s]+(.*?)(?:\n|$)`),
	rule("substance-line", `(?is)Substance(?:\s+name)?[:\s]+(.*?)(?:\n|$)`),
	rule("formula-line", `(?is)Formula[:\s]+(.*?)(?:\n|$)`),
}

var sectionClassificationRules = []Rule{
	rule("classification", `(?is)Classification[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|$)`),
	rule("hazard-classification", `(?is)Hazard(?:\s+Classification|\s+class)[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|Precautionary|$)`),
	rule("ghs-classification", `(?is)(?:GHS|CLP)\s+Classification[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|$)`),
}

var sectionSupplierRules = []Rule{
	rule("supplier-line", `(?is)(?:Supplier|Manufacturer|Company)[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|Emergency)`),
	rule("details-line", `(?is)Details of the supplier[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|Emergency)`),
}

var (
	hStatementLineRe = regexp.MustCompile(`(?i)H\d{3}(?:\+\d{3})*[:\s]+(.*?)(?:\n|$)`)
	pStatementLineRe = regexp.MustCompile(`(?i)P\d{3}(?:\+\d{3})*[:\s]+(.*?)(?:\n|$)`)
	tableHeaderRe    = regexp.MustCompile(`(?i)(?:CAS|EC|Index)[\s-]*No\.?.*?(?:\n|$)`)
	addressRe        = regexp.MustCompile(`(?is)Address[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|$)`)
	companyRe        = regexp.MustCompile(`(?is)Company[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|$)`)
	phoneRe          = regexp.MustCompile(`(?i)(?:Phone|Tel)[:\s]+(.*?)(?:\n|$)`)
	storageSubRe     = regexp.MustCompile(`(?is)Storage[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|$)`)
	handlingSubRe    = regexp.MustCompile(`(?is)Handling[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|$)`)
	lineRe           = regexp.MustCompile(`[^\n]+`)
)

// firstAidCategories and firefightingSubheads are the fixed sub-heading
// sets the per-section parsers look for, in output order.
var firstAidCategories = []string{"Inhalation", "Skin contact", "Eye contact", "Ingestion"}

var firefightingSubheads = []struct {
	Name string
	Re   *regexp.Regexp
}{
	{"Extinguishing media", regexp.MustCompile(`(?is)(?:suitable|recommended)\s+extinguishing\s+media:?\s*(.*?)(?:\n\s*[A-Z]|$)`)},
	{"Special hazards", regexp.MustCompile(`(?is)(?:special|unusual)\s+hazards:?\s*(.*?)(?:\n\s*[A-Z]|$)`)},
	{"Advice for firefighters", regexp.MustCompile(`(?is)(?:advice|protection)\s+for\s+firefighters:?\s*(.*?)(?:\n\s*[A-Z]|$)`)},
	{"Hazardous combustion", regexp.MustCompile(`(?is)hazardous\s+combustion\s+products:?\s*(.*?)(?:\n\s*[A-Z]|$)`)},
}

// ExtractSectionBased segments the document and runs the per-section
// parsers against each target section's content. Sections absent from the
// document are silently skipped; their fields stay empty.
func ExtractSectionBased(text string) sds.Record {
	sections := document.Segment(text)
	data := sds.NewRecord()

	for number, fields := range sectionTargets {
		sec, ok := sections[number]
		if !ok {
			continue
		}
		for _, field := range fields {
			switch field {
			case sds.FieldProductName:
				data[field] = Apply(sec.Content, sectionProductRules)
			case sds.FieldCASNumber:
				data[field] = Apply(sec.Content, sectionCASRules)
			case sds.FieldChemicalID:
				data[field] = compositionInfo(sec.Content)
			case sds.FieldHealthHazards:
				data[field] = hazardClassification(sec.Content)
			case sds.FieldFirstAid:
				data[field] = firstAidMeasures(sec.Content)
			case sds.FieldFirefighting:
				data[field] = firefightingMeasures(sec.Content)
			case sds.FieldStorageUse:
				data[field] = storagePrecautions(sec.Content)
			case sds.FieldSupplier:
				data[field] = supplierInfo(sec.Content)
			case sds.FieldEnvHazards:
				data[field] = normalize.Value(sec.Content)
			}
		}
	}
	return data
}

// compositionInfo pulls the chemical identity from section 3, falling back
// to the cleaned section body with ingredient-table headers stripped.
func compositionInfo(content string) string {
	if id := Apply(content, sectionChemIDRules); id != "" {
		return id
	}
	cleaned := tableHeaderRe.ReplaceAllString(content, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if utf8.RuneCountInString(cleaned) > 200 {
		return string([]rune(cleaned)[:197]) + "..."
	}
	return cleaned
}

// hazardClassification reads section 2: a worded classification when one
// exists, otherwise the H-statement texts joined together.
func hazardClassification(content string) string {
	if hc := Apply(content, sectionClassificationRules); hc != "" {
		return hc
	}
	var statements []string
	for _, m := range hStatementLineRe.FindAllStringSubmatch(content, -1) {
		statements = append(statements, m[1])
	}
	return strings.Join(statements, ", ")
}

// firstAidMeasures concatenates "Heading: text" lines for the fixed
// first-aid sub-headings. When none are present, it falls back to the
// first few non-empty lines, skipping a leading title line that repeats
// the section name.
func firstAidMeasures(content string) string {
	var b strings.Builder
	for _, category := range firstAidCategories {
		short := regexp.MustCompile(`(?i)` + category + `[^\n]*?:([^\n]*)`)
		m := short.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		measure := strings.TrimSpace(m[1])
		extended := regexp.MustCompile(`(?is)` + category + `[^\n]*?:(.*?)(?:\n\s*[A-Z][a-z]+\s*:|\z)`)
		if em := extended.FindStringSubmatch(content); em != nil {
			measure = strings.TrimSpace(em[1])
		}
		b.WriteString(category)
		b.WriteString(": ")
		b.WriteString(measure)
		b.WriteString("\n")
	}
	out := b.String()
	if out == "" {
		out = leadingLines(content, "first aid", 3)
	}
	return normalize.Value(out)
}

// firefightingMeasures is the section-5 counterpart with its own fixed
// sub-heading set.
func firefightingMeasures(content string) string {
	var b strings.Builder
	for _, sub := range firefightingSubheads {
		m := sub.Re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		b.WriteString(sub.Name)
		b.WriteString(": ")
		b.WriteString(strings.Join(strings.Fields(m[1]), " "))
		b.WriteString("\n")
	}
	out := b.String()
	if out == "" {
		out = leadingLines(content, "firefighting", 2)
	}
	return normalize.Value(out)
}

// storagePrecautions reads section 7: P-statement texts when listed,
// otherwise the Storage/Handling sub-matches.
func storagePrecautions(content string) string {
	var texts []string
	for _, m := range pStatementLineRe.FindAllStringSubmatch(content, -1) {
		texts = append(texts, m[1])
	}
	if len(texts) > 0 {
		return strings.Join(texts, ", ")
	}

	var parts []string
	if m := storageSubRe.FindStringSubmatch(content); m != nil {
		parts = append(parts, "Storage: "+strings.TrimSpace(m[1]))
	}
	if m := handlingSubRe.FindStringSubmatch(content); m != nil {
		parts = append(parts, "Handling: "+strings.TrimSpace(m[1]))
	}
	return strings.Join(parts, " ")
}

// supplierInfo combines Company / Address / Phone sub-matches from
// section 1 into one comma-joined string.
func supplierInfo(content string) string {
	if s := Apply(content, sectionSupplierRules); s != "" {
		return s
	}
	var parts []string
	if m := companyRe.FindStringSubmatch(content); m != nil {
		parts = append(parts, strings.TrimSpace(m[1]))
	}
	if m := addressRe.FindStringSubmatch(content); m != nil {
		parts = append(parts, strings.TrimSpace(m[1]))
	}
	if m := phoneRe.FindStringSubmatch(content); m != nil {
		parts = append(parts, "Phone: "+strings.TrimSpace(m[1]))
	}
	return strings.Join(parts, ", ")
}

// leadingLines returns up to n lines of content, skipping the first line
// when it repeats the section title.
func leadingLines(content, titleWord string, n int) string {
	lines := lineRe.FindAllString(content, -1)
	if len(lines) == 0 {
		return ""
	}
	start := 0
	if strings.Contains(strings.ToLower(lines[0]), titleWord) {
		start = 1
	}
	end := start + n
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}
