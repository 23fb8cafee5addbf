package llm

import (
	"strconv"
	"strings"
)

// SystemPrompt frames every extraction call.
const SystemPrompt = "You are a chemical safety expert specializing in SDS document analysis. " +
	"Extract precise information and format as JSON."

var fieldInstructions = []string{
	"Product Name: The exact product name/identifier",
	"CAS Number: The Chemical Abstract Service registry number (format: xxx-xx-x)",
	"Chemical Identification: Chemical name or formula",
	"Health Hazards: List all health hazard classifications exactly as follows if present:\n" +
		"   - Reproductive Toxicity\n" +
		"   - Skin irritation\n" +
		"   - Eye irritation\n" +
		"   - Specific target organ toxicity, single exposure, Respiratory tract irritation",
	"Health Category: GHS health hazard category numbers (e.g., Category 1, 2A, etc.)",
	"Physical Hazards: Physical hazard classifications",
	"Physical Category: GHS physical hazard category numbers",
	"Flash Point: The flash point temperature in degrees Celsius",
	"Appearance: Physical appearance description",
	"Odour: Description of smell/odour (e.g., amine, pungent, etc.)",
	"Colour: Color description",
	"Storage Use: Storage requirements/conditions",
	"Supplier/Manufacturer: Company name that supplies/manufactures the chemical",
	"Dangerous Goods Class: Transportation hazard class if applicable",
	"Packing Group: The packing group (I, II, or III) if applicable",
	"Environmental Hazards: Any environmental hazard information",
	"First Aid Measures: Detailed first aid procedures from Section 4",
	"Firefighting Measures: Firefighting instructions and recommendations from Section 5",
}

// BuildExtractionPrompt renders the full-document extraction request. The
// trailing instruction pins the known-substance wording so that model
// output and local overrides agree.
func BuildExtractionPrompt(text, filename string) string {
	var b strings.Builder
	b.WriteString("You are a chemical safety expert tasked with extracting precise information from a Safety Data Sheet (SDS).\n")
	b.WriteString("Extract the following information from the provided SDS document:\n\n")
	for i, inst := range fieldInstructions {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(inst)
		b.WriteString("\n")
	}
	b.WriteString("\nPlease ensure you extract ONLY facts present in the document. If information for a field is not found, leave it blank.\n")
	b.WriteString("Format your response as a JSON object with these field names as keys.\n")
	if filename != "" {
		b.WriteString("\nSource file: ")
		b.WriteString(filename)
		b.WriteString("\n")
	}
	b.WriteString("\nSDS Document:\n")
	b.WriteString(text)
	b.WriteString("\n\nIf the SDS document appears to be for 1-Methyl-2-pyrrolidone, ensure the Health Hazards includes exactly: \"")
	b.WriteString("Reproductive Toxicity; Skin irritation; Eye irritation; Specific target organ toxicity, single exposure, Respiratory tract irritation")
	b.WriteString("\" and the Odour is \"amine\".\n")
	return b.String()
}
