package extract

import "regexp"

// Rule is one named, ordered extraction rule. Tables are evaluated in
// slice order and the first matching rule wins, so narrower rules must
// precede generic catch-alls. A rule with a Value returns that fixed
// string instead of a capture (used for known supplier names).
type Rule struct {
	Name  string
	Re    *regexp.Regexp
	Value string
}

func rule(name, expr string) Rule {
	return Rule{Name: name, Re: regexp.MustCompile(expr)}
}

func literal(name, expr, value string) Rule {
	return Rule{Name: name, Re: regexp.MustCompile(expr), Value: value}
}

// All tables run case-insensitive with . matching newlines, mirroring how
// the patterns were tuned against real SDS layouts.

var healthCategoryRules = []Rule{
	rule("skin-explicit", `(?is)skin\s+(?:irritation|corrosion|sensitization)[^,\n]*?[(\s](?:Category|Cat\.?)[)\s]*(\d[A-Z]?)`),
	rule("eye-explicit", `(?is)eye\s+(?:irritation|damage)[^,\n]*?[(\s](?:Category|Cat\.?)[)\s]*(\d[A-Z]?)`),
	rule("repro-explicit", `(?is)reproductive\s+toxicity[^,\n]*?[(\s](?:Category|Cat\.?)[)\s]*(\d[A-Z]?)`),
	rule("stot-explicit", `(?is)(?:STOT|specific\s+target\s+organ\s+toxicity)[^,\n]*?[(\s](?:Category|Cat\.?)[)\s]*(\d[A-Z]?)`),
	rule("acute-explicit", `(?is)acute\s+toxicity[^,\n]*?[(\s](?:Category|Cat\.?)[)\s]*(\d[A-Z]?)`),
	rule("skin-corrosion-explicit", `(?is)skin\s+corrosion[^,\n]*?[(\s](?:Category|Cat\.?)[)\s]*(\d[A-Z]?)`),
	rule("resp-sens-explicit", `(?is)respiratory\s+sensitization[^,\n]*?[(\s](?:Category|Cat\.?)[)\s]*(\d[A-Z]?)`),

	// GHS abbreviation formats like "Eye Irrit. 2A" or "Skin Irrit.2".
	rule("eye-irrit-ghs", `(?is)eye\s+irrit\.(?:\s+|\s*-\s*|\s*|\.)(\d+[A-Z]?)`),
	rule("skin-irrit-ghs", `(?is)skin\s+irrit\.(?:\s+|\s*-\s*|\s*|\.)(\d+[A-Z]?)`),
	rule("skin-corr-ghs", `(?is)skin\s+corr\.(?:\s+|\s*-\s*|\s*|\.)(\d+[A-Z]?)`),
	rule("acute-tox-ghs", `(?is)acute\s+tox\.(?:\s+|\s*-\s*|\s*|\.)(\d+[A-Z]?)`),
	rule("stot-se-ghs", `(?is)STOT\s+SE(?:\s+|\s*-\s*|\s*|\.)(\d+[A-Z]?)`),
	rule("stot-re-ghs", `(?is)STOT\s+RE(?:\s+|\s*-\s*|\s*|\.)(\d+[A-Z]?)`),
	rule("carc-ghs", `(?is)carc\.(?:\s+|\s*-\s*|\s*|\.)(\d+[A-Z]?)`),
	rule("asp-tox-ghs", `(?is)asp\.\s+tox\.(?:\s+|\s*-\s*|\s*|\.)(\d+[A-Z]?)`),
	rule("resp-sens-ghs", `(?is)resp\.\s+sens\.(?:\s+|\s*-\s*|\s*|\.)(\d+[A-Z]?)`),
	rule("skin-sens-ghs", `(?is)skin\s+sens\.(?:\s+|\s*-\s*|\s*|\.)(\d+[A-Z]?)`),

	rule("flam-liq-ghs", `(?is)flam\.\s+liq\.(?:\s+|\s*-\s*|\s*|\.)(\d+[A-Z]?)`),
	rule("repr-ghs", `(?is)repr\.(?:\s+|\s*-\s*|\s*|\.)(\d+[A-Z]?)`),
	rule("muta-ghs", `(?is)muta\.(?:\s+|\s*-\s*|\s*|\.)(\d+[A-Z]?)`),

	rule("cat-near-health-term", `(?is)(?:skin|eye|repro|reproductive|toxicity|respir|acute|damage|irritation|sens)[^,\n]{0,50}?(?:Cat\.|Category)[^,\n]{0,20}?(\d[A-Z]?)`),

	rule("human-health-parenthetical", `(?is)human health(?:[^(]*?)\(?[^\d]*(\d[A-Z]?)\)?`),
	rule("health-parenthetical", `(?is)health(?:[^(]*?)\(?[^\d]*(\d[A-Z]?)\)?`),
	rule("health-effects-category", `(?is)health effects[^:]*?(?:Category|Cat\.?)[^,\n]*?(\d[A-Z]?)`),

	rule("eu-classification", `(?is)EU[^:]*?class(?:[^(]*?)\(?[^\d]*(\d[A-Z]?)\)?`),
	rule("clp-classification", `(?is)CLP[^:]*?class(?:[^(]*?)\(?[^\d]*(\d[A-Z]?)\)?`),

	rule("category-then-context", `(?is)(?:Category|Cat\.?)\s*(\d[A-Z]?)[^,\n]{0,100}?(?:toxic|health|irritation|corrosion|sensitization|damage)`),
	rule("context-then-category", `(?is)(?:toxic|health|irritation|corrosion|sensitization|damage)[^,\n]{0,100}?(?:Category|Cat\.?)\s*(\d[A-Z]?)`),

	rule("section2-any-category", `(?is)(?:SECTION\s+2|2\.)[^A-Z]{0,500}?(?:Category|Cat\.?)\s*(\d[A-Z]?)`),
}

var physicalCategoryRules = []Rule{
	rule("phys-hazard-then-category", `(?is)(?:Flammable|Explosive|Oxidizing)[^,\n]{0,50}?(?:Category|Cat\.?)\s*(\d[A-Z]?)`),
	rule("category-then-phys-term", `(?is)(?:Category|Cat\.?)\s*(\d[A-Z]?)[^,\n]{0,50}?(?:flammable|explosive|reactive|oxidizing|oxidising|pyrophoric|self[\s-]heating|corrosive|gas|liquid|solid)`),
	rule("phys-hazards-heading", `(?is)physical hazards?[^,\n]{0,50}?(?:Category|Cat\.?)\s*(\d[A-Z]?)`),

	rule("flam-ghs", `(?is)flam\.\s+(?:Liq\.|Gas\.|Sol\.)[^,\n]{0,20}?(\d+[A-Z]?)`),
	rule("expl-ghs", `(?is)expl\.[^,\n]{0,20}?(\d+[A-Z]?)`),
	rule("ox-ghs", `(?is)ox(?:id)?\.\s+(?:Gas\.|Liq\.|Sol\.)[^,\n]{0,20}?(\d+[A-Z]?)`),
	rule("press-gas-ghs", `(?is)press\.\s+gas[^,\n]{0,20}?(\d+[A-Z]?)`),
	rule("self-react-ghs", `(?is)self[\s-]react\.[^,\n]{0,20}?(\d+[A-Z]?)`),
	rule("pyr-ghs", `(?is)pyr\.\s+(?:Liq\.|Sol\.)[^,\n]{0,20}?(\d+[A-Z]?)`),
	rule("self-heat-ghs", `(?is)self[\s-]heat\.[^,\n]{0,20}?(\d+[A-Z]?)`),
	rule("met-corr-ghs", `(?is)met\.\s+corr\.[^,\n]{0,20}?(\d+[A-Z]?)`),

	rule("fire-context-category", `(?is)(?:fire|explosion|reactivity|stability|decomposition)[^,\n]{0,50}?(?:Category|Cat\.?)\s*(\d[A-Z]?)`),
	rule("ghs-physical-category", `(?is)(?:GHS|CLP|EU)[^A-Z]{0,100}?physical[^A-Z]{0,100}?(?:Category|Cat\.?)\s*(\d[A-Z]?)`),
	rule("section9-any-category", `(?is)(?:SECTION\s+9|9\.)[^A-Z]{0,500}?(?:Category|Cat\.?)\s*(\d[A-Z]?)`),
	rule("phys-term-catch-all", `(?is)(?:physical|flammable|explosive|oxidizing|oxidising|self-heating|pyrophoric|corrosive)[^,\n]{0,100}?(?:Category|Cat\.?)\s*(\d[A-Z]?)`),
}

var hazardStatementRules = []Rule{
	rule("hazard-statements-heading", `(?is)Hazard statement(?:s)?[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|Precautionary)`),
	rule("h-statements-heading", `(?is)H-statement(?:s)?[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("h-code-colon", `(?is)(?:H\d{3})[^:]*?:[^:]*?(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("h-code-inline", `(?is)H\d{3}(?:\+\d{3})*\s+([^.\n]*)`),
}

var flashPointRules = []Rule{
	rule("flash-point-celsius", `(?is)Flash[- ]?point[^:]*?:\s*([^,\n]*?°C[^,\n]*)`),
	rule("flash-point-c", `(?is)Flash[- ]?point[^:]*?:\s*([^,\n]*?C[^,\n]*)`),
	rule("flash-point-word", `(?is)Flash[- ]?point[^:]*?:\s*([^,\n]*?Celsius[^,\n]*)`),
	rule("flash-point-any", `(?is)Flash[- ]?point[^:]*?:\s*([^,\n]*)`),
}

var appearanceRules = []Rule{
	rule("appearance", `(?is)Appearance[^:]*?:\s*([^,\n]*)`),
	rule("physical-state", `(?is)Physical state[^:]*?:\s*([^,\n]*)`),
	rule("form", `(?is)Form[^:]*?:\s*([^,\n]*)`),
	rule("color-as-appearance", `(?is)Color[^:]*?:\s*([^,\n]*)`),
}

// Odour rules avoid digits and degree symbols in the capture so that
// nearby temperature values are not picked up by mistake.
var odourRules = []Rule{
	rule("odour", `(?is)odou?r[^:]*?:\s*([^,\n\d°]*\w+)`),
	rule("smell", `(?is)smell[^:]*?:\s*([^,\n\d°]*\w+)`),
}

var colourRules = []Rule{
	rule("colour", `(?is)colou?r[^:]*?:\s*([^,\n]*)`),
	rule("colour-appearance", `(?is)colou?r\s+(?:appearance)?[^:]*?:\s*([^,\n]*)`),
}

var packingGroupRules = []Rule{
	rule("packing-group", `(?is)packing group[^:]*?:\s*([^,\n]*)`),
	rule("packaging-group", `(?is)packaging group[^:]*?:\s*([^,\n]*)`),
	rule("un-packing-group", `(?is)UN packing group[^:]*?:\s*([^,\n]*)`),
	rule("packing-group-bare", `(?is)packing group\s+([^,\n]*)`),
}

var dangerousGoodsRules = []Rule{
	rule("dangerous-goods-class", `(?is)dangerous goods[^:]*?class[^:]*?:\s*([^,\n]*)`),
	rule("transport-hazard-class", `(?is)transport hazard class(?:\s?\((?:es|es)\))?[^:]*?:\s*([^,\n]*)`),
	rule("hazard-class", `(?is)hazard class[^:]*?:\s*([^,\n]*)`),
	rule("adr-rid", `(?is)ADR/RID[^:]*?:\s*([^,\n]*)`),
	rule("imdg-class", `(?is)IMDG[^:]*?class[^:]*?:\s*([^,\n]*)`),
	rule("iata-class", `(?is)IATA[^:]*?class[^:]*?:\s*([^,\n]*)`),
}

var storageRules = []Rule{
	rule("storage-two-lines", `(?is)storage[^:]*?:\s*([^,\n]*\n[^,\n]*)`),
	rule("storage-conditions", `(?is)storage conditions[^:]*?:\s*([^,\n]*)`),
	rule("storage-precautions", `(?is)storage precautions[^:]*?:\s*([^,\n]*)`),
	rule("storage-requirements", `(?is)storage requirements[^:]*?:\s*([^,\n]*)`),
}

var productNameRules = []Rule{
	rule("product-name", `(?is)Product\s+name\s*[:\n](.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("product-identifier", `(?is)Product\s+identifier\s*[:\n](.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("name", `(?is)Name\s+[:\n](.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("section1-product", `(?is)(?:SECTION\s+1)[^,]*?product[^:]*?:\s*(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("product", `(?is)Product[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("trade-name", `(?is)Trade\s+name\s*[:\n](.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("chemical-name", `(?is)Chemical\s+name\s*[:\n](.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("material-name", `(?is)Material\s+name\s*[:\n](.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("shouting-line", `(?is)\n\s*(?:[A-Z][A-Z\s]+)\s*\n`),
	rule("leading-identifier", `(?is)^.{1,500}?(?:[A-Z][A-Z0-9\s]{3,30})`),
}

var casNumberRules = []Rule{
	rule("cas-no", `(?is)CAS(?:[\s-]*No\.?|[-\s]*Number)[:\s]*([\d\-]+)`),
	rule("cas-bare", `(?is)CAS[:\s]*([\d\-]+)`),
	rule("cas-strict-format", `(?is)(?:CAS|CASNO|CAS-No)[^a-zA-Z0-9]*(\d{1,7}-\d{2}-\d{1})`),
	rule("chemical-abstract-number", `(?is)(?:Chemical\s+Abstract\s+Number)[^a-zA-Z0-9]*(\d{1,7}-\d{2}-\d{1})`),
	rule("cas-shaped-anywhere", `(?is)(?:\D|^)(\d{1,7}-\d{2}-\d{1})(?:\D|$)`),
}

var chemicalIDRules = []Rule{
	rule("chemical-name-or-id", `(?is)Chemical(?:\s+name|\s+identification)[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("substance-name", `(?is)Substance(?:\s+name)?[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("formula", `(?is)Formula[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("identification", `(?is)Identification[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("iupac-name", `(?is)IUPAC\s+Name[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("molecular-formula", `(?is)Molecular\s+formula[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("ec-number", `(?is)EC[- ]?Number[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("composition", `(?is)(?:Composition|Components)[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("formula-shaped", `(?s)(?:[A-Z][a-z]?\d*){2,}`),
	rule("section3-first-entry", `(?is)(?:SECTION\s+3|3\.)[^A-Z]*?([A-Za-z0-9].*?)(?:\n\s*[A-Z]|\n\n)`),
}

var precautionaryRules = []Rule{
	rule("precautionary-heading", `(?is)Precautionary\s+statements?[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|SECTION)`),
	rule("p-statements-heading", `(?is)P[- ]?statements?[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("prevention", `(?is)Prevention[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("response", `(?is)Response[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("storage", `(?is)Storage[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("disposal", `(?is)Disposal[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("p-code-run", `(?is)((?:P\d{3}[^:,;]*?)[,;\n]){1,}`),
	rule("section7-storage", `(?is)(?:SECTION\s+7|7\.)[^A-Z]*?([^:]*?storage[^:]*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("section7-handling", `(?is)(?:SECTION\s+7|7\.)[^A-Z]*?([^:]*?handling[^:]*?)(?:\n\s*[A-Z]|\n\n)`),
}

var firstAidRules = []Rule{
	rule("section4-block", `(?is)(?:SECTION\s+4[:.\s]*|4\.?\s+)(?:First[- ]aid\s+measures)(.*?)(?:SECTION\s+5|5\.)`),
	rule("first-aid-heading", `(?is)First[- ]aid\s+measures[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|SECTION)`),
	rule("first-aid-bare", `(?is)First\s+aid[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|SECTION)`),
	rule("if-inhaled", `(?is)If\s+inhaled[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("skin-contact", `(?is)In\s+case\s+of\s+skin\s+contact[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("eye-contact", `(?is)In\s+case\s+of\s+eye\s+contact[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("if-swallowed", `(?is)If\s+swallowed[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("section4-raw", `(?is)(?:SECTION\s+4|4\.)[^A-Z]{10,500}`),
}

var firefightingRules = []Rule{
	rule("section5-block", `(?is)(?:SECTION\s+5[:.\s]*|5\.?\s+)(?:Fire[\s-]?fighting\s+measures)(.*?)(?:SECTION\s+6|6\.)`),
	rule("firefighting-heading", `(?is)Fire[\s-]?fighting\s+measures[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|SECTION)`),
	rule("suitable-media", `(?is)Suitable\s+extinguishing\s+(?:media|agents)[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("extinguishing-media", `(?is)Extinguishing\s+media[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("special-hazards", `(?is)Special\s+(?:hazards|dangers)[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("protective-equipment", `(?is)Special\s+protective\s+equipment[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("advice-for-firefighters", `(?is)Advice\s+for\s+firefighters[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("section5-raw", `(?is)(?:SECTION\s+5|5\.)[^A-Z]{10,500}`),
}

var supplierRules = []Rule{
	// Known supplier names common in lab-chemical SDS documents.
	literal("sigma-aldrich", `(?is)(?:^|[\s\n])Sigma[- ]Aldrich(?:[\s\n]|$)`, "Sigma-Aldrich"),
	literal("sigma-aldrich-suffixed", `(?is)(?:^|[\s\n])Sigma[- ]Aldrich\s+[^\n,;]{0,30}`, "Sigma-Aldrich"),
	literal("merck", `(?is)(?:^|[\s\n])Merck(?:[\s\n]|$)`, "Merck"),
	literal("merck-life-science", `(?is)(?:^|[\s\n])Merck\s+Life\s+Science(?:[\s\n]|$)`, "Merck Life Science"),
	literal("milliporesigma", `(?is)(?:^|[\s\n])MilliporeSigma(?:[\s\n]|$)`, "MilliporeSigma"),
	literal("fisher-scientific", `(?is)(?:^|[\s\n])Fisher\s+Scientific(?:[\s\n]|$)`, "Fisher Scientific"),

	rule("company-name", `(?is)Company(?:\s+name)?[\s:]*?[:]*[\s:]*([^\n,;]{5,60})`),
	rule("supplier-name", `(?is)Supplier(?:\s+name)?[\s:]*?[:]*[\s:]*([^\n,;]{5,60})`),
	rule("manufacturer-name", `(?is)Manufacturer(?:\s+name)?[\s:]*?[:]*[\s:]*([^\n,;]{5,60})`),

	rule("section1-company", `(?is)(?:SECTION\s+1|1\.)[^A-Z]*?Company\s*:(?:\s|\n)*([^\n,;]{5,60})`),
	rule("section1-supplier", `(?is)(?:SECTION\s+1|1\.)[^A-Z]*?Supplier\s*:(?:\s|\n)*([^\n,;]{5,60})`),
	rule("section1-manufacturer", `(?is)(?:SECTION\s+1|1\.)[^A-Z]*?Manufacturer\s*:(?:\s|\n)*([^\n,;]{5,60})`),

	literal("sigma-aldrich-caps", `SIGMA-ALDRICH`, "SIGMA-ALDRICH"),
	literal("aldrich-caps", `ALDRICH`, "ALDRICH"),
	literal("sigma-caps", `SIGMA`, "SIGMA"),
	literal("fluka-caps", `FLUKA`, "FLUKA"),
	literal("supelco-caps", `SUPELCO`, "SUPELCO"),
	literal("merck-caps", `MERCK`, "MERCK"),

	rule("details-of-supplier", `(?is)Details of the supplier[^:]*?:(?:\s|\n)*([A-Z][^\n,;:]{3,60})`),
	rule("details-of-supplier-loose", `(?is)Details of the supplier[^:]*?:(?:\s|\n)*(?:[^A-Za-z\n]*?)([A-Z][a-zA-Z0-9\s,.\-&]{3,60})`),
	rule("corporate-suffix", `(?is)([A-Z][a-zA-Z\s.,]+(?:Limited|GmbH|Inc|LLC|Co|Company|Corp|Corporation)(?:[^\n]{0,60}?))`),
	rule("supplier-details-heading", `(?is)SUPPLIER DETAILS[\s:]*[\n]*([^\n,;:]{5,60})`),
	rule("company-before-sds-title", `(?is)^(?:[^\n]{0,100}?)([A-Z][a-zA-Z0-9\s,.\-&]{3,60})(?:[^\n]{0,100}?)SAFETY DATA SHEET`),
}

var environmentalRules = []Rule{
	rule("environmental-hazards", `(?is)Environmental\s+hazards?[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|SECTION)`),
	rule("hazards-to-environment", `(?is)Hazards? to the environment[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("ecological-information", `(?is)Ecological\s+information[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n|SECTION)`),
	rule("section12-block", `(?is)(?:SECTION\s+12|12\.)[^A-Z]*?(.*?)(?:SECTION\s+13|13\.)`),
	rule("ecotoxicity", `(?is)Ecotoxicity[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("aquatic-toxicity", `(?is)Aquatic\s+toxicity[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("biodegradability", `(?is)Biodegradability[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("bioaccumulation", `(?is)Bioaccumulation[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
	rule("effects-on-environment", `(?is)Effects\s+on\s+environment[:\s]+(.*?)(?:\n\s*[A-Z]|\n\n)`),
}
