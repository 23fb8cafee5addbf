package sds

// Fields is the fixed column set of the SDS register. Every canonical
// record carries exactly these keys; values may be empty but the keys are
// never absent.
var Fields = []string{
	"Product Name",
	"CAS Number",
	"Chemical Identification",
	"Health Hazards",
	"Health Category",
	"Physical Hazards",
	"Physical Category",
	"Flash Point",
	"Appearance",
	"Odour",
	"Colour",
	"Storage Use",
	"Supplier/Manufacturer",
	"Dangerous Goods Class",
	"Packing Group",
	"Environmental Hazards",
	"First Aid Measures",
	"Firefighting Measures",
}

// Named keys for the fields the extractors address directly.
const (
	FieldProductName   = "Product Name"
	FieldCASNumber     = "CAS Number"
	FieldChemicalID    = "Chemical Identification"
	FieldHealthHazards = "Health Hazards"
	FieldHealthCat     = "Health Category"
	FieldPhysHazards   = "Physical Hazards"
	FieldPhysCat       = "Physical Category"
	FieldFlashPoint    = "Flash Point"
	FieldAppearance    = "Appearance"
	FieldOdour         = "Odour"
	FieldColour        = "Colour"
	FieldStorageUse    = "Storage Use"
	FieldSupplier      = "Supplier/Manufacturer"
	FieldDGClass       = "Dangerous Goods Class"
	FieldPackingGroup  = "Packing Group"
	FieldEnvHazards    = "Environmental Hazards"
	FieldFirstAid      = "First Aid Measures"
	FieldFirefighting  = "Firefighting Measures"

	// FieldSourceFile is a provenance tag added outside the canonical set
	// (light-mode results carry it; the register stores it separately).
	FieldSourceFile = "Source File"

	// Intermediate keys produced by the pattern tables. They ride on
	// candidate records and are kept through normalization, but they are
	// not part of the fixed register column set.
	FieldHazardStatement = "Hazard Statement"
	FieldPrecautionary   = "Precautionary Statements"
)

// Record is a flat field map. Candidate records are produced by exactly
// one strategy; the canonical record is the consolidated output with the
// full fixed field set.
type Record map[string]string

// NewRecord returns a record with every canonical key present and empty.
func NewRecord() Record {
	r := make(Record, len(Fields))
	for _, f := range Fields {
		r[f] = ""
	}
	return r
}

// FillMissing adds any absent canonical key with an empty value.
func (r Record) FillMissing() {
	for _, f := range Fields {
		if _, ok := r[f]; !ok {
			r[f] = ""
		}
	}
}

// MergeMissing copies values from src for keys that are empty or absent
// in r. A non-empty value is never replaced by an empty one.
func (r Record) MergeMissing(src Record) {
	for k, v := range src {
		if v == "" {
			continue
		}
		if cur, ok := r[k]; !ok || cur == "" {
			r[k] = v
		}
	}
}
