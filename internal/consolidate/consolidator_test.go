package consolidate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemtrack/sds-extractor/constants"
	"github.com/chemtrack/sds-extractor/internal/llm"
	"github.com/chemtrack/sds-extractor/internal/sds"
)

// routingCompleter answers each pass by matching on the system prompt.
type routingCompleter struct {
	routes map[string]string // system-prompt substring -> reply
	err    error
	calls  int
}

func (r *routingCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	for needle, reply := range r.routes {
		if strings.Contains(system, needle) {
			return reply, nil
		}
	}
	return "{}", nil
}

func (r *routingCompleter) Provider() string { return "openai" }

func newTestConsolidator(rc *routingCompleter) *Consolidator {
	ex := llm.NewExtractor(rc, slog.Default()).WithPolicy(llm.BackoffPolicy{MaxAttempts: 1})
	return New(ex, slog.Default())
}

func TestHierarchicalFoldsPasses(t *testing.T) {
	rc := &routingCompleter{routes: map[string]string{
		"identification specialist": `{"Product Name": "Acetone", "CAS Number": "67-64-1", "Chemical Identification": "Propan-2-one", "Supplier/Manufacturer": "Example Ltd"}`,
		"GHS hazard classification": `{"GHS Classification": ["Flammable liquid Category 2", "Eye irritation Category 2A"], "Hazard Statements": ["H225", "H319"]}`,
		"first aid procedures":      `{"Inhalation": "fresh air", "Skin Contact": "wash with water", "Ingestion": ""}`,
		"firefighting procedures":   `{"Suitable Extinguishing Media": "water spray", "Special Hazards": ""}`,
		"properties specialist":     `{"Appearance": "clear liquid", "Colour": "colourless", "Odour": "sweet", "Flash Point": "-20 °C"}`,
	}}
	c := newTestConsolidator(rc)

	rec := c.Hierarchical(context.Background(), "sds text")

	assert.Equal(t, "Acetone", rec[sds.FieldProductName])
	assert.Equal(t, "67-64-1", rec[sds.FieldCASNumber])
	assert.Equal(t, "Flammable liquid Category 2; Eye irritation Category 2A", rec[sds.FieldHealthHazards])
	assert.Equal(t, "H225; H319", rec[sds.FieldHazardStatement])
	// Structured passes flatten with empty categories dropped.
	assert.Equal(t, "Inhalation: fresh air; Skin Contact: wash with water", rec[sds.FieldFirstAid])
	assert.Equal(t, "Suitable Extinguishing Media: water spray", rec[sds.FieldFirefighting])
	assert.Equal(t, "clear liquid", rec[sds.FieldAppearance])
	assert.Equal(t, "-20 °C", rec[sds.FieldFlashPoint])
}

func TestHierarchicalSurvivesFailedPasses(t *testing.T) {
	rc := &routingCompleter{err: errors.New("service unavailable")}
	c := newTestConsolidator(rc)

	rec := c.Hierarchical(context.Background(), "sds text")

	for _, field := range sds.Fields {
		assert.Empty(t, rec[field], field)
	}
}

func TestMultiPassFillsOnlyEmptyFields(t *testing.T) {
	direct := `{"Product Name": "Acetone", "Health Hazards": "already set", "CAS Number": ""}`
	rc := &routingCompleter{routes: map[string]string{
		"SDS document analysis":     direct,
		"identification specialist": `{"Product Name": "WRONG", "CAS Number": "67-64-1"}`,
		"GHS hazard classification": `{"GHS Classification": ["Acute toxicity Category 3"]}`,
	}}
	c := newTestConsolidator(rc)

	res, err := c.MultiPass(context.Background(), "sds text", "acetone.txt")
	require.NoError(t, err)

	// Direct value survives; hierarchical only fills the gap.
	assert.Equal(t, "Acetone", res.Record[sds.FieldProductName])
	assert.Equal(t, "already set", res.Record[sds.FieldHealthHazards])
	assert.Equal(t, "67-64-1", res.Record[sds.FieldCASNumber])
	assert.Equal(t, string(constants.StrategyMultiPass), res.Strategy)
}

func TestApplyHazardBucketsSplitsClassifications(t *testing.T) {
	rec := sds.NewRecord()
	applyHazardBuckets(rec, map[string]any{
		"GHS Classification": []any{
			"Acute toxicity Category 3",
			"Flammable liquid Category 2",
			"Skin irritation Category 2",
		},
		"Hazard Statements": []any{"H225", "H301"},
	})

	assert.Contains(t, rec[sds.FieldHealthHazards], "Acute toxicity Category 3")
	assert.Contains(t, rec[sds.FieldHealthHazards], "Skin irritation Category 2")
	assert.NotContains(t, rec[sds.FieldHealthHazards], "Flammable")
	assert.Equal(t, "Flammable liquid Category 2", rec[sds.FieldPhysHazards])
	assert.Equal(t, "3", rec[sds.FieldHealthCat])
	assert.Equal(t, "2", rec[sds.FieldPhysCat])
	assert.Equal(t, "H225; H301", rec[sds.FieldHazardStatement])
}

func TestApplyHazardBucketsNeverOverwrites(t *testing.T) {
	rec := sds.NewRecord()
	rec[sds.FieldHealthHazards] = "kept"
	rec[sds.FieldPhysCat] = "1"
	applyHazardBuckets(rec, map[string]any{
		"GHS Classification": []any{"Flammable liquid Category 2", "Acute toxicity Category 3"},
	})

	assert.Equal(t, "kept", rec[sds.FieldHealthHazards])
	assert.Equal(t, "1", rec[sds.FieldPhysCat])
	assert.Equal(t, "Flammable liquid Category 2", rec[sds.FieldPhysHazards])
}

func TestSpecializedPatchesFirstAidAndFirefighting(t *testing.T) {
	rc := &routingCompleter{routes: map[string]string{
		"SDS document analysis":   `{"Product Name": "Acetone", "First Aid Measures": "single-shot value"}`,
		"first aid procedures":    `{"Inhalation": "fresh air"}`,
		"firefighting procedures": `{"Suitable Extinguishing Media": "foam"}`,
	}}
	c := newTestConsolidator(rc)

	res, err := c.Extract(context.Background(), "sds text", "f.txt", constants.StrategySpecialized, false)
	require.NoError(t, err)

	assert.Equal(t, "Inhalation: fresh air", res.Record[sds.FieldFirstAid])
	assert.Equal(t, "Suitable Extinguishing Media: foam", res.Record[sds.FieldFirefighting])
	assert.Equal(t, string(constants.StrategySpecialized), res.Strategy)
}

func TestExtractLightModeSkipsModelCalls(t *testing.T) {
	rc := &routingCompleter{}
	c := newTestConsolidator(rc)

	res, err := c.Extract(context.Background(), "Odour: amine\n", "f.txt", constants.StrategyMultiPass, true)
	require.NoError(t, err)

	assert.True(t, res.Degraded)
	assert.Zero(t, rc.calls)
	assert.Equal(t, "f.txt", res.Record[sds.FieldSourceFile])
}

func TestExtractUnknownStrategy(t *testing.T) {
	c := newTestConsolidator(&routingCompleter{})
	_, err := c.Extract(context.Background(), "text", "f.txt", constants.Strategy("bogus"), false)
	assert.Error(t, err)
}

func TestHazardBucketsBothSidesForCorrosive(t *testing.T) {
	rec := sds.NewRecord()
	applyHazardBuckets(rec, map[string]any{
		"GHS Classification": []any{"Corrosive to metals Category 1"},
	})
	// "corrosive" is in both term sets.
	assert.Contains(t, rec[sds.FieldHealthHazards], "Corrosive to metals")
	assert.Contains(t, rec[sds.FieldPhysHazards], "Corrosive to metals")
}
