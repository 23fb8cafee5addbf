package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemtrack/sds-extractor/constants"
	"github.com/chemtrack/sds-extractor/internal/sds"
)

func TestMergeAutomaticPatternWinsWhenUsable(t *testing.T) {
	pattern := sds.NewRecord()
	section := sds.NewRecord()
	pattern[sds.FieldProductName] = "Acetone"
	section[sds.FieldProductName] = "Something else"

	merged := mergeAutomatic(pattern, section)
	assert.Equal(t, "Acetone", merged[sds.FieldProductName])
}

func TestMergeAutomaticShortPatternLosesToSection(t *testing.T) {
	pattern := sds.NewRecord()
	section := sds.NewRecord()
	pattern[sds.FieldProductName] = "ab" // noise, at or below the threshold
	section[sds.FieldProductName] = "Acetone"

	merged := mergeAutomatic(pattern, section)
	assert.Equal(t, "Acetone", merged[sds.FieldProductName])
}

func TestMergeAutomaticBothShortYieldsEmpty(t *testing.T) {
	pattern := sds.NewRecord()
	section := sds.NewRecord()
	pattern[sds.FieldFlashPoint] = "x"
	section[sds.FieldFlashPoint] = "yz"

	merged := mergeAutomatic(pattern, section)
	assert.Empty(t, merged[sds.FieldFlashPoint])
}

func TestMergeAutomaticNeverReplacesUsableWithEmpty(t *testing.T) {
	pattern := sds.NewRecord()
	section := sds.NewRecord()
	for _, field := range sds.Fields {
		pattern[field] = "pattern value"
	}

	merged := mergeAutomatic(pattern, section)
	for _, field := range sds.Fields {
		assert.Equal(t, "pattern value", merged[field], field)
	}
}

func TestOrchestratorAutomaticEndToEnd(t *testing.T) {
	o := New(nil)
	rec, err := o.Extract(nmpSDS, constants.StrategyAutomatic)
	require.NoError(t, err)

	assert.Equal(t, "872-50-4", rec[sds.FieldCASNumber])
	assert.Contains(t, rec[sds.FieldFlashPoint], "91")
	// Known-substance override applies after the merge.
	assert.Equal(t, NMPHealthHazards, rec[sds.FieldHealthHazards])
	assert.Equal(t, "amine", rec[sds.FieldOdour])

	for _, field := range sds.Fields {
		_, ok := rec[field]
		assert.True(t, ok, "missing canonical key %q", field)
	}
}

func TestOrchestratorUnknownStrategy(t *testing.T) {
	o := New(nil)
	_, err := o.Extract("text", constants.Strategy("bogus"))
	assert.Error(t, err)
}

func TestOrchestratorSectionStrategy(t *testing.T) {
	o := New(nil)
	rec, err := o.Extract(sectionedSDS, constants.StrategySection)
	require.NoError(t, err)

	assert.Equal(t, "Acetone", rec[sds.FieldProductName])
	assert.Equal(t, "67-64-1", rec[sds.FieldCASNumber])
}
