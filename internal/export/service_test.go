package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/chemtrack/sds-extractor/internal/repository"
	"github.com/chemtrack/sds-extractor/internal/sds"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()
	db, err := repository.Open(ctx, filepath.Join(t.TempDir(), "test.db"), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	register := repository.NewRegisterRepository(db, slog.Default())

	rec := sds.NewRecord()
	rec[sds.FieldProductName] = "Acetone"
	rec[sds.FieldCASNumber] = "67-64-1"
	rec[sds.FieldFlashPoint] = "-20 °C"
	_, err = register.Insert(ctx, rec, "acetone.txt")
	require.NoError(t, err)

	return NewService(register, slog.Default())
}

func TestExportRegisterCSV(t *testing.T) {
	svc := newTestService(t)

	data, err := svc.ExportRegisterCSV(context.Background())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	header := rows[0]
	require.Len(t, header, len(sds.Fields)+1)
	assert.Equal(t, sds.FieldProductName, header[0])
	assert.Equal(t, sds.FieldSourceFile, header[len(header)-1])

	row := rows[1]
	assert.Equal(t, "Acetone", row[0])
	assert.Equal(t, "67-64-1", row[1])
	assert.Equal(t, "acetone.txt", row[len(row)-1])
}

func TestExportRegisterXLSX(t *testing.T) {
	svc := newTestService(t)

	data, err := svc.ExportRegisterXLSX(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	const sheet = "SDS Register"
	name, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, sds.FieldProductName, name)

	product, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Acetone", product)

	cas, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "67-64-1", cas)
}
