package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Roll Number", "Name", "2026-03-09"},
		Rows: []map[string]string{
			{"Roll Number": "1", "Name": "Alice", "2026-03-09": "P"},
			{"Roll Number": "2", "Name": "Bob", "2026-03-09": ""},
		},
	}
}

func TestCSVRender(t *testing.T) {
	data, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Roll Number,Name,2026-03-09\n1,Alice,P\n2,Bob,\n", string(data))
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRenderProducesDocument(t *testing.T) {
	data, err := NewPDFExporter().Render(sampleDataset(), "Attendance 10A")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestXLSXRenderRoundTrips(t *testing.T) {
	data, err := NewXLSXExporter().Render(sampleDataset(), "10A")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	rows, err := f.GetRows("10A")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, []string{"Roll Number", "Name", "2026-03-09"}, rows[0])
	assert.Equal(t, "Alice", rows[1][1])
}
