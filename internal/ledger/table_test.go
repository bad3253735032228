package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableHasFixedColumns(t *testing.T) {
	table := NewTable()
	assert.Equal(t, []string{ColumnRoll, ColumnName}, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestEnsureColumnBackfillsExistingRows(t *testing.T) {
	table := NewTable()
	table.AppendRow("5", "Alice")
	table.EnsureColumn("2024-01-01")

	require.Len(t, table.Rows, 1)
	value, ok := table.Rows[0]["2024-01-01"]
	require.True(t, ok)
	assert.Equal(t, "", value)

	// Re-adding is a no-op.
	table.EnsureColumn("2024-01-01")
	assert.Equal(t, []string{ColumnRoll, ColumnName, "2024-01-01"}, table.Columns)
}

func TestAppendRowBackfillsDateColumns(t *testing.T) {
	table := NewTable()
	table.EnsureColumn("2024-01-01")
	table.EnsureColumn("2024-01-02")

	row := table.AppendRow("7", "Bob")
	assert.Equal(t, "7", row[ColumnRoll])
	assert.Equal(t, "Bob", row[ColumnName])
	assert.Equal(t, "", row["2024-01-01"])
	assert.Equal(t, "", row["2024-01-02"])
}

func TestPresentCount(t *testing.T) {
	table := NewTable()
	table.EnsureColumn("2024-01-01")
	table.AppendRow("1", "A")["2024-01-01"] = "P"
	table.AppendRow("2", "B")
	table.AppendRow("3", "C")["2024-01-01"] = "P"

	assert.Equal(t, 2, table.PresentCount("2024-01-01"))
	assert.Equal(t, 0, table.PresentCount("2024-01-02"))
}

func TestSortNumericWhenAllRollsParse(t *testing.T) {
	table := NewTable()
	table.AppendRow("10", "J")
	table.AppendRow("2", "B")
	table.AppendRow("1", "A")

	table.Sort()

	rolls := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		rolls = append(rolls, row[ColumnRoll])
	}
	assert.Equal(t, []string{"1", "2", "10"}, rolls)
}

func TestSortLexicographicWhenAnyRollNonNumeric(t *testing.T) {
	table := NewTable()
	table.AppendRow("10", "J")
	table.AppendRow("2", "B")
	table.AppendRow("x1", "X")

	table.Sort()

	rolls := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		rolls = append(rolls, row[ColumnRoll])
	}
	assert.Equal(t, []string{"10", "2", "x1"}, rolls)
}
