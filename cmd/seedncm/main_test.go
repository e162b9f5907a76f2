package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseRows(t *testing.T) {
	rows := [][]string{
		{"NCM", "Descrição", "TEC (%)", "IPI (%)"},
		{"84.67", "Ferramentas pneumáticas"},
		{"8467.21.00", "Furadeiras", "18", "5"},
		{"8467.21.00", "duplicate", "0", "0"},
		{"2204.21.00", "Vinho d'uva", "20", "NT"},
		{"0101.21.00", "Cavalos", "2,5%"},
		{"ex 01", "Destaque"},
	}

	got := parseRows(rows)
	require.Len(t, got, 3)
	assert.Equal(t, ncmEntry{code: "84672100", description: "Furadeiras", iiRate: 18, ipiRate: 5}, got[0])
	assert.Equal(t, "22042100", got[1].code)
	assert.Zero(t, got[1].ipiRate)
	assert.InDelta(t, 2.5, got[2].iiRate, 1e-9)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tec.xlsx")
	out := filepath.Join(dir, "ncm.sql")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"NCM", "Descrição", "TEC", "IPI"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"2204.21.00", "Vinho d'uva", "20", "10"}))
	require.NoError(t, f.SaveAs(in))
	require.NoError(t, f.Close())

	require.NoError(t, run(in, out))

	sql, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(sql), "('22042100', 'Vinho d''uva', 20.00, 10.00)")
	assert.Contains(t, string(sql), "ON CONFLICT (code, effective_from) DO NOTHING;")
}
