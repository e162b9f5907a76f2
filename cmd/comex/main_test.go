package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comex/internal/domain"
)

func TestParseTypeFlag(t *testing.T) {
	got, err := parseTypeFlag(" packing_list ")
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTypePackingList, got)

	_, err = parseTypeFlag("manifest")
	assert.ErrorIs(t, err, domain.ErrNotRegistered)
}

func TestTypesCommand(t *testing.T) {
	t.Setenv("COMEX_LOG_LEVEL", "error")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"types"})

	require.NoError(t, root.Execute())
	for _, tag := range domain.AllDocumentTypes {
		assert.Contains(t, out.String(), string(tag))
	}
}

func TestProcessCommand_RawSteps(t *testing.T) {
	t.Setenv("COMEX_LOG_LEVEL", "error")
	dir := t.TempDir()
	step := filepath.Join(dir, "message.json")
	require.NoError(t, os.WriteFile(step, []byte(`{"reference":"FT1","value_date":"12/03/2024","currency":"USD","amount":"1.000,00","ordering_customer":{"name":"I"},"beneficiary":{"name":"B","account":"A1"}}`), 0o600))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"process", "--type", "bank_message", "--step", step})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), `"success": true`)
	assert.Contains(t, out.String(), `"is_valid": true`)
}

func TestProcessCommand_RequiresInput(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"process", "--type", "bank_message"})
	assert.Error(t, root.Execute())
}

func TestReassembleCommand_RequiresHash(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"reassemble", "--type", "packing_list"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hash")
}
