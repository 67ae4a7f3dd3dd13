package bic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directoryYAML = `
banks:
  - iban_prefix: CH09000
    bic: POFICHBE
    name: PostFinance
  - iban_prefix: CH048
    bic: CRESCHZZXXX
    name: Credit Suisse
  - iban_prefix: CH04835
    bic: CRESCHZZ80A
    name: Credit Suisse Zurich
  - iban_prefix: ""
    bic: IGNORED
`

func TestDirectory_ResolveBIC(t *testing.T) {
	dir, err := ParseDirectory([]byte(directoryYAML))
	require.NoError(t, err)
	assert.Equal(t, 3, dir.Len())

	tests := []struct {
		name    string
		iban    string
		want    string
		wantErr error
	}{
		{"exact bank", "CH0209000000100013997", "POFICHBE", nil},
		{"longest prefix wins", "CH0204835000626882001", "CRESCHZZ80A", nil},
		{"grouped input", "CH02 0483 5000 6268 8200 1", "CRESCHZZ80A", nil},
		{"unknown bank", "DE89370400440532013000", "", ErrBICNotFound},
		{"malformed", "not-an-iban", "", ErrInvalidIBAN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dir.ResolveBIC(context.Background(), tt.iban)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDirectory_BareList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banks.yaml")
	content := "- iban_prefix: de37040044\n  bic: cobadeffxxx\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	dir, err := LoadDirectory(path)
	require.NoError(t, err)

	entry, ok := dir.Lookup("DE89370400440532013000")
	require.True(t, ok)
	assert.Equal(t, "COBADEFFXXX", entry.BIC)
}

func TestLoadDirectory_Errors(t *testing.T) {
	_, err := LoadDirectory(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseDirectory([]byte("banks: [unterminated"))
	assert.Error(t, err)
}

func TestDirectory_CancelledContext(t *testing.T) {
	dir := NewDirectory([]DirectoryEntry{{IBANPrefix: "CH09000", BIC: "POFICHBE"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dir.ResolveBIC(ctx, "CH0209000000100013997")
	assert.ErrorIs(t, err, context.Canceled)
}
