package bic

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"fjacquet/pain001/internal/validation"
)

// DirectoryEntry maps an IBAN prefix to a BIC. The prefix is the country code
// followed by the start of the BBAN, without the check digits: "CH09000"
// matches CH02 0900 0000 ...
type DirectoryEntry struct {
	IBANPrefix string `yaml:"iban_prefix"`
	BIC        string `yaml:"bic"`
	Name       string `yaml:"name,omitempty"`
}

// directoryFile is the YAML layout: a top-level "banks" list.
type directoryFile struct {
	Banks []DirectoryEntry `yaml:"banks"`
}

// Directory resolves BICs from a static table with longest-prefix matching.
type Directory struct {
	entries []DirectoryEntry
}

// NewDirectory creates a Directory from entries. Prefixes are normalized and
// sorted longest first.
func NewDirectory(entries []DirectoryEntry) *Directory {
	normalized := make([]DirectoryEntry, 0, len(entries))
	for _, e := range entries {
		prefix := validation.NormalizeIBAN(e.IBANPrefix)
		if prefix == "" || e.BIC == "" {
			continue
		}
		normalized = append(normalized, DirectoryEntry{
			IBANPrefix: prefix,
			BIC:        strings.ToUpper(strings.TrimSpace(e.BIC)),
			Name:       strings.TrimSpace(e.Name),
		})
	}
	sort.SliceStable(normalized, func(i, j int) bool {
		return len(normalized[i].IBANPrefix) > len(normalized[j].IBANPrefix)
	})
	return &Directory{entries: normalized}
}

// LoadDirectory reads a YAML directory file. Both a top-level "banks" key and
// a bare list are accepted.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading BIC directory file: %w", err)
	}
	return ParseDirectory(data)
}

// ParseDirectory parses YAML directory content.
func ParseDirectory(data []byte) (*Directory, error) {
	var file directoryFile
	if err := yaml.Unmarshal(data, &file); err == nil && len(file.Banks) > 0 {
		return NewDirectory(file.Banks), nil
	}

	var entries []DirectoryEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error parsing BIC directory: %w", err)
	}
	return NewDirectory(entries), nil
}

// Len returns the number of usable entries.
func (d *Directory) Len() int {
	return len(d.entries)
}

// Lookup returns the entry matching iban, if any.
func (d *Directory) Lookup(iban string) (DirectoryEntry, bool) {
	normalized := validation.NormalizeIBAN(iban)
	if len(normalized) < 4 {
		return DirectoryEntry{}, false
	}
	key := normalized[:2] + normalized[4:]
	for _, e := range d.entries {
		if strings.HasPrefix(key, e.IBANPrefix) {
			return e, true
		}
	}
	return DirectoryEntry{}, false
}

// ResolveBIC implements Resolver.
func (d *Directory) ResolveBIC(ctx context.Context, iban string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !validation.IsIBAN(iban) {
		return "", fmt.Errorf("%w: %s", ErrInvalidIBAN, iban)
	}
	e, ok := d.Lookup(iban)
	if !ok {
		return "", fmt.Errorf("%w: no directory entry for %s", ErrBICNotFound, iban)
	}
	return e.BIC, nil
}
