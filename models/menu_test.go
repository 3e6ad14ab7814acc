package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	require.NoError(t, catalog.Validate())

	names := make([]string, 0, len(catalog))
	for _, item := range catalog {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"nasi goreng", "ayam bakar", "mie goreng", "es teh", "es jeruk"}, names)
	assert.Equal(t, int64(35000), catalog[1].Price)
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`
menu:
  - name: "  Soto Ayam "
    price: 18000
  - name: es teh
    price: 5000
`)
	catalog, err := ParseCatalog(data)
	require.NoError(t, err)
	assert.Equal(t, Catalog{{Name: "soto ayam", Price: 18000}, {Name: "es teh", Price: 5000}}, catalog)
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty menu", "menu: []"},
		{"zero price", "menu:\n  - name: es teh\n    price: 0\n"},
		{"duplicate name", "menu:\n  - name: es teh\n    price: 5000\n  - name: ES TEH\n    price: 6000\n"},
		{"missing name", "menu:\n  - price: 5000\n"},
		{"not yaml", "menu: [unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("menu:\n  - name: bakso\n    price: 15000\n"), 0o644))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, Catalog{{Name: "bakso", Price: 15000}}, catalog)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
