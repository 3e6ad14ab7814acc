package models

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MenuItem is a single priced entry of the menu
type MenuItem struct {
	Name  string `yaml:"name" json:"name"`
	Price int64  `yaml:"price" json:"price"` // rupiah
}

// Catalog is the ordered, read-only menu. Order matters: item extraction
// walks the catalog front to back.
type Catalog []MenuItem

// DefaultCatalog returns the built-in menu
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "nasi goreng", Price: 25000},
		{Name: "ayam bakar", Price: 35000},
		{Name: "mie goreng", Price: 20000},
		{Name: "es teh", Price: 5000},
		{Name: "es jeruk", Price: 6000},
	}
}

// Validate checks that every item has a unique non-empty name and a positive price
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return &ValidationError{Field: "menu", Message: "menu must contain at least one item"}
	}

	seen := make(map[string]bool, len(c))
	for i, item := range c {
		if item.Name == "" {
			return &ValidationError{Field: "menu", Message: fmt.Sprintf("item %d has no name", i)}
		}
		if item.Price <= 0 {
			return &ValidationError{Field: "menu", Message: fmt.Sprintf("item %q must have a positive price", item.Name)}
		}
		if seen[item.Name] {
			return &ValidationError{Field: "menu", Message: fmt.Sprintf("item %q is listed twice", item.Name)}
		}
		seen[item.Name] = true
	}
	return nil
}

type menuFile struct {
	Menu Catalog `yaml:"menu"`
}

// LoadCatalog reads a menu from a YAML file of the form
//
//	menu:
//	  - name: nasi goreng
//	    price: 25000
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML menu document
func ParseCatalog(data []byte) (Catalog, error) {
	var file menuFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse menu: %w", err)
	}

	catalog := make(Catalog, 0, len(file.Menu))
	for _, item := range file.Menu {
		catalog = append(catalog, MenuItem{
			Name:  strings.ToLower(strings.TrimSpace(item.Name)),
			Price: item.Price,
		})
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}
