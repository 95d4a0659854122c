// Package catalog serves the property catalog from a YAML file.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/aggspec/internal/domain/property"
)

// propertyRow is one catalog entry as written in YAML.
type propertyRow struct {
	Name        string `yaml:"name" validate:"required"`
	DisplayName string `yaml:"display_name"`
	DataType    string `yaml:"data_type" validate:"required,oneof=date boolean string integer decimal double number currency geoLocation"`
	Sortable    bool   `yaml:"sortable"`
}

type document struct {
	Properties []propertyRow `yaml:"properties" validate:"dive"`
}

// Catalog is an immutable, ordered set of properties keyed by field name.
type Catalog struct {
	ordered []property.Property
	byName  map[string]property.Property
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	props := make([]property.Property, 0, len(doc.Properties))
	for _, row := range doc.Properties {
		props = append(props, property.New(row.Name, row.DisplayName, property.DataType(row.DataType), row.Sortable))
	}
	return New(props)
}

// New builds a catalog from properties. Field names must be unique.
func New(props []property.Property) (*Catalog, error) {
	c := &Catalog{
		ordered: make([]property.Property, 0, len(props)),
		byName:  make(map[string]property.Property, len(props)),
	}
	for _, p := range props {
		if _, dup := c.byName[p.Name()]; dup {
			return nil, fmt.Errorf("duplicate property %q", p.Name())
		}
		c.byName[p.Name()] = p
		c.ordered = append(c.ordered, p)
	}
	return c, nil
}

// Property resolves a field name.
func (c *Catalog) Property(field string) (property.Property, bool) {
	p, ok := c.byName[field]
	return p, ok
}

// Len returns the number of properties.
func (c *Catalog) Len() int { return len(c.ordered) }

// Compatible lists, in catalog order, the properties whose data type is in
// allowed. With onlySortable, unsortable properties are left out.
func (c *Catalog) Compatible(allowed []property.DataType, onlySortable bool) []property.Property {
	out := make([]property.Property, 0)
	for _, p := range c.ordered {
		if !slices.Contains(allowed, p.DataType()) {
			continue
		}
		if onlySortable && !p.Sortable() {
			continue
		}
		out = append(out, p)
	}
	return out
}
