// Package property describes searchable properties as reported by the ontology catalog.
package property

// DataType is the declared data type of a property.
type DataType string

// Data types known to the aggregation editor.
const (
	Date        DataType = "date"
	Boolean     DataType = "boolean"
	String      DataType = "string"
	Integer     DataType = "integer"
	Decimal     DataType = "decimal"
	Double      DataType = "double"
	Number      DataType = "number"
	Currency    DataType = "currency"
	GeoLocation DataType = "geoLocation"
)

// Numeric lists the data types that hold plain numbers.
func Numeric() []DataType {
	return []DataType{Integer, Decimal, Double, Number, Currency}
}

// IsNumeric reports whether dt holds plain numbers.
func (dt DataType) IsNumeric() bool {
	switch dt {
	case Integer, Decimal, Double, Number, Currency:
		return true
	}
	return false
}

// Property is an immutable catalog record: field identifier, display name and data type.
type Property struct {
	name        string
	displayName string
	dataType    DataType
	sortable    bool
}

// New creates a Property. An empty display name falls back to the field identifier.
func New(name, displayName string, dt DataType, sortable bool) Property {
	if displayName == "" {
		displayName = name
	}
	return Property{name: name, displayName: displayName, dataType: dt, sortable: sortable}
}

// Name returns the field identifier.
func (p Property) Name() string { return p.name }

// DisplayName returns the human readable name.
func (p Property) DisplayName() string { return p.displayName }

// DataType returns the declared data type.
func (p Property) DataType() DataType { return p.dataType }

// Sortable reports whether the search backend can sort by the property.
func (p Property) Sortable() bool { return p.sortable }

// IsDate reports whether the property is declared as a date.
func (p Property) IsDate() bool { return p.dataType == Date }
