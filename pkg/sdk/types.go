package aggspec

// Kind names an aggregation variant.
type Kind string

// Aggregation kinds.
const (
	KindTerm      Kind = "term"
	KindHistogram Kind = "histogram"
	KindGeohash   Kind = "geohash"
	KindSum       Kind = "sum"
	KindAvg       Kind = "avg"
	KindMin       Kind = "min"
	KindMax       Kind = "max"
)

// DataType is the declared data type of a catalog property.
type DataType string

// Data types.
const (
	DataTypeDate        DataType = "date"
	DataTypeBoolean     DataType = "boolean"
	DataTypeString      DataType = "string"
	DataTypeInteger     DataType = "integer"
	DataTypeDecimal     DataType = "decimal"
	DataTypeDouble      DataType = "double"
	DataTypeNumber      DataType = "number"
	DataTypeCurrency    DataType = "currency"
	DataTypeGeoLocation DataType = "geoLocation"
)

// Property is a searchable field offered to aggregations.
type Property struct {
	Name        string
	DisplayName string
	DataType    DataType
	Sortable    bool
}

// Aggregation is one node of a saved search's aggregation tree.
// Kind-specific parameters are nil unless they belong to Kind.
type Aggregation struct {
	ID               int64
	Kind             Kind
	Field            string
	Label            string
	Precision        *string
	Interval         *string
	IsDate           *bool
	MinDocumentCount *int
	Size             *string
	Excluded         *string
	OrderBy          *string
	Nested           []Aggregation
}

// Stats are the bounds of a field; dates in epoch milliseconds.
type Stats struct {
	Field string
	Min   float64
	Max   float64
}

// EditState is the state of an editor's edit session.
type EditState string

// Edit states.
const (
	EditIdle    EditState = "idle"
	EditEditing EditState = "editing"
)

// EditView is a read-only copy of the edit session.
type EditView struct {
	State            EditState
	Token            string
	Level            string // "top" or "nested"
	Aggregation      *Aggregation
	Kinds            []Kind
	AllowedDataTypes []DataType
	OnlySortable     bool
	IntervalValue    int64  // date histograms only
	IntervalUnit     string // date histograms only
}

// EditParams are changes to the aggregation in edit. Nil entries are left alone.
type EditParams struct {
	Precision     *int
	Interval      *string
	IntervalValue *int64
	IntervalUnit  *string // minutes, hours, days, years
	Size          *string
	Excluded      *string
	OrderBy       *string
}
