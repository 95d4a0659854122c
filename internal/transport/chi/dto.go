package chi

import (
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/interval"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/kind"
	"github.com/kailas-cloud/aggspec/internal/domain/property"
	editoruc "github.com/kailas-cloud/aggspec/internal/usecase/editor"
)

// LoadRequest replaces a saved search's aggregation specification.
type LoadRequest struct {
	Aggregations []aggregation.Node `json:"aggregations" validate:"max=100"`
}

// OpenEditRequest opens an edit on a new node.
type OpenEditRequest struct {
	Nested bool   `json:"nested"`
	Kind   string `json:"kind" validate:"max=64"`
}

// PatchEditRequest changes the node in edit. Absent fields are left alone.
type PatchEditRequest struct {
	Kind          *string `json:"kind" validate:"omitempty,min=1,max=64"`
	Precision     *int    `json:"precision" validate:"omitempty,min=1,max=8"`
	Interval      *string `json:"interval" validate:"omitempty,numeric"`
	IntervalValue *int64  `json:"interval_value"`
	IntervalUnit  *string `json:"interval_unit" validate:"omitempty,oneof=minutes hours days years"`
	Size          *string `json:"size" validate:"omitempty,max=16"`
	Excluded      *string `json:"excluded" validate:"omitempty,max=1024"`
	OrderBy       *string `json:"order_by" validate:"omitempty,max=256"`
	Commit        bool    `json:"commit"`
}

// SelectFieldRequest chooses the field of the node in edit.
type SelectFieldRequest struct {
	Field string `json:"field" validate:"required,max=256"`
}

// NodeResponse is an aggregation with its catalog display name.
type NodeResponse struct {
	aggregation.Node
	DisplayName string         `json:"display_name,omitempty"`
	Children    []NodeResponse `json:"nested,omitempty"`
}

// AggregationsResponse is a saved search's aggregation tree.
type AggregationsResponse struct {
	Aggregations []NodeResponse `json:"aggregations"`
	CanAdd       bool           `json:"can_add"`
	Editing      bool           `json:"editing"`
}

// KindResponse describes a selectable aggregation kind.
type KindResponse struct {
	Kind      string   `json:"kind"`
	Label     string   `json:"label"`
	DataTypes []string `json:"data_types"`
}

// PrecisionResponse is one geohash precision option.
type PrecisionResponse struct {
	Value   int    `json:"value"`
	Label   string `json:"label"`
	Default bool   `json:"default,omitempty"`
}

// EditResponse is the edit session.
type EditResponse struct {
	State            string              `json:"state"`
	Token            string              `json:"token,omitempty"`
	Level            string              `json:"level,omitempty"`
	Aggregation      *NodeResponse       `json:"aggregation,omitempty"`
	Kinds            []KindResponse      `json:"kinds,omitempty"`
	AllowedDataTypes []string            `json:"allowed_data_types,omitempty"`
	OnlySortable     bool                `json:"only_sortable"`
	IntervalValue    int64               `json:"interval_value,omitempty"`
	IntervalUnit     string              `json:"interval_unit,omitempty"`
	IntervalUnits    []string            `json:"interval_units,omitempty"`
	Precisions       []PrecisionResponse `json:"precisions,omitempty"`
}

// PropertyResponse is a catalog property offered by the field picker.
type PropertyResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	DataType    string `json:"data_type"`
	Sortable    bool   `json:"sortable"`
}

// FieldsResponse lists the properties the node in edit accepts.
type FieldsResponse struct {
	Fields       []PropertyResponse `json:"fields"`
	OnlySortable bool               `json:"only_sortable"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func nodeToResponse(n aggregation.Node, displayName func(string) string) NodeResponse {
	resp := NodeResponse{Node: n, DisplayName: displayName(n.Field)}
	resp.Node.Children = nil
	if len(n.Children) > 0 {
		resp.Children = make([]NodeResponse, len(n.Children))
		for i, c := range n.Children {
			resp.Children[i] = nodeToResponse(c, displayName)
		}
	}
	return resp
}

func nodesToResponse(nodes []aggregation.Node, displayName func(string) string) []NodeResponse {
	out := make([]NodeResponse, len(nodes))
	for i, n := range nodes {
		out[i] = nodeToResponse(n, displayName)
	}
	return out
}

func kindsToResponse(ds []kind.Descriptor) []KindResponse {
	out := make([]KindResponse, len(ds))
	for i, d := range ds {
		out[i] = KindResponse{Kind: string(d.Kind), Label: d.Label, DataTypes: dataTypesToStrings(d.DataTypes)}
	}
	return out
}

func dataTypesToStrings(dts []property.DataType) []string {
	out := make([]string, len(dts))
	for i, dt := range dts {
		out[i] = string(dt)
	}
	return out
}

func editToResponse(v editoruc.View, displayName func(string) string) EditResponse {
	resp := EditResponse{State: v.State.String()}
	if v.State != editoruc.Editing {
		return resp
	}

	node := nodeToResponse(v.Node, displayName)
	resp.Token = v.Token
	resp.Level = v.Level.String()
	resp.Aggregation = &node
	resp.Kinds = kindsToResponse(v.Kinds)
	resp.AllowedDataTypes = dataTypesToStrings(v.AllowedDataTypes)
	resp.OnlySortable = v.OnlySortable
	resp.IntervalValue = v.IntervalMagnitude
	resp.IntervalUnit = v.IntervalUnit

	switch v.Node.Kind {
	case kind.Histogram:
		for _, u := range interval.Units() {
			resp.IntervalUnits = append(resp.IntervalUnits, u.Name)
		}
	case kind.Geohash:
		for _, p := range aggregation.Precisions() {
			resp.Precisions = append(resp.Precisions, PrecisionResponse{Value: p.Value, Label: p.Label, Default: p.Default})
		}
	}
	return resp
}

func propertiesToResponse(props []property.Property) []PropertyResponse {
	out := make([]PropertyResponse, len(props))
	for i, p := range props {
		out[i] = PropertyResponse{
			Name:        p.Name(),
			DisplayName: p.DisplayName(),
			DataType:    string(p.DataType()),
			Sortable:    p.Sortable(),
		}
	}
	return out
}

func patchToParams(req PatchEditRequest) editoruc.Params {
	return editoruc.Params{
		Precision:         req.Precision,
		Interval:          req.Interval,
		IntervalMagnitude: req.IntervalValue,
		IntervalUnit:      req.IntervalUnit,
		Size:              req.Size,
		Excluded:          req.Excluded,
		OrderBy:           req.OrderBy,
	}
}
