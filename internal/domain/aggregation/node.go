// Package aggregation models the shallow tree of aggregation definitions
// attached to a saved search.
package aggregation

import (
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/kind"
)

// FieldLabel is the stable label a node carries once a field is chosen.
// Display names are resolved from Field by the property catalog.
const FieldLabel = "field"

// Node is one aggregation definition. Kind-specific parameters are nil
// unless they belong to Kind. Children are only populated on top-level nodes.
type Node struct {
	ID               int64     `json:"id,omitempty" yaml:"id,omitempty"`
	Kind             kind.Kind `json:"type" yaml:"type"`
	Field            string    `json:"field,omitempty" yaml:"field,omitempty"`
	Label            string    `json:"name,omitempty" yaml:"name,omitempty"`
	Precision        *string   `json:"precision,omitempty" yaml:"precision,omitempty"`
	Interval         *string   `json:"interval,omitempty" yaml:"interval,omitempty"`
	IsDate           *bool     `json:"isDate,omitempty" yaml:"isDate,omitempty"`
	MinDocumentCount *int      `json:"minDocumentCount,omitempty" yaml:"minDocumentCount,omitempty"`
	Size             *string   `json:"size,omitempty" yaml:"size,omitempty"`
	Excluded         *string   `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	OrderBy          *string   `json:"orderBy,omitempty" yaml:"orderBy,omitempty"`
	Children         []Node    `json:"nested,omitempty" yaml:"nested,omitempty"`

	// parentID is a weak back-reference to the owning top-level node; 0 on top-level nodes.
	parentID int64
}

// NewTopLevel creates a fresh top-level node of kind k without an id.
func NewTopLevel(k kind.Kind) Node {
	return Node{Kind: k}
}

// NewNested creates a fresh nested node of kind k owned by parentID.
func NewNested(k kind.Kind, parentID int64) Node {
	return Node{Kind: k, parentID: parentID}
}

// ParentID returns the owning top-level node id, if the node is nested.
func (n *Node) ParentID() (int64, bool) {
	return n.parentID, n.parentID != 0
}

// Level returns the tree level the node belongs to.
func (n *Node) Level() kind.Level {
	if n.parentID != 0 {
		return kind.Nested
	}
	return kind.TopLevel
}

// HasField reports whether a field has been selected.
func (n *Node) HasField() bool { return n.Field != "" }

// SetField selects a field and sets the stable field label.
func (n *Node) SetField(field string) {
	n.Field = field
	n.Label = FieldLabel
}

// Clone returns a deep copy, including the parent back-reference.
func (n *Node) Clone() Node {
	c := *n
	c.Precision = clonePtr(n.Precision)
	c.Interval = clonePtr(n.Interval)
	c.IsDate = clonePtr(n.IsDate)
	c.MinDocumentCount = clonePtr(n.MinDocumentCount)
	c.Size = clonePtr(n.Size)
	c.Excluded = clonePtr(n.Excluded)
	c.OrderBy = clonePtr(n.OrderBy)
	if n.Children != nil {
		c.Children = make([]Node, len(n.Children))
		for i := range n.Children {
			c.Children[i] = n.Children[i].Clone()
		}
	}
	return c
}

// detached returns a deep copy with every parent back-reference dropped.
func (n *Node) detached() Node {
	c := n.Clone()
	c.parentID = 0
	for i := range c.Children {
		c.Children[i].parentID = 0
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptr[T any](v T) *T { return &v }
