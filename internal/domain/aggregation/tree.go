package aggregation

import (
	"fmt"

	"github.com/kailas-cloud/aggspec/internal/domain"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/kind"
)

// IDCounter hands out node ids. It is owned by whoever owns the tree and
// never returns an id twice.
type IDCounter struct {
	next int64
}

// NewIDCounter creates a counter whose first id is 1.
func NewIDCounter() *IDCounter {
	return &IDCounter{next: 1}
}

// Next returns a fresh id.
func (c *IDCounter) Next() int64 {
	id := c.next
	c.next++
	return id
}

// Observe moves the counter past an id assigned elsewhere.
func (c *IDCounter) Observe(id int64) {
	if id >= c.next {
		c.next = id + 1
	}
}

// ListRef addresses a node list: the top-level list (zero value) or the
// children of the top-level node with id Parent.
type ListRef struct {
	Parent int64
}

// TopLevelList addresses the tree's root list.
var TopLevelList = ListRef{}

// Tree is the ordered, at most two levels deep, aggregation tree.
// Tree is not safe for concurrent use.
type Tree struct {
	nodes []Node
	ids   *IDCounter
}

// NewTree creates an empty tree drawing ids from ids.
func NewTree(ids *IDCounter) *Tree {
	if ids == nil {
		ids = NewIDCounter()
	}
	return &Tree{ids: ids}
}

// Load replaces the tree content with a loaded specification. Nodes without an
// id get one from the counter in load order, parents before their children.
// Children of nested nodes are dropped.
func (t *Tree) Load(nodes []Node) {
	loaded := make([]Node, len(nodes))
	for i := range nodes {
		loaded[i] = nodes[i].detached()
		t.ids.Observe(loaded[i].ID)
		for j := range loaded[i].Children {
			t.ids.Observe(loaded[i].Children[j].ID)
		}
	}

	for i := range loaded {
		top := &loaded[i]
		if top.ID == 0 {
			top.ID = t.ids.Next()
		}
		for j := range top.Children {
			child := &top.Children[j]
			if child.ID == 0 {
				child.ID = t.ids.Next()
			}
			child.parentID = top.ID
			child.Children = nil
		}
	}
	t.nodes = loaded
}

// Len returns the number of top-level nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// IDs returns the tree's id counter.
func (t *Tree) IDs() *IDCounter { return t.ids }

// First returns a copy of the first top-level node.
func (t *Tree) First() (Node, bool) {
	if len(t.nodes) == 0 {
		return Node{}, false
	}
	return t.nodes[0].Clone(), true
}

// Find returns a copy of the node with the given id at any level.
func (t *Tree) Find(id int64) (Node, bool) {
	for i := range t.nodes {
		if t.nodes[i].ID == id {
			return t.nodes[i].Clone(), true
		}
		for j := range t.nodes[i].Children {
			if t.nodes[i].Children[j].ID == id {
				return t.nodes[i].Children[j].Clone(), true
			}
		}
	}
	return Node{}, false
}

// CanAddNested reports whether the editing workflow offers a new nested slot:
// the first top-level node is a term with no children yet.
func (t *Tree) CanAddNested() bool {
	if len(t.nodes) == 0 {
		return false
	}
	first := &t.nodes[0]
	return first.Kind == kind.Term && len(first.Children) == 0
}

// CanAdd reports whether the editing workflow offers an "add" action at all.
func (t *Tree) CanAdd() bool {
	return len(t.nodes) == 0 || t.CanAddNested()
}

// Upsert writes n into the list its parent reference designates: replaced in
// place when a node with the same id exists there, appended otherwise.
// A node without an id gets one first. The stored copy is returned.
func (t *Tree) Upsert(n Node) (Node, error) {
	stored := n.Clone()
	if stored.ID == 0 {
		stored.ID = t.ids.Next()
	} else {
		t.ids.Observe(stored.ID)
	}

	parentID, nested := stored.ParentID()
	if !nested {
		t.nodes = upsertInto(t.nodes, stored)
		return stored.Clone(), nil
	}

	parent := t.topLevel(parentID)
	if parent == nil {
		return Node{}, fmt.Errorf("parent aggregation %d: %w", parentID, domain.ErrNotFound)
	}
	stored.Children = nil
	parent.Children = upsertInto(parent.Children, stored)
	return stored.Clone(), nil
}

func upsertInto(list []Node, n Node) []Node {
	for i := range list {
		if list[i].ID == n.ID {
			list[i] = n
			return list
		}
	}
	return append(list, n)
}

// Remove deletes the node at index from the referenced list and reports
// whether anything was removed. Out-of-range indexes and unknown parents are
// no-ops. Removing a top-level node removes its children with it.
func (t *Tree) Remove(ref ListRef, index int) bool {
	if ref.Parent == 0 {
		if index < 0 || index >= len(t.nodes) {
			return false
		}
		t.nodes = append(t.nodes[:index], t.nodes[index+1:]...)
		return true
	}

	parent := t.topLevel(ref.Parent)
	if parent == nil || index < 0 || index >= len(parent.Children) {
		return false
	}
	parent.Children = append(parent.Children[:index], parent.Children[index+1:]...)
	return true
}

// RefAt returns the list reference for the children of the top-level node at index.
func (t *Tree) RefAt(index int) (ListRef, bool) {
	if index < 0 || index >= len(t.nodes) {
		return ListRef{}, false
	}
	return ListRef{Parent: t.nodes[index].ID}, true
}

// Snapshot returns an ordered deep copy of the tree without parent back-references.
func (t *Tree) Snapshot() []Node {
	out := make([]Node, len(t.nodes))
	for i := range t.nodes {
		out[i] = t.nodes[i].detached()
	}
	return out
}

func (t *Tree) topLevel(id int64) *Node {
	for i := range t.nodes {
		if t.nodes[i].ID == id {
			return &t.nodes[i]
		}
	}
	return nil
}
