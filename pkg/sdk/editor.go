package aggspec

import (
	"context"
	"time"

	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/kind"
	"github.com/kailas-cloud/aggspec/internal/transport/elastic"
	editoruc "github.com/kailas-cloud/aggspec/internal/usecase/editor"
)

// Editor edits one saved search's aggregation tree. It is safe for concurrent use.
type Editor struct {
	ed  *editoruc.Editor
	obs *observer
}

// SearchID returns the saved search this editor belongs to.
func (e *Editor) SearchID() string { return e.ed.SearchID() }

// Aggregations returns the committed tree.
func (e *Editor) Aggregations() []Aggregation {
	return aggregationsFromDomain(e.ed.Snapshot())
}

// View returns the edit session.
func (e *Editor) View() EditView { return viewFromDomain(e.ed.View()) }

// CanAdd reports whether Add opens a new aggregation.
func (e *Editor) CanAdd() bool { return e.ed.CanAdd() }

// DisplayName resolves a field to its catalog display name.
func (e *Editor) DisplayName(field string) string { return e.ed.DisplayName(field) }

// Load replaces the tree and publishes it.
func (e *Editor) Load(ctx context.Context, aggs []Aggregation) []Aggregation {
	start := time.Now()
	defer e.obs.observe("editor.load", start, nil)
	return aggregationsFromDomain(e.ed.Load(ctx, aggregationsToDomain(aggs)))
}

// Add opens a top-level aggregation on an empty tree, a nested one under the
// first aggregation otherwise. With an edit open it cancels that edit.
func (e *Editor) Add(ctx context.Context) (_ EditView, err error) {
	start := time.Now()
	defer func() { e.obs.observe("editor.add", start, err) }()

	v, err := e.ed.Add(ctx)
	return viewFromDomain(v), err
}

// OpenNew opens a new aggregation of kind k; an empty kind picks the level default.
func (e *Editor) OpenNew(ctx context.Context, nested bool, k Kind) (_ EditView, err error) {
	start := time.Now()
	defer func() { e.obs.observe("editor.open_new", start, err) }()

	v, err := e.ed.OpenNew(ctx, nested, kind.Kind(k))
	return viewFromDomain(v), err
}

// OpenExisting opens a committed aggregation for editing.
func (e *Editor) OpenExisting(ctx context.Context, id int64) (_ EditView, err error) {
	start := time.Now()
	defer func() { e.obs.observe("editor.open_existing", start, err) }()

	v, err := e.ed.OpenExisting(ctx, id)
	return viewFromDomain(v), err
}

// ChangeKind switches the aggregation in edit to kind k.
func (e *Editor) ChangeKind(ctx context.Context, k Kind) (_ EditView, err error) {
	start := time.Now()
	defer func() { e.obs.observe("editor.change_kind", start, err) }()

	v, err := e.ed.ChangeKind(ctx, kind.Kind(k))
	return viewFromDomain(v), err
}

// Update changes parameters of the aggregation in edit, all or nothing.
func (e *Editor) Update(ctx context.Context, p EditParams) (_ EditView, err error) {
	start := time.Now()
	defer func() { e.obs.observe("editor.update", start, err) }()

	v, err := e.ed.Update(ctx, paramsToDomain(p))
	return viewFromDomain(v), err
}

// SelectField chooses the field of the aggregation in edit and commits it.
// Histograms fetch field statistics first to derive their interval.
func (e *Editor) SelectField(ctx context.Context, field string) (_ Aggregation, err error) {
	start := time.Now()
	defer func() { e.obs.observe("editor.select_field", start, err) }()

	n, err := e.ed.SelectField(ctx, field)
	if err != nil {
		return Aggregation{}, err
	}
	return aggregationFromDomain(n), nil
}

// Commit writes the aggregation in edit into the tree.
func (e *Editor) Commit(ctx context.Context) (_ Aggregation, err error) {
	start := time.Now()
	defer func() { e.obs.observe("editor.commit", start, err) }()

	n, err := e.ed.Commit(ctx)
	if err != nil {
		return Aggregation{}, err
	}
	return aggregationFromDomain(n), nil
}

// Cancel closes the edit without committing. It reports whether an edit was open.
func (e *Editor) Cancel(ctx context.Context) bool { return e.ed.Cancel(ctx) }

// Remove deletes the top-level aggregation at index together with its nested ones.
func (e *Editor) Remove(ctx context.Context, index int) bool {
	return e.ed.Remove(ctx, aggregation.TopLevelList, index)
}

// RemoveNested deletes a nested aggregation.
func (e *Editor) RemoveNested(ctx context.Context, parentIndex, index int) bool {
	return e.ed.RemoveNested(ctx, parentIndex, index)
}

// Render returns the Elasticsearch search body of the committed tree.
func (e *Editor) Render() (map[string]any, error) {
	return elastic.Render(e.ed.Snapshot())
}
