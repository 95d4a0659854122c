package editor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kailas-cloud/aggspec/internal/domain"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/interval"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/kind"
	"github.com/kailas-cloud/aggspec/internal/domain/property"
)

// --- Mocks ---

type mockStats struct {
	fn    func(ctx context.Context, field string) (interval.Stats, error)
	calls int
}

func (m *mockStats) FieldStatistics(ctx context.Context, field string) (interval.Stats, error) {
	m.calls++
	return m.fn(ctx, field)
}

type mockCatalog map[string]property.Property

func (m mockCatalog) Property(field string) (property.Property, bool) {
	p, ok := m[field]
	return p, ok
}

type mockPublisher struct {
	mu        sync.Mutex
	snapshots [][]aggregation.Node
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, _ string, snapshot []aggregation.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snapshot)
	return m.err
}

func (m *mockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snapshots)
}

func (m *mockPublisher) last() []aggregation.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.snapshots) == 0 {
		return nil
	}
	return m.snapshots[len(m.snapshots)-1]
}

func testCatalog() mockCatalog {
	return mockCatalog{
		"category": property.New("category", "Category", property.String, true),
		"price":    property.New("price", "Price", property.Decimal, true),
		"created":  property.New("created", "Created at", property.Date, true),
		"location": property.New("location", "Location", property.GeoLocation, false),
	}
}

func statsFor(lo, hi float64) *mockStats {
	return &mockStats{fn: func(_ context.Context, field string) (interval.Stats, error) {
		return interval.Stats{Field: field, Min: lo, Max: hi}, nil
	}}
}

func newTestEditor(stats StatisticsProvider) (*Editor, *mockPublisher) {
	pub := &mockPublisher{}
	tree := aggregation.NewTree(nil)
	ed := New("s1", tree, stats, testCatalog(), NewNotifier("s1", pub, nil), nil)
	return ed, pub
}

func commitTerm(t *testing.T, ed *Editor, field string) aggregation.Node {
	t.Helper()
	if _, err := ed.Add(context.Background()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	n, err := ed.SelectField(context.Background(), field)
	if err != nil {
		t.Fatalf("SelectField(%q): %v", field, err)
	}
	return n
}

// --- Tests ---

func TestAdd_EmptyTreeOpensTopLevelTerm(t *testing.T) {
	ed, _ := newTestEditor(nil)

	v, err := ed.Add(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.State != Editing {
		t.Fatalf("expected editing, got %s", v.State)
	}
	if v.Level != kind.TopLevel {
		t.Errorf("expected top level, got %s", v.Level)
	}
	if v.Node.Kind != kind.Term {
		t.Errorf("expected term, got %q", v.Node.Kind)
	}
	if v.Node.Size == nil || *v.Node.Size != "10" {
		t.Errorf("expected size 10, got %v", v.Node.Size)
	}
	if v.Node.Excluded == nil || *v.Node.Excluded != "" {
		t.Errorf("expected empty excluded, got %v", v.Node.Excluded)
	}
	if !v.OnlySortable {
		t.Error("term should only offer sortable fields")
	}
	if len(v.Kinds) != 3 {
		t.Errorf("expected 3 top-level kinds, got %d", len(v.Kinds))
	}
	if v.Token == "" {
		t.Error("expected session token")
	}
}

func TestAdd_WhileEditingClosesWithoutCommit(t *testing.T) {
	ed, pub := newTestEditor(nil)

	if _, err := ed.Add(context.Background()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	v, err := ed.Add(context.Background())
	if err != nil {
		t.Fatalf("second Add: %v", err)
	}
	if v.State != Idle {
		t.Errorf("expected idle, got %s", v.State)
	}
	if len(ed.Snapshot()) != 0 {
		t.Error("tree must stay empty")
	}
	if pub.count() != 0 {
		t.Errorf("expected no notifications, got %d", pub.count())
	}
}

func TestSelectField_TermCommits(t *testing.T) {
	ed, pub := newTestEditor(nil)

	n := commitTerm(t, ed, "category")
	if n.ID != 1 {
		t.Errorf("expected id 1, got %d", n.ID)
	}
	if n.Label != aggregation.FieldLabel {
		t.Errorf("expected label %q, got %q", aggregation.FieldLabel, n.Label)
	}
	if ed.State() != Idle {
		t.Error("commit should close the edit")
	}
	if pub.count() != 1 {
		t.Fatalf("expected 1 notification, got %d", pub.count())
	}
	snap := pub.last()
	if len(snap) != 1 || snap[0].Field != "category" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestAdd_NestedUnderFirstTerm(t *testing.T) {
	ed, _ := newTestEditor(nil)
	commitTerm(t, ed, "category")

	if !ed.CanAdd() {
		t.Fatal("expected add to be offered")
	}
	v, err := ed.Add(context.Background())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if v.Level != kind.Nested {
		t.Errorf("expected nested level, got %s", v.Level)
	}
	if len(v.Kinds) != 5 {
		t.Errorf("expected 5 nested kinds, got %d", len(v.Kinds))
	}

	child, err := ed.SelectField(context.Background(), "price")
	if err != nil {
		t.Fatalf("SelectField: %v", err)
	}
	if child.ID != 2 {
		t.Errorf("expected id 2, got %d", child.ID)
	}

	snap := ed.Snapshot()
	if len(snap) != 1 || len(snap[0].Children) != 1 {
		t.Fatalf("expected one top-level node with one child, got %+v", snap)
	}
	if ed.CanAdd() {
		t.Error("add should not be offered once the first node has children")
	}
	if _, err := ed.Add(context.Background()); !errors.Is(err, domain.ErrNestingNotAllowed) {
		t.Errorf("expected ErrNestingNotAllowed, got %v", err)
	}
}

func TestOpenNew_NestedRequiresTermFirst(t *testing.T) {
	ed, _ := newTestEditor(statsFor(0, 1000))

	if _, err := ed.OpenNew(context.Background(), false, kind.Histogram); err != nil {
		t.Fatalf("OpenNew: %v", err)
	}
	if _, err := ed.SelectField(context.Background(), "price"); err != nil {
		t.Fatalf("SelectField: %v", err)
	}

	_, err := ed.OpenNew(context.Background(), true, "")
	if !errors.Is(err, domain.ErrNestingNotAllowed) {
		t.Errorf("expected ErrNestingNotAllowed, got %v", err)
	}
	if ed.State() != Idle {
		t.Error("expected idle")
	}
}

func TestSelectField_NumericHistogram(t *testing.T) {
	stats := statsFor(0, 1000)
	ed, _ := newTestEditor(stats)

	v, err := ed.OpenNew(context.Background(), false, kind.Histogram)
	if err != nil {
		t.Fatalf("OpenNew: %v", err)
	}
	if *v.Node.Interval != "20" {
		t.Errorf("expected default interval 20, got %q", *v.Node.Interval)
	}

	n, err := ed.SelectField(context.Background(), "price")
	if err != nil {
		t.Fatalf("SelectField: %v", err)
	}
	if stats.calls != 1 {
		t.Errorf("expected 1 statistics call, got %d", stats.calls)
	}
	if *n.Interval != "50" {
		t.Errorf("expected interval 50, got %q", *n.Interval)
	}
	if n.IsDate == nil || *n.IsDate {
		t.Errorf("expected isDate false, got %v", n.IsDate)
	}
	if n.MinDocumentCount == nil || *n.MinDocumentCount != 0 {
		t.Errorf("expected minDocumentCount 0, got %v", n.MinDocumentCount)
	}
}

func TestSelectField_DateHistogram(t *testing.T) {
	ed, _ := newTestEditor(statsFor(0, float64(20*interval.Day.Millis)))

	if _, err := ed.OpenNew(context.Background(), false, kind.Histogram); err != nil {
		t.Fatalf("OpenNew: %v", err)
	}
	n, err := ed.SelectField(context.Background(), "created")
	if err != nil {
		t.Fatalf("SelectField: %v", err)
	}
	if *n.Interval != "86400000" {
		t.Errorf("expected one day, got %q", *n.Interval)
	}
	if n.IsDate == nil || !*n.IsDate {
		t.Error("expected isDate")
	}

	v, err := ed.OpenExisting(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("OpenExisting: %v", err)
	}
	if v.IntervalMagnitude != 1 || v.IntervalUnit != interval.Day.Name {
		t.Errorf("expected 1 days, got %d %s", v.IntervalMagnitude, v.IntervalUnit)
	}
}

func TestSelectField_StatisticsUnavailable(t *testing.T) {
	stats := &mockStats{fn: func(context.Context, string) (interval.Stats, error) {
		return interval.Stats{}, errors.New("cluster down")
	}}
	ed, pub := newTestEditor(stats)

	if _, err := ed.OpenNew(context.Background(), false, kind.Histogram); err != nil {
		t.Fatalf("OpenNew: %v", err)
	}
	_, err := ed.SelectField(context.Background(), "price")
	if !errors.Is(err, domain.ErrStatisticsUnavailable) {
		t.Fatalf("expected ErrStatisticsUnavailable, got %v", err)
	}

	v := ed.View()
	if v.State != Editing {
		t.Fatal("edit should stay open")
	}
	if *v.Node.Interval != "20" {
		t.Errorf("interval should be unchanged, got %q", *v.Node.Interval)
	}
	if pub.count() != 0 {
		t.Error("nothing should be published")
	}
}

func TestSelectField_StatisticsMismatch(t *testing.T) {
	stats := &mockStats{fn: func(context.Context, string) (interval.Stats, error) {
		return interval.Stats{Field: "other", Min: 0, Max: 100}, nil
	}}
	ed, _ := newTestEditor(stats)

	if _, err := ed.OpenNew(context.Background(), false, kind.Histogram); err != nil {
		t.Fatalf("OpenNew: %v", err)
	}
	_, err := ed.SelectField(context.Background(), "price")
	if !errors.Is(err, domain.ErrStatisticsMismatch) {
		t.Fatalf("expected ErrStatisticsMismatch, got %v", err)
	}
	if len(ed.Snapshot()) != 0 {
		t.Error("nothing should be committed")
	}
}

func TestSelectField_StaleStatistics(t *testing.T) {
	ed, pub := newTestEditor(nil)
	ed.stats = &mockStats{fn: func(ctx context.Context, field string) (interval.Stats, error) {
		// session replaced while the request is in flight
		ed.Cancel(ctx)
		if _, err := ed.OpenNew(ctx, false, kind.Histogram); err != nil {
			t.Errorf("OpenNew: %v", err)
		}
		return interval.Stats{Field: field, Min: 0, Max: 1000}, nil
	}}

	if _, err := ed.OpenNew(context.Background(), false, kind.Histogram); err != nil {
		t.Fatalf("OpenNew: %v", err)
	}
	_, err := ed.SelectField(context.Background(), "price")
	if !errors.Is(err, domain.ErrStaleStatistics) {
		t.Fatalf("expected ErrStaleStatistics, got %v", err)
	}

	v := ed.View()
	if v.State != Editing || v.Node.HasField() {
		t.Errorf("replacement session must be untouched, got %+v", v.Node)
	}
	if pub.count() != 0 {
		t.Error("nothing should be published")
	}
}

func TestSelectField_IncompatibleField(t *testing.T) {
	ed, _ := newTestEditor(statsFor(0, 1))

	if _, err := ed.OpenNew(context.Background(), false, kind.Histogram); err != nil {
		t.Fatalf("OpenNew: %v", err)
	}
	if _, err := ed.SelectField(context.Background(), "category"); !errors.Is(err, domain.ErrIncompatibleField) {
		t.Errorf("expected ErrIncompatibleField for string field, got %v", err)
	}
	if _, err := ed.SelectField(context.Background(), "missing"); !errors.Is(err, domain.ErrIncompatibleField) {
		t.Errorf("expected ErrIncompatibleField for unknown field, got %v", err)
	}
	if _, err := ed.SelectField(context.Background(), ""); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for empty field, got %v", err)
	}
	if ed.State() != Editing {
		t.Error("edit should stay open")
	}
}

func TestSelectField_GeohashAcceptsGeoLocation(t *testing.T) {
	ed, _ := newTestEditor(nil)

	v, err := ed.OpenNew(context.Background(), false, kind.Geohash)
	if err != nil {
		t.Fatalf("OpenNew: %v", err)
	}
	if v.OnlySortable {
		t.Error("geohash should offer unsortable fields")
	}
	n, err := ed.SelectField(context.Background(), "location")
	if err != nil {
		t.Fatalf("SelectField: %v", err)
	}
	if n.Precision == nil || *n.Precision != "5" {
		t.Errorf("expected default precision, got %v", n.Precision)
	}
}

func TestCommit_RequiresField(t *testing.T) {
	ed, _ := newTestEditor(nil)

	if _, err := ed.Add(context.Background()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := ed.Commit(context.Background()); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestNoActiveEdit(t *testing.T) {
	ed, _ := newTestEditor(nil)
	ctx := context.Background()

	if _, err := ed.Commit(ctx); !errors.Is(err, domain.ErrNoActiveEdit) {
		t.Errorf("Commit: expected ErrNoActiveEdit, got %v", err)
	}
	if _, err := ed.SelectField(ctx, "category"); !errors.Is(err, domain.ErrNoActiveEdit) {
		t.Errorf("SelectField: expected ErrNoActiveEdit, got %v", err)
	}
	if _, err := ed.ChangeKind(ctx, kind.Geohash); !errors.Is(err, domain.ErrNoActiveEdit) {
		t.Errorf("ChangeKind: expected ErrNoActiveEdit, got %v", err)
	}
	if _, err := ed.Update(ctx, Params{}); !errors.Is(err, domain.ErrNoActiveEdit) {
		t.Errorf("Update: expected ErrNoActiveEdit, got %v", err)
	}
	if ed.Cancel(ctx) {
		t.Error("Cancel should report no open edit")
	}
}

func TestOpenNew_UnknownKind(t *testing.T) {
	ed, _ := newTestEditor(nil)

	_, err := ed.OpenNew(context.Background(), false, "percentile")
	var uk *domain.UnknownKindError
	if !errors.As(err, &uk) || uk.Kind != "percentile" {
		t.Fatalf("expected UnknownKindError, got %v", err)
	}
	if ed.State() != Idle {
		t.Error("edit should be discarded")
	}

	// metrics only exist at the nested level
	if _, err := ed.OpenNew(context.Background(), false, kind.Sum); !errors.Is(err, domain.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind for top-level sum, got %v", err)
	}
}

func TestChangeKind_ResetsParameters(t *testing.T) {
	ed, _ := newTestEditor(nil)

	if _, err := ed.Add(context.Background()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	v, err := ed.ChangeKind(context.Background(), kind.Geohash)
	if err != nil {
		t.Fatalf("ChangeKind: %v", err)
	}
	if v.Node.Size != nil || v.Node.Excluded != nil {
		t.Error("term parameters should be dropped")
	}
	if v.Node.Precision == nil || *v.Node.Precision != "5" {
		t.Errorf("expected precision 5, got %v", v.Node.Precision)
	}

	if _, err := ed.ChangeKind(context.Background(), kind.Avg); !errors.Is(err, domain.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
	if got := ed.View().Node.Kind; got != kind.Geohash {
		t.Errorf("failed change must keep kind, got %q", got)
	}
}

func TestUpdate_AllOrNothing(t *testing.T) {
	ed, _ := newTestEditor(nil)
	if _, err := ed.Add(context.Background()); err != nil {
		t.Fatalf("Add: %v", err)
	}

	size, precision := "25", 3
	_, err := ed.Update(context.Background(), Params{Size: &size, Precision: &precision})
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if got := *ed.View().Node.Size; got != "10" {
		t.Errorf("size must be unchanged, got %q", got)
	}

	bad := "abc"
	v, err := ed.Update(context.Background(), Params{Size: &bad})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if *v.Node.Size != "10" {
		t.Errorf("expected fallback size 10, got %q", *v.Node.Size)
	}
}

func TestUpdate_DateIntervalFromMagnitude(t *testing.T) {
	ed, _ := newTestEditor(statsFor(0, float64(20*interval.Day.Millis)))
	if _, err := ed.OpenNew(context.Background(), false, kind.Histogram); err != nil {
		t.Fatalf("OpenNew: %v", err)
	}
	n, err := ed.SelectField(context.Background(), "created")
	if err != nil {
		t.Fatalf("SelectField: %v", err)
	}
	if _, err := ed.OpenExisting(context.Background(), n.ID); err != nil {
		t.Fatalf("OpenExisting: %v", err)
	}

	magnitude, unit := int64(2), "hours"
	v, err := ed.Update(context.Background(), Params{IntervalMagnitude: &magnitude, IntervalUnit: &unit})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if *v.Node.Interval != "7200000" {
		t.Errorf("expected 7200000, got %q", *v.Node.Interval)
	}

	weeks := "weeks"
	if _, err := ed.Update(context.Background(), Params{IntervalUnit: &weeks}); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestUpdate_IntervalUnitOnNumericHistogram(t *testing.T) {
	ed, _ := newTestEditor(statsFor(0, 1000))
	if _, err := ed.OpenNew(context.Background(), false, kind.Histogram); err != nil {
		t.Fatalf("OpenNew: %v", err)
	}
	n, err := ed.SelectField(context.Background(), "price")
	if err != nil {
		t.Fatalf("SelectField: %v", err)
	}
	if _, err := ed.OpenExisting(context.Background(), n.ID); err != nil {
		t.Fatalf("OpenExisting: %v", err)
	}

	magnitude, unit := int64(20), "minutes"
	_, err = ed.Update(context.Background(), Params{IntervalMagnitude: &magnitude, IntervalUnit: &unit})
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if got := *ed.View().Node.Interval; got != "50" {
		t.Errorf("numeric interval must be unchanged, got %q", got)
	}
}

func TestOpenExisting_EditsCopyAndKeepsChildren(t *testing.T) {
	ed, pub := newTestEditor(nil)
	top := commitTerm(t, ed, "category")
	if _, err := ed.Add(context.Background()); err != nil {
		t.Fatalf("Add nested: %v", err)
	}
	if _, err := ed.SelectField(context.Background(), "price"); err != nil {
		t.Fatalf("SelectField nested: %v", err)
	}
	if _, err := ed.OpenNew(context.Background(), false, ""); err != nil {
		t.Fatalf("OpenNew: %v", err)
	}

	v, err := ed.OpenExisting(context.Background(), top.ID)
	if err != nil {
		t.Fatalf("OpenExisting: %v", err)
	}
	if v.Node.ID != top.ID {
		t.Errorf("expected node %d, got %d", top.ID, v.Node.ID)
	}

	size := "5"
	if _, err := ed.Update(context.Background(), Params{Size: &size}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := *ed.Snapshot()[0].Size; got != "10" {
		t.Errorf("tree must not change before commit, got size %q", got)
	}
	published := pub.count()

	if _, err := ed.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	snap := ed.Snapshot()
	if len(snap) != 1 || *snap[0].Size != "5" {
		t.Fatalf("expected replaced node, got %+v", snap)
	}
	if len(snap[0].Children) != 1 {
		t.Error("children must survive a parent edit")
	}
	if pub.count() != published+1 {
		t.Errorf("expected one more notification, got %d", pub.count()-published)
	}

	if _, err := ed.OpenExisting(context.Background(), 99); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	ed, pub := newTestEditor(nil)
	commitTerm(t, ed, "category")
	if _, err := ed.Add(context.Background()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := ed.SelectField(context.Background(), "price"); err != nil {
		t.Fatalf("SelectField: %v", err)
	}
	published := pub.count()

	if ed.Remove(context.Background(), aggregation.TopLevelList, 5) {
		t.Error("out-of-range removal should be a no-op")
	}
	if ed.RemoveNested(context.Background(), 3, 0) {
		t.Error("unknown parent removal should be a no-op")
	}
	if pub.count() != published {
		t.Error("no-op removals must not publish")
	}

	if !ed.RemoveNested(context.Background(), 0, 0) {
		t.Fatal("expected nested removal")
	}
	if len(ed.Snapshot()[0].Children) != 0 {
		t.Error("child should be gone")
	}
	if !ed.Remove(context.Background(), aggregation.TopLevelList, 0) {
		t.Fatal("expected top-level removal")
	}
	if len(ed.Snapshot()) != 0 {
		t.Error("tree should be empty")
	}
	if pub.count() != published+2 {
		t.Errorf("expected 2 notifications, got %d", pub.count()-published)
	}
}

func TestIDs_NeverReused(t *testing.T) {
	ed, _ := newTestEditor(nil)
	first := commitTerm(t, ed, "category")
	ed.Remove(context.Background(), aggregation.TopLevelList, 0)

	second := commitTerm(t, ed, "category")
	if second.ID <= first.ID {
		t.Errorf("expected id above %d, got %d", first.ID, second.ID)
	}
}

func TestLoad_AssignsIDsAndPublishes(t *testing.T) {
	ed, pub := newTestEditor(nil)
	if _, err := ed.Add(context.Background()); err != nil {
		t.Fatalf("Add: %v", err)
	}

	loaded := ed.Load(context.Background(), []aggregation.Node{
		{ID: 7, Kind: kind.Term, Field: "category", Label: aggregation.FieldLabel},
	})
	if ed.State() != Idle {
		t.Error("load should close the edit")
	}
	if len(loaded) != 1 || loaded[0].ID != 7 {
		t.Fatalf("unexpected load result: %+v", loaded)
	}
	if pub.count() != 1 {
		t.Errorf("expected 1 notification, got %d", pub.count())
	}

	if _, err := ed.Add(context.Background()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	child, err := ed.SelectField(context.Background(), "price")
	if err != nil {
		t.Fatalf("SelectField: %v", err)
	}
	if child.ID != 8 {
		t.Errorf("expected id 8 after loading id 7, got %d", child.ID)
	}
}

func TestCommit_PublishFailureKeepsMutation(t *testing.T) {
	ed, pub := newTestEditor(nil)
	pub.err = errors.New("valkey down")

	commitTerm(t, ed, "category")
	if len(ed.Snapshot()) != 1 {
		t.Error("commit must stand when publishing fails")
	}
}

func TestDisplayName(t *testing.T) {
	ed, _ := newTestEditor(nil)

	tests := []struct {
		field string
		want  string
	}{
		{"created", "Created at"},
		{"unknown", "unknown"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ed.DisplayName(tt.field); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}
