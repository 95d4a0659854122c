package editor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/aggspec/internal/domain"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/interval"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/kind"
	"github.com/kailas-cloud/aggspec/internal/domain/property"
	"github.com/kailas-cloud/aggspec/internal/metrics"
)

// State is the edit session state.
type State int

// Edit session states.
const (
	Idle State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "idle"
}

// Params are field-level changes to the node in edit. Nil entries are left alone.
type Params struct {
	Precision         *int
	Interval          *string
	IntervalMagnitude *int64
	IntervalUnit      *string
	Size              *string
	Excluded          *string
	OrderBy           *string
}

// View is a read-only copy of the edit session.
type View struct {
	State            State
	Token            string
	Node             aggregation.Node
	Level            kind.Level
	Kinds            []kind.Descriptor
	AllowedDataTypes []property.DataType
	OnlySortable     bool

	// Date histograms only.
	IntervalMagnitude int64
	IntervalUnit      string
}

// session is the single node in edit. token and generation identify the
// moment a statistics request was issued so late responses can be dropped.
type session struct {
	token      string
	generation uint64
	node       aggregation.Node
	level      kind.Level
}

// Editor owns one saved search's aggregation tree and its edit session.
// At most one node is in edit at any time.
type Editor struct {
	mu           sync.Mutex
	searchID     string
	tree         *aggregation.Tree
	current      *session
	stats        StatisticsProvider
	catalog      PropertyCatalog
	notifier     *Notifier
	logger       *zap.Logger
	statsTimeout time.Duration
	newToken     func() string
}

// New creates an editor over tree. catalog may be nil, in which case field
// data types are not checked and no field is treated as a date.
func New(
	searchID string,
	tree *aggregation.Tree,
	stats StatisticsProvider,
	catalog PropertyCatalog,
	notifier *Notifier,
	logger *zap.Logger,
) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewNotifier(searchID, nil, logger)
	}
	return &Editor{
		searchID: searchID,
		tree:     tree,
		stats:    stats,
		catalog:  catalog,
		notifier: notifier,
		logger:   logger.With(zap.String("search_id", searchID)),
		newToken: uuid.NewString,
	}
}

// WithStatisticsTimeout bounds every statistics request. Zero means no bound.
func (e *Editor) WithStatisticsTimeout(d time.Duration) *Editor {
	e.statsTimeout = d
	return e
}

// SearchID returns the saved search the editor belongs to.
func (e *Editor) SearchID() string { return e.searchID }

// State returns the edit session state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return Idle
	}
	return Editing
}

// View returns the current edit session.
func (e *Editor) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// Snapshot returns the tree without back-references.
func (e *Editor) Snapshot() []aggregation.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.Snapshot()
}

// CanAdd reports whether the "add" action is offered.
func (e *Editor) CanAdd() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.CanAdd()
}

// CanAddNested reports whether a new nested aggregation may be opened.
func (e *Editor) CanAddNested() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.CanAddNested()
}

// DisplayName resolves a field to its catalog display name.
func (e *Editor) DisplayName(field string) string {
	if field == "" {
		return ""
	}
	if e.catalog != nil {
		if p, ok := e.catalog.Property(field); ok {
			return p.DisplayName()
		}
	}
	return field
}

// Load replaces the tree with a loaded specification, closes any edit
// session and publishes the result.
func (e *Editor) Load(ctx context.Context, nodes []aggregation.Node) []aggregation.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = nil
	e.tree.Load(nodes)
	return e.notifier.Notify(ctx, e.tree)
}

// Add is the single "add" action: a top-level aggregation on an empty tree,
// otherwise a nested one under the first top-level node. While an edit is
// open it closes that edit instead, without committing.
func (e *Editor) Add(ctx context.Context) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		e.cancelLocked()
		return e.viewLocked(), nil
	}
	if !e.tree.CanAdd() {
		return View{}, fmt.Errorf("add aggregation: %w", domain.ErrNestingNotAllowed)
	}
	return e.openNewLocked(ctx, e.tree.Len() > 0, "")
}

// OpenNew starts editing a fresh node. An empty kind selects the level's default.
// While an edit is open it closes that edit instead, without committing.
func (e *Editor) OpenNew(ctx context.Context, nested bool, k kind.Kind) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		e.cancelLocked()
		return e.viewLocked(), nil
	}
	return e.openNewLocked(ctx, nested, k)
}

func (e *Editor) openNewLocked(ctx context.Context, nested bool, k kind.Kind) (View, error) {
	level := kind.TopLevel
	var parentID int64
	if nested {
		if !e.tree.CanAddNested() {
			return View{}, fmt.Errorf("open nested aggregation: %w", domain.ErrNestingNotAllowed)
		}
		first, _ := e.tree.First()
		parentID = first.ID
		level = kind.Nested
	}
	if k == "" {
		k = kind.Default(level)
	}

	d, err := kind.ResolveAt(string(k), level)
	if err != nil {
		e.discardUnknownKind(ctx, k, err)
		return View{}, err
	}

	node := aggregation.NewTopLevel(d.Kind)
	if nested {
		node = aggregation.NewNested(d.Kind, parentID)
	}
	if err := node.ApplyDefaults(); err != nil {
		return View{}, err
	}

	e.current = &session{token: e.newToken(), node: node, level: level}
	return e.viewLocked(), nil
}

// OpenExisting starts editing a copy of the node with the given id. Any open
// edit is discarded without commit first.
func (e *Editor) OpenExisting(ctx context.Context, id int64) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		e.cancelLocked()
	}

	node, ok := e.tree.Find(id)
	if !ok {
		return View{}, fmt.Errorf("aggregation %d: %w", id, domain.ErrNotFound)
	}
	level := node.Level()
	if _, err := kind.ResolveAt(string(node.Kind), level); err != nil {
		e.discardUnknownKind(ctx, node.Kind, err)
		return View{}, err
	}
	if err := node.ApplyDefaults(); err != nil {
		return View{}, err
	}
	node.Children = nil

	e.current = &session{token: e.newToken(), node: node, level: level}
	return e.viewLocked(), nil
}

// ChangeKind switches the node in edit to another kind eligible at its level
// and applies that kind's defaults.
func (e *Editor) ChangeKind(ctx context.Context, k kind.Kind) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.activeLocked()
	if err != nil {
		return View{}, err
	}
	if _, err := kind.ResolveAt(string(k), s.level); err != nil {
		e.discardUnknownKind(ctx, k, err)
		return View{}, err
	}
	if err := s.node.Retype(k); err != nil {
		return View{}, err
	}
	s.generation++
	return e.viewLocked(), nil
}

// Update applies field-level changes to the node in edit. Either all changes
// apply or none do.
func (e *Editor) Update(_ context.Context, p Params) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.activeLocked()
	if err != nil {
		return View{}, err
	}

	node := s.node.Clone()
	if err := applyParams(&node, p); err != nil {
		return View{}, err
	}
	s.node = node
	return e.viewLocked(), nil
}

func applyParams(n *aggregation.Node, p Params) error {
	if p.Precision != nil {
		if err := n.SetPrecision(*p.Precision); err != nil {
			return err
		}
	}
	if p.Interval != nil {
		if err := n.SetInterval(*p.Interval); err != nil {
			return err
		}
	}
	if p.IntervalMagnitude != nil || p.IntervalUnit != nil {
		magnitude, unit, ok := n.DisplayInterval()
		if !ok {
			magnitude, unit = interval.DefaultMagnitude, interval.Minute
		}
		if p.IntervalMagnitude != nil {
			magnitude = *p.IntervalMagnitude
		}
		if p.IntervalUnit != nil {
			u, found := interval.UnitByName(*p.IntervalUnit)
			if !found {
				return fmt.Errorf("interval unit %q: %w", *p.IntervalUnit, domain.ErrInvalidParameter)
			}
			unit = u
		}
		if err := n.SetDateInterval(magnitude, unit); err != nil {
			return err
		}
	}
	if p.Size != nil {
		if err := n.SetSize(*p.Size); err != nil {
			return err
		}
	}
	if p.Excluded != nil {
		if err := n.SetExcluded(*p.Excluded); err != nil {
			return err
		}
	}
	if p.OrderBy != nil {
		if err := n.SetOrderBy(*p.OrderBy); err != nil {
			return err
		}
	}
	return nil
}

// SelectField sets the node's field and commits it. Histograms first derive
// their interval from the field's statistics; if that fails the node keeps its
// previous interval and the edit stays open.
func (e *Editor) SelectField(ctx context.Context, field string) (aggregation.Node, error) {
	e.mu.Lock()
	s, err := e.activeLocked()
	if err != nil {
		e.mu.Unlock()
		return aggregation.Node{}, err
	}
	if field == "" {
		e.mu.Unlock()
		return aggregation.Node{}, fmt.Errorf("field is required: %w", domain.ErrInvalidParameter)
	}
	prop, err := e.checkFieldLocked(s, field)
	if err != nil {
		e.mu.Unlock()
		return aggregation.Node{}, err
	}

	s.node.SetField(field)
	s.generation++
	if s.node.Kind != kind.Histogram {
		defer e.mu.Unlock()
		return e.commitLocked(ctx)
	}
	token, generation := s.token, s.generation
	e.mu.Unlock()

	stats, err := e.fetchStatistics(ctx, field)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		metrics.StatisticsRequestsTotal.WithLabelValues("error").Inc()
		e.logger.Warn("field statistics request failed", zap.String("field", field), zap.Error(err))
		return aggregation.Node{}, fmt.Errorf("statistics for %q: %w: %w", field, domain.ErrStatisticsUnavailable, err)
	}
	cur := e.current
	if cur == nil || cur.token != token || cur.generation != generation {
		metrics.StatisticsRequestsTotal.WithLabelValues("stale").Inc()
		return aggregation.Node{}, fmt.Errorf("statistics for %q: %w", field, domain.ErrStaleStatistics)
	}
	if stats.Field != field {
		metrics.StatisticsRequestsTotal.WithLabelValues("mismatch").Inc()
		return aggregation.Node{}, fmt.Errorf("statistics for %q answered for %q: %w",
			field, stats.Field, domain.ErrStatisticsMismatch)
	}
	metrics.StatisticsRequestsTotal.WithLabelValues("ok").Inc()

	cur.node.ApplyInterval(interval.Calculate(stats, prop.IsDate()))
	return e.commitLocked(ctx)
}

func (e *Editor) fetchStatistics(ctx context.Context, field string) (interval.Stats, error) {
	if e.stats == nil {
		return interval.Stats{}, errors.New("no statistics provider configured")
	}
	if e.statsTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.statsTimeout)
		defer cancel()
	}
	start := time.Now()
	stats, err := e.stats.FieldStatistics(ctx, field)
	metrics.StatisticsRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return interval.Stats{}, fmt.Errorf("field statistics: %w", err)
	}
	return stats, nil
}

// checkFieldLocked ensures field's data type is accepted by the node's kind.
func (e *Editor) checkFieldLocked(s *session, field string) (property.Property, error) {
	if e.catalog == nil {
		return property.New(field, "", "", false), nil
	}
	prop, ok := e.catalog.Property(field)
	if !ok {
		return property.Property{}, fmt.Errorf("unknown property %q: %w", field, domain.ErrIncompatibleField)
	}
	d, err := kind.Resolve(string(s.node.Kind))
	if err != nil {
		return property.Property{}, err
	}
	if !d.Accepts(prop.DataType()) {
		return property.Property{}, fmt.Errorf("property %q of type %q for %q: %w",
			field, prop.DataType(), d.Kind, domain.ErrIncompatibleField)
	}
	return prop, nil
}

// Commit writes the node in edit into the tree and closes the edit.
func (e *Editor) Commit(ctx context.Context) (aggregation.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.activeLocked(); err != nil {
		return aggregation.Node{}, err
	}
	return e.commitLocked(ctx)
}

func (e *Editor) commitLocked(ctx context.Context) (aggregation.Node, error) {
	s := e.current
	if !s.node.HasField() {
		return aggregation.Node{}, fmt.Errorf("select a field before committing: %w", domain.ErrInvalidParameter)
	}

	node := s.node.Clone()
	node.FinalizeForCommit()
	if s.level == kind.TopLevel && node.ID != 0 {
		if existing, ok := e.tree.Find(node.ID); ok {
			node.Children = existing.Children
		}
	}

	stored, err := e.tree.Upsert(node)
	if err != nil {
		return aggregation.Node{}, fmt.Errorf("commit aggregation: %w", err)
	}
	e.current = nil
	metrics.EditorCommitsTotal.WithLabelValues(string(stored.Kind), s.level.String()).Inc()
	e.logger.Debug("aggregation committed",
		zap.Int64("id", stored.ID),
		zap.String("kind", string(stored.Kind)),
		zap.String("field", stored.Field),
	)

	e.notifier.Notify(ctx, e.tree)
	return stored, nil
}

// Cancel closes the edit without touching the tree. It reports whether an edit was open.
func (e *Editor) Cancel(_ context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return false
	}
	e.cancelLocked()
	return true
}

func (e *Editor) cancelLocked() {
	e.current = nil
	metrics.EditorCancelsTotal.Inc()
}

// Remove deletes the node at index from the referenced list. Out-of-range
// removals are no-ops and publish nothing.
func (e *Editor) Remove(ctx context.Context, ref aggregation.ListRef, index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.tree.Remove(ref, index) {
		return false
	}
	e.notifier.Notify(ctx, e.tree)
	return true
}

// RemoveNested deletes the index-th child of the top-level node at parentIndex.
func (e *Editor) RemoveNested(ctx context.Context, parentIndex, index int) bool {
	e.mu.Lock()
	ref, ok := e.tree.RefAt(parentIndex)
	e.mu.Unlock()
	if !ok {
		return false
	}
	return e.Remove(ctx, ref, index)
}

func (e *Editor) activeLocked() (*session, error) {
	if e.current == nil {
		return nil, domain.ErrNoActiveEdit
	}
	return e.current, nil
}

func (e *Editor) discardUnknownKind(_ context.Context, k kind.Kind, err error) {
	metrics.EditorUnknownKindsTotal.Inc()
	e.logger.Warn("no aggregation of this kind, edit discarded",
		zap.String("kind", string(k)),
		zap.Error(err),
	)
}

func (e *Editor) viewLocked() View {
	s := e.current
	if s == nil {
		return View{State: Idle}
	}
	v := View{
		State: Editing,
		Token: s.token,
		Node:  s.node.Clone(),
		Level: s.level,
		Kinds: kind.ForLevel(s.level),
	}
	if types, err := kind.AllowedDataTypes(string(s.node.Kind)); err == nil {
		v.AllowedDataTypes = types
		v.OnlySortable = !slices.Contains(types, property.GeoLocation)
	}
	if magnitude, unit, ok := s.node.DisplayInterval(); ok {
		v.IntervalMagnitude = magnitude
		v.IntervalUnit = unit.Name
	}
	return v
}
