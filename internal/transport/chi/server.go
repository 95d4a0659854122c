package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/aggspec/internal/domain"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/kind"
	"github.com/kailas-cloud/aggspec/internal/domain/property"
	logpkg "github.com/kailas-cloud/aggspec/internal/logger"
	"github.com/kailas-cloud/aggspec/internal/transport/elastic"
	editoruc "github.com/kailas-cloud/aggspec/internal/usecase/editor"
	healthuc "github.com/kailas-cloud/aggspec/internal/usecase/health"
)

// fieldCatalog lists catalog properties for the field picker.
type fieldCatalog interface {
	Compatible(allowed []property.DataType, onlySortable bool) []property.Property
}

// snapshotStore removes stored specifications.
type snapshotStore interface {
	Delete(ctx context.Context, searchID string) error
}

// Server is the HTTP API of the aggregation editor.
type Server struct {
	editors       *editoruc.Service
	catalog       fieldCatalog
	snapshots     snapshotStore
	health        *healthuc.Service
	validate      *validator.Validate
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. catalog and snapshots may be nil.
func NewServer(
	editors *editoruc.Service,
	catalog fieldCatalog,
	snapshots snapshotStore,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		editors:       editors,
		catalog:       catalog,
		snapshots:     snapshots,
		health:        health,
		validate:      validator.New(),
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/kinds", s.ListKinds)

	r.Route("/searches/{searchID}", func(r chi.Router) {
		r.Use(searchLogger)
		r.Delete("/", s.DeleteSearch)

		r.Get("/aggregations", s.GetAggregations)
		r.Post("/aggregations", s.LoadAggregations)
		r.Get("/aggregations/dsl", s.GetAggregationsDSL)
		r.Delete("/aggregations/{index}", s.RemoveAggregation)
		r.Delete("/aggregations/{parentIndex}/nested/{index}", s.RemoveNestedAggregation)

		r.Post("/add", s.Add)
		r.Post("/edits", s.OpenEdit)
		r.Post("/edits/{nodeID}", s.OpenExistingEdit)

		r.Get("/edit", s.GetEdit)
		r.Patch("/edit", s.PatchEdit)
		r.Delete("/edit", s.CancelEdit)
		r.Get("/edit/fields", s.ListEditFields)
		r.Put("/edit/field", s.SelectField)
		r.Post("/edit/commit", s.CommitEdit)
	})
}

// ListKinds handles GET /kinds.
func (s *Server) ListKinds(w http.ResponseWriter, r *http.Request) {
	level, err := queryString(r, "level")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid level parameter")
		return
	}

	l := kind.TopLevel
	if level != nil {
		switch *level {
		case "top":
		case "nested":
			l = kind.Nested
		default:
			writeError(w, http.StatusBadRequest, CodeValidationFailed, `level must be "top" or "nested"`)
			return
		}
	}
	writeJSON(w, http.StatusOK, kindsToResponse(s.editors.Kinds(l)))
}

// GetAggregations handles GET /searches/{searchID}/aggregations.
func (s *Server) GetAggregations(w http.ResponseWriter, r *http.Request) {
	ed, ok := s.editor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.aggregationsResponse(ed, ed.Snapshot()))
}

// LoadAggregations handles POST /searches/{searchID}/aggregations.
func (s *Server) LoadAggregations(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if !s.decode(w, r, &req) {
		return
	}
	ed, ok := s.editor(w, r)
	if !ok {
		return
	}
	snapshot := ed.Load(r.Context(), req.Aggregations)
	writeJSON(w, http.StatusOK, s.aggregationsResponse(ed, snapshot))
}

// GetAggregationsDSL handles GET /searches/{searchID}/aggregations/dsl.
func (s *Server) GetAggregationsDSL(w http.ResponseWriter, r *http.Request) {
	ed, ok := s.editor(w, r)
	if !ok {
		return
	}
	body, err := elastic.Render(ed.Snapshot())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// RemoveAggregation handles DELETE /searches/{searchID}/aggregations/{index}.
func (s *Server) RemoveAggregation(w http.ResponseWriter, r *http.Request) {
	index, err := pathInt(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid index")
		return
	}
	ed, ok := s.editor(w, r)
	if !ok {
		return
	}
	// Out-of-range indexes are a no-op.
	ed.Remove(r.Context(), aggregation.TopLevelList, int(index))
	w.WriteHeader(http.StatusNoContent)
}

// RemoveNestedAggregation handles DELETE /searches/{searchID}/aggregations/{parentIndex}/nested/{index}.
func (s *Server) RemoveNestedAggregation(w http.ResponseWriter, r *http.Request) {
	parentIndex, err := pathInt(r, "parentIndex")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parent index")
		return
	}
	index, err := pathInt(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid index")
		return
	}
	ed, ok := s.editor(w, r)
	if !ok {
		return
	}
	ed.RemoveNested(r.Context(), int(parentIndex), int(index))
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSearch handles DELETE /searches/{searchID}.
func (s *Server) DeleteSearch(w http.ResponseWriter, r *http.Request) {
	searchID, err := pathString(r, "searchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid search id")
		return
	}

	forgotten := s.editors.Forget(searchID)
	if s.snapshots != nil {
		if err := s.snapshots.Delete(r.Context(), searchID); err != nil {
			if !forgotten || !errors.Is(err, domain.ErrNotFound) {
				s.handleDomainError(w, r, err)
				return
			}
		}
	} else if !forgotten {
		writeError(w, http.StatusNotFound, CodeNotFound, domain.ErrNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Add handles POST /searches/{searchID}/add.
func (s *Server) Add(w http.ResponseWriter, r *http.Request) {
	ed, ok := s.editor(w, r)
	if !ok {
		return
	}
	v, err := ed.Add(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, editToResponse(v, ed.DisplayName))
}

// OpenEdit handles POST /searches/{searchID}/edits.
func (s *Server) OpenEdit(w http.ResponseWriter, r *http.Request) {
	var req OpenEditRequest
	if !s.decode(w, r, &req) {
		return
	}
	ed, ok := s.editor(w, r)
	if !ok {
		return
	}
	v, err := ed.OpenNew(r.Context(), req.Nested, kind.Kind(req.Kind))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	status := http.StatusCreated
	if v.State != editoruc.Editing {
		status = http.StatusOK
	}
	writeJSON(w, status, editToResponse(v, ed.DisplayName))
}

// OpenExistingEdit handles POST /searches/{searchID}/edits/{nodeID}.
func (s *Server) OpenExistingEdit(w http.ResponseWriter, r *http.Request) {
	nodeID, err := pathInt(r, "nodeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid node id")
		return
	}
	ed, ok := s.editor(w, r)
	if !ok {
		return
	}
	v, err := ed.OpenExisting(r.Context(), nodeID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, editToResponse(v, ed.DisplayName))
}

// GetEdit handles GET /searches/{searchID}/edit.
func (s *Server) GetEdit(w http.ResponseWriter, r *http.Request) {
	ed, ok := s.editor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, editToResponse(ed.View(), ed.DisplayName))
}

// PatchEdit handles PATCH /searches/{searchID}/edit.
func (s *Server) PatchEdit(w http.ResponseWriter, r *http.Request) {
	var req PatchEditRequest
	if !s.decode(w, r, &req) {
		return
	}
	ed, ok := s.editor(w, r)
	if !ok {
		return
	}

	if req.Kind != nil {
		if _, err := ed.ChangeKind(r.Context(), kind.Kind(*req.Kind)); err != nil {
			s.handleDomainError(w, r, err)
			return
		}
	}
	v, err := ed.Update(r.Context(), patchToParams(req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if req.Commit {
		if _, err := ed.Commit(r.Context()); err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		v = ed.View()
	}
	writeJSON(w, http.StatusOK, editToResponse(v, ed.DisplayName))
}

// CancelEdit handles DELETE /searches/{searchID}/edit.
func (s *Server) CancelEdit(w http.ResponseWriter, r *http.Request) {
	ed, ok := s.editor(w, r)
	if !ok {
		return
	}
	ed.Cancel(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ListEditFields handles GET /searches/{searchID}/edit/fields.
func (s *Server) ListEditFields(w http.ResponseWriter, r *http.Request) {
	ed, ok := s.editor(w, r)
	if !ok {
		return
	}
	v := ed.View()
	if v.State != editoruc.Editing {
		s.handleDomainError(w, r, domain.ErrNoActiveEdit)
		return
	}

	fields := []PropertyResponse{}
	if s.catalog != nil {
		fields = propertiesToResponse(s.catalog.Compatible(v.AllowedDataTypes, v.OnlySortable))
	}
	writeJSON(w, http.StatusOK, FieldsResponse{Fields: fields, OnlySortable: v.OnlySortable})
}

// SelectField handles PUT /searches/{searchID}/edit/field.
func (s *Server) SelectField(w http.ResponseWriter, r *http.Request) {
	var req SelectFieldRequest
	if !s.decode(w, r, &req) {
		return
	}
	ed, ok := s.editor(w, r)
	if !ok {
		return
	}
	node, err := ed.SelectField(r.Context(), req.Field)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nodeToResponse(node, ed.DisplayName))
}

// CommitEdit handles POST /searches/{searchID}/edit/commit.
func (s *Server) CommitEdit(w http.ResponseWriter, r *http.Request) {
	ed, ok := s.editor(w, r)
	if !ok {
		return
	}
	node, err := ed.Commit(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nodeToResponse(node, ed.DisplayName))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, HealthResponse{Status: string(healthuc.Healthy), Checks: map[string]string{}})
		return
	}
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// searchLogger tags the request logger with the saved search id.
func searchLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logpkg.WithSearchID(r.Context(), chi.URLParam(r, "searchID"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) editor(w http.ResponseWriter, r *http.Request) (*editoruc.Editor, bool) {
	searchID, err := pathString(r, "searchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid search id")
		return nil, false
	}
	ed, err := s.editors.Editor(r.Context(), searchID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return nil, false
	}
	return ed, true
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return false
	}
	return true
}

func (s *Server) aggregationsResponse(ed *editoruc.Editor, snapshot []aggregation.Node) AggregationsResponse {
	return AggregationsResponse{
		Aggregations: nodesToResponse(snapshot, ed.DisplayName),
		CanAdd:       ed.CanAdd(),
		Editing:      ed.State() == editoruc.Editing,
	}
}
