package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rpattn/panelql/internal/domain"
	"github.com/rpattn/panelql/internal/export"
	"github.com/rpattn/panelql/internal/query"
	"github.com/rpattn/panelql/internal/repository"
)

// Handler serves resource listings: GET with query parameters, POST /search
// with a JSON payload, and POST /export streaming a file.
type Handler struct {
	resources map[string]domain.Resource
	repo      repository.ResourceRepository
	exporter  *export.Service
	dialect   domain.Dialect
}

// NewHTTPHandler creates the listing handler for the registered resources.
func NewHTTPHandler(resources []domain.Resource, repo repository.ResourceRepository, exporter *export.Service, dialect domain.Dialect) http.Handler {
	byName := make(map[string]domain.Resource, len(resources))
	for _, resource := range resources {
		byName[resource.Name] = resource
	}
	return &Handler{resources: byName, repo: repo, exporter: exporter, dialect: dialect}
}

type listResponse struct {
	Rows       []repository.Row `json:"rows"`
	TotalCount int64            `json:"totalCount"`
}

type listPayload struct {
	Query       string                                  `json:"query"`
	Filters     map[string]map[string]domain.FilterSpec `json:"filters"`
	Sort        any                                     `json:"sort"`
	SortReverse bool                                    `json:"sortReverse"`
	Page        int                                     `json:"page"`
	Per         int                                     `json:"per"`
	Limit       int                                     `json:"limit"`
	BulkIDs     []string                                `json:"bulkIds"`
	IncludeRefs bool                                    `json:"includeRefs"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, action := splitResourcePath(r.URL.Path)
	resource, ok := h.resources[name]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown resource %q", name), http.StatusNotFound)
		return
	}

	switch {
	case r.Method == http.MethodGet && action == "":
		h.handleList(w, r, resource)
	case r.Method == http.MethodPost && action == "search":
		h.handleSearch(w, r, resource)
	case r.Method == http.MethodPost && action == "export":
		h.handleExport(w, r, resource)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request, resource domain.Resource) {
	params, err := parseListParams(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.respondListing(w, r, resource, params)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request, resource domain.Resource) {
	defer r.Body.Close()
	var payload listPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}

	params, err := payload.toParams()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.respondListing(w, r, resource, params)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, resource domain.Resource) {
	defer r.Body.Close()
	var payload listPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}

	params, err := payload.toParams()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch format {
	case export.FormatXLSX:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resource.Name+".xlsx"))
	default:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resource.Name+".csv"))
	}

	if err := h.exporter.Export(r.Context(), resource, params, format, w); err != nil {
		// Headers are already out; the truncated body is the best signal left.
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) respondListing(w http.ResponseWriter, r *http.Request, resource domain.Resource, params domain.ListParams) {
	assembler := query.NewAssembler(resource, h.dialect)

	scope, err := assembler.Scope(params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	countScope, err := assembler.CountScope(params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.repo.List(r.Context(), scope)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	total, err := h.repo.Count(r.Context(), countScope)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Rows: rows, TotalCount: total})
}

func (p listPayload) toParams() (domain.ListParams, error) {
	sortTarget, err := domain.NewSortTarget(p.Sort)
	if err != nil {
		return domain.ListParams{}, err
	}

	var filters domain.FilterInput
	if len(p.Filters) > 0 {
		filters = domain.FilterInput(p.Filters)
	}

	return domain.ListParams{
		Query:       strings.TrimSpace(p.Query),
		Filters:     filters,
		Sort:        sortTarget,
		SortReverse: p.SortReverse,
		Page:        p.Page,
		Per:         p.Per,
		Limit:       p.Limit,
		BulkIDs:     p.BulkIDs,
		IncludeRefs: p.IncludeRefs,
	}, nil
}

// splitResourcePath extracts the resource name and trailing action from
// /api/{resource}[/{action}].
func splitResourcePath(path string) (string, string) {
	path = strings.TrimPrefix(path, "/api/")
	path = strings.Trim(path, "/")
	name, action, _ := strings.Cut(path, "/")
	return name, action
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
