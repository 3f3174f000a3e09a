// Package v1 provides the REST API handlers for the catalog listings.
package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/catalog-sync/internal/api/common"
	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/sync/coordinator"
	"github.com/stacklok/catalog-sync/internal/versions"
)

// Routes holds the handlers of the v1 API
type Routes struct {
	coordinator coordinator.Coordinator
}

// Router creates the router of the v1 API
func Router(c coordinator.Coordinator) http.Handler {
	routes := &Routes{coordinator: c}

	r := chi.NewRouter()
	r.Get("/categories", routes.listCategories)
	r.Get("/categories/{category}/items", routes.getItems)
	r.Delete("/categories/{category}/items", routes.invalidate)
	r.Get("/status", routes.getStatus)
	return r
}

// HealthRouter creates a router for health check endpoints
func HealthRouter(c coordinator.Coordinator) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(c))
	r.Get("/version", versionHandler)
	return r
}

func (routes *Routes) listCategories(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, CategoriesResponse{Categories: routes.coordinator.Categories()}, http.StatusOK)
}

func (routes *Routes) getItems(w http.ResponseWriter, r *http.Request) {
	category, err := common.GetCategoryParam(r)
	if err != nil {
		common.WriteCoordinatorError(w, r, err)
		return
	}

	items, err := coordinator.CollectFetch(routes.coordinator.Fetch(r.Context(), category))
	if err != nil {
		common.WriteCoordinatorError(w, r, err)
		return
	}
	if items == nil {
		items = []listing.Item{}
	}

	common.WriteJSONResponse(w, ItemsResponse{Category: category, Items: items}, http.StatusOK)
}

func (routes *Routes) invalidate(w http.ResponseWriter, r *http.Request) {
	category, err := common.GetCategoryParam(r)
	if err != nil {
		common.WriteCoordinatorError(w, r, err)
		return
	}
	if err := routes.coordinator.Invalidate(r.Context(), category); err != nil {
		common.WriteCoordinatorError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (routes *Routes) getStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := routes.coordinator.Statuses(r.Context())
	if err != nil {
		common.WriteCoordinatorError(w, r, err)
		return
	}

	categories := routes.coordinator.Categories()
	resp := StatusResponse{Categories: make([]CategoryStatus, 0, len(categories))}
	for _, category := range categories {
		entry := CategoryStatus{Category: category}
		if s, ok := statuses[category]; ok && s != nil {
			lastSync := s.LastSyncTime
			entry.Synced = true
			entry.LastSyncTime = &lastSync
			entry.ItemCount = s.ItemCount
			entry.Generation = s.Generation
		}
		resp.Categories = append(resp.Categories, entry)
	}
	common.WriteJSONResponse(w, resp, http.StatusOK)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, HealthResponse{Status: "healthy"}, http.StatusOK)
}

// readinessHandler reports ready once the sync state backend answers
func readinessHandler(c coordinator.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := c.Statuses(r.Context()); err != nil {
			common.WriteErrorResponse(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		common.WriteJSONResponse(w, ReadinessResponse{Status: "ready"}, http.StatusOK)
	}
}

func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetVersionInfo(), http.StatusOK)
}
