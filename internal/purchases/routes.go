package purchases

import "github.com/go-chi/chi/v5"

// MountRoutes registers the purchase endpoints. No PUT is mounted:
// purchases have no update operation, only creation and soft delete.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/search/{query}", h.Search)
	r.Get("/{id}", h.Show)
	r.Post("/", h.Create)
	r.Delete("/{id}", h.Delete)
}
