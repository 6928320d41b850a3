package api

import (
	"net/http"

	"github.com/kaizendigilabs/coffee-shop-pwa/internal/actions"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/api/shared"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/domain"
)

// StoreHandler handles the store-selection endpoints. All row access runs
// under the caller's own token, so the backend's row-level security decides
// what each user sees.
type StoreHandler struct {
	actions *actions.Actions
}

// NewStoreHandler creates a new StoreHandler with the given dependencies.
func NewStoreHandler(actionLayer *actions.Actions) *StoreHandler {
	return &StoreHandler{actions: actionLayer}
}

// List handles the /stores endpoint. A fetch failure degrades to an empty
// collection inside the action layer, so the response is always 200.
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	token, ok := shared.GetAccessToken(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
		return
	}

	stores := h.actions.GetStores(r.Context(), token)
	shared.RespondWithJSON(w, r, http.StatusOK, StoresResponse{Stores: stores})
}

// Switch handles the /stores/switch endpoint: it resolves the requested ID
// against the stores the caller can currently see and returns the match, or
// null when the ID is absent. Selection is derived by lookup, never set
// blindly, so a client can never point at a store it cannot access.
func (h *StoreHandler) Switch(w http.ResponseWriter, r *http.Request) {
	token, ok := shared.GetAccessToken(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
		return
	}

	var req SwitchStoreRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	stores := h.actions.GetStores(r.Context(), token)
	match, _ := domain.FindStore(stores, req.StoreID)
	shared.RespondWithJSON(w, r, http.StatusOK, CurrentStoreResponse{CurrentStore: match})
}
