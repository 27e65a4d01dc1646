package export

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/wesplit/internal/middleware"
	"github.com/mmynk/wesplit/internal/models"
	"github.com/mmynk/wesplit/internal/storage"
)

// Handler serves GET /export/groups/{groupID}.csv for group members.
// The optional "shares" query flag adds per-participant columns.
type Handler struct {
	store  storage.Store
	logger *slog.Logger
}

// NewHandler creates an export handler.
func NewHandler(store storage.Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groupID := chi.URLParam(r, "groupID")
	userID := middleware.GetUserID(ctx)

	withShares := false
	if raw := r.URL.Query().Get("shares"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "invalid shares flag", http.StatusBadRequest)
			return
		}
		withShares = v
	}

	group, err := h.store.GetGroup(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "group not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("Export failed - could not get group", "group_id", groupID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !group.HasUser(userID) {
		http.Error(w, "not a member of this group", http.StatusForbidden)
		return
	}

	stored, err := h.store.ListExpenses(ctx, groupID, "")
	if err != nil {
		h.logger.Error("Export failed - could not list expenses", "group_id", groupID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	expenses := make([]models.Expense, len(stored))
	for i, e := range stored {
		expenses[i] = *e
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", groupID+".csv"))
	if err := WriteCSV(w, *group, expenses, withShares); err != nil {
		h.logger.Error("Export failed - could not write csv", "group_id", groupID, "error", err)
		return
	}
	h.logger.Info("Group exported", "group_id", groupID, "expenses", len(expenses), "shares", withShares)
}
