package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"vigirisco/internal/audit"
	"vigirisco/pkg/platform/httputil"
)

const defaultAuditPageSize = 100

// auditEntryResponse is the read-only view of one audit row. Snapshots come
// back as the opaque JSON the log stores.
type auditEntryResponse struct {
	ActorID    *int64          `json:"idUsuario"`
	ActorName  *string         `json:"nomeUsuario"`
	Action     string          `json:"tipoAcao"`
	Table      string          `json:"tabelaAfetada,omitempty"`
	RecordID   string          `json:"idRegistroAfetado,omitempty"`
	Before     json.RawMessage `json:"dadosAnteriores,omitempty"`
	After      json.RawMessage `json:"dadosNovos,omitempty"`
	OriginIP   string          `json:"ipOrigem"`
	RecordedAt time.Time       `json:"dataHora"`
}

// listAuditHandler serves the admin-only audit trail viewer. Strictly
// read-only: the log has no other query surface and no mutation surface at
// all.
func listAuditHandler(store audit.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultAuditPageSize
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > 1000 {
				httputil.WriteJSON(w, http.StatusBadRequest, map[string]string{
					"error":             "bad_request",
					"error_description": "limit must be between 1 and 1000",
				})
				return
			}
			limit = n
		}

		entries, err := store.ListRecent(r.Context(), limit)
		if err != nil {
			logger.ErrorContext(r.Context(), "audit listing failed", "error", err.Error())
			httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
			return
		}

		out := make([]auditEntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, auditEntryResponse{
				ActorID:    e.ActorID,
				ActorName:  e.ActorName,
				Action:     string(e.Action),
				Table:      string(e.Table),
				RecordID:   e.RecordID,
				Before:     marshalSnapshot(e.Before),
				After:      marshalSnapshot(e.After),
				OriginIP:   e.OriginIP,
				RecordedAt: e.RecordedAt,
			})
		}
		httputil.WriteJSON(w, http.StatusOK, out)
	}
}

func marshalSnapshot(s audit.Snapshot) json.RawMessage {
	if s == nil {
		return nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return b
}
