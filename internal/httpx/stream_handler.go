package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
	"github.com/mbarhoumi/agil-backoffice/internal/metrics"
	"github.com/mbarhoumi/agil-backoffice/internal/notify"
)

// StreamHandler serves the live new-order feed over server-sent events.
type StreamHandler struct {
	hub     *notify.Hub
	metrics *metrics.OrderMetrics
	logger  *log.Entry
}

// NewStreamHandler builds the handler. m may be nil.
func NewStreamHandler(hub *notify.Hub, m *metrics.OrderMetrics, logger *log.Entry) *StreamHandler {
	if logger == nil {
		logger = log.WithField("component", "http-stream")
	}
	return &StreamHandler{hub: hub, metrics: m, logger: logger}
}

// Stream pushes order announcements until the client disconnects. The feed
// is best-effort: a slow consumer silently misses events rather than
// blocking placement.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if !actor.Is(domain.RoleAdmin, domain.RoleDepot) {
		writeError(w, domain.ErrForbidden)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "streaming unsupported", Kind: "INTERNAL"})
		return
	}

	events, cancel := h.hub.Subscribe()
	defer cancel()

	if h.metrics != nil {
		h.metrics.RecordSubscriberConnected()
		defer h.metrics.RecordSubscriberDisconnected()
	}
	h.logger.WithField("actor_id", actor.ID).Info("stream subscriber connected")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			h.logger.WithField("actor_id", actor.ID).Info("stream subscriber disconnected")
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.WithError(err).Warn("marshal stream event")
				continue
			}
			fmt.Fprintf(w, "event: order.placed\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
