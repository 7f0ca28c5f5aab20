package events

import (
	e "medremind/internal/core/domain/errors"
	"medremind/internal/core/domain/logging"
	eventpublisher "medremind/internal/implementations/event_publisher"
	"net/http"

	"github.com/r3labs/sse/v2"
)

type Handler struct {
	log       logging.Logger
	sseServer *sse.Server
}

func New(log logging.Logger, sseServer *sse.Server) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sseServer == nil {
		panic(e.NewNilArgumentError("sseServer"))
	}
	return &Handler{log: log, sseServer: sseServer}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	// Subscribers always read the reminder stream, whatever they ask for.
	query := r.URL.Query()
	query.Set("stream", eventpublisher.STREAM)
	r.URL.RawQuery = query.Encode()

	go func() {
		<-r.Context().Done()
		h.log.Info(r.Context(), "Unsubscribed from reminder events.", logging.Entry("remoteAddr", r.RemoteAddr))
	}()

	h.log.Info(r.Context(), "Subscribed to reminder events.", logging.Entry("remoteAddr", r.RemoteAddr))
	h.sseServer.ServeHTTP(rw, r)
}
