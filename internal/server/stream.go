package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// handleStream streams generation progress for a job over Server-Sent Events.
// GET /api/offers/stream?job_id=
//
// Clients pick a job_id, open the stream, then POST the same job_id to
// /api/offers/generate. The stream ends with a "done" event when the run
// finishes or the broker closes the job.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		s.writeError(w, http.StatusBadRequest, "job_id query parameter is required")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	events := s.broker.Subscribe(jobID)
	defer s.broker.Unsubscribe(jobID, events)

	s.log.Info().Str("job_id", jobID).Msg("Client connected to progress stream")

	fmt.Fprintf(w, "event: connected\ndata: {\"job_id\":%q}\n\n", jobID)
	flusher.Flush()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.log.Debug().Str("job_id", jobID).Msg("Progress stream client disconnected")
			return

		case <-heartbeat.C:
			// Comment line keeps proxies from closing an idle stream.
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()

		case event, open := <-events:
			if !open {
				fmt.Fprintf(w, "event: done\ndata: {\"job_id\":%q}\n\n", jobID)
				flusher.Flush()
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				s.log.Error().Err(err).Msg("Failed to encode progress event")
				continue
			}

			name := "progress"
			if event.Done {
				name = "done"
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
			flusher.Flush()

			if event.Done {
				return
			}
		}
	}
}
