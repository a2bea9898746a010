package apihttp

import (
	"encoding/json"
	"net/http"
	"time"

	"abrengine/internal/domain"
)

type statsRequest struct {
	Bandwidth    *float64 `json:"bandwidth"`
	Latency      *float64 `json:"latency"`
	PacketLoss   *float64 `json:"packetLoss"`
	BufferHealth *float64 `json:"bufferHealth"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body statsRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}
	if body.Bandwidth == nil || body.Latency == nil || body.PacketLoss == nil || body.BufferHealth == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "bandwidth, latency, packetLoss and bufferHealth are required")
		return
	}

	sample := domain.NetworkSample{
		Timestamp:    time.Now().UTC(),
		Bandwidth:    *body.Bandwidth,
		Latency:      *body.Latency,
		PacketLoss:   *body.PacketLoss,
		BufferHealth: *body.BufferHealth,
	}
	if err := s.control.RecordNetworkStats(sample); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type positionRequest struct {
	CurrentTime *float64 `json:"currentTime"`
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body positionRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}
	if body.CurrentTime == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "currentTime is required")
		return
	}

	if err := s.control.UpdatePosition(*body.CurrentTime); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type viewingEventRequest struct {
	SegmentID     *int     `json:"segmentId"`
	WatchDuration *float64 `json:"watchDuration"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body viewingEventRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}
	if body.SegmentID == nil || body.WatchDuration == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "segmentId and watchDuration are required")
		return
	}

	record := domain.ViewingRecord{
		SegmentID:     *body.SegmentID,
		WatchDuration: *body.WatchDuration,
	}
	if err := s.control.RecordViewingEvent(record); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.control.Snapshot())
}

type preloadResponse struct {
	Segments []int `json:"segments"`
}

func (s *Server) handlePreload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	segments := s.control.PreloadList()
	if segments == nil {
		segments = []int{}
	}
	writeJSON(w, http.StatusOK, preloadResponse{Segments: segments})
}

type qualityResponse struct {
	Quality string `json:"quality"`
}

func (s *Server) handleQuality(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, qualityResponse{Quality: s.control.CurrentQuality()})
}

type decisionsResponse struct {
	Decisions []domain.QualityDecision `json:"decisions"`
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	decisions := s.control.Decisions()
	if decisions == nil {
		decisions = []domain.QualityDecision{}
	}
	writeJSON(w, http.StatusOK, decisionsResponse{Decisions: decisions})
}

type historyEntry struct {
	SegmentID     int       `json:"segmentId"`
	WatchDuration float64   `json:"watchDuration"`
	RecordedAt    time.Time `json:"recordedAt"`
}

type historyResponse struct {
	Events []historyEntry `json:"events"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "not_configured", "viewing archive is not configured")
		return
	}

	limit, err := parseLimitQuery(r.URL.Query().Get("limit"), 100)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}

	events, err := s.archive.ListRecent(r.Context(), limit)
	if err != nil {
		s.logger.Warn("history query failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "archive_error", "failed to query viewing archive")
		return
	}

	entries := make([]historyEntry, 0, len(events))
	for _, ev := range events {
		entries = append(entries, historyEntry{
			SegmentID:     ev.Record.SegmentID,
			WatchDuration: ev.Record.WatchDuration,
			RecordedAt:    ev.RecordedAt,
		})
	}
	writeJSON(w, http.StatusOK, historyResponse{Events: entries})
}

func (s *Server) handleTuningSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetTuningSettings(w, r)
	case http.MethodPut, http.MethodPatch:
		s.handleUpdateTuningSettings(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGetTuningSettings(w http.ResponseWriter, _ *http.Request) {
	if s.tuning == nil {
		writeError(w, http.StatusNotImplemented, "not_configured", "tuning settings are not configured")
		return
	}
	writeJSON(w, http.StatusOK, s.tuning.Get())
}

type tuningUpdateRequest struct {
	DebounceCycles         *int     `json:"debounceCycles"`
	SegmentDurationSeconds *float64 `json:"segmentDurationSeconds"`
}

func (s *Server) handleUpdateTuningSettings(w http.ResponseWriter, r *http.Request) {
	if s.tuning == nil {
		writeError(w, http.StatusNotImplemented, "not_configured", "tuning settings are not configured")
		return
	}

	var body tuningUpdateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	// Absent fields keep their current values; pointer fields let a client
	// send an explicit zero.
	next := s.tuning.Get()
	if body.DebounceCycles != nil {
		next.DebounceCycles = *body.DebounceCycles
	}
	if body.SegmentDurationSeconds != nil {
		next.SegmentDurationSeconds = *body.SegmentDurationSeconds
	}

	if err := s.tuning.Update(next); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.tuning.Get())
}

type healthResponse struct {
	Status     string    `json:"status"`
	InstanceID string    `json:"instanceId"`
	Running    bool      `json:"running"`
	Cycle      uint64    `json:"cycle"`
	Quality    string    `json:"quality"`
	CheckedAt  time.Time `json:"checkedAt"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap := s.control.Snapshot()
	status := "ok"
	if !s.control.Running() {
		status = "stopped"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     status,
		InstanceID: s.control.ID(),
		Running:    s.control.Running(),
		Cycle:      snap.Cycle,
		Quality:    snap.Quality,
		CheckedAt:  time.Now().UTC(),
	})
}
