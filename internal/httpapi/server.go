package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

// StatusSource supplies the latest controller snapshot.
type StatusSource interface {
	Status() types.Status
}

// GrantLister reads journaled grants back for one boot session.
type GrantLister interface {
	GrantsForSession(ctx context.Context, sessionID uint32) ([]types.AuditEntry, error)
}

type Dependencies struct {
	Logger *log.Logger
	Addr   string
	Status StatusSource

	// Grants backs /v1/sessions/{id}/grants. Nil leaves the endpoint
	// unregistered.
	Grants GrantLister

	// Gatherer backs /metrics. Nil leaves the endpoint unregistered.
	Gatherer prometheus.Gatherer
}

// Server is the read-only status surface. Nothing it serves can actuate
// the lock.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	mux        *http.ServeMux
	status     StatusSource
	grants     GrantLister
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger: d.Logger,
		mux:    mux,
		status: d.Status,
		grants: d.Grants,
	}

	mux.HandleFunc("GET /v1/status", s.handleStatus)
	if d.Grants != nil {
		mux.HandleFunc("GET /v1/sessions/{id}/grants", s.handleSessionGrants)
	}
	if d.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.status.Status()

	if wantsProtobuf(r) {
		msg, err := statusToProto(st)
		if err != nil {
			s.logger.Printf("status encode error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
			return
		}
		writeProto(w, http.StatusOK, msg)
		return
	}

	writeJSON(w, http.StatusOK, st)
}

type grantEntry struct {
	SessionID uint32 `json:"session_id"`
	ElapsedMS uint32 `json:"elapsed_ms"`
	UID       string `json:"uid"`
}

type grantsResponse struct {
	SessionID uint32       `json:"session_id"`
	Grants    []grantEntry `json:"grants"`
}

func (s *Server) handleSessionGrants(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_session_id", "session id must be an unsigned 32-bit integer")
		return
	}

	entries, err := s.grants.GrantsForSession(r.Context(), uint32(id))
	if err != nil {
		s.logger.Printf("grants query error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	resp := grantsResponse{SessionID: uint32(id), Grants: make([]grantEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Grants = append(resp.Grants, grantEntry{
			SessionID: e.SessionID,
			ElapsedMS: e.ElapsedMS,
			UID:       e.Credential.String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}
