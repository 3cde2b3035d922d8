// Package httpserver exposes a workspacemcp server over HTTP.
//
// The transport is deliberately thin: POST /mcp carries JSON-RPC envelopes,
// GET /health reports execution status, and everything else lives in the
// protocol engine.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	interrors "github.com/wagiedev/workspace-mcp-go/internal/errors"
	"github.com/wagiedev/workspace-mcp-go/internal/exec"
	"github.com/wagiedev/workspace-mcp-go/internal/protocol"
)

// maxBodySize caps request bodies at 4 MiB.
const maxBodySize = 4 << 20

// Engine is the protocol surface the HTTP layer needs. *workspacemcp.Server
// satisfies it.
type Engine interface {
	HandleMessage(ctx context.Context, data []byte) []byte
}

// Server serves the JSON-RPC protocol over HTTP on a single address.
type Server struct {
	log    *slog.Logger
	engine Engine
	addr   string

	mu       sync.Mutex
	httpSrv  *http.Server
	listener net.Listener
	group    *errgroup.Group
}

// New creates an HTTP front end for engine listening on addr.
func New(log *slog.Logger, engine Engine, addr string) *Server {
	return &Server{
		log:    log.With("component", "httpserver"),
		engine: engine,
		addr:   addr,
	}
}

// Start binds the listener and begins serving in the background. It returns
// once the address is bound, so callers can read Addr immediately.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpSrv != nil {
		return interrors.ErrServerAlreadyRunning
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", s.handleMCP)
	mux.HandleFunc("/health", s.handleHealth)

	s.listener = listener
	s.httpSrv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, _ := errgroup.WithContext(context.Background())
	s.group = group

	srv := s.httpSrv
	group.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	s.log.Info("listening", "addr", listener.Addr().String())

	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Shutdown stops the server, waiting for in-flight requests up to the
// context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	httpSrv := s.httpSrv
	group := s.group
	s.httpSrv = nil
	s.listener = nil
	s.group = nil
	s.mu.Unlock()

	if httpSrv == nil {
		return interrors.ErrServerNotRunning
	}

	if err := httpSrv.Shutdown(ctx); err != nil {
		return err
	}

	return group.Wait()
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	if !s.validOrigin(r) {
		s.log.Warn("rejected request from disallowed origin", "origin", r.Header.Get("Origin"))
		http.Error(w, "forbidden origin", http.StatusForbidden)

		return
	}

	switch r.Method {
	case http.MethodOptions:
		s.writeCORS(w, r)
		w.WriteHeader(http.StatusNoContent)

		return
	case http.MethodPost:
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)

		return
	}

	isInit := isInitialize(body)

	response := s.engine.HandleMessage(r.Context(), body)

	s.writeCORS(w, r)

	if response == nil {
		// Notification: acknowledge with no body.
		w.WriteHeader(http.StatusAccepted)

		return
	}

	if isInit {
		w.Header().Set(protocol.HeaderSessionID, ulid.Make().String())
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	type statusReporter interface {
		Status() exec.Status
		RequestCount() int64
	}

	health := map[string]any{"status": "ok"}

	if reporter, ok := s.engine.(statusReporter); ok {
		st := reporter.Status()
		health["requests"] = reporter.RequestCount()
		health["callRunning"] = st.Running
		if st.Running {
			health["callTool"] = st.ToolName
			health["callElapsedMs"] = st.Elapsed.Milliseconds()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(health)
}

// validOrigin accepts requests with no Origin header (non-browser clients)
// and browser requests from localhost or file origins.
func (s *Server) validOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if origin == "null" || strings.HasPrefix(origin, "file://") {
		return true
	}

	for _, prefix := range []string{"http://localhost", "https://localhost", "http://127.0.0.1", "https://127.0.0.1"} {
		if origin == prefix || strings.HasPrefix(origin, prefix+":") {
			return true
		}
	}

	return false
}

func (s *Server) writeCORS(w http.ResponseWriter, r *http.Request) {
	if origin := r.Header.Get("Origin"); origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+protocol.HeaderSessionID+", "+protocol.HeaderProtocolVersion)
	}
}

// isInitialize peeks at the method without a full decode so the session
// header can be attached before writing the response.
func isInitialize(body []byte) bool {
	var peek struct {
		Method string `json:"method"`
	}

	if err := json.Unmarshal(body, &peek); err != nil {
		return false
	}

	return peek.Method == protocol.MethodInitialize
}
