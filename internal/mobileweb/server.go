// Package mobileweb exposes the Agent Loop over HTTP: start a task,
// stream its events back over SSE or a websocket. Grounded on
// internal/web's Server/HealthHandler shape, restructured around one
// mobilesession.Session per task instead of one chat conversation per
// browser tab.
package mobileweb

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aitoearn/mobile-agent-go/internal/agentctx"
	"github.com/aitoearn/mobile-agent-go/internal/agentloop"
	"github.com/aitoearn/mobile-agent-go/internal/devicebridge/adb"
	"github.com/aitoearn/mobile-agent-go/internal/executor"
	"github.com/aitoearn/mobile-agent-go/internal/history"
	"github.com/aitoearn/mobile-agent-go/internal/llmclient"
	"github.com/aitoearn/mobile-agent-go/internal/mobilesession"
	"github.com/aitoearn/mobile-agent-go/internal/protocol"
	"github.com/aitoearn/mobile-agent-go/internal/transport/sse"
	"github.com/aitoearn/mobile-agent-go/internal/transport/wsrelay"
	"github.com/aitoearn/mobile-agent-go/pkg/config"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Server wires incoming HTTP requests to new or running Agent Loop
// sessions.
type Server struct {
	LLM        *llmclient.Client
	AgentCfg   *config.AgentConfig
	LoopConfig agentloop.Config
	Logger     zerolog.Logger

	mux       *http.ServeMux
	upgrader  websocket.Upgrader
	mu        sync.Mutex
	tasks     map[string]*runningTask
	startTime time.Time
}

type runningTask struct {
	sess *mobilesession.Session
	sink *chanSink
}

// NewServer builds a Server and registers its routes.
func NewServer(llm *llmclient.Client, agentCfg *config.AgentConfig, loopCfg agentloop.Config, logger zerolog.Logger) *Server {
	s := &Server{
		LLM:        llm,
		AgentCfg:   agentCfg,
		LoopConfig: loopCfg,
		Logger:     logger,
		mux:        http.NewServeMux(),
		upgrader:   websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		tasks:      make(map[string]*runningTask),
		startTime:  time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/api/tasks", s.handleCreateTask)
	s.mux.HandleFunc("/api/tasks/", s.handleTaskSub)
	s.mux.HandleFunc("/api/health", s.handleHealth)
}

// createTaskRequest is the POST /api/tasks body.
type createTaskRequest struct {
	Task     string `json:"task"`
	DeviceID string `json:"device_id"`
	Protocol string `json:"protocol"` // "universal" (default), "autoglm", "gelab"
}

type createTaskResponse struct {
	TaskID string `json:"task_id"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Task == "" || req.DeviceID == "" {
		http.Error(w, "task and device_id are required", http.StatusBadRequest)
		return
	}

	protoName := protocol.Name(req.Protocol)
	if protoName == "" {
		protoName = protocol.Universal
	}
	adapter := protocol.New(protoName)

	id := uuid.NewString()
	sink := newChanSink()
	detector := history.NewLoopDetectorWithConfig(s.AgentCfg.LoopWindowSize, s.AgentCfg.SimilarityThreshold, s.AgentCfg.MaxRepetitions)
	sess := mobilesession.NewWithDetector(context.Background(), id, req.Task, req.DeviceID, protoName, s.AgentCfg.MaxHistory, detector, sink)

	ctxCfg := agentctx.DefaultConfig()
	ctxCfg.MaxHistoryEntries = s.AgentCfg.MaxHistory
	ctxCfg.MaxContextMessages = s.AgentCfg.MaxContextMessages

	dev := adb.New(req.DeviceID, s.Logger)
	builder := agentctx.New(ctxCfg, adapter)
	exec := executor.New(dev, adapter)
	loop := agentloop.New(sess, dev, builder, s.LLM, exec, s.LoopConfig)

	s.mu.Lock()
	s.tasks[id] = &runningTask{sess: sess, sink: sink}
	s.mu.Unlock()

	go func() {
		loop.Run(sess.Context())
		sink.close()
	}()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(createTaskResponse{TaskID: id})
}

// handleTaskSub dispatches /api/tasks/{id}/events, /api/tasks/{id}/ws, and
// /api/tasks/{id}/cancel — a single handler rather than a router
// dependency, matching the teacher's bare http.ServeMux style.
func (s *Server) handleTaskSub(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path[len("/api/tasks/"):]
	var id, action string
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			id, action = path[:i], path[i+1:]
			break
		}
	}
	if id == "" {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	task, ok := s.tasks[id]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "unknown task id", http.StatusNotFound)
		return
	}

	switch action {
	case "events":
		s.streamSSE(w, r, task)
	case "ws":
		s.streamWS(w, r, task)
	case "cancel":
		task.sess.Cancel()
		w.WriteHeader(http.StatusAccepted)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) streamSSE(w http.ResponseWriter, r *http.Request, task *runningTask) {
	writer := sse.New(w, r)
	if writer == nil {
		return
	}
	for e := range task.sink.ch {
		if !writer.Send(e) {
			return
		}
	}
}

func (s *Server) streamWS(w http.ResponseWriter, r *http.Request, task *runningTask) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[mobileweb] websocket upgrade failed: %v", err)
		return
	}
	conn := wsrelay.New(ws)
	defer conn.Close()
	for e := range task.sink.ch {
		if !conn.Send(e) {
			return
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	active := len(s.tasks)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
		"active_tasks":   active,
	})
}

// Start begins listening with graceful shutdown on SIGINT/SIGTERM,
// matching internal/web.Server.Start exactly.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		log.Printf("[mobileweb] received signal %v, shutting down gracefully", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[mobileweb] graceful shutdown error: %v", err)
		}
	}()

	log.Printf("[mobileweb] listening on http://%s", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		log.Println("[mobileweb] server stopped gracefully")
		return nil
	}
	return err
}
