package mobileweb

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aitoearn/mobile-agent-go/internal/agentloop"
	"github.com/aitoearn/mobile-agent-go/internal/llmclient"
	"github.com/aitoearn/mobile-agent-go/pkg/config"
	"github.com/rs/zerolog"
)

func newTestServer() *Server {
	logger := zerolog.New(io.Discard)
	agentCfg := config.DefaultAgentConfig()
	return NewServer(&llmclient.Client{}, &agentCfg, agentloop.Config{MaxSteps: 1, RequestTimeout: time.Second}, logger)
}

func TestHandleHealthReportsActiveTasks(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", body["status"])
	}
	if body["active_tasks"].(float64) != 0 {
		t.Fatalf("expected 0 active tasks, got %v", body["active_tasks"])
	}
}

func TestHandleCreateTaskRejectsMissingFields(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(`{"task":""}`))
	rec := httptest.NewRecorder()
	s.handleCreateTask(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCreateTaskRegistersRunningTask(t *testing.T) {
	s := newTestServer()
	body, _ := json.Marshal(createTaskRequest{Task: "open settings", DeviceID: "emulator-5554"})
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleCreateTask(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp createTaskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.TaskID == "" {
		t.Fatal("expected a non-empty task id")
	}

	s.mu.Lock()
	_, ok := s.tasks[resp.TaskID]
	s.mu.Unlock()
	if !ok {
		t.Fatal("expected the new task to be registered")
	}
}

func TestHandleTaskSubCancelsTask(t *testing.T) {
	s := newTestServer()
	body, _ := json.Marshal(createTaskRequest{Task: "open settings", DeviceID: "emulator-5554"})
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleCreateTask(rec, req)
	var resp createTaskResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)

	cancelReq := httptest.NewRequest(http.MethodPost, "/api/tasks/"+resp.TaskID+"/cancel", nil)
	cancelRec := httptest.NewRecorder()
	s.handleTaskSub(cancelRec, cancelReq)
	if cancelRec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", cancelRec.Code)
	}

	s.mu.Lock()
	task := s.tasks[resp.TaskID]
	s.mu.Unlock()
	if !task.sess.Cancelled() {
		t.Fatal("expected session to be cancelled")
	}
}
