package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/nibzard/tasklist/internal/task"
	"github.com/nibzard/tasklist/internal/utils"
)

// Server serves a Store over HTTP.
type Server struct {
	store  *Store
	router *mux.Router
	logger *log.Logger
}

// New builds the service router around store. A nil logger discards output.
func New(store *Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{store: store, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	for _, p := range []string{"/tasks/", "/tasks"} {
		r.HandleFunc(p, s.listTasks).Methods(http.MethodGet)
		r.HandleFunc(p, s.addTask).Methods(http.MethodPost)
	}
	r.HandleFunc("/tasks/clear", s.clearTasks).Methods(http.MethodDelete)
	r.HandleFunc("/tasks/{id:[0-9]+}", s.editTask).Methods(http.MethodPut)
	r.HandleFunc("/tasks/{id:[0-9]+}", s.deleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/tasks/{id:[0-9]+}/complete", s.completeTask).Methods(http.MethodPatch)
	r.Use(s.logRequests)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.logger.Info("dev service listening", "addr", ln.Addr().String())
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return utils.Serve(ctx, srv, ln)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", r.Header.Get("X-Request-ID"),
		)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

// taskResponse is a task as the service writes it. The store never keeps an
// empty deadline, so an empty one here was null and is written as null.
type taskResponse struct {
	ID          task.ID `json:"id"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Deadline    *string `json:"deadline"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"created_at"`
}

func newTaskResponse(t task.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		Description: t.Description,
		Category:    t.Category,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
	}
	if t.Deadline != "" {
		deadline := t.Deadline
		resp.Deadline = &deadline
	}
	return resp
}

func newTaskResponses(tasks []task.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskResponse(t))
	}
	return out
}

func respondWithError(w http.ResponseWriter, code int, msg string) {
	respondWithJSON(w, code, map[string]string{"error": msg})
}

// errorResponse maps store errors to the service's status codes and messages.
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, ErrDescriptionRequired):
		return http.StatusBadRequest, "Description is required"
	case errors.Is(err, ErrInvalidCategory):
		return http.StatusBadRequest, "Categoria inválida"
	case errors.Is(err, ErrInvalidDeadline):
		return http.StatusBadRequest, "Invalid deadline"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "Task not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func taskID(r *http.Request) int {
	// The route pattern guarantees digits; overflow falls through to not found.
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return -1
	}
	return id
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	var completed *bool
	if q := r.URL.Query(); q.Has("completed") {
		b := strings.EqualFold(q.Get("completed"), "true")
		completed = &b
	}
	respondWithJSON(w, http.StatusOK, newTaskResponses(s.store.List(completed)))
}

type createRequest struct {
	Description string  `json:"description"`
	Category    *string `json:"category"`
	Deadline    *string `json:"deadline"`
}

func (s *Server) addTask(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	category := "General"
	if req.Category != nil {
		category = *req.Category
	}
	t, err := s.store.Add(req.Description, category, req.Deadline)
	if err != nil {
		code, msg := errorResponse(err)
		if code == http.StatusInternalServerError {
			s.logger.Error("add task", "err", err)
			msg = "Erro ao adicionar tarefa"
		}
		respondWithError(w, code, msg)
		return
	}
	respondWithJSON(w, http.StatusCreated, newTaskResponse(t))
}

type editRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Deadline    string `json:"deadline"`
}

func (s *Server) editTask(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	t, err := s.store.Edit(taskID(r), req.Description, req.Category, req.Deadline)
	if err != nil {
		code, msg := errorResponse(err)
		respondWithError(w, code, msg)
		return
	}
	respondWithJSON(w, http.StatusOK, newTaskResponse(t))
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := taskID(r)
	if err := s.store.Delete(id); err != nil {
		s.logger.Error("delete task", "task_id", id, "err", err)
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Task %s deleted", mux.Vars(r)["id"])})
}

func (s *Server) completeTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Complete(taskID(r))
	if err != nil {
		code, msg := errorResponse(err)
		respondWithError(w, code, msg)
		return
	}
	respondWithJSON(w, http.StatusOK, newTaskResponse(t))
}

func (s *Server) clearTasks(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(); err != nil {
		s.logger.Error("clear tasks", "err", err)
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "All tasks deleted"})
}
