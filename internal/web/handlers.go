package web

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/nibzard/tasklist/internal/app"
	"github.com/nibzard/tasklist/internal/task"
	"github.com/nibzard/tasklist/internal/theme"
	"github.com/nibzard/tasklist/internal/view"
)

// page is the template data for index.html.tmpl.
type page struct {
	Lang       string
	Words      view.Strings
	Theme      theme.Theme
	Categories []string
	View       view.View
	CSRF       string
}

type itemData struct {
	Page *page
	Item view.Item
}

func newItemData(p *page, item view.Item) itemData {
	return itemData{Page: p, Item: item}
}

// themeFor reads the page theme from the request, defaulting to the app's.
func (s *Server) themeFor(r *http.Request) theme.Theme {
	if v := r.FormValue("theme"); v != "" {
		return theme.Parse(v)
	}
	return s.app.Theme()
}

// render paints snap. Failures never reach the page; a failed refresh is
// simply an empty pair of containers.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, snap app.Snapshot) {
	p := &page{
		Lang:       string(s.app.Locale()),
		Words:      s.app.Strings(),
		Theme:      s.themeFor(r),
		Categories: s.app.Categories(),
		View:       snap.View,
		CSRF:       ensureCSRFCookie(w, r),
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html.tmpl", p); err != nil {
		s.logger.Error("render page", "request_id", RequestID(r.Context()), "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// show applies snap if it is still the latest and renders it. A failed
// mutation is already logged by the app; the page shows the refresh that
// followed it like any other.
func (s *Server) show(w http.ResponseWriter, r *http.Request, snap app.Snapshot, err error) {
	s.app.Apply(snap)
	if err != nil {
		s.logger.Debug("action failed", "request_id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
	}
	s.render(w, r, http.StatusOK, snap)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.show(w, r, s.app.Refresh(r.Context()), nil)
}

func (s *Server) addTask(w http.ResponseWriter, r *http.Request) {
	nt := task.NewTask{
		Description: r.PostFormValue("description"),
		Category:    r.PostFormValue("category"),
		Deadline:    r.PostFormValue("deadline"),
	}.Normalize()
	// The browser's required and date fields stop these before they are
	// sent; anything that gets past them is dropped without a call.
	if err := nt.Validate(s.app.Locale()); err != nil {
		s.logger.Debug("add form rejected", "request_id", RequestID(r.Context()), "err", validationMessage(err))
		s.render(w, r, http.StatusBadRequest, s.app.Current())
		return
	}
	snap, err := s.app.AddTask(r.Context(), nt)
	s.show(w, r, snap, err)
}

func (s *Server) completeTask(w http.ResponseWriter, r *http.Request) {
	snap, err := s.app.CompleteTask(r.Context(), task.ID(mux.Vars(r)["id"]))
	s.show(w, r, snap, err)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	snap, err := s.app.DeleteTask(r.Context(), task.ID(mux.Vars(r)["id"]))
	s.show(w, r, snap, err)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// validationMessage flattens joined validation errors onto one line.
func validationMessage(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}
