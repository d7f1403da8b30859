package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/synaptica-ai/cardiocheck/pkg/assessment"
	"github.com/synaptica-ai/cardiocheck/pkg/common/logger"
	"github.com/synaptica-ai/cardiocheck/pkg/content"
	"github.com/synaptica-ai/cardiocheck/pkg/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	SessionCookie = "cardiocheck_session"
	SessionHeader = "X-Session-ID"
)

// Handler serves the landing page, the assessment form and its JSON API.
type Handler struct {
	sessions     *session.Manager
	catalog      content.Catalog
	templates    *template.Template
	cookieSecure bool
}

func NewHandler(sessions *session.Manager, catalog content.Catalog, cookieSecure bool) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{
		sessions:     sessions,
		catalog:      catalog,
		templates:    tmpl,
		cookieSecure: cookieSecure,
	}, nil
}

func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/", h.handleLanding).Methods(http.MethodGet)
	router.HandleFunc("/assessment", h.handleAssessmentPage).Methods(http.MethodGet)
	router.HandleFunc("/assessment", h.handleAssessmentSubmit).Methods(http.MethodPost)
	router.HandleFunc("/assessment/field", h.handleFieldForm).Methods(http.MethodPost)
	router.HandleFunc("/assessment/fields", h.handleRecalculateForm).Methods(http.MethodPost)
	router.HandleFunc("/assessment/reset", h.handleResetForm).Methods(http.MethodPost)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/assessment", h.handleGetAssessment).Methods(http.MethodGet)
	api.HandleFunc("/assessment/fields/{field}", h.handlePutField).Methods(http.MethodPut)
	api.HandleFunc("/assessment/submit", h.handleSubmit).Methods(http.MethodPost)
	api.HandleFunc("/assessment/reset", h.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/metrics/derive", h.handleDerive).Methods(http.MethodPost)
}

// sessionFor returns the caller's session, creating one when the cookie or
// header names none that is still live.
func (h *Handler) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}
	}
	if id != "" {
		if s, ok := h.sessions.Get(id); ok {
			return s
		}
	}
	return h.startSession(w)
}

func (h *Handler) startSession(w http.ResponseWriter) *session.Session {
	s := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID(),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(SessionHeader, s.ID())
	return s
}

func (h *Handler) handleLanding(w http.ResponseWriter, r *http.Request) {
	// Each visit to the landing page starts over.
	if c, err := r.Cookie(SessionCookie); err == nil {
		h.sessions.Delete(c.Value)
	}
	h.startSession(w)
	h.render(w, "landing", landingPage{Catalog: h.catalog})
}

func (h *Handler) handleAssessmentPage(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFor(w, r)
	page := buildAssessmentPage(h.catalog, s.Snapshot())
	if h.render(w, "assessment", page) {
		s.DismissNotification()
	}
}

func (h *Handler) handleAssessmentSubmit(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFor(w, r)
	if err := applyPostedFields(s, r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Failures surface as the session notification on the next render.
	s.Submit(r.Context())
	http.Redirect(w, r, "/assessment#results", http.StatusSeeOther)
}

// handleRecalculateForm applies the posted form without submitting, so the
// derived BMI and BP category reflect the edits.
func (h *Handler) handleRecalculateForm(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFor(w, r)
	if err := applyPostedFields(s, r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/assessment", http.StatusSeeOther)
}

func (h *Handler) handleFieldForm(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFor(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := updateField(s, r.PostFormValue("field"), r.PostFormValue("value")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/assessment", http.StatusSeeOther)
}

func (h *Handler) handleResetForm(w http.ResponseWriter, r *http.Request) {
	h.sessionFor(w, r).Reset()
	http.Redirect(w, r, "/assessment", http.StatusSeeOther)
}

func updateField(s *session.Session, name, raw string) error {
	f, err := assessment.ParseField(name)
	if err != nil {
		return err
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return errors.New("value must be an integer")
	}
	return s.Update(f, value)
}

// applyPostedFields reads every known field from the form, taking the last
// value when a name repeats (checkbox after its hidden 0), and applies them
// as one all-or-nothing update.
func applyPostedFields(s *session.Session, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return errors.New("invalid form")
	}
	values := make(map[assessment.Field]int)
	for _, f := range assessment.Fields {
		posted := r.PostForm[string(f)]
		if len(posted) == 0 {
			continue
		}
		value, err := strconv.Atoi(posted[len(posted)-1])
		if err != nil {
			return errors.New("invalid value for " + string(f))
		}
		values[f] = value
	}
	return s.UpdateAll(values)
}

// render writes the named template and reports whether it succeeded.
func (h *Handler) render(w http.ResponseWriter, name string, data interface{}) bool {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Log.WithError(err).WithField("template", name).Error("Failed to render page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return false
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w)
	return true
}
