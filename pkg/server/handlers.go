package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dzerrors "github.com/vango-dev/dropzone/internal/errors"
	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/render"
	"github.com/vango-dev/dropzone/pkg/toast"
	"github.com/vango-dev/dropzone/pkg/upload"
	"github.com/vango-dev/dropzone/pkg/vdom"
)

// session returns the request's session, creating one (and setting the
// cookie) when the request has none.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	if sess, ok := s.lookup(r); ok {
		return sess
	}

	sess := s.sessions.Create()
	path := s.config.BasePath
	if path == "" {
		path = "/"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     path,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.config.SecureCookies,
	})
	return sess
}

// requireSession returns the request's session or writes E010.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	if sess, ok := s.lookup(r); ok {
		return sess, true
	}
	writeError(w, http.StatusGone, dzerrors.New("E010"))
	return nil, false
}

func (s *Server) lookup(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, false
	}
	return s.sessions.Get(cookie.Value)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var body *vdom.VNode
	sess.Do(func(widget *dropzone.Widget) {
		body = vdom.Main(
			widget.Render(),
			toastRegion(sess.Toasts.Pending()),
		)
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := render.RenderPage(w, render.PageData{
		Title:        s.config.Title,
		Body:         body,
		Styles:       []string{Styles},
		ClientScript: ClientScript(s.config.BasePath),
	})
	if err != nil {
		s.logger.Error("page render failed", "session_id", sess.ID, "error", err)
	}
}

func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.respond(w, sess, func(*dropzone.Widget) {})
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	tab, err := dropzone.ParseTab(chi.URLParam(r, "tab"))
	if err != nil {
		writeError(w, http.StatusBadRequest, dzerrors.New("E062").Wrap(err))
		return
	}
	s.respond(w, sess, func(widget *dropzone.Widget) {
		widget.SetActiveTab(tab)
	})
}

// handleBatch stages a multipart batch and hands it to the widget as a
// pick or a drop.
func (s *Server) handleBatch(source dropzone.Reason) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		domain, err := dropzone.ParseDomain(chi.URLParam(r, "domain"))
		if err != nil {
			writeError(w, http.StatusNotFound, dzerrors.New("E062").Wrap(err))
			return
		}

		limit := s.config.Widget.FileSize
		batch, err := upload.ReadBatch(w, r, s.config.Store, upload.BatchConfig{
			MaxRequestSize: s.config.MaxRequestSize,
			Oversized: func(n int64) bool {
				return dropzone.Exceeds(n, limit)
			},
		})
		if err != nil {
			status := upload.StatusFor(err)
			code := "E160"
			switch status {
			case http.StatusRequestEntityTooLarge:
				code = "E061"
			case http.StatusBadRequest:
				code = "E060"
			}
			s.logger.Warn("batch rejected",
				"session_id", sess.ID,
				"domain", domain.String(),
				"status", status,
				"error", err,
			)
			writeError(w, status, dzerrors.New(code).Wrap(err))
			return
		}

		s.respond(w, sess, func(widget *dropzone.Widget) {
			var res dropzone.Result
			if source == dropzone.ReasonDrop {
				res = widget.Drop(domain, batch)
			} else {
				res = widget.Pick(domain, batch)
			}
			if res.Notified {
				s.logger.Info("oversized files in batch",
					"session_id", sess.ID,
					"domain", domain.String(),
					"rejected", len(res.Rejected),
				)
			}
		})
	}
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	domain, err := dropzone.ParseDomain(chi.URLParam(r, "domain"))
	if err != nil {
		writeError(w, http.StatusNotFound, dzerrors.New("E062").Wrap(err))
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, dzerrors.New("E063").Wrap(err))
		return
	}

	var removeErr error
	html, renderErr := s.renderLocked(sess, func(widget *dropzone.Widget) {
		removeErr = widget.Remove(domain, index)
	})
	if errors.Is(removeErr, dropzone.ErrIndexOutOfRange) {
		writeError(w, http.StatusConflict, dzerrors.New("E063").Wrap(removeErr))
		return
	}
	s.writeFragment(w, sess, html, renderErr)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	sess.Hub.HandleWebSocket(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
		"previews": s.previews.Len(),
	})
}

// respond runs fn under the session lock and replies with the
// re-rendered widget.
func (s *Server) respond(w http.ResponseWriter, sess *Session, fn func(*dropzone.Widget)) {
	html, err := s.renderLocked(sess, fn)
	s.writeFragment(w, sess, html, err)
}

func (s *Server) renderLocked(sess *Session, fn func(*dropzone.Widget)) (string, error) {
	var (
		html string
		err  error
	)
	sess.Do(func(widget *dropzone.Widget) {
		fn(widget)
		html, err = render.RenderToString(widget.Render())
	})
	return html, err
}

func (s *Server) writeFragment(w http.ResponseWriter, sess *Session, html string, err error) {
	if err != nil {
		s.logger.Error("widget render failed", "session_id", sess.ID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// writeError replies with a coded JSON error.
func writeError(w http.ResponseWriter, status int, err *dzerrors.DropError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(err.FormatJSON()))
}

// toastRegion renders toasts that are still live when the page loads.
// The client appends pushed toasts to the same region.
func toastRegion(toasts []toast.Toast) *vdom.VNode {
	return vdom.Div(
		vdom.ID("dropzone-toasts"),
		vdom.Class("dropzone-toasts"),
		vdom.AriaLive("polite"),
		vdom.Range(toasts, func(_ int, t toast.Toast) *vdom.VNode {
			return vdom.Div(
				vdom.Class("dropzone-toast", "dropzone-toast-"+string(t.Level)),
				vdom.Data("life", strconv.FormatInt(t.Life.Milliseconds(), 10)),
				vdom.Span(vdom.Class("dropzone-toast-summary"), t.Summary),
				vdom.If(t.Detail != "", vdom.P(t.Detail)),
			)
		}),
	)
}
