package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// StreamSessionParams defines parameters for StreamSession.
type StreamSessionParams struct {
	// Watch is a comma-separated list of fields to filter diffs by.
	Watch *string `form:"watch,omitempty" json:"watch,omitempty"`
}

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	SessionID *string `json:"session_id,omitempty"`
	AngleMode *string `json:"angle_mode,omitempty"`
}

// PressRequest is the body of POST /sessions/{sessionID}/events.
type PressRequest struct {
	Tokens []string `json:"tokens"`
}

// AngleModeRequest is the body of PUT /sessions/{sessionID}/angle-mode.
type AngleModeRequest struct {
	AngleMode string `json:"angle_mode"`
}

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	GetHealth(w http.ResponseWriter, r *http.Request)
	GetInfo(w http.ResponseWriter, r *http.Request)
	ListKeys(w http.ResponseWriter, r *http.Request)
	ListSessions(w http.ResponseWriter, r *http.Request)
	CreateSession(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request, sessionID string)
	DeleteSession(w http.ResponseWriter, r *http.Request, sessionID string)
	PressKeys(w http.ResponseWriter, r *http.Request, sessionID string)
	SetAngleMode(w http.ResponseWriter, r *http.Request, sessionID string)
	ClearMemory(w http.ResponseWriter, r *http.Request, sessionID string)
	ClearError(w http.ResponseWriter, r *http.Request, sessionID string)
	StreamSession(w http.ResponseWriter, r *http.Request, sessionID string, params StreamSessionParams)
}

// serverInterfaceWrapper binds request parameters before calling the handlers.
type serverInterfaceWrapper struct {
	handler ServerInterface
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sessionID string)

func (sw *serverInterfaceWrapper) withSessionID(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		err := runtime.BindStyledParameterWithOptions("simple", "sessionID", chi.URLParam(r, "sessionID"), &sessionID,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid format for parameter sessionID: %v", err), http.StatusBadRequest)
			return
		}
		next(w, r, sessionID)
	}
}

func (sw *serverInterfaceWrapper) streamSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	var params StreamSessionParams
	if err := runtime.BindQueryParameter("form", true, false, "watch", r.URL.Query(), &params.Watch); err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter watch: %v", err), http.StatusBadRequest)
		return
	}
	sw.handler.StreamSession(w, r, sessionID, params)
}

// HandlerFromMux registers the API routes on r and returns it.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	sw := &serverInterfaceWrapper{handler: si}

	r.Get("/health", si.GetHealth)
	r.Get("/info", si.GetInfo)
	r.Get("/keys", si.ListKeys)
	r.Get("/sessions", si.ListSessions)
	r.Post("/sessions", si.CreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", sw.withSessionID(si.GetSession))
		r.Delete("/", sw.withSessionID(si.DeleteSession))
		r.Post("/events", sw.withSessionID(si.PressKeys))
		r.Put("/angle-mode", sw.withSessionID(si.SetAngleMode))
		r.Delete("/memory", sw.withSessionID(si.ClearMemory))
		r.Delete("/error", sw.withSessionID(si.ClearError))
		r.Get("/stream", sw.withSessionID(sw.streamSession))
	})
	return r
}
