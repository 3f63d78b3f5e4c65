// Package http implements the HTTP transport for newsvox.
//
// This transport exposes a REST API for command dispatch plus read-only
// views of the application state, the supported phrases, and the last
// spoken clip. It is best suited for web clients, phones and smart speakers
// that prefer HTTP-based communication.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/nadzzz/newsvox/internal/dispatch"
	"github.com/nadzzz/newsvox/internal/language"
	"github.com/nadzzz/newsvox/internal/message"
	"github.com/nadzzz/newsvox/internal/speech"
	"github.com/nadzzz/newsvox/internal/state"
	"github.com/nadzzz/newsvox/internal/transport"
	"github.com/nadzzz/newsvox/internal/tts"
)

// maxAudioBytes caps raw audio uploads.
const maxAudioBytes = 25 << 20

// maxJSONBytes caps JSON requests, which carry audio base64-encoded.
const maxJSONBytes = maxAudioBytes*4/3 + 64<<10

// Views exposes read-only data served next to /dispatch. Nil fields disable
// the matching endpoint.
type Views struct {
	State    func() state.State
	LastClip func() (speech.Clip, bool)
}

// Transport implements transport.Transport over HTTP.
type Transport struct {
	port   int
	views  Views
	server *http.Server
}

var _ transport.Transport = (*Transport)(nil)

// New creates a new HTTP transport on the given port.
func New(port int, views Views) *Transport {
	return &Transport{port: port, views: views}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Handler builds the HTTP routes around handler.
func (t *Transport) Handler(handler transport.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /dispatch", func(w http.ResponseWriter, r *http.Request) {
		t.handleDispatch(w, r, handler)
	})
	mux.HandleFunc("GET /commands", t.handleCommands)
	mux.HandleFunc("GET /languages", t.handleLanguages)
	if t.views.State != nil {
		mux.HandleFunc("GET /state", t.handleState)
	}
	if t.views.LastClip != nil {
		mux.HandleFunc("GET /speech/last", t.handleLastClip)
	}

	// Swagger UI serves the registered OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	return mux
}

// Listen starts the HTTP server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           t.Handler(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// handleDispatch processes a POST /dispatch request.
//
// @Summary     Dispatch a voice or text command
// @Description Accepts a JSON message (with a typed transcript or base64 audio) or raw audio bytes.
// @Description Audio is transcribed first; the transcript is parsed against the command grammar and
// @Description executed against the application state. Returns 409 while another command is running.
// @Tags        dispatch
// @Accept      json
// @Accept      audio/wav
// @Accept      audio/ogg
// @Produce     json
// @Param       message  body      message.Message  true  "Dispatch request (JSON). For raw audio, POST the bytes directly with the appropriate Content-Type."
// @Param       X-Newsvox-Source         header  string  false  "Sender identifier (used with raw audio uploads)"
// @Param       X-Newsvox-Response-Mode  header  string  false  "text, audio or text+audio (used with raw audio uploads)"
// @Success     200  {object}  message.DispatchResult  "Command result"
// @Failure     400  {string}  string  "Invalid request body"
// @Failure     409  {object}  message.DispatchResult  "Another command is still being processed"
// @Failure     413  {string}  string  "Request body too large"
// @Failure     500  {string}  string  "Internal processing error"
// @Router      /dispatch [post]
func (t *Transport) handleDispatch(w http.ResponseWriter, r *http.Request, handler transport.Handler) {
	var msg message.Message

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes)).Decode(&msg); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
			return
		}
	case "text/plain":
		text, err := io.ReadAll(io.LimitReader(r.Body, 4<<10))
		if err != nil {
			http.Error(w, "reading body: "+err.Error(), http.StatusBadRequest)
			return
		}
		msg.Text = string(text)
		msg.Source = r.Header.Get("X-Newsvox-Source")
	default:
		// Treat body as raw audio; read options from headers.
		audioData, err := io.ReadAll(io.LimitReader(r.Body, maxAudioBytes))
		if err != nil {
			http.Error(w, "reading audio: "+err.Error(), http.StatusBadRequest)
			return
		}
		msg.Audio = audioData
		msg.ContentType = r.Header.Get("Content-Type")
		msg.Source = r.Header.Get("X-Newsvox-Source")
		msg.ResponseMode = message.ResponseMode(r.Header.Get("X-Newsvox-Response-Mode"))
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Source == "" {
		msg.Source = r.RemoteAddr
	}
	msg.Timestamp = time.Now()

	result, err := handler(r.Context(), &msg)
	status := http.StatusOK
	switch {
	case errors.Is(err, dispatch.ErrBusy):
		status = http.StatusConflict
	case err != nil:
		slog.Error("dispatch failed", "error", err)
		http.Error(w, "dispatch error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, status, result)
}

// handleCommands lists the supported phrases.
//
// @Summary     List voice commands
// @Description Returns every phrase of the command grammar in priority order.
// @Tags        commands
// @Produce     json
// @Success     200  {array}  message.HelpEntry
// @Router      /commands [get]
func (t *Transport) handleCommands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dispatch.Help())
}

// handleLanguages lists the language names accepted by the language commands.
//
// @Summary     Supported languages
// @Description Returns each accepted language name with its reading code and speech locale.
// @Tags        commands
// @Produce     json
// @Success     200  {array}  message.LanguageEntry
// @Router      /languages [get]
func (t *Transport) handleLanguages(w http.ResponseWriter, r *http.Request) {
	names := language.Names()
	out := make([]message.LanguageEntry, len(names))
	for i, name := range names {
		out[i] = message.LanguageEntry{
			Name:    name,
			Reading: language.ReadingCodeFor(name),
			Speech:  language.SpeechCodeFor(name),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleState returns the application state.
//
// @Summary     Current application state
// @Description Returns the loaded articles, the current position, category, languages and playback status.
// @Tags        state
// @Produce     json
// @Success     200  {object}  state.State
// @Router      /state [get]
func (t *Transport) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, t.views.State())
}

// handleLastClip returns the most recently spoken audio.
//
// @Summary     Last spoken clip
// @Description Returns the WAV audio of the last utterance produced by the speech output.
// @Tags        speech
// @Produce     audio/wav
// @Success     200  {file}    binary
// @Failure     404  {string}  string  "Nothing has been spoken yet"
// @Router      /speech/last [get]
func (t *Transport) handleLastClip(w http.ResponseWriter, r *http.Request) {
	clip, ok := t.views.LastClip()
	if !ok {
		http.Error(w, "nothing has been spoken yet", http.StatusNotFound)
		return
	}
	contentType := clip.ContentType
	if contentType == "" {
		contentType = tts.ContentTypeWAV
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Newsvox-Locale", clip.Locale)
	_, _ = w.Write(clip.Audio)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}
