// Package dispatch implements the command dispatcher.
//
// The dispatcher receives transcripts (typed, from a voice input stream, or
// transcribed from audio posted to a transport), parses them into commands
// and executes each command against the application state. Every command
// produces a response text; failures of external collaborators are turned
// into responses and never escape.
//
// Commands are processed one at a time. A dispatch that arrives while the
// previous one is still waiting on the network is rejected with ErrBusy.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nadzzz/newsvox/internal/command"
	"github.com/nadzzz/newsvox/internal/message"
	"github.com/nadzzz/newsvox/internal/news"
	"github.com/nadzzz/newsvox/internal/speech"
	"github.com/nadzzz/newsvox/internal/state"
	"github.com/nadzzz/newsvox/internal/stt"
	"github.com/nadzzz/newsvox/internal/translate"
	"github.com/nadzzz/newsvox/internal/tts"
	"github.com/nadzzz/newsvox/internal/voice"
)

// ErrBusy is returned when a dispatch is attempted while another is running.
var ErrBusy = errors.New("dispatcher is busy with another command")

// Preference keys written through the Preferences store.
const (
	PrefReadingLanguage  = "reading_language"
	PrefSpeakingLanguage = "speaking_language"
)

// Preferences persists user language choices.
type Preferences interface {
	Set(ctx context.Context, key, value string) error
}

// HelpFunc is called when the user asks for help.
type HelpFunc func(entries []message.HelpEntry)

// Outcome classifies how a command ended.
type Outcome int

const (
	OK Outcome = iota
	Unrecognized
	OutOfRange
	ExternalFailure
	RecognitionFailure
	Busy
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case Unrecognized:
		return "unrecognized"
	case OutOfRange:
		return "out_of_range"
	case ExternalFailure:
		return "external_failure"
	case RecognitionFailure:
		return "recognition_failure"
	case Busy:
		return "busy"
	default:
		return "unknown"
	}
}

// Result is the outcome of one dispatch.
type Result struct {
	Command  command.Command
	Outcome  Outcome
	Response string
	Help     []message.HelpEntry
	Err      error
}

// Dispatcher executes commands against the application state.
type Dispatcher struct {
	source      news.Source
	translator  translate.Translator
	speech      speech.Output
	transcriber stt.Transcriber
	synthesizer tts.Synthesizer
	prefs       Preferences
	help        HelpFunc
	observe     func(Result)
	feedback    bool

	processing atomic.Bool

	mu sync.RWMutex
	st *state.State
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTranslator translates loaded articles into the reading language.
func WithTranslator(t translate.Translator) Option {
	return func(d *Dispatcher) { d.translator = t }
}

// WithSpeech sets the Speech Output used for reading and spoken feedback.
func WithSpeech(out speech.Output) Option {
	return func(d *Dispatcher) { d.speech = out }
}

// WithFeedback enables speaking command responses aloud.
func WithFeedback(enabled bool) Option {
	return func(d *Dispatcher) { d.feedback = enabled }
}

// WithTranscriber enables audio input on Handle.
func WithTranscriber(t stt.Transcriber) Option {
	return func(d *Dispatcher) { d.transcriber = t }
}

// WithSynthesizer enables audio responses on Handle.
func WithSynthesizer(s tts.Synthesizer) Option {
	return func(d *Dispatcher) { d.synthesizer = s }
}

// WithPreferences persists language changes.
func WithPreferences(p Preferences) Option {
	return func(d *Dispatcher) { d.prefs = p }
}

// WithHelp registers the show-help hook.
func WithHelp(fn HelpFunc) Option {
	return func(d *Dispatcher) { d.help = fn }
}

// WithObserver is called with every result produced by Run.
func WithObserver(fn func(Result)) Option {
	return func(d *Dispatcher) { d.observe = fn }
}

// New creates a Dispatcher that owns st.
func New(source news.Source, st *state.State, opts ...Option) *Dispatcher {
	if st == nil {
		st = state.New()
	}
	d := &Dispatcher{
		source:     source,
		translator: translate.Passthrough{},
		speech:     speech.Silent{},
		st:         st,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns a snapshot of the application state.
func (d *Dispatcher) State() state.State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.st.Snapshot()
}

// Busy reports whether a command is being processed.
func (d *Dispatcher) Busy() bool { return d.processing.Load() }

// Help lists every supported phrase in grammar order.
func Help() []message.HelpEntry {
	rules := command.Rules()
	out := make([]message.HelpEntry, len(rules))
	for i, r := range rules {
		out[i] = message.HelpEntry{
			Action:      r.Action.String(),
			Example:     r.Example,
			Description: r.Description,
		}
	}
	return out
}

// Dispatch parses transcript and executes the resulting command. It returns
// ErrBusy, with BusyResponse and no state change, when another dispatch is in
// progress. Every other failure is reported inside the Result.
func (d *Dispatcher) Dispatch(ctx context.Context, transcript string) (Result, error) {
	if !d.processing.CompareAndSwap(false, true) {
		return Result{Outcome: Busy, Response: BusyResponse}, ErrBusy
	}
	defer d.processing.Store(false)

	start := time.Now()
	cmd, _ := command.Parse(transcript)
	logger := slog.With("action", cmd.Action.String(), "param", cmd.Param)
	logger.Debug("dispatch started", "transcript", transcript)

	res := d.execute(ctx, cmd)
	res.Command = cmd

	if res.Err != nil {
		logger.Error("command failed", "outcome", res.Outcome.String(), "error", res.Err)
	} else {
		logger.Info("dispatch complete", "outcome", res.Outcome.String(), "duration", time.Since(start))
	}
	if speaksResponse(cmd.Action) {
		d.say(res.Response)
	}
	return res, nil
}

// RecognitionFailed reports a voice input error to the user.
func (d *Dispatcher) RecognitionFailed(err error) Result {
	slog.Warn("voice recognition failed", "error", err)
	d.say(RecognitionResponse)
	return Result{Outcome: RecognitionFailure, Response: RecognitionResponse, Err: err}
}

// Observe mirrors a Speech Output status change into the state.
func (d *Dispatcher) Observe(ev speech.StatusEvent) {
	if ev.Err != nil {
		slog.Warn("speech output failed", "error", ev.Err)
	}
	d.mu.Lock()
	d.st.Playback = ev.Status
	d.mu.Unlock()
}

// Run consumes voice input and speech status events until ctx is done or
// the transcript stream closes. status may be nil.
func (d *Dispatcher) Run(ctx context.Context, transcripts <-chan voice.Event, status <-chan speech.StatusEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-status:
			if !ok {
				status = nil
				continue
			}
			d.Observe(ev)

		case ev, ok := <-transcripts:
			if !ok {
				return nil
			}
			var res Result
			if ev.Failed() {
				res = d.RecognitionFailed(ev.Err)
			} else {
				var err error
				res, err = d.Dispatch(ctx, ev.Transcript)
				if err != nil {
					slog.Warn("transcript rejected", "source", ev.Source, "error", err)
				}
			}
			if d.observe != nil {
				d.observe(res)
			}
		}
	}
}

// Handle processes a single message from a transport. It is passed as the
// transport.Handler to each transport. The error is non-nil only for ErrBusy.
func (d *Dispatcher) Handle(ctx context.Context, msg *message.Message) (*message.DispatchResult, error) {
	start := time.Now()
	logger := slog.With("message_id", msg.ID, "source", msg.Source)

	result := &message.DispatchResult{
		MessageID: msg.ID,
		Action:    command.Unrecognized.String(),
	}

	transcript := msg.Text
	switch {
	case msg.HasAudio():
		res, err := d.transcribe(ctx, msg)
		if err != nil {
			logger.Error("transcription failed", "error", err)
			d.fill(ctx, msg, result, d.RecognitionFailed(err))
			return result, nil
		}
		transcript = res.Text
		result.Language = res.Language
		logger.Info("transcription complete", "text_length", len(transcript), "language", res.Language)
	case strings.TrimSpace(transcript) == "":
		result.Error = noInputResponseMessage
		return result, nil
	}
	result.Transcript = transcript

	res, err := d.Dispatch(ctx, transcript)
	d.fill(ctx, msg, result, res)
	if err != nil {
		logger.Warn("dispatch rejected", "error", err)
		return result, err
	}

	logger.Info("message handled", "action", result.Action, "duration", time.Since(start))
	return result, nil
}

func (d *Dispatcher) transcribe(ctx context.Context, msg *message.Message) (*stt.TranscribeResult, error) {
	if d.transcriber == nil {
		return nil, errors.New("audio input is not enabled")
	}
	return d.transcriber.Transcribe(ctx, msg.Audio, msg.ContentType, stt.TranscribeOpts{
		Prompt: stt.CommandPrompt,
	})
}

// fill copies res into the transport result, honoring the response mode.
func (d *Dispatcher) fill(ctx context.Context, msg *message.Message, result *message.DispatchResult, res Result) {
	result.Action = res.Command.Action.String()
	result.Param = res.Command.Param
	result.Help = res.Help
	if res.Err != nil {
		result.Error = res.Err.Error()
	}
	if msg.ResponseMode.WantText() {
		result.ResponseText = res.Response
	}

	snap := d.State()
	result.State = &snap

	if !msg.ResponseMode.WantAudio() || d.synthesizer == nil || res.Response == "" {
		return
	}
	audio, err := d.synthesizer.Synthesize(ctx, res.Response, tts.SynthesizeOpts{Locale: snap.SpeakingLanguage})
	if err != nil {
		slog.Warn("TTS synthesis failed, continuing without audio", "error", err)
		return
	}
	result.SetResponseAudioBytes(audio.Audio)
	result.ResponseContentType = audio.ContentType
}

// say speaks text as feedback in the speaking language.
func (d *Dispatcher) say(text string) {
	if !d.feedback || text == "" {
		return
	}
	d.mu.RLock()
	locale := d.st.SpeakingLanguage
	d.mu.RUnlock()
	d.speech.Speak(text, locale)
}

// speaksResponse reports whether the response to action is spoken as
// feedback. Reading and playback control drive the speech output themselves.
func speaksResponse(action command.Action) bool {
	switch action {
	case command.ReadArticle, command.StopReading, command.PauseReading, command.ResumeReading:
		return false
	default:
		return true
	}
}
