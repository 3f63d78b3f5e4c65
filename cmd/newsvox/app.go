package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nadzzz/newsvox/internal/config"
	"github.com/nadzzz/newsvox/internal/dispatch"
	"github.com/nadzzz/newsvox/internal/news"
	"github.com/nadzzz/newsvox/internal/prefs"
	"github.com/nadzzz/newsvox/internal/speech"
	"github.com/nadzzz/newsvox/internal/state"
	"github.com/nadzzz/newsvox/internal/stt"
	localstt "github.com/nadzzz/newsvox/internal/stt/local"
	openaistt "github.com/nadzzz/newsvox/internal/stt/openai"
	"github.com/nadzzz/newsvox/internal/translate"
	"github.com/nadzzz/newsvox/internal/tts/piper"
)

// app holds the collaborators built from the configuration.
type app struct {
	cfg        *config.Config
	dispatcher *dispatch.Dispatcher

	breaker     *news.Breaker
	player      *speech.Player
	buffer      *speech.Buffer
	synth       *piper.Synthesizer
	transcriber stt.Transcriber
	prefs       *prefs.Store
}

// build wires the news source, translator, speech output, transcriber and
// preference store into a dispatcher.
func build(ctx context.Context, cfg *config.Config, extra ...dispatch.Option) (*app, error) {
	a := &app{cfg: cfg}

	var source news.Source
	switch cfg.News.Backend {
	case "gnews":
		if cfg.News.GNews.APIKey == "" {
			slog.Warn("gnews api key is empty, requests will be rejected")
		}
		source = news.NewGNews(cfg.News.GNews)
	case "rss":
		source = news.NewFeed(cfg.News.RSS)
	default:
		return nil, fmt.Errorf("unknown news backend %q", cfg.News.Backend)
	}
	if cfg.News.Breaker.Enabled {
		a.breaker = news.NewBreaker(cfg.News.Backend, source, cfg.News.Breaker)
		source = a.breaker
	}
	slog.Info("using news backend", "backend", cfg.News.Backend, "breaker", cfg.News.Breaker.Enabled)

	opts := []dispatch.Option{dispatch.WithFeedback(cfg.Speech.Feedback)}

	if cfg.Translation.Backend == "openai" {
		opts = append(opts, dispatch.WithTranslator(translate.NewOpenAI(cfg.Translation.OpenAI)))
		slog.Info("using OpenAI translation", "model", cfg.Translation.OpenAI.Model)
	}

	a.synth = piper.New(cfg.TTS.Piper)
	opts = append(opts, dispatch.WithSynthesizer(a.synth))

	if cfg.Speech.Enabled {
		sink, err := a.sink()
		if err != nil {
			return nil, err
		}
		a.player = speech.NewPlayer(a.synth, sink)
		opts = append(opts, dispatch.WithSpeech(a.player))
		slog.Info("speech output enabled", "sink", cfg.Speech.Sink, "feedback", cfg.Speech.Feedback)
	}

	switch cfg.STT.Backend {
	case "openai":
		a.transcriber = openaistt.New(cfg.STT.OpenAI)
	case "local":
		a.transcriber = localstt.New(cfg.STT.Local)
	}
	if a.transcriber != nil {
		opts = append(opts, dispatch.WithTranscriber(a.transcriber))
		slog.Info("audio input enabled", "stt", a.transcriber.Name())
	}

	initial := []state.Option{
		state.WithCategory(cfg.State.Category),
		state.WithCountry(cfg.State.Country),
		state.WithLanguages(cfg.State.ReadingLanguage, cfg.State.SpeakingLanguage),
	}

	if cfg.Prefs.Enabled {
		store, err := prefs.Open(cfg.Prefs.Path)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("opening preferences: %w", err)
		}
		a.prefs = store
		opts = append(opts, dispatch.WithPreferences(store))

		saved, err := store.All(ctx)
		if err != nil {
			slog.Warn("could not load saved preferences", "error", err)
		} else {
			initial = append(initial, state.WithLanguages(
				saved[dispatch.PrefReadingLanguage],
				saved[dispatch.PrefSpeakingLanguage],
			))
		}
	}

	a.dispatcher = dispatch.New(source, state.New(initial...), append(opts, extra...)...)
	return a, nil
}

func (a *app) sink() (speech.Sink, error) {
	switch a.cfg.Speech.Sink {
	case "exec":
		s, err := speech.NewExecSink(a.cfg.Speech.Player)
		if err != nil {
			return nil, fmt.Errorf("speech sink: %w", err)
		}
		return s, nil
	default:
		a.buffer = speech.NewBuffer()
		return a.buffer, nil
	}
}

// statusEvents returns the speech status stream, or nil without speech output.
func (a *app) statusEvents() <-chan speech.StatusEvent {
	if a.player == nil {
		return nil
	}
	return a.player.Events()
}

// breakerState reports the news circuit breaker state for /readyz.
func (a *app) breakerState() func() string {
	if a.breaker == nil {
		return nil
	}
	return a.breaker.State
}

// lastClip exposes the buffered clip, or nil when the sink is not a buffer.
func (a *app) lastClip() func() (speech.Clip, bool) {
	if a.buffer == nil {
		return nil
	}
	return a.buffer.Last
}

// Close stops speech and releases backend resources.
func (a *app) Close() {
	if a.player != nil {
		a.player.Stop()
	}
	if a.transcriber != nil {
		_ = a.transcriber.Close()
	}
	if a.synth != nil {
		_ = a.synth.Close()
	}
	if a.prefs != nil {
		if err := a.prefs.Close(); err != nil {
			slog.Error("closing preferences", "error", err)
		}
	}
}
