package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nadzzz/newsvox/internal/command"
	"github.com/nadzzz/newsvox/internal/language"
	"github.com/nadzzz/newsvox/internal/news"
	"github.com/nadzzz/newsvox/internal/speech"
	"github.com/nadzzz/newsvox/internal/translate"
)

func (d *Dispatcher) execute(ctx context.Context, cmd command.Command) Result {
	switch cmd.Action {
	case command.SearchNews:
		return d.searchNews(ctx, cmd.Param)
	case command.OpenArticle:
		return d.openArticle(cmd.Param)
	case command.NextArticle:
		return d.step(1)
	case command.PreviousArticle:
		return d.step(-1)
	case command.ReadArticle:
		return d.readArticle()
	case command.StopReading:
		d.speech.Stop()
		d.syncPlayback()
		return respond(StoppedResponse)
	case command.PauseReading:
		if d.speech.Status() == speech.Speaking {
			d.speech.Pause()
		}
		d.syncPlayback()
		return respond(PausedResponse)
	case command.ResumeReading:
		if d.speech.Status() == speech.Paused {
			d.speech.Resume()
		}
		d.syncPlayback()
		return respond(ResumedResponse)
	case command.SetReadingLanguage:
		return d.setReadingLanguage(ctx, cmd.Param)
	case command.SetSpeakingLanguage:
		return d.setSpeakingLanguage(ctx, cmd.Param)
	case command.ChangeCategory:
		return d.changeCategory(ctx, cmd.Param)
	case command.RefreshNews:
		return d.refresh(ctx)
	case command.ShowHelp:
		entries := Help()
		if d.help != nil {
			d.help(entries)
		}
		return Result{Outcome: OK, Response: HelpResponse, Help: entries}
	default:
		return Result{Outcome: Unrecognized, Response: UnrecognizedResponse}
	}
}

func respond(response string) Result {
	return Result{Outcome: OK, Response: response}
}

func failed(err error) Result {
	return Result{Outcome: ExternalFailure, Response: ErrorResponse, Err: err}
}

func (d *Dispatcher) searchNews(ctx context.Context, topic string) Result {
	if topic == "" {
		return respond(AskTopicResponse)
	}
	d.say(searchingResponse(topic))

	d.mu.RLock()
	lang := d.st.ReadingLanguage
	d.mu.RUnlock()

	articles, err := d.source.Search(ctx, topic, lang)
	if err != nil {
		return failed(fmt.Errorf("searching %q: %w", topic, err))
	}
	articles = d.translate(ctx, articles, lang)

	d.mu.Lock()
	d.st.ReplaceArticles(articles)
	d.mu.Unlock()
	return respond(foundResponse(len(articles), topic))
}

func (d *Dispatcher) openArticle(param string) Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	count := d.st.Count()
	if count == 0 {
		return Result{Outcome: OutOfRange, Response: NoArticlesResponse}
	}
	n, err := strconv.Atoi(param)
	if err != nil || n < 1 || n > count {
		return Result{Outcome: OutOfRange, Response: articleNotFoundResponse(param, count)}
	}
	d.st.SetIndex(n - 1)
	return respond(openingResponse(n))
}

func (d *Dispatcher) step(delta int) Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	if delta > 0 {
		if !d.st.Next() {
			return respond(LastArticleResponse)
		}
		return respond(NextArticleResponse)
	}
	if !d.st.Previous() {
		return respond(FirstArticleResponse)
	}
	return respond(PrevArticleResponse)
}

func (d *Dispatcher) readArticle() Result {
	d.mu.RLock()
	article, found := d.st.Current()
	locale := d.st.SpeakingLanguage
	d.mu.RUnlock()

	if !found {
		return respond(NothingToReadResponse)
	}
	d.speech.Speak(article.SpokenTitle(), locale)
	d.syncPlayback()
	return respond(ReadingResponse)
}

// syncPlayback copies the Speech Output status into the state. Outputs that
// start asynchronously report Speaking later through Observe.
func (d *Dispatcher) syncPlayback() {
	status := d.speech.Status()
	d.mu.Lock()
	d.st.Playback = status
	d.mu.Unlock()
}

func (d *Dispatcher) setReadingLanguage(ctx context.Context, name string) Result {
	if name == "" {
		return respond(AskLanguageResponse)
	}
	code := language.ReadingCodeFor(name)

	d.mu.Lock()
	changed := d.st.ReadingLanguage != code
	d.st.ReadingLanguage = code
	articles := d.st.Articles
	d.mu.Unlock()

	d.savePref(ctx, PrefReadingLanguage, code)
	if changed && len(articles) > 0 {
		d.retranslate(ctx, articles, code)
	}
	return respond(readingLanguageResponse(name))
}

// retranslate replaces the translations of the loaded articles with ones
// for code.
func (d *Dispatcher) retranslate(ctx context.Context, articles []news.Article, code string) {
	plain := make([]news.Article, len(articles))
	for i, a := range articles {
		a.TranslatedTitle, a.TranslatedDescription = "", ""
		plain[i] = a
	}
	translated := d.translate(ctx, plain, code)

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.st.Articles) != len(translated) || d.st.ReadingLanguage != code {
		return
	}
	for i := range translated {
		d.st.Articles[i].TranslatedTitle = translated[i].TranslatedTitle
		d.st.Articles[i].TranslatedDescription = translated[i].TranslatedDescription
	}
}

func (d *Dispatcher) setSpeakingLanguage(ctx context.Context, name string) Result {
	if name == "" {
		return respond(AskLanguageResponse)
	}
	code := language.SpeechCodeFor(name)

	d.mu.Lock()
	d.st.SpeakingLanguage = code
	d.mu.Unlock()

	d.savePref(ctx, PrefSpeakingLanguage, code)
	return respond(speakingLanguageResponse(name))
}

func (d *Dispatcher) changeCategory(ctx context.Context, param string) Result {
	if param == "" {
		return respond(AskCategoryResponse)
	}
	category := strings.ToLower(param)
	if !news.IsCategory(category) {
		return Result{Outcome: OutOfRange, Response: categoryNotFoundResponse(param)}
	}
	d.say(loadingResponse(category))

	if err := d.load(ctx, category); err != nil {
		return failed(err)
	}
	return respond(loadedResponse(category))
}

func (d *Dispatcher) refresh(ctx context.Context) Result {
	d.say(RefreshingResponse)

	d.mu.RLock()
	category := d.st.Category
	d.mu.RUnlock()

	if err := d.load(ctx, category); err != nil {
		return failed(err)
	}
	return respond(RefreshedResponse)
}

// Load fetches headlines for the current category. It is used at startup
// and takes part in single-flight like any command.
func (d *Dispatcher) Load(ctx context.Context) error {
	if !d.processing.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer d.processing.Store(false)

	d.mu.RLock()
	category := d.st.Category
	d.mu.RUnlock()
	return d.load(ctx, category)
}

// load fetches category and commits the category together with its articles.
// On failure the state is left untouched.
func (d *Dispatcher) load(ctx context.Context, category string) error {
	d.mu.RLock()
	country, lang := d.st.Country, d.st.ReadingLanguage
	d.mu.RUnlock()

	articles, err := d.source.Fetch(ctx, category, country)
	if err != nil {
		return fmt.Errorf("fetching %s headlines: %w", category, err)
	}
	articles = d.translate(ctx, articles, lang)

	d.mu.Lock()
	d.st.Category = category
	d.st.ReplaceArticles(articles)
	d.mu.Unlock()
	return nil
}

// translate returns articles with translations for lang attached. Failures
// are logged and the untranslated list is returned.
func (d *Dispatcher) translate(ctx context.Context, articles []news.Article, lang string) []news.Article {
	out, err := translate.Articles(ctx, d.translator, articles, lang)
	if err != nil {
		slog.Warn("article translation failed", "language", lang, "error", err)
	}
	return out
}

func (d *Dispatcher) savePref(ctx context.Context, key, value string) {
	if d.prefs == nil {
		return
	}
	if err := d.prefs.Set(ctx, key, value); err != nil {
		slog.Warn("saving preference failed", "key", key, "error", err)
	}
}
