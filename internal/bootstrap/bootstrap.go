package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	analyzeroutadapter "rehearse/internal/modules/analyzer/adapter/out"
	analyzerin "rehearse/internal/modules/analyzer/port/in"
	analyzerout "rehearse/internal/modules/analyzer/port/out"
	analyzerservice "rehearse/internal/modules/analyzer/service"
	analyzerusecase "rehearse/internal/modules/analyzer/usecase"
	sampleroutadapter "rehearse/internal/modules/sampler/adapter/out"
	samplerservice "rehearse/internal/modules/sampler/service"
	sessionoutadapter "rehearse/internal/modules/session/adapter/out"
	sessionin "rehearse/internal/modules/session/port/in"
	sessionservice "rehearse/internal/modules/session/service"
	sessionusecase "rehearse/internal/modules/session/usecase"
	"rehearse/internal/observability"
	"rehearse/internal/platform/clock"
	"rehearse/internal/platform/config"
	"rehearse/internal/platform/id"
	"rehearse/internal/platform/rng"
	uiapp "rehearse/internal/ui/app"
	"rehearse/internal/ui/rain"
)

// Engine dimensions before the first WindowSizeMsg arrives.
const (
	seedWidth  = 80
	seedHeight = 24
)

type App struct {
	Session   sessionin.Usecase
	Analyzer  analyzerin.Usecase
	Engine    *rain.Engine
	Sampler   *samplerservice.Sampler
	Obs       *observability.Metrics
	Log       *slog.Logger
	Questions []string

	store *sessionoutadapter.SQLiteStore
}

func New(cfg config.Config) (*App, error) {
	log := newLogger(cfg.HomePath)
	clk := clock.SystemClock{}
	ids := id.UUID{}

	store, err := sessionoutadapter.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	sessionSvc := sessionservice.NewSessionService(clk, ids, store, log, cfg.GainFactor)
	sessionUC := sessionusecase.NewInteractor(sessionSvc)

	engine, err := rain.New(rain.Config{
		Width:         seedWidth,
		Height:        seedHeight,
		BaseSpeed:     cfg.Render.BaseSpeed,
		BaseOpacity:   cfg.Render.BaseOpacity,
		GlyphDensity:  cfg.Render.GlyphDensity,
		GlowStrength:  cfg.Render.GlowStrength,
		VoiceReactive: cfg.Render.VoiceReactive,
	}, rng.New(cfg.Seed), clk)
	if err != nil {
		return nil, fmt.Errorf("new render engine: %w", err)
	}

	obs := observability.NewMetrics("rehearse")
	if cfg.MetricsAddr != "" {
		errs := observability.Serve(cfg.MetricsAddr)
		go func() {
			if err := <-errs; err != nil {
				log.Warn("metrics endpoint stopped", "addr", cfg.MetricsAddr, "err", err)
			}
		}()
	}

	var provider analyzerout.MetricsProvider
	if cfg.ProviderBin != "" {
		provider = analyzeroutadapter.NewGRPCProvider(cfg.ProviderBin)
	}
	analyzerSvc := analyzerservice.NewAnalyzerService(engine, provider, obs, log)
	analyzerUC := analyzerusecase.NewInteractor(analyzerSvc)

	sampler := samplerservice.NewSampler(sampleroutadapter.NewMalgoCapture(), log)

	return &App{
		Session:   sessionUC,
		Analyzer:  analyzerUC,
		Engine:    engine,
		Sampler:   sampler,
		Obs:       obs,
		Log:       log,
		Questions: loadQuestionBank(cfg.HomePath),
		store:     store,
	}, nil
}

// loadQuestionBank reads one question per line from the optional bank file.
// Blank lines and # comments are skipped; a missing file means the built-in
// bank is used.
func loadQuestionBank(homePath string) []string {
	raw, err := os.ReadFile(filepath.Join(homePath, ".rehearse", "questions.txt"))
	if err != nil {
		return nil
	}
	var questions []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		questions = append(questions, line)
	}
	return questions
}

func (a *App) Close() error {
	a.Sampler.Stop()
	a.Engine.Destroy()
	return a.store.Close()
}

// newLogger writes structured logs next to the database so the TUI screen
// stays clean. Logging is best effort; failure to open the file silences it.
func newLogger(homePath string) *slog.Logger {
	path := filepath.Join(homePath, ".rehearse", "rehearse.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewJSONHandler(f, nil))
}

func RunTUI(app *App) error {
	app.Sampler.Start()
	model := uiapp.NewModel(app.Session, app.Analyzer, app.Sampler, app.Engine, app.Session, app.Obs, app.Questions)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
