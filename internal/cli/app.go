package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"

	"github.com/yildizm/NasaLens/internal/catalog"
	"github.com/yildizm/NasaLens/internal/config"
	"github.com/yildizm/NasaLens/internal/images"
	"github.com/yildizm/NasaLens/internal/logger"
	"github.com/yildizm/NasaLens/internal/metrics"
	"github.com/yildizm/NasaLens/internal/presentation"
	"github.com/yildizm/NasaLens/internal/viewmodel"
)

// app holds the wired pipeline for one command run
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	logFile io.Closer
	metrics *metrics.Metrics
	mapper  *presentation.Mapper
	vm      *viewmodel.ViewModel
}

type appOptions struct {
	query string
	// logToFile sends log output to cfg.Log.File so it does not draw over the TUI
	logToFile bool
	logOutput io.Writer
}

func newApp(cfg *config.Config, opts appOptions) (*app, error) {
	a := &app{
		cfg:     cfg,
		log:     logger.NewWithCallback("nasalens", func() bool { return cfg.Log.Verbose }),
		metrics: metrics.New(),
	}

	switch {
	case opts.logOutput != nil:
		a.log.SetOutput(opts.logOutput)
	case opts.logToFile && cfg.Log.File != "":
		f, err := logger.OpenFile(config.ExpandPath(cfg.Log.File))
		if err != nil {
			return nil, err
		}
		a.log.SetOutput(f)
		a.logFile = f
	case opts.logToFile:
		a.log.SetOutput(io.Discard)
	}

	client, err := catalog.New(cfg.CatalogClientConfig(),
		catalog.WithRecorder(a.metrics),
		catalog.WithLogger(a.log),
	)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}

	a.mapper = presentation.NewMapper(
		presentation.WithLocation(cfg.Location()),
		presentation.WithLanguage(resolveLanguage(cfg.Display.Language)),
		presentation.WithDateLayout(cfg.Display.DateLayout),
	)

	query := opts.query
	if query == "" {
		query = cfg.Search.DefaultQuery
	}
	a.vm = viewmodel.New(images.NewUseCase(client), a.mapper,
		viewmodel.WithLogger(a.log),
		viewmodel.WithInitialQuery(query),
		viewmodel.WithIntentBuffer(cfg.Search.IntentBuffer),
		viewmodel.WithRecorder(a.metrics),
	)

	a.log.DebugWithFields("pipeline ready", []logger.Field{
		logger.Query(query),
		logger.F("language", a.mapper.Language().String()),
		logger.F("base_url", cfg.Catalog.BaseURL),
	})
	return a, nil
}

func (a *app) close() {
	if a.vm != nil {
		a.vm.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// resolveLanguage prefers the configured language, then the locale variables
func resolveLanguage(configured string) language.Tag {
	if configured != "" {
		return presentation.ParseLanguage(configured)
	}
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); v != "" {
			return presentation.ParseLanguage(v)
		}
	}
	return presentation.ParseLanguage("")
}
