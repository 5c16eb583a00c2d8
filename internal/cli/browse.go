package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yildizm/NasaLens/internal/config"
	"github.com/yildizm/NasaLens/internal/emoji"
	"github.com/yildizm/NasaLens/internal/logger"
	"github.com/yildizm/NasaLens/internal/ui"
)

func newBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [query]",
		Short: "Browse search results interactively",
		Long: `Start the interactive browser. Results for the query (or the configured
default query) load immediately; type to search again, move to the last result
to load the next page and press enter to open an image's details.

When stdout is not a terminal the first page is printed instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBrowse,
	}
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !isTerminal() {
		if query == "" {
			query = cfg.Search.DefaultQuery
		}
		ctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		return searchAndPrint(ctx, cmd, cfg, searchPlan{query: query, pages: cfg.Search.Pages})
	}

	a, err := newApp(cfg, appOptions{query: query, logToFile: true})
	if err != nil {
		return err
	}
	defer a.close()

	model := ui.NewModel(a.vm, a.mapper,
		ui.WithTheme(cfg.Display.Theme),
		ui.WithNoColor(cfg.Display.NoColor),
		ui.WithLogger(a.log.WithComponent("ui")),
	)
	defer model.Close()

	return runProgram(ctx, a, model)
}

// runProgram runs the TUI alongside the metrics endpoint and the config
// watcher; leaving the TUI stops the others.
func runProgram(ctx context.Context, a *app, model *ui.Model) error {
	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()

	program := ui.NewProgram(gctx, model)

	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && gctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("terminal UI failed: %w", err)
		}
		return nil
	})

	if addr := a.cfg.Metrics.ListenAddr; addr != "" {
		g.Go(func() error {
			a.log.InfoWithFields("serving metrics", []logger.Field{logger.F("addr", addr)})
			return a.metrics.Serve(gctx, addr)
		})
	}

	if path := watchedConfigPath(); path != "" {
		log := a.log.WithComponent("config")
		g.Go(func() error {
			err := config.NewLoader().Watch(gctx, path, func(cfg *config.Config, err error) {
				if err != nil {
					log.Warn("config reload failed: %v", err)
					return
				}
				log.Info("config reloaded from %s", path)
				emoji.SetEmojiDisabled(cfg.Display.NoEmoji || noEmoji)
				program.Send(ui.ThemeMsg{
					Name:    cfg.Display.Theme,
					NoColor: cfg.Display.NoColor || noColor || ui.IsColorDisabled(),
				})
			})
			if err != nil {
				log.Warn("config watch stopped: %v", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := model.Err(); err != nil {
		a.log.Warn("browser reported: %v", err)
	}
	return nil
}

// watchedConfigPath is the file the running browser reloads on change
func watchedConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if path, ok := config.FindConfigFile(); ok {
		return path
	}
	return ""
}
