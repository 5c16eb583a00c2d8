package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/NasaLens/internal/config"
	"github.com/yildizm/NasaLens/internal/formatter"
	"github.com/yildizm/NasaLens/internal/presentation"
)

var (
	searchPages      int
	searchStartPage  int
	searchTimeout    time.Duration
	searchOutputFile string
)

func newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search NASA images and print the results",
		Long: `Run a search without the interactive browser and print the results.

The same pipeline as the browser is used: a fresh search loads the first page
and each further page is appended while more pages remain.

Examples:
  nasalens search "black hole"
  nasalens search apollo --pages 3 --output json
  nasalens search mars --page 4 --output csv --output-file mars.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVarP(&searchPages, "pages", "n", 0, "number of pages to fetch (default from config)")
	cmd.Flags().IntVarP(&searchStartPage, "page", "p", 1, "page to start from")
	cmd.Flags().DurationVar(&searchTimeout, "timeout", 2*time.Minute, "overall timeout")
	cmd.Flags().StringVar(&searchOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if searchStartPage < 1 {
		return fmt.Errorf("invalid page: %d (must be at least 1)", searchStartPage)
	}

	pages := cfg.Search.Pages
	if cmd.Flag("pages").Changed {
		pages = searchPages
	}
	if pages < 1 {
		return fmt.Errorf("invalid page count: %d (must be at least 1)", pages)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	return searchAndPrint(ctx, cmd, cfg, searchPlan{
		query:     args[0],
		startPage: searchStartPage,
		pages:     pages,
	})
}

// searchAndPrint runs plan headlessly and writes the formatted report
func searchAndPrint(ctx context.Context, cmd *cobra.Command, cfg *config.Config, plan searchPlan) error {
	a, err := newApp(cfg, appOptions{query: plan.query, logOutput: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer a.close()

	report, err := runHeadless(ctx, a.vm, plan)
	if err != nil {
		return err
	}
	report.EmptyMessage = a.mapper.Text(presentation.KeyEmpty)

	color := !cfg.Display.NoColor && isTerminal() && searchOutputFile == ""
	f, err := formatter.New(cfg.Display.OutputFormat, color, !cfg.Display.NoEmoji)
	if err != nil {
		return fmt.Errorf("failed to get formatter: %w", err)
	}
	output, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return handleOutputDestination(cmd, output, searchOutputFile)
}
