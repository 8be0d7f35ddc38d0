package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"formprices/internal/catalog"
	"formprices/internal/components/telemetry"
	"formprices/internal/render"
	"formprices/internal/scrapers/gravityforms"

	"github.com/spf13/cobra"
)

var (
	configPath  *string
	urlFlag     *string
	allSelects  *bool
	allProducts *bool
	verbose     *bool
	dumpHttp    *string
)

func init() {
	flags := rootCmd.PersistentFlags()
	configPath = flags.String("config", DefaultConfigPath, "Config file, a .local variant next to it overrides it.")
	urlFlag = flags.String("url", "", "Page to fetch (default: the configured form url).")
	allSelects = flags.Bool("all-selects", false, "Scan every Gravity Forms dropdown instead of only the known fields.")
	allProducts = flags.Bool("all-products", false, "Keep every product, not only flower.")
	verbose = flags.BoolP("verbose", "v", false, "Enable debug logging.")
	dumpHttp = flags.String("dump-http", "", "Write every HTTP exchange to this directory.")
}

// state is everything a command needs. execute puts an empty one in the
// context and setup fills it in before the command runs.
type state struct {
	Config    Config
	Url       string
	Tel       telemetry.API
	Caps      render.Capabilities
	Fetcher   *gravityforms.Fetcher
	Extractor catalog.Extractor

	otel telemetry.Telemetry
}

type stateKey struct{}

func getState(ctx context.Context) *state {
	return ctx.Value(stateKey{}).(*state)
}

func setup(cmd *cobra.Command, _ []string) error {
	telemetry.InitSlog(*verbose)

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	s := getState(cmd.Context())
	*s = state{
		Config: cfg,
		Url:    cfg.Form.Url,
		Tel:    telemetry.SlogAPI{},
		Caps:   render.DetectCapabilities(),
	}
	if *urlFlag != "" {
		s.Url = *urlFlag
	}
	if *dumpHttp != "" {
		s.Config.Fetch.DumpDir = *dumpHttp
	}

	if cfg.Telemetry.Enabled() {
		s.otel, err = telemetry.Setup(cmd.Context(), "formprices", cfg.Telemetry)
		if err != nil {
			slog.Warn("telemetry export disabled", "err", err)
		}
	}

	s.Fetcher = gravityforms.NewFetcher(s.Tel, s.Config.FetcherOptions())
	s.Extractor = catalog.Extractor{
		Fetcher:          s.Fetcher,
		Telemetry:        s.Tel,
		Identity:         s.Config.Identity(),
		Wildcard:         *allSelects,
		FlowerOnly:       !*allProducts,
		MarkerClass:      cfg.Form.MarkerClass,
		PlaceholderClass: cfg.Form.PlaceholderClass,
	}
	return nil
}

// flushTelemetry exports whatever the providers still buffer.
var flushTelemetry = func(ctx context.Context, t telemetry.Telemetry) error {
	return t.Shutdown(ctx)
}

func (s *state) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := flushTelemetry(ctx, s.otel)
	if err != nil {
		slog.Warn("flush telemetry", "err", err)
	}
}

// execute runs the command line and flushes telemetry afterwards, also
// when the command failed.
func execute(ctx context.Context) error {
	s := &state{}
	err := rootCmd.ExecuteContext(context.WithValue(ctx, stateKey{}, s))
	s.flush()
	return err
}

var rootCmd = &cobra.Command{
	Use:   "formprices",
	Short: "formprices extracts product prices from Gravity Forms dropdowns.",
	Long: `formprices fetches a Gravity Forms page (answering the conditional questions
so hidden product fields are rendered), reads the product dropdowns and prints
the products ordered by price with price per gram and per mg of THC.`,
	PersistentPreRunE: setup,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

// ExecuteContext runs the command line and exits with status 1 on error.
func ExecuteContext(ctx context.Context) {
	err := execute(ctx)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Exiting...")
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
