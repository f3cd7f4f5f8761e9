package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hybridsearch/internal/config"
	"hybridsearch/internal/domain"
	"hybridsearch/internal/engine"
	"hybridsearch/internal/eventbus"
	"hybridsearch/internal/logging"
	"hybridsearch/internal/navstate"
	"hybridsearch/internal/presets"
	"hybridsearch/internal/search"
	"hybridsearch/internal/selection"
	"hybridsearch/internal/ui"
)

var (
	configPath string
	stateFile  string
	location   string
	queryText  string
	modeFlag   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "hybridsearch",
	Short: "Search-as-you-type client for a hybrid search backend",
	Long: `hybridsearch queries a hosted hybrid search dataset while you type.

Results come in two shapes: group mode clusters hits by the backend's
groups, chunk mode lists individually ranked hits. Tab switches between
them. The last query and mode are kept in a state file and restored on
the next run.

Credentials come from the config file, a .env file or the environment
(TRIEVE_API_KEY, TRIEVE_DATASET_ID, TRIEVE_BASE_URL).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInteractive,
}

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run one search and print the results",
	Long: `Runs a single search without debouncing and prints the hits.

Example:
  hybridsearch query --mode chunk "component for a mermaid diagram"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVarP(&modeFlag, "mode", "m", domain.GroupToken, "Search mode: group or chunk")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().StringVarP(&queryText, "q", "q", "", "Start with this query")
	rootCmd.Flags().StringVar(&location, "url", "", "Start from a location such as https://host/?q=...&searchMode=chunk")
	rootCmd.Flags().StringVar(&stateFile, "state-file", "", "File holding the last query and mode")

	rootCmd.AddCommand(queryCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by every command
func setup() (*config.Config, *zap.Logger, error) {
	if err := config.LoadEnv(".env"); err != nil {
		return nil, nil, err
	}

	svc := config.NewConfigService()
	if configPath != "" {
		svc = config.NewConfigServiceAt(configPath)
	}
	cfg, err := svc.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnv(cfg)

	logger, err := logging.New(cfg.LogFile, verbose)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("config loaded", zap.String("path", svc.Path()), zap.String("base_url", cfg.BaseURL))

	return cfg, logger, cfg.Validate()
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if logger != nil {
		defer func() { _ = logger.Sync() }()
	}
	if err != nil {
		return err
	}

	path := stateFile
	if path == "" {
		path = cfg.StateFile
	}
	if path == "" {
		path = navstate.DefaultPath()
	}
	store, err := navstate.OpenFileStore(path)
	if err != nil {
		return err
	}
	if err := seedStore(cmd, store); err != nil {
		return err
	}
	urlSync := navstate.NewURLSync(store)

	bus := eventbus.New(logger)
	defer bus.Close()

	client := search.NewClient(cfg.BaseURL, cfg.APIKey, cfg.DatasetID, search.WithLogger(logger))
	eng, err := engine.New(search.NewStrategies(client),
		engine.WithDebounce(cfg.Debounce()),
		engine.WithLogger(logger),
		engine.WithObserver(engine.NewBusObserver(bus, logger)),
		engine.WithStateSync(urlSync),
	)
	if err != nil {
		return err
	}

	pager := ui.NewOvPager()
	model := ui.NewModel(ui.Options{
		Engine:    eng,
		Selector:  selection.NewSelector(selection.NewBrowserOpener(logger), bus, logger),
		Presets:   presets.NewPicker(cfg.Presets),
		Pager:     pager,
		Initial:   urlSync.Load(),
		ShowLinks: cfg.UISettings.ShowLinks,
		Logger:    logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	pager.SetProgram(p)

	unsubscribe := ui.Subscribe(bus, p.Send)
	defer unsubscribe()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng.Start(ctx)
	defer eng.Close()

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	logger.Info("starting UI", zap.String("state_file", store.Path()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	logger.Info("UI exited normally")
	return nil
}

// seedStore writes flag-supplied navigation parameters before the engine reads them
func seedStore(cmd *cobra.Command, store navstate.Store) error {
	params := map[string]string{}

	if location != "" {
		values, err := navstate.ParseLocation(location)
		if err != nil {
			return err
		}
		for _, key := range []string{navstate.KeyQuery, navstate.KeyMode} {
			if values.Has(key) {
				params[key] = values.Get(key)
			}
		}
	}
	if cmd.Flags().Changed("q") {
		params[navstate.KeyQuery] = queryText
	}
	if cmd.Flags().Changed("mode") {
		params[navstate.KeyMode] = modeFlag
	}

	if len(params) == 0 {
		return nil
	}
	return store.Replace(params)
}
