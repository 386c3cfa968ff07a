package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/dictlookup/internal"
	"codeberg.org/snonux/dictlookup/internal/anki"
	"codeberg.org/snonux/dictlookup/internal/config"
	"codeberg.org/snonux/dictlookup/internal/logging"
	"codeberg.org/snonux/dictlookup/internal/models"
	"codeberg.org/snonux/dictlookup/internal/provider"
	"codeberg.org/snonux/dictlookup/internal/server"
)

// CreateRootCommand creates and configures the root cobra command. Without
// a subcommand it serves.
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dictlookup",
		Short: "AI dictionary backend for GoldenDict",
		Long: `dictlookup translates and analyses selected text with an AI provider and
renders the result as an HTML page for GoldenDict's website dictionary.

Examples:
  dictlookup                          # Serve on the configured host and port (default)
  dictlookup serve --port 5050        # Serve on another port
  dictlookup lookup 我喜欢吃苹果       # Print the page for one text
  dictlookup lookup --batch texts.txt -o pages/
  dictlookup list-models              # Show models available to the OpenAI key`,
		Args:         cobra.NoArgs,
		Version:      internal.Version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/"+config.DefaultFileName+")")

	serveCmd := newServeCommand(flags)
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd, newLookupCommand(flags), newListModelsCommand(flags))
	return rootCmd
}

func newServeCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, flags)
		},
	}
	cmd.Flags().StringVar(&flags.Host, "host", "", "Listen address (default from server.host)")
	cmd.Flags().IntVar(&flags.Port, "port", 0, "Listen port (default from server.port)")
	return cmd
}

func newLookupCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup [text]",
		Short: "Look up text once and print the page",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.BatchFile == "" && len(args) == 0 {
				return fmt.Errorf("provide text to look up or --batch")
			}
			return runLookup(cmd.Context(), cmd.OutOrStdout(), args, flags)
		},
	}
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Look up every line of file")
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", "", "Write one HTML file per input to this directory")
	cmd.Flags().BoolVar(&flags.Grammar, "grammar", false, "Grammar check the input instead of looking it up")
	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "Run every enabled feature, grammar check included")
	return cmd
}

func newListModelsCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "list-models",
		Short: "List models available for the configured OpenAI endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Load(flags.CfgFile)
			if err != nil {
				return err
			}
			openai := store.Config().Providers.OpenAI
			catalog, err := models.NewLister(openai.APIKey, openai.BaseURL).List(cmd.Context())
			if err != nil {
				return err
			}
			return catalog.Print(cmd.OutOrStdout())
		},
	}
}

// env is what every pipeline command needs.
type env struct {
	store  *config.Store
	logger *zap.Logger
	anki   *anki.SQLiteStore
}

func newEnv(flags *Flags) (*env, error) {
	store, err := config.Load(flags.CfgFile)
	if err != nil {
		return nil, err
	}
	cfg := store.Config()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	statePath := cfg.Anki.StateDB
	if statePath == "" {
		statePath = ":memory:"
	}
	ankiStore, err := anki.OpenStore(statePath)
	if err != nil {
		return nil, err
	}

	return &env{store: store, logger: logger, anki: ankiStore}, nil
}

func (e *env) deps() server.Deps {
	return server.Deps{Registry: provider.NewRegistry(), Store: e.anki, Logger: e.logger}
}

func (e *env) Close() {
	if err := e.anki.Close(); err != nil {
		e.logger.Warn("failed to close state database", zap.Error(err))
	}
	_ = e.logger.Sync()
}

func runServe(ctx context.Context, flags *Flags) error {
	e, err := newEnv(flags)
	if err != nil {
		return err
	}
	defer e.Close()

	cfg := e.store.Config()
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := server.NewApp(ctx, e.store, e.deps().Builder(), e.logger)
	if err != nil {
		return err
	}
	srv, err := server.New(app, e.logger)
	if err != nil {
		return err
	}

	e.logger.Info("using config file", zap.String("path", e.store.Path()))
	return srv.Run(ctx, listenAddr(cfg.Server, flags))
}

func listenAddr(cfg config.ServerConfig, flags *Flags) string {
	host, port := cfg.Host, cfg.Port
	if flags.Host != "" {
		host = flags.Host
	}
	if flags.Port != 0 {
		port = flags.Port
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
