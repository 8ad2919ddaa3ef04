package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/arcanaland/bbcards/internal/fonts"
	"github.com/arcanaland/bbcards/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the card form over HTTP",
	Long: `Serve renders cards posted from a web form. POST /cards accepts the
fields whitecards, blackcards, cardsize (S, L or LR for large rounded),
pagelayout (oneperpage) and an optional iconfile upload, and responds with
the PDF. GET /healthz reports liveness.

Examples:
  bbcards serve
  bbcards serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		paper, err := cfg.PaperSize()
		if err != nil {
			return err
		}

		opts := server.Options{
			Paper:       paper,
			DefaultIcon: cfg.DefaultIcon,
			Logger:      logger,
		}
		if fonts.Exists(cfg.FontDir) {
			opts.Fonts = fonts.Load(cfg.FontDir)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(opts).ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
}
