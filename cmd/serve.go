package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/visapath/visapath-cli/internal/observability"
	"github.com/visapath/visapath-cli/internal/server"
	"github.com/visapath/visapath-cli/internal/service"
)

// newServeCmd creates the `serve` command: run the HTTP API.
func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Runs the eligibility assessment HTTP API",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("server.listen_addr", cmd.Flags().Lookup("listen")); err != nil {
				return err
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			if err := viper.Unmarshal(appConfig); err != nil {
				return fmt.Errorf("failed to apply flag overrides: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			components, err := service.Build(ctx, appConfig, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize components: %w", err)
			}
			defer components.Close()

			srv, err := server.New(appConfig.Server, components.Assembler, components.Catalog, logger)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx)
		},
	}

	serveCmd.Flags().String("listen", "", "listen address (overrides server.listen_addr)")
	return serveCmd
}
