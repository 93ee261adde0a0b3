package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "github.com/Flarenzy/netcollide/docs"
	"github.com/Flarenzy/netcollide/internal/app"
)

//	@title			netcollide API
//	@version		1.0
//	@description	Collects container network prefixes and reports collisions.

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:4040
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

var (
	mainCmd = &cobra.Command{
		Use:           "netcollide",
		Short:         "Collect container network prefixes and report collisions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			checkFile, err := cmd.Flags().GetString("check-collision")
			if err != nil {
				return err
			}
			logger, err := app.NewLogger(os.Stderr, cfg.LogLevel)
			if err != nil {
				return err
			}
			return app.Collect(cmd.Context(), cfg, logger, cmd.OutOrStdout(), checkFile)
		},
	}

	checkCmd = &cobra.Command{
		Use:   "check <snapshot file>",
		Short: "Report colliding networks in a snapshot file without collecting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overlaps, err := cmd.Flags().GetBool("overlaps")
			if err != nil {
				return err
			}
			return app.Check(cmd.Context(), cmd.OutOrStdout(), args[0], overlaps)
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the inventory and collision API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			listener, err := net.Listen("tcp", net.JoinHostPort("", cfg.Port))
			if err != nil {
				return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
			}
			return app.Serve(cmd.Context(), cfg, listener)
		},
	}
)

func init() {
	registerFlags(mainCmd.PersistentFlags())
	mainCmd.Flags().String("check-collision", "", "Check for IP network collisions using the specified file")
	checkCmd.Flags().Bool("overlaps", false, "Also report networks contained in other networks")

	mainCmd.AddCommand(
		checkCmd,
		serveCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mainCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "netcollide: %v\n", err)
		os.Exit(1)
	}
}
