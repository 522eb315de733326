// -- cmd/run.go --
package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/ghosthand/internal/coordinator"
	"github.com/xkilldash9x/ghosthand/internal/observability"
	"github.com/xkilldash9x/ghosthand/internal/platform"
)

var cliclickPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the automation daemon until interrupted",
	Long: `Starts the long-lived foreground process: binds the control hotkeys,
watches the configured directory, and waits for workflow triggers. Stop with
Ctrl-C or the stop hotkey followed by Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()
		defer observability.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		conductor := platform.NewScriptConductor(cliclickPath, logger)
		registrar := platform.NewPipeRegistrar(appConfig.Hotkeys.ControlPipe, logger)

		coord, err := coordinator.New(appConfig, conductor, registrar, logger)
		if err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return registrar.Listen(gctx) })
		g.Go(func() error { return coord.Run(gctx) })

		err = g.Wait()
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("ghosthand stopped")
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&cliclickPath, "cliclick", "", "path to the cliclick binary (default: $PATH lookup)")
	rootCmd.AddCommand(runCmd)
}
