package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sitescout/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		serverCfg := cfg.Server
		if servePort != 0 {
			serverCfg.Port = servePort
		}

		srv := server.New(env.engine, env.set, serverCfg)

		zap.L().Info("starting server", zap.Int("port", serverCfg.Port))
		if err := srv.ListenAndServe(ctx); err != nil {
			return eris.Wrap(err, "server listen")
		}

		zap.L().Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
