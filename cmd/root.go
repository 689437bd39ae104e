package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/asif-kamal/storefront/internal/constants"
	"github.com/asif-kamal/storefront/internal/log"
)

func Start() {
	logger := log.InitLogger("/var/log/storefront-gateway.log").
		With().
		Str(log.KeyAppName, constants.AppStorefrontGateway).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "gateway",
		Short: "Run storefront gateway",
		Run: func(cmd *cobra.Command, args []string) {
			RunGatewayService(cmd.Context())
		},
	})
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
