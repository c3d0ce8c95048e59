package cmd

import (
	"fmt"

	"github.com/syncdeck/syncdeck/internal/client/output"
	"github.com/syncdeck/syncdeck/internal/config"
	"github.com/syncdeck/syncdeck/internal/constants"

	"github.com/spf13/cobra"
)

var (
	configureAPIEndpoint string
	configureAPIKey      string
	configureEmail       string
	configureSocketURL   string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure local environment with API key, account, and endpoint URL",
	Long: fmt.Sprintf(`Configure the local environment with your API key, account email, and endpoint URL.
This creates or updates the configuration file at ~/%s/%s`, constants.ConfigDirName, constants.ConfigFileName),
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().StringVar(&configureAPIEndpoint, "api-endpoint", "", "Base URL of the sync service API")
	configureCmd.Flags().StringVar(&configureAPIKey, "api-key", "", "API key for the sync service")
	configureCmd.Flags().StringVar(&configureEmail, "email", "", "Account email (the signed-in identity)")
	configureCmd.Flags().StringVar(&configureSocketURL, "websocket-endpoint", "",
		"WebSocket base URL (defaults to the API endpoint with the scheme swapped)")
	_ = configureCmd.MarkFlagRequired("api-endpoint")
	_ = configureCmd.MarkFlagRequired("api-key")
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(_ *cobra.Command, _ []string) error {
	cfg := &config.Config{
		APIEndpoint:       configureAPIEndpoint,
		APIKey:            configureAPIKey,
		AccountEmail:      configureEmail,
		WebSocketEndpoint: configureSocketURL,
	}

	if err := config.Save(cfg); err != nil {
		output.Errorf("failed to save configuration: %v", err)
		return err
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		return err
	}

	output.Successf("Configuration saved to %s", output.Bold(configPath))
	output.KeyValue("API endpoint", cfg.APIEndpoint)
	if cfg.AccountEmail != "" {
		output.KeyValue("Account", cfg.AccountEmail)
	}
	return nil
}
