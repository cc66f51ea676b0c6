package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/unite-defi/fusion-go/cmd"
	"github.com/unite-defi/fusion-go/logconfig"
)

const (
	ENV_CONFIG_FILE_PATH = "FUSION_CONFIG"
)

func main() {
	logconfig.ConfigProductionLogger()

	// .env is optional; real env vars win over it.
	_ = godotenv.Load()

	// Tool to read environment variables
	viper.AutomaticEnv()

	// Accessing an environment variable of configuration file location.
	_config_file := viper.GetString(ENV_CONFIG_FILE_PATH)
	if _config_file != "" {
		fmt.Printf("Swap server configuration file = %s\n", _config_file)
		if !cmd.FileExists(_config_file) {
			fmt.Printf("Swap server configuration file not found: %s\n", _config_file)
			return
		}
		if !initializeViper(_config_file) {
			return
		}
	}

	ssc := PrepareSwapServerConfig()

	fmt.Println("Starting swap server... press Ctrl+C to kill the server")
	// Start server and block.
	cmd.StartSwapServerAndWait(ssc)
}

func initializeViper(filePath string) bool {
	viper.SetConfigFile(filePath)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Error reading configuration file, %s", err)
		return false
	}
	return true
}

// PrepareSwapServerConfig reads configuration variables and returns a SwapServerConfig.
func PrepareSwapServerConfig() *cmd.SwapServerConfig {
	viper.SetDefault("DB_FILE_PATH", "fusion.db")
	viper.SetDefault("HTTP_IP", "0.0.0.0")
	viper.SetDefault("HTTP_PORT", "8080")

	return &cmd.SwapServerConfig{
		// aggregator side
		OneInchBaseUrl: viper.GetString("ONEINCH_BASE_URL"),
		OneInchApiKey:  viper.GetString("ONEINCH_API_KEY"),
		// price reference side
		CoingeckoBaseUrl: viper.GetString("COINGECKO_BASE_URL"),
		// off-chain collaborators
		ResolverUrl: viper.GetString("RESOLVER_URL"),
		BackendUrl:  viper.GetString("BACKEND_URL"),
		// state side
		DbFilePath: viper.GetString("DB_FILE_PATH"),
		// aptos side
		AptosHtlcModuleAddr: viper.GetString("APTOS_HTLC_MODULE_ADDR"),
		// http side
		HttpIp:   viper.GetString("HTTP_IP"),
		HttpPort: viper.GetString("HTTP_PORT"),
	}
}
