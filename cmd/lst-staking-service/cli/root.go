package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const (
	defaultConfigFileName    = "config.yml"
	defaultProtocolsFileName = "protocols.json"
)

var (
	cfgPath       string
	protocolsPath string
	rootCmd       = &cobra.Command{
		Use:   "start-server",
		Short: "Serve liquid staking token reads and transactions",
	}
)

func Setup() error {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	defaultConfigPath := getDefaultConfigFile(homePath, defaultConfigFileName)
	defaultProtocolsPath := getDefaultConfigFile(homePath, defaultProtocolsFileName)

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, fmt.Sprintf("config file (default %s)", defaultConfigPath))
	rootCmd.PersistentFlags().StringVar(&protocolsPath, "protocols", defaultProtocolsPath, fmt.Sprintf("protocol descriptors file (default %s)", defaultProtocolsPath))
	if err := rootCmd.Execute(); err != nil {
		return err
	}

	return nil
}

func getDefaultConfigFile(homePath, filename string) string {
	return filepath.Join(homePath, filename)
}

func GetConfigPath() string {
	return cfgPath
}

func GetProtocolsPath() string {
	return protocolsPath
}
