package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const (
	defaultConfigFileName = "config.yml"
)

var (
	cfgPath    string
	replayFlag bool
	inMemory   bool
	rootCmd    = &cobra.Command{
		Use:   "mesh-provider",
		Short: "Provider side of the mesh staking protocol",
	}
)

func Setup() error {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	defaultConfigPath := getDefaultConfigFile(homePath, defaultConfigFileName)

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, fmt.Sprintf("config file (default %s)", defaultConfigPath))
	rootCmd.PersistentFlags().BoolVar(&replayFlag, "replay", false, "Replay unprocessable messages and exit")
	rootCmd.PersistentFlags().BoolVar(&inMemory, "in-memory", false, "Keep the provider state in memory instead of MongoDB (development only)")
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

func GetReplayFlag() bool {
	return replayFlag
}

func GetInMemoryFlag() bool {
	return inMemory
}
