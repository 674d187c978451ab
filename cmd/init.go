package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/plagiscan/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.plagiscan with a default config and .env template",
	Long: `Create the plagiscan home directory (~/.plagiscan, or $PLAGISCAN_HOME) containing
plagiscan.yaml with the default detection settings and a .env template listing
the PLAGISCAN_* override keys. Existing files are left untouched unless --force.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var flagInitForce bool

func init() {
	initCmd.Flags().BoolVar(&flagInitForce, "force", false, "Overwrite an existing plagiscan.yaml with defaults")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	home, err := config.HomeDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", home, err)
	}
	printOK("", fmt.Sprintf("plagiscan directory ready: %s", home))

	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	_, statErr := os.Stat(cfgPath)
	switch {
	case statErr == nil && !flagInitForce:
		printSkip("", fmt.Sprintf("config already exists: %s", cfgPath))
	case statErr == nil || os.IsNotExist(statErr):
		if err := config.Save(config.DefaultConfig()); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("config written: %s", cfgPath))
	default:
		return fmt.Errorf("cannot stat %s: %w", cfgPath, statErr)
	}

	if err := config.EnsureDotEnvTemplate(); err != nil {
		return err
	}
	envPath, err := config.DotEnvPath()
	if err != nil {
		return err
	}
	printOK("", fmt.Sprintf("dotenv template ready: %s", envPath))
	return nil
}
