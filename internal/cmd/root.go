package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/tileboard/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "tileboard",
	Short: "Interactive board of tiles loaded from a remote definition",
	Long: `Tileboard fetches a JSON or YAML board definition, renders its tiles
in the terminal, and lets buttons on the board rewrite other tiles.

Run without a subcommand to open the interactive board. Use 'tileboard render'
to print the board once, e.g. from scripts.`,
	Args:         cobra.NoArgs,
	RunE:         runBoard,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/tileboard/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.PersistentFlags().String("url", "", "definition URL (overrides source.url)")
	_ = viper.BindPFlag("source.url", rootCmd.PersistentFlags().Lookup("url"))

	rootCmd.PersistentFlags().String("file", "", "definition file, JSON or YAML (overrides source.file)")
	_ = viper.BindPFlag("source.file", rootCmd.PersistentFlags().Lookup("file"))

	rootCmd.PersistentFlags().String("missing-reference", "", "what an update to an unknown key does: reject or create")
	_ = viper.BindPFlag("update.missing_reference", rootCmd.PersistentFlags().Lookup("missing-reference"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/tileboard")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TILEBOARD")
	// Replace dots with underscores for nested keys in env vars
	// e.g., TILEBOARD_SOURCE_URL for source.url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
