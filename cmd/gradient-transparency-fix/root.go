package main

import (
	"bennypowers.dev/gtf/internal/config"
	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/internal/version"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags every command shares
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "gradient-transparency-fix",
		Short: "Fix CSS gradients that fade through transparent black",
		Long: `gradient-transparency-fix rewrites the "transparent" stops of CSS gradients
into an alpha-zero version of the neighbouring color, so gradients fade the same
way in every browser. It fixes stylesheets, <style> blocks and style attributes
of HTML documents, and css/html tagged templates in JavaScript and TypeScript.`,
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(o.logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "", "config file (default: discovered in the project root)")
	flags.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newFixCmd(o),
		newValueCmd(o),
		newLSPCmd(o),
		newConfigCmd(o),
	)
	return cmd
}

// loadConfig reads the --config file, or discovers the config of root.
// The path is empty when the defaults are used.
func (o *rootOptions) loadConfig(root string) (config.Config, string, error) {
	if o.configPath != "" {
		cfg, err := config.LoadFile(o.configPath)
		return cfg, o.configPath, err
	}
	return config.Load(root)
}
