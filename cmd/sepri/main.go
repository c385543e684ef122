package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string

	current *app
)

var rootCmd = &cobra.Command{
	Use:   "sepri",
	Short: "SEPRI console: safety protocols, news and notices of Distrito 22",
	Long: `sepri reads the SEPRI content from the content server, keeps a local copy
for offline use and lets administrators edit it.

Visitors can browse news, protocols and their checklists, notices and forms.
Administrators log in to edit content.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil {
			_ = current.Close()
			current = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
