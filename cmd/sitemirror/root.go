package main

import (
	"fmt"
	"os"

	"github.com/nao1215/sitemirror/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitemirror.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitemirror",
		Short: "Mirror the pages under a URL prefix to local files",
		Long: `sitemirror crawls a website starting from one URL, follows only links that
start with a configured prefix, and writes every page it fetches to a file
whose path mirrors the page URL.

Each page is stored in one of three variants:
  html  the page title and the full HTML document   (output-html/)
  txt   the page title and its visible text          (output-txt/)
  md    the page converted to Markdown               (output-md/)`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format: text or json")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
