// ABOUTME: Root command and global flags for the Pawsonality CLI
// ABOUTME: Registers every subcommand and validates --verbose/--quiet/--format
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
██████╗  █████╗ ██╗    ██╗███████╗
██╔══██╗██╔══██╗██║    ██║██╔════╝
██████╔╝███████║██║ █╗ ██║███████╗
██╔═══╝ ██╔══██║██║███╗██║╚════██║
██║     ██║  ██║╚███╔███╔╝███████║
╚═╝     ╚═╝  ╚═╝ ╚══╝╚══╝ ╚══════╝
        P A W S O N A L I T Y`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pawsonality",
		Short: "Dog personality quiz and care assistant",
		Long: banner + `

Pawsonality classifies a dog's personality from a 12-question quiz into one
of 16 four-letter types and answers care questions with a retrieval-grounded
assistant.

Configuration is read from environment variables (and a .env file when
present). Without OPENROUTER_API_KEY the assistant answers directly from
the knowledge base.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			switch outputFormat {
			case "auto", "text", "json":
			default:
				return fmt.Errorf("--format must be auto, text or json, got %q", outputFormat)
			}
			// A missing .env file is normal
			_ = godotenv.Load()
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, text or json")

	cmd.AddCommand(
		NewServeCmd(),
		NewQuestionsCmd(),
		NewClassifyCmd(),
		NewTypesCmd(),
		NewAskCmd(),
		NewExplainCmd(),
		NewChatCmd(),
		NewKBCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
