package commands

import (
	"github.com/spf13/cobra"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Kind    string
	Pattern string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <text>...",
		Short: "Decode text as a database would return it",
		Long: `Decode text the way a date column reads it back from a driver.

SQLite-like dialects parse the text; standard dialects leave text to the
caller, so parse reports it as undecoded. The dialect comes from --dialect
on the root command or the config file.`,
		Example: `  datecol parse "2024-03-15 10:30:00"
  datecol parse --kind date 2024-03-15
  datecol --dialect duckdb parse "2024-03-15 10:30:00"
  datecol parse --pattern "dd.MM.yyyy" 15.03.2024`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sessionFor(cmd, opts.Kind, "", opts.Pattern)
			if err != nil {
				return err
			}
			for _, arg := range args {
				if err := s.parse(cmd.OutOrStdout(), arg); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "", "Column kind: date or datetime (default from config)")
	cmd.Flags().StringVarP(&opts.Pattern, "pattern", "p", "", "Parse with this pattern instead of the dialect's")
	_ = cmd.RegisterFlagCompletionFunc("kind", completeKinds)

	return cmd
}
