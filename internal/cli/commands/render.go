package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/datecol/internal/cli/config"
)

// RenderOptions holds options for the render command.
type RenderOptions struct {
	Kind    string
	Pattern string
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render <value>...",
		Short: "Render values as SQL literals",
		Long: `Render date values as the quoted SQL literals a date column writes.

Values are read as "now", epoch milliseconds, RFC 3339, or a date with an
optional time of day in the configured timezone.`,
		Example: `  datecol render "2024-03-15 10:30:00.123456"
  datecol render --kind date 2024-03-15T22:30:00Z
  datecol render --pattern "dd.MM.yyyy" now`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sessionFor(cmd, opts.Kind, "", opts.Pattern)
			if err != nil {
				return err
			}
			for _, arg := range args {
				if err := s.render(cmd.OutOrStdout(), arg); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "", "Column kind: date or datetime (default from config)")
	cmd.Flags().StringVarP(&opts.Pattern, "pattern", "p", "", "Format with this pattern instead of the literal pattern")
	_ = cmd.RegisterFlagCompletionFunc("kind", completeKinds)

	return cmd
}

// sessionFor builds a session from the command's config and flag overrides.
func sessionFor(cmd *cobra.Command, kind, dialectName, pattern string) (*session, error) {
	cfg := config.FromContext(cmd.Context())
	s, err := newSession(cfg)
	if err != nil {
		return nil, err
	}
	if kind != "" {
		if err := s.setKind(kind); err != nil {
			return nil, err
		}
	}
	if dialectName != "" {
		if err := s.setDialect(dialectName); err != nil {
			return nil, err
		}
	}
	if err := s.setPattern(pattern, cfg); err != nil {
		return nil, err
	}
	config.GetLogger(cmd.Context()).Debug("codec session",
		"kind", s.kind, "dialect", s.dialect.Name, "timezone", s.loc.String())
	return s, nil
}

func completeKinds(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"date", "datetime"}, cobra.ShellCompDirectiveNoFileComp
}
