package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/datecol/internal/cli/config"
	"github.com/leapstack-labs/datecol/pkg/dialect"
)

const replPrompt = "datecol> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Render and parse values interactively",
		Long: `Start an interactive session for rendering and parsing date values.

Lines starting with "render" or "parse" run those commands; dot-commands
change the session's kind, dialect and pattern.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cfg := config.FromContext(cmd.Context())
	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     filepath.Join(filepath.Dir(cfg.StatePath), "repl_history"),
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "datecol REPL")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	r := &repl{session: s, cfg: cfg, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if quit := r.handle(line); quit {
			return nil
		}
	}
}

// repl evaluates one input line at a time against a session.
type repl struct {
	*session
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer
}

// handle runs line and reports whether the session should end.
func (r *repl) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	var err error
	switch strings.ToLower(verb) {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(r.out)
	case ".kind":
		if rest == "" {
			_, _ = fmt.Fprintln(r.out, r.kind)
			break
		}
		err = r.setKind(rest)
	case ".dialect":
		if rest == "" {
			_, _ = fmt.Fprintln(r.out, r.dialect.Name)
			break
		}
		err = r.setDialect(rest)
	case ".pattern":
		err = r.setPattern(rest, r.cfg)
	case ".show":
		pattern := "(literal)"
		if r.pattern != nil {
			pattern = r.pattern.String()
		}
		_, _ = fmt.Fprintf(r.out, "kind=%s dialect=%s mode=%s timezone=%s pattern=%s\n",
			r.kind, r.dialect.Name, r.dialect.Mode, r.loc, pattern)
	case "render":
		err = r.render(r.out, rest)
	case "parse":
		err = r.parse(r.out, rest)
	default:
		err = fmt.Errorf("unknown command %q (type .help for commands)", verb)
	}

	if err != nil {
		_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  render <value>      Render a value as a SQL literal
  parse <text>        Decode text as the current dialect returns it
  .kind [date|datetime]
                      Show or set the column kind
  .dialect [name]     Show or set the dialect
  .pattern [layout]   Use a pattern for render and parse; empty resets
  .show               Show the session settings
  .help               Show this help message
  .quit / .exit       Exit the REPL

Values are "now", epoch milliseconds, RFC 3339, or a local date and time.
`
	_, _ = fmt.Fprintln(w, help)
}

func newREPLCompleter() *readline.PrefixCompleter {
	dialects := make([]readline.PrefixCompleterInterface, 0, len(dialect.List()))
	for _, name := range dialect.List() {
		dialects = append(dialects, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("render", readline.PcItem("now")),
		readline.PcItem("parse"),
		readline.PcItem(".kind", readline.PcItem("date"), readline.PcItem("datetime")),
		readline.PcItem(".dialect", dialects...),
		readline.PcItem(".pattern"),
		readline.PcItem(".show"),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
