package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/syntrixbase/salesgrid/internal/render"
)

const help = `commands:
  sort <id|date|seller|customer|total>   cycle a column: none, up, down
  search <text>                          free-text search (empty clears)
  seller <name> | customer <name>        filter by display name
  date <text>                            filter dates containing text
  from <amount> | to <amount>            inclusive total range
  first | prev | next | last | page <n>  navigate
  rows <n>                               rows per page
  options                                list seller and customer names
  refresh                                refetch ignoring the cache
  reset                                  clear all controls
  help | quit`

// Shell reads commands line by line and re-renders after each one.
type Shell struct {
	in     io.Reader
	out    io.Writer
	form   *Form
	loop   *render.Loop
	logger *slog.Logger
}

// NewShell creates a shell.
func NewShell(in io.Reader, out io.Writer, form *Form, loop *render.Loop, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{
		in:     in,
		out:    out,
		form:   form,
		loop:   loop,
		logger: logger.With("component", "shell"),
	}
}

// Run loads the filter options, renders the first page and then serves
// commands until quit, end of input or ctx is done. It fails only when the
// reference collections cannot be loaded; record errors are reported and the
// previous table stays on screen.
func (s *Shell) Run(ctx context.Context) error {
	opts, err := s.loop.Init(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return err
	}
	s.render(ctx, "")

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "quit", "exit":
			return nil
		case "help", "?":
			fmt.Fprintln(s.out, help)
			continue
		case "options":
			fmt.Fprintf(s.out, "sellers:   %s\ncustomers: %s\n",
				strings.Join(opts.Sellers, ", "), strings.Join(opts.Customers, ", "))
			continue
		}
		s.render(ctx, line)
	}
}

func (s *Shell) render(ctx context.Context, line string) {
	action, err := s.form.Apply(line)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	if _, err := s.loop.Render(ctx, action); err != nil {
		s.logger.Debug("Render failed", "action", action.String(), "error", err)
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}
