// Package router maps lines typed into the interactive shell onto session
// operations.
//
// Every command declares its words and an ordered list of arguments. Each
// argument parses and validates its token before the command runs, so a bad
// value is reported with the command usage instead of reaching the books.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pocketbook/pocketbook/app/panichandler"
	"github.com/pocketbook/pocketbook/app/pocketbook/session"
)

// ExitMessage is printed when the shell ends.
const ExitMessage = "Good bye!"

var (
	// ErrUnknownCommand is returned when no command words match the input.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrTooManyArguments is returned when tokens remain after binding every argument.
	ErrTooManyArguments = errors.New("too many arguments")
)

// Arg is one positional argument of a command.
type Arg struct {
	Name string
	// Optional arguments may be left out at the end of the line.
	Optional bool
	// Rest consumes every remaining token. Only the last argument may set it.
	Rest bool
	// Parse validates the raw token and returns the value the command sees.
	// Nil keeps the token as typed.
	Parse func(ctx context.Context, raw string) (string, error)
}

// Args holds parsed argument values by name. Missing optional arguments are
// absent.
type Args map[string]string

// Int returns a numeric argument that Parse already validated, or def when it
// was left out.
func (a Args) Int(name string, def int) int {
	v, ok := a[name]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// List splits a Rest argument back into its tokens.
func (a Args) List(name string) []string {
	return strings.Fields(a[name])
}

// Command is one entry of the command table.
type Command struct {
	// Names are the command words, first one canonical. Matching ignores case.
	Names []string
	Help  string
	Args  []Arg
	// Exit ends the shell after Run.
	Exit bool
	Run  func(ctx context.Context, s *session.Session, a Args) (string, error)
}

// Usage renders the command line form, for example "edit phone NAME OLD NEW".
func (c Command) Usage() string {
	parts := []string{c.Names[0]}
	for _, a := range c.Args {
		name := strings.ToUpper(a.Name)
		if a.Rest {
			name += "..."
		}
		if a.Optional {
			name = "[" + name + "]"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, " ")
}

// Reply is the outcome of one input line.
type Reply struct {
	Text string
	Exit bool
}

// Router dispatches shell input to a session.
type Router struct {
	session  *session.Session
	commands []Command
	logger   *slog.Logger
}

// New builds a router with the standard command table.
func New(s *session.Session, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{session: s, logger: logger}
	r.commands = commandTable(r)
	return r
}

// Commands returns the command table in declaration order.
func (r *Router) Commands() []Command {
	return r.commands
}

// Handle runs one line of input. Errors are turned into user text; the
// returned Reply never carries a Go error.
func (r *Router) Handle(ctx context.Context, line string) Reply {
	tokens, err := Tokenize(line)
	if err != nil {
		return Reply{Text: Describe(err)}
	}
	if len(tokens) == 0 {
		return Reply{}
	}

	cmd, width, ok := r.match(tokens)
	if !ok {
		r.logger.DebugContext(ctx, "unknown command", "input", line)
		return Reply{Text: r.unknown()}
	}

	args, err := bind(ctx, cmd, tokens[width:])
	if err != nil {
		return Reply{Text: Describe(err) + "\nUsage: " + cmd.Usage()}
	}

	var out string
	err = panichandler.Guard(cmd.Names[0], func() error {
		var runErr error
		out, runErr = cmd.Run(ctx, r.session, args)
		return runErr
	})
	if err != nil {
		r.logger.DebugContext(ctx, "command failed", "command", cmd.Names[0], "error", err)
		return Reply{Text: Describe(err)}
	}
	return Reply{Text: out, Exit: cmd.Exit}
}

// match finds the command whose words cover the most leading tokens.
func (r *Router) match(tokens []string) (Command, int, bool) {
	var (
		best  Command
		width int
	)
	for _, cmd := range r.commands {
		for _, name := range cmd.Names {
			words := strings.Fields(name)
			if len(words) <= width || len(words) > len(tokens) {
				continue
			}
			if hasPrefixFold(tokens, words) {
				best, width = cmd, len(words)
			}
		}
	}
	return best, width, width > 0
}

func hasPrefixFold(tokens, words []string) bool {
	for i, w := range words {
		if !strings.EqualFold(tokens[i], w) {
			return false
		}
	}
	return true
}

func bind(ctx context.Context, cmd Command, tokens []string) (Args, error) {
	args := make(Args, len(cmd.Args))
	i := 0
	for _, a := range cmd.Args {
		var raw string
		switch {
		case a.Rest && i < len(tokens):
			raw = strings.Join(tokens[i:], " ")
			i = len(tokens)
		case i < len(tokens):
			raw = tokens[i]
			i++
		case a.Optional:
			continue
		default:
			return nil, fmt.Errorf("%w: %s", session.ErrMissingArgument, a.Name)
		}

		if a.Parse != nil {
			v, err := a.Parse(ctx, raw)
			if err != nil {
				return nil, err
			}
			raw = v
		}
		args[a.Name] = raw
	}
	if i < len(tokens) {
		return nil, fmt.Errorf("%w: %s", ErrTooManyArguments, strings.Join(tokens[i:], " "))
	}
	return args, nil
}

func (r *Router) unknown() string {
	names := make([]string, 0, len(r.commands))
	for _, cmd := range r.commands {
		names = append(names, cmd.Names...)
	}
	return "I didn't catch you! Please enter one of the following commands: " + strings.Join(names, ", ")
}

// Help lists every command with its usage.
func (r *Router) Help() string {
	width := 0
	for _, cmd := range r.commands {
		width = max(width, len(cmd.Usage()))
	}
	lines := make([]string, 0, len(r.commands))
	for _, cmd := range r.commands {
		lines = append(lines, fmt.Sprintf("  %-*s  %s", width, cmd.Usage(), cmd.Help))
	}
	return strings.Join(lines, "\n")
}
