// Package shell is an interactive command line over the note store and
// tag registry. It is a second view layer next to the REST API and runs
// against in-process stores.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"

	"github.com/heartmarshall/keepnotes/internal/config"
	"github.com/heartmarshall/keepnotes/internal/service/note"
	"github.com/heartmarshall/keepnotes/internal/service/tag"
)

// errExit is returned by the exit command to end the loop.
var errExit = errors.New("exit requested")

// LineReader yields one input line per call. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
}

// Shell executes text commands against the stores.
type Shell struct {
	notes *note.Store
	tags  *tag.Registry
	out   io.Writer
	log   *slog.Logger
}

// New creates a Shell writing its output to out.
func New(notes *note.Store, tags *tag.Registry, out io.Writer, logger *slog.Logger) *Shell {
	return &Shell{
		notes: notes,
		tags:  tags,
		out:   out,
		log:   logger.With("service", "shell"),
	}
}

// NewReadline creates a readline instance with command completion.
func NewReadline(cfg config.ShellConfig) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          cfg.Prompt,
		HistoryFile:     cfg.HistoryFile,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}

// Run reads and executes lines until exit, EOF, an interrupt on an empty
// line, or ctx cancellation. Command errors are printed, not returned.
func (s *Shell) Run(ctx context.Context, in LineReader) error {
	fmt.Fprintln(s.out, "Welcome to keepnotes. Use 'help' for the list of commands.")
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := in.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if strings.TrimSpace(line) == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("read line: %w", err)
		}

		err = s.Exec(ctx, line)
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// Exec runs a single command line.
func (s *Shell) Exec(ctx context.Context, line string) error {
	args := ParseArgs(strings.TrimSpace(line))
	if len(args) == 0 {
		return nil
	}
	s.log.Debug("shell command", slog.String("command", args[0]))

	switch args[0] {
	case "add":
		return s.handleAdd(ctx, args[1:])
	case "edit":
		return s.handleEdit(ctx, args[1:])
	case "archive", "unarchive", "trash", "restore", "purge", "pin":
		return s.handleMove(ctx, args[0], args[1:])
	case "priority":
		return s.handlePriority(ctx, args[1:])
	case "list", "ls":
		return s.handleList(args[1:])
	case "show":
		return s.handleShow(args[1:])
	case "tag":
		return s.handleTag(ctx, args[1:])
	case "help":
		return s.handleHelp(args[1:])
	case "exit", "quit":
		fmt.Fprintln(s.out, "Goodbye!")
		return errExit
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// ParseArgs splits input on spaces. Double quotes group words and are
// dropped; key:"a b" yields the single argument key:a b.
func ParseArgs(input string) []string {
	var (
		args     []string
		current  strings.Builder
		inQuotes bool
		quoted   bool
	)
	flush := func() {
		if current.Len() > 0 || quoted {
			args = append(args, current.String())
		}
		current.Reset()
		quoted = false
	}

	for _, r := range input {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			quoted = true
		case (r == ' ' || r == '\t') && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return args
}

func completer() *readline.PrefixCompleter {
	item := readline.PcItem
	lists := []readline.PrefixCompleterInterface{
		item("active"), item("archived"), item("trash"),
	}
	for _, k := range note.SortKeys {
		lists = append(lists, item("sort:"+k.String()))
	}
	return readline.NewPrefixCompleter(
		item("add"),
		item("edit"),
		item("archive"),
		item("unarchive"),
		item("trash"),
		item("restore"),
		item("purge"),
		item("pin"),
		item("priority"),
		item("list", lists...),
		item("show"),
		item("tag", item("add"), item("rm"), item("list")),
		item("help"),
		item("exit"),
	)
}
