package shell

import (
	"context"
	"fmt"
	"html"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/heartmarshall/keepnotes/internal/domain"
	"github.com/heartmarshall/keepnotes/internal/service/note"
	"github.com/heartmarshall/keepnotes/internal/service/tag"
	"github.com/heartmarshall/keepnotes/pkg/sanitize"
)

// shortIDLen is how many id characters listings show.
const shortIDLen = 8

// optionKeys are the key:value arguments commands understand. Anything
// else containing a colon is treated as positional text.
var optionKeys = map[string]bool{
	"color": true, "priority": true, "tag": true,
	"sort": true, "search": true, "category": true, "glob": true,
}

// splitOptions separates positional arguments from key:value options.
func splitOptions(args []string) ([]string, map[string][]string) {
	var positional []string
	opts := make(map[string][]string)
	for _, a := range args {
		key, value, ok := strings.Cut(a, ":")
		if ok && optionKeys[strings.ToLower(key)] {
			k := strings.ToLower(key)
			opts[k] = append(opts[k], value)
			continue
		}
		positional = append(positional, a)
	}
	return positional, opts
}

// last returns the final value given for key, or fallback.
func last(opts map[string][]string, key, fallback string) string {
	if v := opts[key]; len(v) > 0 {
		return v[len(v)-1]
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// resolve expands an id or unique id prefix across all collections.
func (s *Shell) resolve(prefix string) (domain.Note, domain.Collection, error) {
	if prefix == "" {
		return domain.Note{}, "", fmt.Errorf("note id required")
	}
	snap := s.notes.Snapshot()
	if n, c, ok := snap.Find(prefix); ok {
		return n.Clone(), c, nil
	}

	var (
		match   domain.Note
		coll    domain.Collection
		matches int
	)
	for _, c := range []domain.Collection{domain.CollectionActive, domain.CollectionArchived, domain.CollectionTrashed} {
		for _, n := range snap.List(c) {
			if strings.HasPrefix(n.ID, prefix) {
				match, coll = n, c
				matches++
			}
		}
	}
	switch matches {
	case 0:
		return domain.Note{}, "", fmt.Errorf("no note matches %q: %w", prefix, domain.ErrNotFound)
	case 1:
		return match.Clone(), coll, nil
	default:
		return domain.Note{}, "", fmt.Errorf("id prefix %q is ambiguous (%d notes)", prefix, matches)
	}
}

// dispatch runs cmd and turns a no-op outcome into an error.
func (s *Shell) dispatch(ctx context.Context, cmd note.Command) (domain.Note, error) {
	res := s.notes.Dispatch(ctx, cmd)
	if err := res.Outcome.Err(); err != nil {
		return domain.Note{}, fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	return res.Note, nil
}

func (s *Shell) handleAdd(ctx context.Context, args []string) error {
	pos, opts := splitOptions(args)
	if len(pos) > 2 {
		return fmt.Errorf("add takes at most a title and content; quote text with spaces")
	}
	in := note.FieldsInput{
		Color:    last(opts, "color", ""),
		Priority: last(opts, "priority", ""),
		Tags:     opts["tag"],
	}
	if len(pos) > 0 {
		in.Title = pos[0]
	}
	if len(pos) > 1 {
		in.Content = pos[1]
	}
	if err := in.Validate(); err != nil {
		return err
	}

	n, err := s.dispatch(ctx, note.Create{Draft: in.Fields()})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "created %s\n", shortID(n.ID))
	return nil
}

// handleEdit overwrites only the fields given; the rest keep their values.
// Any tag: option replaces the whole tag list, and a bare "tag:" clears it.
func (s *Shell) handleEdit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: edit <id> [title] [content] [key:value]...")
	}
	current, _, err := s.resolve(args[0])
	if err != nil {
		return err
	}
	pos, opts := splitOptions(args[1:])
	if len(pos) > 2 {
		return fmt.Errorf("edit takes at most a title and content; quote text with spaces")
	}

	in := note.FieldsInput{
		Title:    current.Title,
		Content:  current.Content,
		Color:    last(opts, "color", current.Color),
		Priority: last(opts, "priority", current.Priority.String()),
		Tags:     current.Tags,
	}
	if len(pos) > 0 {
		in.Title = pos[0]
	}
	if len(pos) > 1 {
		in.Content = pos[1]
	}
	if tags, ok := opts["tag"]; ok {
		in.Tags = domain.NormalizeTags(tags)
	}
	if err := in.Validate(); err != nil {
		return err
	}

	n, err := s.dispatch(ctx, note.Update{ID: current.ID, Fields: in.Fields()})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "updated %s\n", shortID(n.ID))
	return nil
}

func (s *Shell) handleMove(ctx context.Context, name string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s <id>", name)
	}
	target, _, err := s.resolve(args[0])
	if err != nil {
		return err
	}

	var (
		cmd  note.Command
		verb string
	)
	switch name {
	case "archive":
		cmd, verb = note.Archive{ID: target.ID}, "archived"
	case "unarchive":
		cmd, verb = note.Unarchive{ID: target.ID}, "unarchived"
	case "trash":
		cmd, verb = note.Remove{ID: target.ID}, "trashed"
	case "restore":
		cmd, verb = note.Restore{ID: target.ID}, "restored"
	case "purge":
		cmd, verb = note.Purge{ID: target.ID}, "purged"
	case "pin":
		cmd = note.TogglePin{ID: target.ID}
	}

	n, err := s.dispatch(ctx, cmd)
	if err != nil {
		return err
	}
	if name == "pin" {
		verb = "unpinned"
		if n.Pinned {
			verb = "pinned"
		}
	}
	fmt.Fprintf(s.out, "%s %s\n", verb, shortID(target.ID))
	return nil
}

func (s *Shell) handlePriority(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: priority <id> <low|medium|high>")
	}
	target, _, err := s.resolve(args[0])
	if err != nil {
		return err
	}
	in := note.PriorityInput{Priority: strings.ToLower(args[1])}
	if err := in.Validate(); err != nil {
		return err
	}
	if _, err := s.dispatch(ctx, note.SetPriority{ID: target.ID, Priority: domain.Priority(in.Priority)}); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "priority of %s set to %s\n", shortID(target.ID), in.Priority)
	return nil
}

func (s *Shell) handleList(args []string) error {
	pos, opts := splitOptions(args)
	if len(pos) > 1 {
		return fmt.Errorf("usage: list [active|archived|trash] [sort:key] [search:q] [category:c] [glob:p]")
	}
	collection := ""
	if len(pos) == 1 {
		collection = pos[0]
	}
	c, ok := domain.ParseCollection(collection)
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}

	p, err := note.Project(s.notes.List(c), note.Query{
		Category: last(opts, "category", ""),
		Search:   last(opts, "search", ""),
		TagGlob:  last(opts, "glob", ""),
		Sort:     note.SortKey(last(opts, "sort", "")),
	})
	if err != nil {
		return err
	}
	if p.Len() == 0 {
		fmt.Fprintf(s.out, "no %s notes\n", c)
		return nil
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, n := range p.All() {
		mark := " "
		if n.Pinned {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\n", mark, shortID(n.ID), n.Priority, title(n), formatTags(n.Tags))
	}
	return tw.Flush()
}

func (s *Shell) handleShow(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show <id>")
	}
	n, c, err := s.resolve(args[0])
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id:\t%s\n", n.ID)
	fmt.Fprintf(tw, "collection:\t%s\n", c)
	fmt.Fprintf(tw, "title:\t%s\n", n.Title)
	fmt.Fprintf(tw, "priority:\t%s\n", n.Priority)
	fmt.Fprintf(tw, "color:\t%s\n", n.Color)
	fmt.Fprintf(tw, "pinned:\t%t\n", n.Pinned)
	fmt.Fprintf(tw, "tags:\t%s\n", formatTags(n.Tags))
	fmt.Fprintf(tw, "created:\t%s\n", n.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(tw, "edited:\t%s\n", n.EditedAt.Local().Format(time.DateTime))
	if err := tw.Flush(); err != nil {
		return err
	}
	if n.Content != "" {
		fmt.Fprintf(s.out, "\n%s\n", html.UnescapeString(sanitize.Text(n.Content)))
	}
	return nil
}

func (s *Shell) handleTag(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tag add|rm|list [label]")
	}
	switch args[0] {
	case "list", "ls":
		for _, l := range s.tags.Labels() {
			fmt.Fprintln(s.out, l)
		}
		return nil
	case "add", "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: tag %s <label>", args[0])
		}
		var cmd tag.Command = tag.Add{Label: args[1]}
		verb := "added"
		if args[0] == "rm" {
			cmd, verb = tag.Remove{Label: args[1]}, "removed"
		}
		res := s.tags.Dispatch(ctx, cmd)
		if err := res.Outcome.Err(); err != nil {
			return fmt.Errorf("tag %s %q: %w", cmd.Name(), args[1], err)
		}
		fmt.Fprintf(s.out, "tag %s %s\n", res.Label, verb)
		return nil
	default:
		return fmt.Errorf("unknown tag subcommand: %s", args[0])
	}
}

func title(n domain.Note) string {
	if n.Title != "" {
		return n.Title
	}
	text := strings.Join(strings.Fields(html.UnescapeString(sanitize.Text(n.Content))), " ")
	if r := []rune(text); len(r) > 40 {
		return string(r[:40]) + "..."
	}
	return text
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return strings.Join(out, " ")
}
