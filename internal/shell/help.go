package shell

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/keepnotes/internal/service/note"
)

type commandDoc struct {
	name  string
	usage string
	text  string
}

// commands lists the help entries in display order.
var commands = []commandDoc{
	{"add", `add <title> [content] [color:x] [priority:low|medium|high] [tag:x]...`,
		`Creates an active note. Quote text with spaces. Repeat tag: for several tags.
Example: add "Buy milk" "two bottles" priority:high tag:home`},
	{"edit", `edit <id> [title] [content] [color:x] [priority:x] [tag:x]...`,
		`Changes an active note. Omitted fields keep their values. Any tag: option
replaces the tag list; a bare tag: clears it.
Example: edit 3f2a "Buy oat milk" tag:home tag:shop`},
	{"archive", `archive <id>`, `Moves an active note to the archive.`},
	{"unarchive", `unarchive <id>`, `Moves an archived note back to the active list.`},
	{"trash", `trash <id>`, `Moves an active note to the trash.`},
	{"restore", `restore <id>`, `Moves a trashed note back to the active list.`},
	{"purge", `purge <id>`, `Deletes a trashed note permanently.`},
	{"pin", `pin <id>`, `Pins or unpins an active note. Pinned notes are listed first.`},
	{"priority", `priority <id> <low|medium|high>`, `Sets the priority of an active note.`},
	{"list", `list [active|archived|trash] [sort:key] [search:q] [category:c] [glob:p]`,
		`Lists notes in a collection (active by default).
- category: a tag matched case-insensitively; "notes" selects all.
- search: a case-insensitive substring of title, content or tags.
- glob: a tag glob such as "work/**".
- sort: ` + sortKeys()},
	{"show", `show <id>`, `Prints every field of a note in any collection.`},
	{"tag", `tag add|rm|list [label]`, `Manages the tag labels offered for notes. Removing a label never edits notes.`},
	{"help", `help [command]`, `Shows the command list or help for one command.`},
	{"exit", `exit`, `Leaves the shell. quit and Ctrl-D work too.`},
}

func sortKeys() string {
	keys := make([]string, len(note.SortKeys))
	for i, k := range note.SortKeys {
		keys[i] = k.String()
	}
	return strings.Join(keys, ", ")
}

func (s *Shell) handleHelp(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Available commands:")
		for _, c := range commands {
			fmt.Fprintf(s.out, "  %s\n", c.usage)
		}
		fmt.Fprintln(s.out, "\nIds may be shortened to any unique prefix. Use 'help <command>' for details.")
		return nil
	}
	for _, c := range commands {
		if c.name == args[0] {
			fmt.Fprintf(s.out, "Syntax: %s\n%s\n", c.usage, c.text)
			return nil
		}
	}
	return fmt.Errorf("unknown command: %s", args[0])
}
