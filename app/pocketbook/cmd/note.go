package cmd

import (
	"strings"

	"github.com/pocketbook/pocketbook/app/core/record"
	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:     "note",
	Aliases: []string{"notes", "n"},
	Short:   "Manage notes",
}

var (
	noteTags    string
	noteFindTag string
	noteFindAll bool
)

var noteAddCmd = &cobra.Command{
	Use:     "add TEXT...",
	Short:   "Add a note",
	Example: `  pocketbook note add buy milk --tags "home shop"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.AddNote(cmd.Context(), strings.Join(args, " "), record.ParseTags(noteTags)))
	},
}

var noteDeleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"remove", "rm"},
	Short:   "Delete a note",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.DeleteNote(cmd.Context(), args[0]))
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit ID TEXT...",
	Short: "Replace the text of a note",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.EditNote(cmd.Context(), args[0], strings.Join(args[1:], " ")))
	},
}

var noteTagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage the tags of a note",
}

var noteTagAddCmd = &cobra.Command{
	Use:   "add ID TAG",
	Short: "Tag a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.AddNoteTag(cmd.Context(), args[0], args[1]))
	},
}

var noteTagDeleteCmd = &cobra.Command{
	Use:   "delete ID TAG",
	Short: "Remove a tag from a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.DeleteNoteTag(cmd.Context(), args[0], args[1]))
	},
}

var noteFindCmd = &cobra.Command{
	Use:   "find [QUERY]",
	Short: "Find notes by text or by tags",
	Long: `Find notes whose text or tags contain QUERY.

With --tags the notes carrying any of the given tags are listed instead;
add --all to require every tag.`,
	Example: `  pocketbook note find milk
  pocketbook note find --tags "home work" --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if noteFindTag != "" {
			return printResult(sess.FindNotesByTags(record.ParseTags(noteFindTag), noteFindAll))
		}
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		return printResult(sess.FindNotes(query))
	},
}

var noteShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list", "ls"},
	Short:   "List every note page by page",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printAllPages(sess.ShowNotes(0))
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)

	noteAddCmd.Flags().StringVarP(&noteTags, "tags", "t", "", "Space separated tags")
	noteFindCmd.Flags().StringVarP(&noteFindTag, "tags", "t", "", "Space separated tags to search for")
	noteFindCmd.Flags().BoolVar(&noteFindAll, "all", false, "Require every tag instead of any")

	noteTagCmd.AddCommand(noteTagAddCmd, noteTagDeleteCmd)
	noteCmd.AddCommand(noteAddCmd, noteDeleteCmd, noteEditCmd, noteTagCmd, noteFindCmd, noteShowCmd)
}
