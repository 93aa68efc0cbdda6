package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pocketbook/pocketbook/app/core/paginator"
	"github.com/pocketbook/pocketbook/app/pocketbook/cmd/browse"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:       "browse contacts|notes",
	Short:     "Page through contacts or notes full screen",
	Long:      "Opens a full screen pager. n or space shows the next page, b goes back, q quits.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"contacts", "notes"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			title string
			pager *paginator.Paginator
		)
		switch args[0] {
		case "contacts":
			title, pager = "Contacts", sess.ContactsPager(0)
		default:
			title, pager = "Notes", sess.NotesPager(0)
		}

		p := tea.NewProgram(browse.NewModel(title, pager), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running browser: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
