package cmd

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/pocketbook/pocketbook/app/pocketbook/router"
	"github.com/spf13/cobra"
)

var promptStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#7D56F4"))

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive command shell",
	Long: `Reads one command per line until "exit", "close" or "good bye".
Type "help" for the command list. Put values with spaces in double quotes:

  add "John Smith" 0501234567
  note add "buy milk" home shop
  show all
  next`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New(sess, nil)
		return runShell(cmd, r, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func runShell(cmd *cobra.Command, r *router.Router, in io.Reader, out io.Writer) error {
	ctx := cmd.Context()
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, sess.Hello())
	for {
		fmt.Fprint(out, promptStyle.Render(">>> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			fmt.Fprintln(out, router.ExitMessage)
			return scanner.Err()
		}

		reply := r.Handle(ctx, scanner.Text())
		if reply.Text != "" {
			fmt.Fprintln(out, reply.Text)
		}
		if reply.Exit {
			return nil
		}
	}
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
