package cmd

import (
	"fmt"

	"github.com/pocketbook/pocketbook/app/core/record"
	"github.com/pocketbook/pocketbook/app/pocketbook/router"
	"github.com/pocketbook/pocketbook/app/pocketbook/session"
	"github.com/spf13/cobra"
)

var contactCmd = &cobra.Command{
	Use:     "contact",
	Aliases: []string{"contacts", "c"},
	Short:   "Manage contacts",
}

var (
	contactPhones   []string
	contactBirthday string
	contactEmail    string
	contactTags     string
	birthdayDays    int
)

var contactAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a contact",
	Example: `  pocketbook contact add John --phone 0501234567 --birthday 12.03.1985
  pocketbook contact add "Mary Ann" --email mary@example.com --tags "work friends"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.AddContact(cmd.Context(), session.ContactInput{
			Name:     args[0],
			Phones:   contactPhones,
			Birthday: contactBirthday,
			Email:    contactEmail,
			Tags:     record.ParseTags(contactTags),
		}))
	},
}

var contactDeleteCmd = &cobra.Command{
	Use:     "delete NAME",
	Aliases: []string{"remove", "rm"},
	Short:   "Delete a contact",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.DeleteContact(cmd.Context(), args[0]))
	},
}

var contactPhoneCmd = &cobra.Command{
	Use:   "phone",
	Short: "Manage the phones of a contact",
}

var contactPhoneAddCmd = &cobra.Command{
	Use:   "add NAME PHONE",
	Short: "Add a phone to a contact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.AddPhone(cmd.Context(), args[0], args[1]))
	},
}

var contactPhoneEditCmd = &cobra.Command{
	Use:   "edit NAME OLD NEW",
	Short: "Replace a phone of a contact",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.EditPhone(cmd.Context(), args[0], args[1], args[2]))
	},
}

var contactPhoneDeleteCmd = &cobra.Command{
	Use:   "delete NAME PHONE",
	Short: "Delete a phone of a contact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.DeletePhone(cmd.Context(), args[0], args[1]))
	},
}

var contactPhoneListCmd = &cobra.Command{
	Use:   "list NAME",
	Short: "Show the phones of a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.ShowPhones(args[0]))
	},
}

var contactBirthdayCmd = &cobra.Command{
	Use:   "birthday NAME DD.MM.YYYY",
	Short: "Set the birthday of a contact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.SetBirthday(cmd.Context(), args[0], args[1]))
	},
}

var contactEmailCmd = &cobra.Command{
	Use:   "email NAME EMAIL",
	Short: "Set the email of a contact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.SetEmail(cmd.Context(), args[0], args[1]))
	},
}

var contactTagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage the tags of a contact",
}

var contactTagAddCmd = &cobra.Command{
	Use:   "add NAME TAG",
	Short: "Tag a contact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.AddContactTag(cmd.Context(), args[0], args[1]))
	},
}

var contactTagDeleteCmd = &cobra.Command{
	Use:   "delete NAME TAG",
	Short: "Remove a tag from a contact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.DeleteContactTag(cmd.Context(), args[0], args[1]))
	},
}

var contactFindCmd = &cobra.Command{
	Use:   "find QUERY",
	Short: "Find contacts by name, phone, email or birthday",
	Long:  "Find contacts whose name, phone, email or birthday (DD.MM.YYYY) contains QUERY. Matching is case-sensitive.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.FindContacts(args[0]))
	},
}

var contactShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list", "ls"},
	Short:   "List every contact page by page",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printAllPages(sess.ShowContacts(0))
	},
}

var contactDTBCmd = &cobra.Command{
	Use:   "dtb NAME",
	Short: "Days until the birthday of a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.DaysToBirthday(args[0]))
	},
}

var contactBirthdaysCmd = &cobra.Command{
	Use:   "birthdays",
	Short: "Contacts with a birthday in the next days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(sess.UpcomingBirthdays(birthdayDays))
	},
}

// printAllPages prints the first page and then drains the active listing.
// Page size comes from --page-size or POCKETBOOK_PAGE_SIZE.
func printAllPages(first string) error {
	fmt.Println(first)
	for sess.HasNext() {
		page, err := sess.Next()
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(page)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(contactCmd)

	contactAddCmd.Flags().StringArrayVarP(&contactPhones, "phone", "p", nil, "Phone number, 10 digits (repeatable)")
	contactAddCmd.Flags().StringVarP(&contactBirthday, "birthday", "b", "", "Birthday as DD.MM.YYYY")
	contactAddCmd.Flags().StringVarP(&contactEmail, "email", "e", "", "Email address")
	contactAddCmd.Flags().StringVarP(&contactTags, "tags", "t", "", "Space separated tags")

	contactBirthdaysCmd.Flags().IntVarP(&birthdayDays, "days", "d", router.DefaultBirthdayWindow, "How many days ahead to look")

	contactPhoneCmd.AddCommand(contactPhoneAddCmd, contactPhoneEditCmd, contactPhoneDeleteCmd, contactPhoneListCmd)
	contactTagCmd.AddCommand(contactTagAddCmd, contactTagDeleteCmd)
	contactCmd.AddCommand(
		contactAddCmd,
		contactDeleteCmd,
		contactPhoneCmd,
		contactBirthdayCmd,
		contactEmailCmd,
		contactTagCmd,
		contactFindCmd,
		contactShowCmd,
		contactDTBCmd,
		contactBirthdaysCmd,
	)
}
