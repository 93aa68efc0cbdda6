package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pocketbook/pocketbook/app/core/chronicler"
	"github.com/pocketbook/pocketbook/app/pocketbook/cmd/utils/validator"
	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record counts and data file statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := sess.Stats(cmd.Context())
		if err != nil {
			return err
		}
		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}

		fmt.Printf("📒 Data directory: %s\n", cfg.RootPath)
		fmt.Printf("   Compression for new writes: %s, block size %s\n\n", cfg.Compression, formatSize(int64(cfg.MaxBlockSize)))
		printFileStats("Contacts", st.Contacts, st.ContactsFile)
		fmt.Println()
		printFileStats("Notes", st.Notes, st.NotesFile)
		return nil
	},
}

func printFileStats(title string, records int, fs *chronicler.Stats) {
	fmt.Printf("%s: %d records\n", title, records)
	if fs == nil {
		fmt.Println("   no data file yet")
		return
	}
	fmt.Printf("   File:         %s (%s)\n", fs.Path, formatSize(fs.Size))
	fmt.Printf("   Blocks:       %d, entries: %d\n", fs.Blocks, fs.Entries)
	fmt.Printf("   Payload:      %s compressed, %s raw (ratio %.2f)\n",
		formatSize(fs.CompressedSize), formatSize(fs.UncompressedSize), fs.Ratio())
	fmt.Printf("   Codecs:       %s\n", codecSummary(fs))
	fmt.Printf("   Last written: %s\n", time.Unix(0, fs.ModifiedAt).Format(time.RFC3339))
}

func codecSummary(fs *chronicler.Stats) string {
	parts := make([]string, 0, len(fs.Compression))
	for typ, blocks := range fs.Compression {
		parts = append(parts, fmt.Sprintf("%s×%d", typ, blocks))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func formatSize(bytes int64) string {
	return validator.New().FormatSize(context.Background(), bytes)
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output in JSON format")
}
