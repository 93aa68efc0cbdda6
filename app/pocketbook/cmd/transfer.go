package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pocketbook/pocketbook/app/pocketbook/session"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	exportFormat string
	exportOut    string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all contacts and notes as JSON or YAML",
	Example: `  pocketbook export --format yaml --out backup.yaml
  pocketbook export > contacts.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		data := sess.Export()
		if err := encodeData(out, exportFormat, data); err != nil {
			return err
		}
		if exportOut != "" {
			fmt.Printf("✅ Exported %d contacts and %d notes to %s\n", len(data.Contacts), len(data.Notes), exportOut)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Add contacts and notes from an export",
	Long: `Reads a JSON or YAML export and adds every valid record that is not already
present. Existing contacts with the same name and notes with the same id are
kept unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		format := importFormat
		if format == "" {
			format = formatFromPath(args[0])
		}
		data, err := decodeData(raw, format)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		total := len(data.Contacts) + len(data.Notes)
		bar := progressbar.NewOptions(total,
			progressbar.OptionSetDescription("📥 Importing"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerHead:    "█",
				SaucerPadding: "░",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionClearOnFinish(),
		)

		res, err := sess.Import(cmd.Context(), data, func() { _ = bar.Add(1) })
		_ = bar.Finish()
		if err != nil {
			return err
		}

		fmt.Printf("✅ Imported %d records, skipped %d already present\n", res.Added, res.Skipped)
		for _, rej := range res.Rejected {
			fmt.Printf("   ⚠️  rejected %s\n", describe(rej))
		}
		return nil
	},
}

func encodeData(w io.Writer, format string, data session.Data) error {
	switch strings.ToLower(format) {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q, use json or yaml", format)
}

func decodeData(raw []byte, format string) (session.Data, error) {
	var data session.Data
	switch strings.ToLower(format) {
	case "json", "":
		return data, json.Unmarshal(raw, &data)
	case "yaml", "yml":
		return data, yaml.Unmarshal(raw, &data)
	}
	return data, fmt.Errorf("unknown format %q, use json or yaml", format)
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to a file instead of stdout")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: json or yaml (default from the file extension)")
}
