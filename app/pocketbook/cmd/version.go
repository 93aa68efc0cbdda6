package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/pocketbook/pocketbook/app/core/store"
	"github.com/spf13/cobra"
)

// Build-time variables (set via ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionJSON bool

// VersionInfo represents CLI version information
type VersionInfo struct {
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	BuildDate     string `json:"buildDate"`
	Platform      string `json:"platform"`
	FormatVersion string `json:"formatVersion"`
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Display version information",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{noSession: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		info := VersionInfo{
			Version:       Version,
			Commit:        Commit,
			BuildDate:     BuildDate,
			Platform:      runtime.GOOS + "/" + runtime.GOARCH,
			FormatVersion: store.FormatVersion,
		}
		if versionJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}
		fmt.Printf("pocketbook %s\n", info.Version)
		fmt.Printf("  Commit:      %s\n", info.Commit)
		fmt.Printf("  Built:       %s\n", info.BuildDate)
		fmt.Printf("  Platform:    %s\n", info.Platform)
		fmt.Printf("  Data format: %s\n", info.FormatVersion)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output in JSON format")
}
