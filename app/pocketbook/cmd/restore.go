package cmd

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the data directory contents with a backup archive",
	Long: `Extracts a tar.gz archive written by "pocketbook backup" into the data
directory. The current data files and .env are replaced. Logs and the lock file
are kept.`,
	Example: "  pocketbook restore --source ~/pocketbook-2026-10-19.tar.gz",
	Args:    cobra.NoArgs,
	RunE:    runRestoreCmd,
}

var (
	restoreSource string
	restoreForce  bool
)

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().StringVarP(&restoreSource, "source", "s", "", "Source archive path (required)")
	restoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Skip confirmation prompt")
	_ = restoreCmd.MarkFlagRequired("source")
}

func runRestoreCmd(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(restoreSource); err != nil {
		return fmt.Errorf("source not found: %w", err)
	}
	if !strings.HasSuffix(restoreSource, ".tar.gz") && !strings.HasSuffix(restoreSource, ".tgz") {
		return errors.New("unknown backup format, expected .tar.gz or .tgz")
	}

	if !restoreForce {
		fmt.Println("\nWARNING: This will REPLACE all current contacts and notes!")
		fmt.Printf("  Target: %s\n", cfg.RootPath)
		fmt.Printf("  Source: %s\n", restoreSource)
		fmt.Print("\nContinue? [y/N]: ")
		var response string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	startTime := time.Now()
	fmt.Printf("Restoring from backup...\n")
	totalSize, fileCount, err := restoreTarGz(restoreSource, cfg.RootPath)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Restore complete: %d files, %s, %s\n", fileCount, formatSize(totalSize), time.Since(startTime).Round(time.Millisecond))
	return nil
}

// restoreTarGz extracts src into a staging directory first, so a broken
// archive leaves the data directory untouched. Only then the current data is
// cleared and the staged files are moved into place.
func restoreTarGz(src, root string) (int64, int, error) {
	staging, err := os.MkdirTemp(root, ".restore-")
	if err != nil {
		return 0, 0, err
	}
	defer os.RemoveAll(staging)

	totalSize, fileCount, err := extractRestoreTarGz(src, staging)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to extract %s: %w", src, err)
	}
	if fileCount == 0 {
		return 0, 0, fmt.Errorf("%s contains no data files", src)
	}

	if err := clearDataFiles(root, staging); err != nil {
		return 0, 0, err
	}
	entries, err := os.ReadDir(staging)
	if err != nil {
		return 0, 0, err
	}
	for _, entry := range entries {
		if err := os.Rename(filepath.Join(staging, entry.Name()), filepath.Join(root, entry.Name())); err != nil {
			return 0, 0, err
		}
	}
	return totalSize, fileCount, nil
}

// extractRestoreTarGz strips the archive's root folder from every entry and
// leaves out whatever a backup would not contain.
func extractRestoreTarGz(src, dst string) (int64, int, error) {
	var totalSize int64
	var fileCount int

	file, err := os.Open(src)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return 0, 0, err
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return totalSize, fileCount, err
		}

		_, relativePath, ok := strings.Cut(header.Name, "/")
		if !ok || relativePath == "" {
			continue
		}
		relativePath = filepath.FromSlash(strings.TrimSuffix(relativePath, "/"))
		if !filepath.IsLocal(relativePath) {
			return totalSize, fileCount, fmt.Errorf("unsafe path in archive: %s", header.Name)
		}
		if skipInBackup(relativePath, header.FileInfo()) {
			continue
		}

		targetPath := filepath.Join(dst, relativePath)
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return totalSize, fileCount, err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
				return totalSize, fileCount, err
			}
			outFile, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
			if err != nil {
				return totalSize, fileCount, err
			}
			written, copyErr := io.Copy(outFile, tarReader)
			closeErr := outFile.Close()
			if copyErr != nil {
				return totalSize, fileCount, copyErr
			}
			if closeErr != nil {
				return totalSize, fileCount, closeErr
			}
			totalSize += written
			fileCount++
		}
	}
	return totalSize, fileCount, nil
}

// clearDataFiles removes everything in root that a backup would carry. Logs,
// the lock file and the staging directory stay.
func clearDataFiles(root, staging string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		entryPath := filepath.Join(root, entry.Name())
		if entryPath == staging {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if skipInBackup(entry.Name(), info) {
			continue
		}
		if err := os.RemoveAll(entryPath); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entryPath, err)
		}
	}
	return nil
}
