package cmd

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Archive the data directory as tar.gz",
	Long: `Writes the data files and .env of the data directory into a tar.gz archive.
Logs, the lock file and quarantined files are left out. The data directory stays
locked while the archive is written.`,
	Example: "  pocketbook backup --target ~/pocketbook-2026-10-19.tar.gz",
	Args:    cobra.NoArgs,
	RunE:    runBackupCmd,
}

var backupTarget string

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().StringVarP(&backupTarget, "target", "t", "", "Target archive path (required)")
	_ = backupCmd.MarkFlagRequired("target")
}

func runBackupCmd(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	fmt.Printf("Creating backup...\n")
	fmt.Printf("  Source: %s\n", cfg.RootPath)
	fmt.Printf("  Target: %s\n", backupTarget)

	totalSize, fileCount, err := createBackupTarGz(cfg.RootPath, backupTarget)
	if err != nil {
		_ = os.Remove(backupTarget)
		return err
	}

	fmt.Printf("✅ Backup complete: %d files, %s, %s\n", fileCount, formatSize(totalSize), time.Since(startTime).Round(time.Millisecond))
	return nil
}

// skipInBackup reports whether a path relative to the data directory stays out
// of the archive.
func skipInBackup(rel string, info os.FileInfo) bool {
	name := info.Name()
	switch {
	case info.IsDir():
		return rel == "logs"
	case name == filepath.Base(cfg.LockPath()):
		return true
	case strings.HasSuffix(name, ".tmp"), strings.Contains(name, ".corrupt-"):
		return true
	}
	return false
}

func createBackupTarGz(src, dst string) (int64, int, error) {
	var totalSize int64
	var fileCount int

	absDst, err := filepath.Abs(dst)
	if err != nil {
		return 0, 0, err
	}
	if err := os.MkdirAll(filepath.Dir(absDst), 0o755); err != nil {
		return 0, 0, err
	}
	file, err := os.Create(absDst)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	tarWriter := tar.NewWriter(gzWriter)

	baseDir := filepath.Base(src)
	err = filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == absDst {
			return nil
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if relPath != "." && skipInBackup(relPath, info) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(filepath.Join(baseDir, relPath))
		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		written, err := io.Copy(tarWriter, f)
		if err != nil {
			return err
		}
		totalSize += written
		fileCount++
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	if err := tarWriter.Close(); err != nil {
		return 0, 0, err
	}
	if err := gzWriter.Close(); err != nil {
		return 0, 0, err
	}
	return totalSize, fileCount, file.Sync()
}
