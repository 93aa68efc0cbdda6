package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/pocketbook/pocketbook/app/core/settings"
	"github.com/pocketbook/pocketbook/app/pocketbook/cmd/utils/env"
	"github.com/pocketbook/pocketbook/app/pocketbook/cmd/utils/validator"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show or change the settings stored in <root>/.env",
	Annotations: map[string]string{noSession: "true"},
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the .env values and the resolved settings",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{noSession: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		root, err := settings.ResolveRoot(rootPath)
		if err != nil {
			return err
		}
		e := env.New(root)
		stored, err := e.Load(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("📒 %s\n", e.GetEnvPath())
		if !e.IsExists(ctx) {
			fmt.Println("   (no .env file, defaults and environment apply)")
		}
		for _, key := range env.Keys {
			if val, ok := stored[key]; ok {
				fmt.Printf("   %-26s %s\n", key, val)
			}
		}

		s, err := settings.Load(ctx, validator.New(), settings.Overrides{RootPath: root, PageSize: pageSize})
		if err != nil {
			return fmt.Errorf("the stored settings are invalid: %w", err)
		}
		fmt.Println()
		fmt.Println("Effective settings:")
		fmt.Printf("   Page size:   %d\n", s.PageSize)
		fmt.Printf("   Compression: %s\n", s.Compression)
		fmt.Printf("   Block size:  %s\n", formatSize(int64(s.MaxBlockSize)))
		fmt.Printf("   Log level:   %s\n", s.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY=VALUE...",
	Short: "Store settings in <root>/.env, an empty value removes the key",
	Example: `  pocketbook config set POCKETBOOK_PAGE_SIZE=5 POCKETBOOK_COMPRESSION=zstd
  pocketbook config set LOG_LEVEL=`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{noSession: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		values, err := parseAssignments(ctx, validator.New(), args)
		if err != nil {
			return err
		}
		root, err := settings.ResolveRoot(rootPath)
		if err != nil {
			return err
		}
		e := env.New(root)
		if err := e.Set(ctx, values); err != nil {
			return err
		}
		fmt.Printf("✅ Saved %d setting(s) to %s\n", len(values), e.GetEnvPath())
		return nil
	},
}

// parseAssignments splits KEY=VALUE arguments and validates every non-empty
// value the way settings.Load would.
func parseAssignments(ctx context.Context, v validator.Validator, args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected KEY=VALUE, got %q", arg)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		val = strings.TrimSpace(val)
		if val != "" {
			var err error
			switch key {
			case settings.EnvPageSize:
				_, err = v.ValidatePageSize(ctx, val)
			case settings.EnvCompression:
				_, err = v.ValidateCompression(ctx, val)
			case settings.EnvMaxBlockSize:
				_, err = v.ParseBlockSize(ctx, val)
			case settings.EnvLogLevel:
				val, err = v.ValidateLoglevel(ctx, val)
			}
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
		}
		values[key] = val
	}
	return values, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
