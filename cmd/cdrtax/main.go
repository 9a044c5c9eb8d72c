package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/coolbeans/cdrtax/pkg/archive"
	"github.com/coolbeans/cdrtax/pkg/taxonomy"
	"github.com/coolbeans/cdrtax/pkg/watch"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "cdrtax",
		Short: "FFIEC CDR taxonomy converter",
		Long: `cdrtax converts FFIEC CDR call-report taxonomy snapshots (XBRL
linkbase ZIPs) into analyst-friendly JSON.

For each reportable data concept it resolves the schedule, column, and line
placement with human-readable captions, and attaches the line/column
citations used on the published paper forms. Bulk call-report data can then
be joined against the output for presentation.`,
		Version: version,
	}

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(profileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadProfile loads the profile named by the flag, or the defaults.
func loadProfile(path string) (*taxonomy.Profile, error) {
	if path == "" {
		return taxonomy.DefaultProfile(), nil
	}
	profile, err := taxonomy.LoadProfileFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// convertOne resolves a single taxonomy ZIP and writes the JSON document.
// Returns the output path.
func convertOne(zipPath, outputDir string, resolver *taxonomy.Resolver, pretty bool) (string, *taxonomy.ResolveStats, error) {
	snapshot, err := archive.Load(zipPath)
	if err != nil {
		return "", nil, err
	}

	document, stats, err := resolver.Resolve(snapshot)
	if err != nil {
		return "", nil, err
	}

	outputPath := filepath.Join(outputDir,
		fmt.Sprintf("%s_%s.json", document.FormNumber, document.Quarter))

	file, err := os.Create(outputPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(document); err != nil {
		return "", nil, fmt.Errorf("failed to write output: %w", err)
	}

	return outputPath, stats, nil
}

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [taxonomy-zip]...",
		Short: "Convert taxonomy ZIPs to JSON",
		Long: `Convert one or more CDR taxonomy ZIP files to JSON.

Each archive produces a <form>_<quarter>.json document in the output
directory.

Example:
  cdrtax convert FFIEC-CDR-v200-tax-031-2024-03-31.zip
  cdrtax convert --output-dir out --stats --pretty taxonomies/*.zip`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir, _ := cmd.Flags().GetString("output-dir")
			profilePath, _ := cmd.Flags().GetString("profile")
			showStats, _ := cmd.Flags().GetBool("stats")
			pretty, _ := cmd.Flags().GetBool("pretty")
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			cacheSize, _ := cmd.Flags().GetInt("cache-size")

			profile, err := loadProfile(profilePath)
			if err != nil {
				return err
			}

			resolver, err := taxonomy.NewResolver(profile,
				taxonomy.WithConcurrency(concurrency),
				taxonomy.WithCacheSize(cacheSize))
			if err != nil {
				return err
			}

			if outputDir != "" {
				if err := os.MkdirAll(outputDir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			for _, zipPath := range args {
				fmt.Printf("Processing file: %s\n", zipPath)
				startTime := time.Now()

				outputPath, stats, err := convertOne(zipPath, outputDir, resolver, pretty)
				if err != nil {
					return fmt.Errorf("%s: %w", zipPath, err)
				}

				fmt.Printf("Wrote %s in %v\n", outputPath, time.Since(startTime))
				if showStats {
					fmt.Println()
					fmt.Print(stats.String())
				}
			}

			return nil
		},
	}

	cmd.Flags().StringP("output-dir", "o", "", "Directory for output JSON files (default: current directory)")
	cmd.Flags().StringP("profile", "p", "", "Conversion profile YAML (default: built-in FFIEC CDR profile)")
	cmd.Flags().Bool("stats", false, "Show resolution statistics per file")
	cmd.Flags().Bool("pretty", false, "Indent the output JSON")
	cmd.Flags().Int("concurrency", taxonomy.DefaultConcurrency, "Path enumeration worker count")
	cmd.Flags().Int("cache-size", taxonomy.DefaultPathCacheSize, "Path memo cache size")

	return cmd
}

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [taxonomy-zip]",
		Short: "Resolve a taxonomy and print statistics without writing output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profilePath, _ := cmd.Flags().GetString("profile")
			formatStr, _ := cmd.Flags().GetString("format")

			profile, err := loadProfile(profilePath)
			if err != nil {
				return err
			}

			resolver, err := taxonomy.NewResolver(profile)
			if err != nil {
				return err
			}

			snapshot, err := archive.Load(args[0])
			if err != nil {
				return err
			}

			document, stats, err := resolver.Resolve(snapshot)
			if err != nil {
				return err
			}

			fmt.Printf("Form:    %s\n", document.FormNumber)
			fmt.Printf("Quarter: %s\n", document.Quarter)
			fmt.Printf("Leaves:  %d\n\n", len(document.Data))

			if formatStr == "json" {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(stats)
			}
			fmt.Print(stats.String())

			if stats.DiscardedColumnPaths > 0 || stats.DiscardedLinePaths > 0 {
				fmt.Println("\nWarning: alternate column/line structures were discarded; the")
				fmt.Println("taxonomy presents some schedules with more than one breakdown.")
			}
			return nil
		},
	}

	cmd.Flags().StringP("profile", "p", "", "Conversion profile YAML")
	cmd.Flags().StringP("format", "f", "text", "Statistics format (text, json)")

	return cmd
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a directory and convert taxonomy ZIPs as they arrive",
		Long: `Watch a directory for new CDR taxonomy ZIP files and convert each one
as it appears. Runs until interrupted.

Example:
  cdrtax watch --dir incoming --output-dir out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			outputDir, _ := cmd.Flags().GetString("output-dir")
			profilePath, _ := cmd.Flags().GetString("profile")
			pretty, _ := cmd.Flags().GetBool("pretty")

			if dir == "" {
				return fmt.Errorf("--dir flag is required")
			}

			profile, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			resolver, err := taxonomy.NewResolver(profile)
			if err != nil {
				return err
			}

			if outputDir != "" {
				if err := os.MkdirAll(outputDir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			watcher := watch.NewWatcher(dir, func(zipPath string) {
				fmt.Printf("New taxonomy: %s\n", zipPath)
				outputPath, _, err := convertOne(zipPath, outputDir, resolver, pretty)
				if err != nil {
					fmt.Fprintf(os.Stderr, "warning: %s: %v\n", zipPath, err)
					return
				}
				fmt.Printf("Wrote %s\n", outputPath)
			})

			if err := watcher.Start(); err != nil {
				return err
			}
			defer watcher.Stop()

			fmt.Printf("Watching %s for taxonomy ZIPs. Press Ctrl-C to stop.\n", dir)

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)
			<-interrupt

			fmt.Println("\nStopping.")
			return nil
		},
	}

	cmd.Flags().StringP("dir", "d", "", "Directory to watch for taxonomy ZIPs")
	cmd.Flags().StringP("output-dir", "o", "", "Directory for output JSON files")
	cmd.Flags().StringP("profile", "p", "", "Conversion profile YAML")
	cmd.Flags().Bool("pretty", false, "Indent the output JSON")

	return cmd
}

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage conversion profiles",
	}

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write the default conversion profile as YAML",
		Long: `Write the built-in FFIEC CDR conversion profile to a YAML file for
editing. The profile controls the data-concept markers, the column/line
classification markers, and the schedule short-code separator.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "cdrtax-profile.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
				path += ".yaml"
			}

			if err := taxonomy.SaveProfileToFile(taxonomy.DefaultProfile(), path); err != nil {
				return err
			}

			fmt.Printf("Profile saved to: %s\n", path)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Print a conversion profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := taxonomy.DefaultProfile()
			if len(args) > 0 {
				loaded, err := taxonomy.LoadProfileFromFile(args[0])
				if err != nil {
					return err
				}
				profile = loaded
			}

			data, err := profile.ToYAML()
			if err != nil {
				return fmt.Errorf("failed to serialize profile: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	}

	cmd.AddCommand(initCmd)
	cmd.AddCommand(showCmd)
	return cmd
}
