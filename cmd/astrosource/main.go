package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/astrokit/astrosource/pkg/data"
	"github.com/astrokit/astrosource/pkg/logger"
	"github.com/astrokit/astrosource/pkg/source"

	// Import bundled loaders to register them
	_ "github.com/astrokit/astrosource/pkg/data/loaders/cube"
	_ "github.com/astrokit/astrosource/pkg/data/loaders/fits"
)

var version = "0.1.0"

// Catalog is a YAML list of source configuration files to process together.
type Catalog struct {
	Sources []CatalogEntry `yaml:"sources"`
}

// CatalogEntry is one source in a catalog.
type CatalogEntry struct {
	Config string `yaml:"config"`
	Load   bool   `yaml:"load"`
}

func main() {
	viper.SetEnvPrefix("ASTROSOURCE")
	viper.AutomaticEnv()
	viper.SetDefault("log_level", "warn")

	root := &cobra.Command{
		Use:   "astrosource",
		Short: "astrosource - astronomical source metadata manager",
		Long: `astrosource manages descriptive metadata for astronomical sources: physical
properties, a hierarchy of subsources, and lazily loaded data products.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{
				Level:    viper.GetString("log_level"),
				Encoding: "console",
			})
		},
	}
	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	// Version command
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("astrosource v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	// List command to show registered data kinds
	root.AddCommand(&cobra.Command{
		Use:   "kinds",
		Short: "List registered data loaders",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Registered data kinds:")
			for _, kind := range data.Kinds() {
				fmt.Printf("  - %s\n", kind)
			}
		},
	})

	// Show command
	var format string
	showCmd := &cobra.Command{
		Use:   "show CONFIG",
		Short: "Show a source tree from its configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := source.Load(args[0])
			if err != nil {
				return err
			}
			if format == "json" {
				return src.EncodeJSON(os.Stdout)
			}
			fmt.Println(src)
			return nil
		},
	}
	showCmd.Flags().StringVar(&format, "format", "text", "Output format (text, json)")
	root.AddCommand(showCmd)

	// Load command
	loadCmd := &cobra.Command{
		Use:   "load CONFIG [SECTION...]",
		Short: "Materialize data sections of a source",
		Long: `Build a source from its configuration file and load its data sections.
With no section arguments every data section of the root is loaded.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := source.Load(args[0])
			if err != nil {
				return err
			}

			sections := args[1:]
			if len(sections) == 0 {
				sections = src.DataSections()
			}

			for _, name := range sections {
				d, err := src.Data(name)
				if err != nil {
					return err
				}
				if _, err := d.Load(); err != nil {
					return err
				}
				fmt.Printf("%s: %s (%s)\n", name, d.Kind(), d.State())
			}
			return nil
		},
	}
	root.AddCommand(loadCmd)

	// Catalog command
	catalogCmd := &cobra.Command{
		Use:   "catalog CATALOG",
		Short: "Process a YAML catalog of source configurations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(args[0])
		},
	}
	root.AddCommand(catalogCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCatalog(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	for _, entry := range catalog.Sources {
		src, err := source.Load(entry.Config)
		if err != nil {
			return fmt.Errorf("source %s: %w", entry.Config, err)
		}

		if entry.Load {
			if err := src.LoadAll(); err != nil {
				logger.Warn("load failed",
					zap.String("config", entry.Config),
					zap.Error(err))
			}
		}

		fmt.Printf("%s: %d subsources, %d data sections\n",
			src.Name(), len(src.Subsources()), len(src.DataSections()))
	}
	return nil
}
