package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	questionbank "github.com/ChesterZhangz/questionbank-sub004"
	"github.com/ChesterZhangz/questionbank-sub004/export"
	"github.com/ChesterZhangz/questionbank-sub004/segment"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "qbparse",
		Short: "Exam document question extractor",
		Long: `qbparse extracts structured questions from exam documents.

It segments documents into pages, detects question boundaries,
classifies question types, and extracts options, answers and
sub-questions. Supported inputs: PDF, DOCX, LaTeX and plain text.`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (YAML)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(areasCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// fileConfig is the YAML shape of the config file. Only the fields a
// CLI user would reasonably set are exposed.
type fileConfig struct {
	Recognition struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Retries int    `yaml:"retries"`
	} `yaml:"recognition"`
	Correction struct {
		Enabled      bool   `yaml:"enabled"`
		Provider     string `yaml:"provider"`
		Model        string `yaml:"model"`
		BaseURL      string `yaml:"base_url"`
		APIKey       string `yaml:"api_key"`
		AllowLenient bool   `yaml:"allow_lenient"`
	} `yaml:"correction"`
	Render struct {
		Tool string `yaml:"tool"`
		DPI  int    `yaml:"dpi"`
	} `yaml:"render"`
	AreaWorkers int `yaml:"area_workers"`
}

func loadConfig(cmd *cobra.Command) (questionbank.Config, error) {
	cfg := questionbank.DefaultConfig()

	verbose, _ := cmd.Flags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if fc.Recognition.BaseURL != "" {
		cfg.Recognition.BaseURL = fc.Recognition.BaseURL
	}
	if fc.Recognition.APIKey != "" {
		cfg.Recognition.APIKey = fc.Recognition.APIKey
	}
	if fc.Recognition.Retries > 0 {
		cfg.Recognition.Retries = fc.Recognition.Retries
	}
	cfg.Correction.Enabled = fc.Correction.Enabled
	if fc.Correction.Provider != "" {
		cfg.Correction.Provider = fc.Correction.Provider
	}
	if fc.Correction.Model != "" {
		cfg.Correction.Model = fc.Correction.Model
	}
	if fc.Correction.BaseURL != "" {
		cfg.Correction.BaseURL = fc.Correction.BaseURL
	}
	if fc.Correction.APIKey != "" {
		cfg.Correction.APIKey = fc.Correction.APIKey
	}
	cfg.Correction.AllowLenient = fc.Correction.AllowLenient
	if fc.Render.Tool != "" {
		cfg.Render.Tool = fc.Render.Tool
	}
	if fc.Render.DPI > 0 {
		cfg.Render.DPI = fc.Render.DPI
	}
	if fc.AreaWorkers > 0 {
		cfg.AreaWorkers = fc.AreaWorkers
	}
	return cfg, nil
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <document>",
		Short: "Parse a document into questions",
		Long: `Parse a document and print the extracted questions as JSON.

Examples:
  qbparse parse exam.pdf
  qbparse parse exam.docx --output questions.json
  qbparse parse paper.tex --category math --tags algebra,2024`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			format, _ := cmd.Flags().GetString("format")
			category, _ := cmd.Flags().GetString("category")
			tags, _ := cmd.Flags().GetStringSlice("tags")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			parser, err := questionbank.New(cfg)
			if err != nil {
				return err
			}

			var opts []questionbank.ParseOption
			if format != "" {
				opts = append(opts, questionbank.WithFormat(format))
			}
			if category != "" {
				opts = append(opts, questionbank.WithCategory(category))
			}
			if len(tags) > 0 {
				opts = append(opts, questionbank.WithTags(tags...))
			}

			start := time.Now()
			result, err := parser.ParseDocument(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "parsed %d question(s) in %v\n",
				len(result.Questions), time.Since(start).Round(time.Millisecond))

			return writeJSON(result, output)
		},
	}

	cmd.Flags().StringP("output", "o", "", "Write JSON to file instead of stdout")
	cmd.Flags().StringP("format", "f", "", "Force input format (pdf, docx, latex, txt)")
	cmd.Flags().String("category", "", "Category applied to every question")
	cmd.Flags().StringSlice("tags", nil, "Tags applied to every question")

	return cmd
}

func areasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "areas <document>",
		Short: "Parse selected page regions of a document",
		Long: `Parse only the regions listed in an areas file (JSON array).

Each area has an id, a page number and x/y/width/height coordinates
relative to an 800x1000 reference canvas.

Example:
  qbparse areas exam.pdf --areas regions.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			areasPath, _ := cmd.Flags().GetString("areas")
			output, _ := cmd.Flags().GetString("output")
			if areasPath == "" {
				return fmt.Errorf("--areas flag is required")
			}

			data, err := os.ReadFile(areasPath)
			if err != nil {
				return fmt.Errorf("read areas: %w", err)
			}
			var areas []segment.Area
			if err := json.Unmarshal(data, &areas); err != nil {
				return fmt.Errorf("parse areas: %w", err)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			parser, err := questionbank.New(cfg)
			if err != nil {
				return err
			}

			result, err := parser.ParseAreas(cmd.Context(), args[0], areas)
			if err != nil {
				return err
			}
			return writeJSON(result, output)
		},
	}

	cmd.Flags().StringP("areas", "a", "", "Areas file (JSON)")
	cmd.Flags().StringP("output", "o", "", "Write JSON to file instead of stdout")

	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <document>",
		Short: "Parse a document and export questions to XLSX",
		Long: `Parse a document and write the questions to an XLSX workbook.

Example:
  qbparse export exam.pdf --output questions.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				base := strings.TrimSuffix(args[0], ".pdf")
				output = base + ".xlsx"
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			parser, err := questionbank.New(cfg)
			if err != nil {
				return err
			}

			result, err := parser.ParseDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := export.QuestionsXLSX(result.Questions)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			fmt.Printf("Exported %d question(s) to %s\n", len(result.Questions), output)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output XLSX path")

	return cmd
}

func writeJSON(v any, path string) error {
	if path == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
