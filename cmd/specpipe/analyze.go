package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wuminghan/specpipe/constants"
	"github.com/wuminghan/specpipe/internal/common"
	"github.com/wuminghan/specpipe/internal/entity"
	"github.com/wuminghan/specpipe/internal/export"
	"github.com/wuminghan/specpipe/internal/history"
	"github.com/wuminghan/specpipe/internal/llm"
	"github.com/wuminghan/specpipe/internal/llm/openai"
	"github.com/wuminghan/specpipe/internal/pipeline"
	"github.com/wuminghan/specpipe/internal/rules"
)

var (
	flagFormat      string
	flagRules       string
	flagUserID      string
	flagHistoryPath string
	flagOut         string
	flagFocus       []string
	flagVerbose     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze one document and print the scored record as JSON",
	Long: `Analyze decodes the given document, extracts a product record with
table parsing plus a model call, scores it, and prints the result as JSON.

Examples:
  specpipe analyze datasheet.pdf
  specpipe analyze manual.docx --out record.xlsx
  specpipe analyze legacy.doc --format doc --history feedback.db --user u-123`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&flagFormat, "format", "", "Input format override (pdf, docx, doc, xlsx, txt); default from file extension")
	analyzeCmd.Flags().StringVar(&flagRules, "rules", "", "Path to a rule-table YAML overriding the embedded defaults")
	analyzeCmd.Flags().StringVar(&flagUserID, "user", "", "User ID for historical accuracy lookup")
	analyzeCmd.Flags().StringVar(&flagHistoryPath, "history", "", "SQLite feedback database path (enables the historical dimension)")
	analyzeCmd.Flags().StringVar(&flagOut, "out", "", "Write an XLSX workbook of the record to this path")
	analyzeCmd.Flags().StringSliceVar(&flagFocus, "focus", nil, "Extraction focus hints passed to the model")
	analyzeCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

// analysisResult is the CLI's JSON envelope.
type analysisResult struct {
	Record     *entity.ExtractedRecord    `json:"record"`
	Confidence *entity.ConfidenceEnvelope `json:"confidence"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if flagRules != "" {
		cfg.Rules.Path = flagRules
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := resolveFormat(path, flagFormat)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	ruleTable, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	var historyProvider history.Provider
	if flagHistoryPath != "" {
		sp, err := history.OpenSQLite(flagHistoryPath, logger)
		if err != nil {
			return fmt.Errorf("open history db: %w", err)
		}
		defer sp.Close()
		historyProvider = sp
	}

	completer := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	analyzer, err := pipeline.NewAnalyzer(pipeline.Config{
		MaxTextBytes: cfg.Decode.MaxTextBytes,
		LLM: llm.Config{
			MaxAttempts: cfg.LLM.MaxAttempts,
			BaseBackoff: cfg.LLM.BaseBackoff,
		},
	}, ruleTable, completer, historyProvider, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rec, env, err := analyzer.AnalyzeDocument(ctx, data, format, pipeline.Options{
		FocusHints:   flagFocus,
		FilenameHint: filepath.Base(path),
		UserID:       flagUserID,
	})
	if err != nil {
		// machine-readable error envelope on stdout, human error on stderr
		_ = json.NewEncoder(os.Stdout).Encode(common.ToWire(err))
		return err
	}

	if flagOut != "" {
		xlsxBytes, err := export.NewService(logger).RecordXLSX(rec, env)
		if err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		if err := os.WriteFile(flagOut, xlsxBytes, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", flagOut, err)
		}
		fmt.Fprintf(os.Stderr, "written: %s\n", flagOut)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(analysisResult{Record: rec, Confidence: env})
}

// resolveFormat prefers the explicit --format flag, then the file
// extension. The flag accepts either a canonical format name or an
// extension.
func resolveFormat(path, override string) (constants.Format, error) {
	if override != "" {
		if f := constants.Format(strings.ToLower(override)); constants.IsValidFormat(f) {
			return f, nil
		}
		if f := constants.MapExtToFormat(override); f != "" {
			return f, nil
		}
		return "", common.UnsupportedFormatError(fmt.Sprintf("unsupported input format %q", override))
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	format := constants.MapExtToFormat(ext)
	if format == "" {
		return "", common.UnsupportedFormatError(fmt.Sprintf("unsupported input format %q", ext))
	}
	return format, nil
}
