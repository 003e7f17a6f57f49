package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sentimentcsv/internal/config"
	"sentimentcsv/internal/logging"
)

var (
	// Logger
	logger *zap.Logger

	// rootCmd represents the base command
	rootCmd = newRootCmd()
)

// cliFlags holds values bound to the persistent flags. Only flags the user
// actually set override the loaded config.
type cliFlags struct {
	configFile string
	envFile    string

	input       string
	output      string
	inPlace     bool
	classifier  string
	column      string
	keywords    []string
	posThresh   float64
	negThresh   float64
	workers     int
	lexicon     string
	metricsFile string
	logLevel    string
	logFormat   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	f := &cliFlags{}
	root := &cobra.Command{
		Use:   "sentimentcsv",
		Short: "Append sentiment labels to free-text columns of a CSV file",
		Long: `sentimentcsv loads a CSV file, picks the free-text columns to analyze,
labels every cell Positive, Negative or Neutral and saves the table with one
<column>_Sentiment column per analyzed column.

Settings come from defaults, an optional YAML file, .env, the environment and
finally the command-line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}
			f.cfg = cfg
			logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "YAML config file")
	pf.StringVar(&f.envFile, "env-file", "", "dotenv file to load (default: .env if present)")
	pf.StringVarP(&f.input, "input", "i", "", "input CSV file (INPUT_FILE)")
	pf.StringVarP(&f.output, "output", "o", "", "output CSV file (OUTPUT_FILE)")
	pf.BoolVar(&f.inPlace, "in-place", false, "overwrite the input file")
	pf.StringVar(&f.classifier, "classifier", "", "lexicon, huggingface or gemini")
	pf.StringVar(&f.column, "column", "", "exact column to analyze (TARGET_COLUMN)")
	pf.StringArrayVarP(&f.keywords, "keyword", "k", nil, "analyze columns containing every keyword (repeatable)")
	pf.Float64Var(&f.posThresh, "positive-threshold", 0, "lexicon polarity above which a text is Positive")
	pf.Float64Var(&f.negThresh, "negative-threshold", 0, "lexicon polarity below which a text is Negative")
	pf.IntVarP(&f.workers, "workers", "w", 0, "concurrent classifications per column")
	pf.StringVar(&f.lexicon, "lexicon", "", "word<TAB>valence lexicon replacing the built-in one")
	pf.StringVar(&f.metricsFile, "metrics-file", "", "write prometheus metrics to this file")
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&f.logFormat, "log-format", "", "console or json")

	root.AddCommand(newRunCmd(f))
	root.AddCommand(newClassifyCmd(f))
	root.AddCommand(newColumnsCmd(f))
	return root
}

// load reads the config and applies the flags that were set on the command line.
func (f *cliFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.configFile, f.envFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.InputFile = f.input
	}
	if flags.Changed("output") {
		cfg.OutputFile = f.output
	}
	if flags.Changed("in-place") {
		cfg.InPlace = f.inPlace
	}
	if flags.Changed("classifier") {
		cfg.Classifier = f.classifier
	}
	if flags.Changed("column") {
		cfg.TargetColumn = f.column
		if !flags.Changed("keyword") {
			cfg.ColumnKeywords = nil
		}
	}
	if flags.Changed("keyword") {
		cfg.ColumnKeywords = f.keywords
	}
	if flags.Changed("positive-threshold") {
		cfg.PositiveThreshold = f.posThresh
	}
	if flags.Changed("negative-threshold") {
		cfg.NegativeThreshold = f.negThresh
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("lexicon") {
		cfg.LexiconFile = f.lexicon
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
