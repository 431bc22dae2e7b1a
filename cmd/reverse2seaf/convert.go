package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talifan/adv-reverse2seaf/internal/config"
	"github.com/talifan/adv-reverse2seaf/internal/fileio"
	"github.com/talifan/adv-reverse2seaf/internal/logging"
	"github.com/talifan/adv-reverse2seaf/internal/pipeline"
	"github.com/talifan/adv-reverse2seaf/internal/report"
)

// errNoSource is returned when the input directory holds no entities.
var errNoSource = errors.New("no source data loaded")

type convertOptions struct {
	configPath string
	inputDir   string
	outputDir  string
	idPrefix   string
	verbose    int
	quiet      bool
	noSummary  bool
}

func newConvertCmd() *cobra.Command {
	opts := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert [entities...]",
		Short: "Convert an inventory directory",
		Long: `Convert every inventory file of the input directory and write the result
into the output directory.

Entities name conversion steps (see "reverse2seaf kinds"); without any, the
entities_to_convert setting applies. Flags take precedence over REVERSE2SEAF_*
environment variables, which take precedence over the config file.

Examples:
  reverse2seaf convert
  reverse2seaf convert vpcs subnets --id-prefix acme
  reverse2seaf convert --input-dir dump --output-dir model -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd, args)
			if err != nil {
				return err
			}
			return runConvert(cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), report.ColorEnabled(os.Stdout))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", config.DefaultConfigFile, "path to the converter config file")
	flags.StringVar(&opts.inputDir, "input-dir", "", "directory with source inventory files")
	flags.StringVar(&opts.outputDir, "output-dir", "", "directory for converted files")
	flags.StringVar(&opts.idPrefix, "id-prefix", "", "identifier prefix, overrides config and inference")
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress logs and data-quality warnings")
	flags.BoolVar(&opts.noSummary, "no-summary", false, "do not print the analytical summary")
	return cmd
}

// resolve loads the config and applies the flags the user set.
func (o *convertOptions) resolve(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("input-dir") {
		cfg.InputDir = o.inputDir
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = o.outputDir
	}
	if flags.Changed("id-prefix") {
		cfg.IDPrefix = o.idPrefix
	}
	if len(args) > 0 {
		cfg.EntitiesToConvert = args
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runConvert(cfg *config.Config, opts *convertOptions, stdout, stderr io.Writer, color bool) error {
	level := logging.LevelFromVerbosity(opts.verbose, opts.quiet)
	if opts.verbose == 0 && !opts.quiet {
		level = logging.LevelFromString(cfg.LogLevel)
	}
	logger := logging.NewLogger(stderr, level)
	logger.Info("conversion started",
		"input_dir", cfg.InputDir,
		"output_dir", cfg.OutputDir,
		"entities", strings.Join(cfg.EntitiesToConvert, ", "))

	src, err := fileio.LoadDir(cfg.InputDir)
	if err != nil {
		return err
	}
	if src.Len() == 0 {
		return fmt.Errorf("%w from %s", errNoSource, cfg.InputDir)
	}
	logger.Info("source files loaded", "kinds", src.Len())

	result, err := pipeline.Convert(src, pipeline.Options{
		Prefix:         cfg.IDPrefix,
		Kinds:          cfg.EntitiesToConvert,
		BranchSegments: cfg.BranchSegments,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	sink := &fileio.Sink{Dir: cfg.OutputDir, Logger: logger}
	files, err := sink.Write(result.Targets)
	if err != nil {
		return err
	}
	if len(files) > 0 {
		if err := sink.WriteRoot(files); err != nil {
			return err
		}
		logger.Info("root file written", "file", fileio.RootFile, "imports", len(files))
	} else {
		logger.Warn("no files converted, root file not written")
	}
	for _, name := range result.Skipped {
		logger.Warn("no converter found, skipping", "entity", name)
	}

	if !opts.quiet {
		report.Warnings(stderr, result)
	}
	if !opts.noSummary {
		report.Summary(stdout, result, color)
	}
	logger.Info("conversion finished", "prefix", result.Prefix, "files", len(files), "warnings", len(result.Warnings))
	return nil
}
