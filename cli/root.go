// Package cli is the mutwo command line.
package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-mutwo/config"
	"go-mutwo/debug"
	"go-mutwo/event"
	"go-mutwo/score"
	"go-mutwo/tempo"
)

var (
	verbose  bool
	debugLog string
	cfg      = config.DefaultConfig()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mutwo",
	Short: "Compose with event trees",
	Long: `mutwo reads event trees from JSON, YAML or TOML score files and
converts them to midi files, csound and isis scores, lilypond notation,
reaper markers and WAV audio, or plays them on a midi port.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err := zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		debug.SetLogger(logger)
		if debugLog != "" {
			debug.Disable()
			if err := debug.Enable(debugLog); err != nil {
				return fmt.Errorf("debug log: %w", err)
			}
		}

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		c.Apply()
		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = debug.Logger().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&debugLog, "debug-log", "", "Write the debug log to this file")
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

// loadScore reads a score file. Documents without a tempo use the
// configured one.
func loadScore(path string) (*score.Document, event.Event, tempo.TempoEnvelope, error) {
	doc, err := score.Load(path)
	if err != nil {
		return nil, nil, tempo.TempoEnvelope{}, err
	}
	ev, err := doc.Event()
	if err != nil {
		return nil, nil, tempo.TempoEnvelope{}, fmt.Errorf("%s: %w", path, err)
	}
	env := cfg.TempoEnvelope()
	if doc.Tempo != nil {
		if env, err = doc.TempoEnvelope(); err != nil {
			return nil, nil, tempo.TempoEnvelope{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	return doc, ev, env, nil
}

// outputPath places base(input)+ext in dir, or next to the input.
func outputPath(input, dir, ext string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ext
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}
