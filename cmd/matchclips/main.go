package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/JulienMP/matchclips/internal/config"
	"github.com/JulienMP/matchclips/internal/logging"
	"github.com/JulienMP/matchclips/internal/pipeline"
)

var (
	cfgFile      string
	verbose      bool
	dataDir      string
	outputDir    string
	gameLimit    int
	clipDuration float64
	clipsPerGame int
	window       float64
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "matchclips",
	Short: "matchclips - event-anchored clip extraction for football match video",
	Long: "Extracts short clips from recorded match video, anchored to annotated " +
		"event sequences: goals, free kick buildups, penalties, unsuccessful shots " +
		"and goal-free background intervals.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		applyFlags(cfg)

		cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory containing the game directories")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "directory to write extracted clips")
	rootCmd.PersistentFlags().IntVar(&gameLimit, "limit", 0, "limit the number of games processed (0 = all)")
	rootCmd.PersistentFlags().Float64Var(&clipDuration, "duration", 0, "clip duration in seconds")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(extractionCmd(pipeline.KindGoals, "goals",
		"Extract clips ending just before every goal"))

	fk := extractionCmd(pipeline.KindFreeKickGoals, "freekick-goals",
		"Extract clips of goals preceded by a recent free kick")
	fk.Flags().Float64Var(&window, "window", 0, "look-back window in seconds for the free kick")
	rootCmd.AddCommand(fk)

	rootCmd.AddCommand(extractionCmd(pipeline.KindPenalties, "penalties",
		"Extract clips around penalties and the fouls that drew them"))
	rootCmd.AddCommand(extractionCmd(pipeline.KindShots, "shots",
		"Extract clips of shots on target not immediately followed by a goal"))

	bg := extractionCmd(pipeline.KindBackground, "background",
		"Extract random background clips far from any goal")
	bg.Flags().IntVar(&clipsPerGame, "clips-per-game", 0, "background clips per game")
	rootCmd.AddCommand(bg)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every extraction rule over the dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKinds(cmd, pipeline.AllKinds())
	},
}

func extractionCmd(kind pipeline.Kind, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKinds(cmd, []pipeline.Kind{kind})
		},
	}
}

func runKinds(cmd *cobra.Command, kinds []pipeline.Kind) error {
	cfg := config.FromContext(cmd.Context())

	pipe, err := pipeline.New(log.Logger, cfg)
	if err != nil {
		return err
	}

	report, err := pipe.Run(cmd.Context(), kinds)
	if err != nil {
		return err
	}

	totals := report.Totals()
	log.Info().
		Str("run_id", report.RunID).
		Int("games", len(report.Games)).
		Int("extracted", totals.Extracted).
		Int("failed", totals.Failed).
		Msg("done")
	return nil
}

// applyFlags overlays explicitly set CLI flags onto the loaded config
func applyFlags(cfg *config.Config) {
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if gameLimit > 0 {
		cfg.GameLimit = gameLimit
	}
	if clipDuration > 0 {
		cfg.ClipDuration = clipDuration
	}
	if window > 0 {
		cfg.Windows.FreeKick = window
	}
	if clipsPerGame > 0 {
		cfg.Background.ClipsPerGame = clipsPerGame
	}
}
