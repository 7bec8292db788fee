package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chzchzchz/waterfall/radio"
	"github.com/chzchzchz/waterfall/render"
	"github.com/chzchzchz/waterfall/spectrogram"
)

var (
	flagBand     radio.HzBand
	flagFormat   string
	windowLength int
	stride       float64
	workers      int
	backend      string
	taper        string
	useDB        bool
	imageWidth   int
	dynamicRange float64
	savePath     string
	minSignalHz  float64
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:           "waterfall",
	Short:         "Compute spectrogram waterfalls from IQ recordings.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		return applyEnv(cmd.Flags(), ".env")
	},
}

func addFlagBand(cmd *cobra.Command) {
	cmd.Flags().Uint64VarP(&flagBand.Center, "center-hz", "c", 0, "Center frequency in Hz")
	cmd.Flags().Uint64VarP(&flagBand.Width, "sample-rate", "s", 2048000, "Sample rate in Hz")
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "", "Sample format (iq8, iq16, wav); guessed from the file name if empty")
}

func addFlagPool(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&windowLength, "window", "w", 8192, "FFT window length, a power of two")
	cmd.Flags().Float64VarP(&stride, "stride", "S", 1.0, "Window advance as a fraction of the window length")
	cmd.Flags().IntVarP(&workers, "workers", "j", spectrogram.DefaultWorkers(), "Number of transform workers")
	cmd.Flags().StringVarP(&backend, "backend", "b", string(spectrogram.BackendGonum), fmt.Sprintf("FFT backend %v", spectrogram.Backends()))
	cmd.Flags().StringVar(&taper, "taper", string(spectrogram.TaperNone), "Window taper (none, hann, hamming, blackman)")
}

func addFlagImage(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&useDB, "db", false, "Color by decibels below the maximum")
	cmd.Flags().IntVar(&imageWidth, "width", 0, "Output image width in pixels; 0 keeps one column per window")
	cmd.Flags().Float64Var(&dynamicRange, "dynamic-range", 60, "Decibel range shown with --db")
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	renderCmd := &cobra.Command{
		Use:   "render [flags] input output.jpg",
		Short: "Write a waterfall image",
		Args:  cobra.ExactArgs(2),
		RunE:  func(cmd *cobra.Command, args []string) error { return runRender(cmd.Context(), args[0], args[1]) },
	}
	renderCmd.Flags().StringVar(&savePath, "save", "", "Also save the computed grid to this file")
	addFlagBand(renderCmd)
	addFlagPool(renderCmd)
	addFlagImage(renderCmd)
	rootCmd.AddCommand(renderCmd)

	statsCmd := &cobra.Command{
		Use:   "stats [flags] input",
		Short: "Print run and spectrum statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return runStats(cmd.Context(), os.Stdout, args[0]) },
	}
	statsCmd.Flags().Float64Var(&minSignalHz, "min-signal-hz", 0, "Ignore detected signals narrower than this")
	addFlagBand(statsCmd)
	addFlagPool(statsCmd)
	rootCmd.AddCommand(statsCmd)

	replotCmd := &cobra.Command{
		Use:   "replot [flags] grid.gob output.jpg",
		Short: "Redraw a saved grid",
		Args:  cobra.ExactArgs(2),
		RunE:  func(cmd *cobra.Command, args []string) error { return runReplot(args[0], args[1]) },
	}
	addFlagImage(replotCmd)
	rootCmd.AddCommand(replotCmd)
}

func imageOptions() render.Options {
	o := render.Options{Scale: render.Linear, DynamicRange: dynamicRange, Width: imageWidth}
	if useDB {
		o.Scale = render.Decibel
	}
	return o
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "waterfall:", err)
		stop()
		os.Exit(1)
	}
}
