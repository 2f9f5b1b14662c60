package cli

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/matt-g-everett/ledease/frame"
	"github.com/matt-g-everett/ledease/tween"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	From      float64
	To        float64
	Force     float64
	Precision float64
	Easing    string
	Interval  float64
	Frames    int
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print the frames of a single eased transition",
		Long: `Ease a value from --from to --to on simulated frames and print every
start, step and stop event with its frame time.

Example:
  ledease trace --from 0 --to 1
  ledease trace --from 0 --to 5 --easing linear --force 1 --precision 1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Float64Var(&opts.From, "from", 0, "starting value")
	cmd.Flags().Float64Var(&opts.To, "to", 1, "target value")
	cmd.Flags().Float64Var(&opts.Force, "force", tween.DefaultForce, "easing force in (0, 1]")
	cmd.Flags().Float64Var(&opts.Precision, "precision", tween.DefaultPrecision, "quantization step")
	cmd.Flags().StringVar(&opts.Easing, "easing", tween.DefaultEasing, fmt.Sprintf("easing function %v", tween.Easings()))
	cmd.Flags().Float64Var(&opts.Interval, "interval", 16, "frame interval in milliseconds")
	cmd.Flags().IntVar(&opts.Frames, "frames", 10000, "maximum number of frames")

	return cmd
}

func runTrace(opts *TraceOptions, out io.Writer) error {
	if !(opts.Interval > 0) {
		return fmt.Errorf("invalid interval %v: must be positive", opts.Interval)
	}
	if opts.Frames <= 0 {
		return fmt.Errorf("invalid frames %d: must be positive", opts.Frames)
	}

	loop := frame.NewLoop(newLogger(opts.Verbose, io.Discard))
	v, err := tween.NewValue(loop, loop, tween.Options{
		Force:     opts.Force,
		Precision: opts.Precision,
		Easing:    opts.Easing,
		Value:     tween.Float(opts.From),
	})
	if err != nil {
		return err
	}
	defer v.Destroy()

	decimals := precisionDecimals(v.Precision())
	for _, event := range []string{tween.EventStart, tween.EventStep, tween.EventStop} {
		event := event
		v.On(event, func(value float64) {
			fmt.Fprintf(out, "t=%.1f %s %.*f\n", loop.Now(), event, decimals, value)
		})
	}

	if err := v.To(opts.To); err != nil {
		return err
	}
	for loop.Pending() > 0 && loop.Frames() < uint64(opts.Frames) {
		loop.Tick(loop.Now() + opts.Interval)
	}

	fmt.Fprintf(out, "frames=%d value=%.*f converged=%t\n", loop.Frames(), decimals, v.Value(), !v.IsRunning())
	return nil
}

// precisionDecimals is the number of decimal places that show a multiple of p.
func precisionDecimals(p float64) int {
	d := math.Ceil(-math.Log10(p) - 1e-9)
	if d < 0 {
		return 0
	}
	return int(d)
}
