package main

import (
	"fmt"

	"github.com/nvandessel/saccadegen/internal/transform"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a displacement into channel stimulus amplitudes",
		Long: `Encode a 2-D saccade displacement into the stimulus amplitudes of the
left, right, up and down channels. Positive dx drives right, positive dy
drives up. A zero component drives neither channel of its axis.

Examples:
  saccade encode --dx 0.5 --dy -0.2
  saccade encode --dx 1 --max-size 2 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			dx, _ := cmd.Flags().GetFloat64("dx")
			dy, _ := cmd.Flags().GetFloat64("dy")
			maxSize, _ := cmd.Flags().GetFloat64("max-size")

			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if maxSize <= 0 {
				maxSize = settings.Encoding.MaximalSaccadeSize
			}

			a := settings.Calibration.Encode(transform.Vec2{X: dx, Y: dy}, maxSize)

			if jsonOut {
				return printJSON(cmd, a)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "left:  %.4f\n", a.Left)
			fmt.Fprintf(out, "right: %.4f\n", a.Right)
			fmt.Fprintf(out, "up:    %.4f\n", a.Up)
			fmt.Fprintf(out, "down:  %.4f\n", a.Down)
			return nil
		},
	}

	cmd.Flags().Float64("dx", 0, "Horizontal displacement")
	cmd.Flags().Float64("dy", 0, "Vertical displacement")
	cmd.Flags().Float64("max-size", 0, "Displacement encoded by the maximal stimulus (default from config)")

	return cmd
}
