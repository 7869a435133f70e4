package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schollz/collidertracker/internal/descriptor"
)

func newDescriptorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "descriptor <wav-file>",
		Short: "Print the derived sample-descriptor record for a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, pcmStart, pcmBytes, err := descriptor.Load(args[0])
			if err != nil {
				return err
			}
			tempo := "none"
			if d.Tempo != nil {
				tempo = fmt.Sprintf("%.1f", *d.Tempo)
			}
			steps := "none"
			if d.Steps != nil {
				steps = fmt.Sprintf("%d", *d.Steps)
			}
			fmt.Printf("tempo=%s steps=%s onsets=%v pcmStart=%d pcmBytes=%d\n", tempo, steps, d.Onsets, pcmStart, pcmBytes)
			return nil
		},
	}
}
