package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schollz/collidertracker/engine"
	"github.com/schollz/collidertracker/internal/storage"
)

func newBankCmd() *cobra.Command {
	bank := &cobra.Command{
		Use:   "bank",
		Short: "Inspect or initialize a project's bank snapshot",
	}
	bank.AddCommand(newBankLoadCmd())
	bank.AddCommand(newBankSaveCmd())
	return bank
}

func newBankLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <project-dir>",
		Short: "Print a summary of a project's banks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := storage.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("tempo=%.1f stepDiv=%.1f banks=%d\n", state.Tempo, state.StepDiv, len(state.Banks))
			for i, b := range state.Banks {
				kits, phrases := 0, 0
				for _, k := range b.Kits {
					if k != nil {
						kits++
					}
				}
				for _, p := range b.Phrases {
					if p != nil {
						phrases++
					}
				}
				fmt.Printf("  bank[%d]: %d/%d kits, %d/%d phrases\n", i, kits, len(b.Kits), phrases, len(b.Phrases))
			}
			return nil
		},
	}
}

func newBankSaveCmd() *cobra.Command {
	var pads int
	var banks int
	var tempo float64
	var stepDiv float64

	cmd := &cobra.Command{
		Use:   "save <project-dir>",
		Short: "Write a fresh, empty project snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := storage.ProjectState{
				Banks:   make([]engine.Bank, banks),
				Tempo:   tempo,
				StepDiv: stepDiv,
			}
			for i := range state.Banks {
				state.Banks[i] = *engine.NewBank(pads)
			}
			return storage.Save(args[0], state)
		},
	}
	cmd.Flags().IntVar(&pads, "pads", defaultPads, "pads per bank")
	cmd.Flags().IntVar(&banks, "banks", defaultBanks, "number of banks")
	cmd.Flags().Float64Var(&tempo, "tempo", 120, "initial tempo (BPM)")
	cmd.Flags().Float64Var(&stepDiv, "step-div", 4, "steps per quarter note")
	return cmd
}
