package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schollz/collidertracker/internal/project"
)

func newProjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "Browse surgeon project folders under the home directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, cancelled := project.RunProjectSelector()
			if cancelled || dir == "" {
				fmt.Println("no project selected")
				return nil
			}
			fmt.Println(dir)
			return nil
		},
	}
}
