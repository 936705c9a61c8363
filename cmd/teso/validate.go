package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/teso/internal/space"
	"github.com/GoSim-25-26J-441/teso/pkg/config"
)

func newValidateCmd() *cobra.Command {
	var bare bool

	cmd := &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Check a study file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			study, err := loadStudy(args[0], bare)
			if err != nil {
				return err
			}
			sp, err := space.FromSpecs(study.Variables)
			if err != nil {
				return fmt.Errorf("invalid variables in %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: ok\n", args[0])
			fmt.Fprintf(out, "  direction: %s, trials: %d, replications: %d\n",
				study.Direction, study.NTrials, study.NReplications)
			for _, v := range sp.Variables() {
				fmt.Fprintf(out, "  %s\n", v)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&bare, "study", false, "treat the file as a bare study document without log_level or model")
	return cmd
}

func loadStudy(path string, bare bool) (*config.Study, error) {
	if bare {
		return config.LoadStudy(path)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return &cfg.Study, nil
}
