package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate and store one adventure now, then print it as JSON",
		Args:  cobra.NoArgs,
		RunE:  runOnce,
	}
	cmd.Flags().String("location", "", "location to generate for (defaults to ADVENTURE_LOCATION)")
	return cmd
}

func runOnce(cmd *cobra.Command, args []string) error {
	location := cfg.Location
	if flag, _ := cmd.Flags().GetString("location"); strings.TrimSpace(flag) != "" {
		location = strings.TrimSpace(flag)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RunTimeout)
	defer cancel()

	records, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer records.Close()

	pipeline, err := buildPipeline(ctx, cfg, records, logger)
	if err != nil {
		return err
	}

	adventure, err := pipeline.Run(ctx, location)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(adventure)
}
