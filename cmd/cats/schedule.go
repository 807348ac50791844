package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/anonymousuni/cats/internal/clierrors"
	"github.com/anonymousuni/cats/internal/config"
	"github.com/anonymousuni/cats/internal/csvout"
	"github.com/anonymousuni/cats/internal/display"
	"github.com/anonymousuni/cats/internal/ingest"
	"github.com/anonymousuni/cats/internal/resources"
	"github.com/anonymousuni/cats/internal/scheduler"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Search for cost- and deadline-aware pipeline deployment schedules",
		RunE:  runSchedule,
	}

	cmd.Flags().String("pipeline", "", "Path to the pipeline topology YAML")
	cmd.Flags().String("resources", "", "Path to the resources CSV")
	cmd.Flags().String("step-metrics", "", "Path to the step metrics CSV")
	cmd.Flags().String("performance-metrics", "", "Path to the step performance metrics CSV")
	cmd.Flags().String("deployment-metrics", "", "Path to the deployment metrics CSV")
	cmd.Flags().Float64("deadline", 0, "Deadline in seconds")
	cmd.Flags().Float64("budget", 0, "Budget in USD")
	cmd.Flags().Float64("input-volume-mb", 0, "Total pipeline input volume in MB")
	cmd.Flags().Int("max-scalability", 0, "Maximum replicas for a scalable step (0 means no cap, 1 disables scaling)")
	cmd.Flags().String("force", "", "Forced deployments as step=resource,step=resource")
	cmd.Flags().String("output-dir", "", "Directory to write timeline CSVs into")
	cmd.Flags().Bool("display_timelines", false, "Render resulting timelines to the terminal")
	cmd.Flags().Int("workers", 0, "Candidate-search worker pool size")

	return cmd
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd, configPath)
	if err != nil {
		return err
	}

	pipe, err := ingest.ParsePipelineYAML(cfg.PipelineYAML)
	if err != nil {
		return err
	}

	catalog, _, network, err := ingest.ParseResourcesCSV(cfg.ResourcesCSV)
	if err != nil {
		return err
	}

	forced := cfg.ForcedMap()
	corpus, err := ingest.BuildCorpus(cfg.StepMetricsCSV, cfg.PerformanceMetricsCSV, cfg.DeploymentMetricsCSV, pipe, forced)
	if err != nil {
		return err
	}

	price := resources.NewAWSPriceModel()

	sched := scheduler.New(pipe, catalog, network, corpus, price, scheduler.Config{
		Deadline:       cfg.Deadline,
		Budget:         cfg.Budget,
		InputVolumeMB:  cfg.InputVolumeMB,
		MaxScalability: cfg.MaxScalability,
		Forced:         forced,
		Workers:        cfg.Workers,
	}, logger)

	timelines, err := sched.Schedule()
	if err != nil {
		return err
	}
	if len(timelines) == 0 {
		return clierrors.ErrEmptyResult
	}

	runTimestamp := time.Now().Unix()
	for i, tl := range timelines {
		if tl.TotalTime() > cfg.Deadline {
			logger.Warn("timeline exceeds deadline", "index", i, "total_time", tl.TotalTime(), "deadline", cfg.Deadline)
		}

		params := csvout.Params{
			Prefix:         fmt.Sprintf("candidate%d", i),
			TimestampUnix:  runTimestamp,
			Deadline:       cfg.Deadline,
			Budget:         cfg.Budget,
			InputVolumeMB:  cfg.InputVolumeMB,
			MaxScalability: cfg.MaxScalability,
		}
		path, err := csvout.WriteFile(cfg.OutputDir, params, tl)
		if err != nil {
			return err
		}
		logger.Info("wrote timeline", "path", path, "total_time", tl.TotalTime(), "total_cost", tl.TotalCost(catalog, price))
	}

	if cfg.DisplayTimelines {
		display.RenderAll(timelines)
	}

	return nil
}
