package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/thep200/gitgrade/internal/model"
	"github.com/thep200/gitgrade/pkg/kafka"
)

type analyzeFlags struct {
	format  string
	save    bool
	timeout time.Duration
}

func newAnalyzeCmd(rf *rootFlags) *cobra.Command {
	f := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze <github-url>",
		Short: "Fetch, score and review one GitHub repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(f.format); err != nil {
				return err
			}
			return runAnalyze(rf, f, args[0])
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "text", "Output format: text, json or yaml")
	flags.BoolVar(&f.save, "save", false, "Store the result and publish it to Kafka when configured")
	flags.DurationVar(&f.timeout, "timeout", 3*time.Minute, "Overall timeout for the analysis")
	return cmd
}

func runAnalyze(rf *rootFlags, f *analyzeFlags, url string) error {
	a, err := bootstrap(rf)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var store *model.Analysis
	var producer *kafka.Producer
	if f.save {
		if store, err = a.analysisModel(); err != nil {
			return err
		}
		if store != nil {
			if err := a.conn.Migrate(&model.Analysis{}); err != nil {
				return err
			}
		}
		if producer = a.newProducer(ctx); producer != nil {
			defer producer.Close()
		}
	}

	svc, err := a.newAnalyzer(ctx, store, producer)
	if err != nil {
		return err
	}
	result, err := svc.Analyze(ctx, url)
	if err != nil {
		return &exitErr{code: 2, msg: "analysis failed: " + err.Error()}
	}

	return writeResult(os.Stdout, f.format, useColor(rf.color, os.Stdout), result)
}
