package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/thep200/gitgrade/internal/analyzer"
	"github.com/thep200/gitgrade/internal/ingest"
	"github.com/thep200/gitgrade/internal/model"
	"github.com/thep200/gitgrade/pkg/kafka"
)

func newConsumeCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Consume analysis events from Kafka and store them in batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsume(rf)
		},
	}
}

func runConsume(rf *rootFlags) error {
	a, err := bootstrap(rf)
	if err != nil {
		return err
	}
	defer a.close()

	store, err := a.analysisModel()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("consume needs a database, set database.driver")
	}
	if err := a.conn.Migrate(&model.Analysis{}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer, err := kafka.NewConsumer(a.config, a.logger, a.config.Kafka.Producer.TopicAnalysis, a.config.Kafka.Consumer.GroupID)
	if err != nil {
		return err
	}
	defer consumer.Close()

	batcher, err := ingest.NewBatcher(a.logger, a.config, store)
	if err != nil {
		return err
	}
	consumer.RegisterHandler(analyzer.MessageKey, batcher.Handle)

	done := make(chan struct{})
	go func() {
		batcher.Run(ctx)
		close(done)
	}()

	a.logger.Info(ctx, "Analysis consumer started successfully")
	err = consumer.Start(ctx)
	stop()
	<-done
	a.logger.Info(context.Background(), "Analysis consumer stopped")
	return err
}
