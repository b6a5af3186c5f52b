package main

import (
	"context"
	"fmt"

	"github.com/thep200/gitgrade/cfg"
	"github.com/thep200/gitgrade/internal/advisor"
	"github.com/thep200/gitgrade/internal/analyzer"
	githubapi "github.com/thep200/gitgrade/internal/github_api"
	"github.com/thep200/gitgrade/internal/llm"
	"github.com/thep200/gitgrade/internal/model"
	"github.com/thep200/gitgrade/pkg/db"
	"github.com/thep200/gitgrade/pkg/kafka"
	"github.com/thep200/gitgrade/pkg/log"
)

// app gom các thành phần dùng chung cho mọi subcommand
type app struct {
	loader *cfg.ViperLoader
	config *cfg.Config
	logger log.Logger
	conn   db.Connector
}

func bootstrap(rf *rootFlags) (*app, error) {
	loader, _ := cfg.NewViperLoader()
	loader.ConfigPath = rf.configPath
	if _, err := cfg.NewLoader(loader); err != nil {
		return nil, err
	}
	config, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.NewFromConfig(config)
	if err != nil {
		return nil, err
	}

	conn, err := db.New(config)
	if err != nil {
		return nil, err
	}

	return &app{loader: loader, config: config, logger: logger, conn: conn}, nil
}

func (a *app) close() {
	if a.conn != nil {
		a.conn.Close()
	}
}

// analysisModel trả về nil khi persistence bị tắt
func (a *app) analysisModel() (*model.Analysis, error) {
	if a.conn == nil {
		return nil, nil
	}
	return model.NewAnalysis(a.config, a.logger, a.conn)
}

// newAnalyzer wires fetch, advice and the optional store/publisher into one service
func (a *app) newAnalyzer(ctx context.Context, store *model.Analysis, producer *kafka.Producer) (*analyzer.Service, error) {
	caller, err := githubapi.NewCaller(a.logger, a.config)
	if err != nil {
		return nil, err
	}

	provider, err := llm.ResolveProvider(a.config)
	if err != nil {
		a.logger.Warn(ctx, "LLM provider unavailable, advice falls back to defaults: %v", err)
		provider = nil
	}
	adv, err := advisor.NewAdvisor(a.logger, a.config, provider)
	if err != nil {
		return nil, err
	}

	var s analyzer.Store
	if store != nil {
		s = store
	}
	var p analyzer.Publisher
	if producer != nil {
		p = producer
	}
	return analyzer.NewService(a.logger, a.config, caller, adv, s, p)
}

// newProducer trả về nil khi không cấu hình broker
func (a *app) newProducer(ctx context.Context) *kafka.Producer {
	producer, err := kafka.NewProducer(a.config, a.logger, a.config.Kafka.Producer.TopicAnalysis)
	if err != nil {
		a.logger.Info(ctx, "Kafka publishing disabled: %v", err)
		return nil
	}
	return producer
}
