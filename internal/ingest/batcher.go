// Package ingest gom các AnalysisMessage đọc từ Kafka thành từng batch rồi ghi vào database.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/thep200/gitgrade/cfg"
	"github.com/thep200/gitgrade/internal/model"
	"github.com/thep200/gitgrade/pkg/log"
)

// Sink nhận một batch để lưu, *model.Analysis thỏa mãn interface này
type Sink interface {
	CreateBatch(ctx context.Context, msgs []model.AnalysisMessage) error
}

type Batcher struct {
	Logger       log.Logger
	sink         Sink
	batchSize    int
	batchTimeout time.Duration
	messages     chan model.AnalysisMessage
}

func NewBatcher(logger log.Logger, config *cfg.Config, sink Sink) (*Batcher, error) {
	batchSize := config.Kafka.Consumer.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	batchTimeout := time.Duration(config.Kafka.Consumer.BatchTimeoutSec) * time.Second
	if batchTimeout <= 0 {
		batchTimeout = 5 * time.Second
	}

	return &Batcher{
		Logger:       logger,
		sink:         sink,
		batchSize:    batchSize,
		batchTimeout: batchTimeout,
		messages:     make(chan model.AnalysisMessage, batchSize*2),
	}, nil
}

// Handle decodes one Kafka value and queues it for the next batch
func (b *Batcher) Handle(ctx context.Context, value []byte) error {
	var msg model.AnalysisMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal analysis message: %w", err)
	}

	select {
	case b.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run gom message cho tới khi đủ batchSize hoặc hết batchTimeout.
// Khi ctx kết thúc, phần còn lại được flush trước khi trả về.
func (b *Batcher) Run(ctx context.Context) {
	var batch []model.AnalysisMessage
	timer := time.NewTimer(b.batchTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			// drain what is already queued
			for {
				select {
				case msg := <-b.messages:
					batch = append(batch, msg)
					continue
				default:
				}
				break
			}
			b.flush(context.WithoutCancel(ctx), batch)
			return

		case msg := <-b.messages:
			batch = append(batch, msg)
			if len(batch) >= b.batchSize {
				b.flush(ctx, batch)
				batch = nil
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(b.batchTimeout)
			}

		case <-timer.C:
			if len(batch) > 0 {
				b.flush(ctx, batch)
				batch = nil
			}
			timer.Reset(b.batchTimeout)
		}
	}
}

func (b *Batcher) flush(ctx context.Context, batch []model.AnalysisMessage) {
	if len(batch) == 0 {
		return
	}

	b.Logger.Info(ctx, "Processing batch of %d analyses", len(batch))
	if err := b.sink.CreateBatch(ctx, batch); err != nil {
		b.Logger.Error(ctx, "Failed to save batch of analyses: %v", err)
		return
	}
	b.Logger.Info(ctx, "Successfully saved batch of %d analyses", len(batch))
}
