package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/thep200/gitgrade/cfg"
	"github.com/thep200/gitgrade/pkg/log"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.msgs) > 0 {
		m := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) Close() error { return nil }

func TestConstructorsNeedBrokers(t *testing.T) {
	config := cfg.Default()
	config.Kafka.Brokers = nil
	logger, _ := log.NewCslLogger()

	if _, err := NewProducer(config, logger, "t"); !errors.Is(err, ErrNoBrokers) {
		t.Errorf("producer: expected ErrNoBrokers, got %v", err)
	}
	if _, err := NewConsumer(config, logger, "t", "g"); !errors.Is(err, ErrNoBrokers) {
		t.Errorf("consumer: expected ErrNoBrokers, got %v", err)
	}
}

func TestPublishEncodesJSON(t *testing.T) {
	logger, _ := log.NewCslLogger()
	w := &fakeWriter{}
	p := &Producer{Config: cfg.Default(), Logger: logger, writer: w}

	if err := p.Publish(context.Background(), "analysis", map[string]int{"score": 7}); err != nil {
		t.Fatal(err)
	}
	if len(w.msgs) != 1 || string(w.msgs[0].Key) != "analysis" {
		t.Fatalf("unexpected messages: %+v", w.msgs)
	}
	var got map[string]int
	if err := json.Unmarshal(w.msgs[0].Value, &got); err != nil || got["score"] != 7 {
		t.Errorf("unexpected value %s", w.msgs[0].Value)
	}

	w.err = errors.New("broker down")
	if err := p.Publish(context.Background(), "analysis", 1); err == nil {
		t.Error("expected write error")
	}
	if err := p.Publish(context.Background(), "analysis", func() {}); err == nil {
		t.Error("expected marshal error")
	}
}

func TestConsumerDispatchesByKey(t *testing.T) {
	logger, _ := log.NewCslLogger()
	r := &fakeReader{msgs: []kafka.Message{
		{Key: []byte("analysis"), Value: []byte("1")},
		{Key: []byte("unknown"), Value: []byte("2")},
		{Key: []byte("analysis"), Value: []byte("3")},
	}}
	c := &Consumer{Config: cfg.Default(), Logger: logger, topic: "t", reader: r, handlers: map[string]Handler{}}

	got := make(chan string, 3)
	c.RegisterHandler("analysis", func(_ context.Context, v []byte) error {
		got <- string(v)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	for _, want := range []string{"1", "3"} {
		select {
		case v := <-got:
			if v != want {
				t.Errorf("got %s, want %s", v, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("handler not called")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
