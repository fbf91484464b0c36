package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageView is one record as shown by the sandbox events endpoint.
type MessageView struct {
	Offset    int64           `json:"offset"`
	Partition int             `json:"partition"`
	Time      time.Time       `json:"time"`
	Key       string          `json:"key,omitempty"`
	Value     json.RawMessage `json:"value"`
}

// Tail reads up to limit messages from the start of partition 0. Running out
// of time is not an error: whatever was read so far is returned.
func Tail(ctx context.Context, brokers []string, topic string, limit int) ([]MessageView, error) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6, // 10MB
		MaxWait:   200 * time.Millisecond,
	})
	defer r.Close()

	if err := r.SetOffset(kafka.FirstOffset); err != nil {
		return nil, err
	}

	out := make([]MessageView, 0, limit)
	for len(out) < limit {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
				break
			}
			return out, err
		}
		out = append(out, viewOf(m))
	}
	return out, nil
}

func viewOf(m kafka.Message) MessageView {
	v := MessageView{
		Offset:    m.Offset,
		Partition: m.Partition,
		Time:      m.Time,
		Key:       string(m.Key),
	}
	if json.Valid(m.Value) {
		v.Value = json.RawMessage(m.Value)
	} else {
		b, _ := json.Marshal(string(m.Value))
		v.Value = json.RawMessage(b)
	}
	return v
}
