package kafka

import (
	"context"
	"encoding/json"

	"github.com/turtacn/interactome/internal/domain/viewer"
	"github.com/turtacn/interactome/pkg/errors"
)

// Publisher is the subset of Producer used by ViewerCommandSink.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// PublishObserver is told about every publish attempt.
type PublishObserver interface {
	ObservePublish(err error)
}

// ViewerCommandSink forwards viewer commands to topic, keyed by view id so
// that one view's commands stay ordered within a partition.
type ViewerCommandSink struct {
	pub      Publisher
	topic    string
	observer PublishObserver
}

// NewViewerCommandSink returns a sink writing to topic.  observer may be nil.
func NewViewerCommandSink(pub Publisher, topic string, observer PublishObserver) *ViewerCommandSink {
	return &ViewerCommandSink{pub: pub, topic: topic, observer: observer}
}

// Publish implements viewer.CommandSink.
func (s *ViewerCommandSink) Publish(ctx context.Context, cmd viewer.Command) error {
	value, err := json.Marshal(cmd)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode viewer command")
	}
	err = s.pub.Publish(ctx, Message{
		Topic: s.topic,
		Key:   []byte(cmd.ViewID),
		Value: value,
		Headers: map[string]string{
			"op":         string(cmd.Op),
			"command_id": cmd.ID,
		},
		Time: cmd.Timestamp,
	})
	if s.observer != nil {
		s.observer.ObservePublish(err)
	}
	return err
}

var _ viewer.CommandSink = (*ViewerCommandSink)(nil)

//Personal.AI order the ending
