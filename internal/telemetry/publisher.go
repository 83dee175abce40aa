// Package telemetry streams accepted position samples to Kafka for
// downstream analytics. Publishing is best effort: failures are logged
// and never surfaced to the HTTP caller.
package telemetry

import (
	"context"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	logrus "github.com/sirupsen/logrus"

	"bustracker/internal/models"
)

// Publisher receives every persisted position sample.
type Publisher interface {
	PublishSample(sample models.BusPath)
	Close() error
}

// sampleEvent is the wire form written to the topic.
type sampleEvent struct {
	BusID          uint      `json:"bus_id"`
	Lat            float64   `json:"lat"`
	Long           float64   `json:"long"`
	Speed          float64   `json:"speed"`
	PassengerCount int       `json:"passenger_count"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// KafkaPublisher writes samples to a Kafka topic, keyed by bus ID so a
// bus's samples stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishSample(sample models.BusPath) {
	evt := sampleEvent{
		BusID:          sample.BusID,
		Lat:            sample.Latitude,
		Long:           sample.Longitude,
		Speed:          sample.Speed,
		PassengerCount: sample.PassengerCount,
		RecordedAt:     sample.CreatedAt,
	}

	data, err := json.Marshal(evt)
	if err != nil {
		logrus.WithError(err).Error("telemetry: marshal sample")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(sample.BusID), 10)),
		Value: data,
	})
	if err != nil {
		logrus.WithError(err).WithField("bus_id", sample.BusID).Error("telemetry: write sample")
	}
}

// Close flushes pending messages and closes the connection.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishSample(models.BusPath) {}
func (NopPublisher) Close() error                 { return nil }
