package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	_ port.OrderRecorder     = OrdersProducer{}
	_ port.SettingsPublisher = SettingsProducer{}
)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func newProducer(opPrefix string, opts []ProducerOpt) (producer, Encoder, error) {
	const op = "newProducer"

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return producer{}, nil, opErr(err, opPrefix, op)
		}
	}

	if options.cl == nil || options.encoder == nil {
		panic(opErr(ErrTooFewOpts, opPrefix, op)) // develop mistake
	}

	return producer{opPrefix: opPrefix, cl: options.cl}, options.encoder, nil
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// An OrdersProducer records placed orders on the orders topic, keyed by
// customer.
type OrdersProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewOrdersProducer(opts ...ProducerOpt) (OrdersProducer, error) {
	const opPrefix = "OrdersProducer"

	p, encoder, err := newProducer(opPrefix, opts)
	if err != nil {
		return OrdersProducer{}, err
	}
	return OrdersProducer{producer: p, encoder: encoder, opPrefix: opPrefix}, nil
}

func (p OrdersProducer) Close() {
	p.producer.close()
}

func (p OrdersProducer) RecordOrder(ctx context.Context, v domain.Order) error {
	const op = "RecordOrder"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	b, err := p.encoder.Encode(orderToSchemaV1(v))
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r := &kgo.Record{Key: []byte(v.CustomerID), Value: b}
	if err := p.producer.produce(ctx, r); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// A SettingsProducer broadcasts saved site settings without waiting for
// the broker.
type SettingsProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewSettingsProducer(opts ...ProducerOpt) (SettingsProducer, error) {
	const opPrefix = "SettingsProducer"

	p, encoder, err := newProducer(opPrefix, opts)
	if err != nil {
		return SettingsProducer{}, err
	}
	return SettingsProducer{producer: p, encoder: encoder, opPrefix: opPrefix}, nil
}

func (p SettingsProducer) Close() {
	p.producer.close()
}

func (p SettingsProducer) PublishSettings(ctx context.Context, v domain.SiteSettings) {
	const op = "PublishSettings"
	log := slog.With("op", makeOp(p.opPrefix, op))

	b, err := p.encoder.Encode(settingsToSchemaV1(v))
	if err != nil {
		log.Error("failed to encode settings", "err", err)
		return
	}

	r := &kgo.Record{Key: []byte("siteSettings"), Value: b}
	p.producer.cl.Produce(ctx, r, func(r *kgo.Record, err error) {
		if err != nil {
			log.Error("failed to publish settings", "err", err)
			return
		}
		log.Debug("settings published", "partition", r.Partition, "offset", r.Offset)
	})
}
