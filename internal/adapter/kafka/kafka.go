// Package kafka publishes storefront events with franz-go and keeps the
// order history table with goka.
package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/lovoo/goka"
	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

// ProducerClientOpt connects a client producing to topic and checks that
// the brokers answer.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, tlsConfig *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kopts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		}
		if tlsConfig != nil {
			kopts = append(kopts, kgo.DialTLSConfig(tlsConfig))
		}

		cl, err := kgo.NewClient(kopts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerRawClientOpt uses an already configured client.
func ProducerRawClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

// UseTLS makes every goka processor and view created afterwards dial
// the brokers over TLS.
func UseTLS(tlsConfig *tls.Config) {
	if tlsConfig == nil {
		return
	}
	cfg := goka.DefaultConfig()
	cfg.Net.TLS.Enable = true
	cfg.Net.TLS.Config = tlsConfig
	goka.ReplaceGlobalConfig(cfg)
}

func withNonlogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func withNonlogViewOpt() goka.ViewOption {
	return goka.WithViewLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func orderToSchemaV1(v domain.Order) (s schema.OrderV1) {
	s.OrderID = v.ID
	s.CustomerID = v.CustomerID
	s.Total = v.Total
	s.Currency = domain.Currency
	s.Status = v.Status
	s.PlacedAt = v.PlacedAt.UTC()

	s.Items = make([]schema.OrderItemV1, len(v.Items))
	for i, it := range v.Items {
		s.Items[i] = schema.OrderItemV1{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}
	return
}

func orderFromSchemaV1(s schema.OrderV1) (v domain.Order) {
	v.ID = s.OrderID
	v.CustomerID = s.CustomerID
	v.Total = s.Total
	v.Status = s.Status
	v.PlacedAt = s.PlacedAt.UTC()

	v.Items = make([]domain.OrderItem, len(s.Items))
	for i, it := range s.Items {
		v.Items[i] = domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}
	return
}

func settingsToSchemaV1(v domain.SiteSettings) schema.SiteSettingsV1 {
	return schema.SiteSettingsV1{
		CompanyName:  v.CompanyName,
		Phone:        v.Phone,
		Email:        v.Email,
		Address:      v.Address,
		HeroTitle:    v.HeroTitle,
		HeroSubtitle: v.HeroSubtitle,
	}
}
