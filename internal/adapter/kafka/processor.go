package kafka

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/hamba/avro/v2"
	"github.com/lovoo/goka"
	"github.com/niksmo/local-market/internal/core/port"
	"github.com/niksmo/local-market/pkg/schema"
)

var _ port.OrderHistoryProcessor = (*OrderHistoryProcessor)(nil)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// An orderEventCodec used for serde [schema.OrderV1]
type orderEventCodec struct {
	serde Serde
}

func newOrderEventCodec(s Serde) orderEventCodec {
	return orderEventCodec{s}
}

func (c orderEventCodec) Encode(v any) ([]byte, error) {
	const op = "orderEventCodec.Encode"
	if _, ok := v.(schema.OrderV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c orderEventCodec) Decode(data []byte) (any, error) {
	const op = "orderEventCodec.Decode"
	var s schema.OrderV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// An orderHistoryCodec used for serde [schema.OrderHistoryV1] table
// values. Table values are plain Avro without a registry header.
type orderHistoryCodec struct {
	avroSchema avro.Schema
}

func newOrderHistoryCodec() orderHistoryCodec {
	return orderHistoryCodec{schema.OrderHistoryV1Avro()}
}

func (c orderHistoryCodec) Encode(v any) ([]byte, error) {
	const op = "orderHistoryCodec.Encode"
	h, ok := v.(schema.OrderHistoryV1)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	data, err := avro.Marshal(c.avroSchema, h)
	if err != nil {
		return nil, opErr(err, op)
	}
	return data, nil
}

func (c orderHistoryCodec) Decode(data []byte) (any, error) {
	const op = "orderHistoryCodec.Decode"
	var h schema.OrderHistoryV1
	if err := avro.Unmarshal(c.avroSchema, data, &h); err != nil {
		return nil, opErr(err, op)
	}
	return h, nil
}

// An OrderHistoryProcessor folds the orders stream into a group table
// holding every customer's orders.
type OrderHistoryProcessor struct {
	opPrefix string
	proc     processor
}

func NewOrderHistoryProc(
	seedBrokers []string,
	inputStream string,
	group string,
	orderSerde Serde,
) (*OrderHistoryProcessor, error) {
	const op = "NewOrderHistoryProc"

	p := OrderHistoryProcessor{opPrefix: "OrderHistoryProcessor"}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputStream),
			newOrderEventCodec(orderSerde),
			p.processFn,
		),
		goka.Persist(newOrderHistoryCodec()),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}

	return &p, nil
}

func (p *OrderHistoryProcessor) Run(ctx context.Context, stopFn context.CancelFunc) {
	p.proc.run(ctx, stopFn)
}

func (p *OrderHistoryProcessor) Close() {
	p.proc.close()
}

func (p *OrderHistoryProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"
	log := slog.With("op", makeOp(p.opPrefix, op), "customerID", ctx.Key())

	order, ok := msg.(schema.OrderV1)
	if !ok {
		log.Error("unexpected message", "err", ErrInvalidValueType)
		return
	}

	history, _ := ctx.Value().(schema.OrderHistoryV1)
	history, added := appendOrder(history, order)
	if !added {
		log.Warn("duplicate order skipped", "orderID", order.OrderID)
		return
	}
	ctx.SetValue(history)
	log.Info("order added to history",
		"orderID", order.OrderID, "orders", len(history.Orders),
	)
}

// appendOrder adds order to h unless an order with the same id is already
// there. Redelivered records are therefore harmless.
func appendOrder(h schema.OrderHistoryV1, order schema.OrderV1) (schema.OrderHistoryV1, bool) {
	exists := slices.ContainsFunc(h.Orders, func(o schema.OrderV1) bool {
		return o.OrderID == order.OrderID
	})
	if exists {
		return h, false
	}
	h.Orders = append(slices.Clip(h.Orders), order)
	return h, true
}
