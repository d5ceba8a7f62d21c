// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/eventbus"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/logging"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/metrics"
)

// Ingest results for relay_messages_ingested_total.
const (
	ResultDispatched = "dispatched"
	ResultInvalid    = "invalid"
)

// Dispatcher is satisfied by *eventbus.Bus.
type Dispatcher interface {
	Dispatch(p *eventbus.Publication) error
}

// Ingest feeds publications from a NATS subject into the bus.
//
// Delivery is at-most-once: every message is acked, including ones that fail
// validation, which are logged and counted instead of redelivered.
type Ingest struct {
	sub     message.Subscriber
	d       Dispatcher
	subject string
	log     zerolog.Logger
}

// NewIngest consumes subject from sub.
func NewIngest(sub message.Subscriber, d Dispatcher, subject string) *Ingest {
	return &Ingest{
		sub:     sub,
		d:       d,
		subject: subject,
		log:     logging.WithComponent("relay-ingest").With().Str("subject", subject).Logger(),
	}
}

// Run processes messages until ctx is done or the subscription closes.
func (in *Ingest) Run(ctx context.Context) error {
	msgs, err := in.sub.Subscribe(ctx, in.subject)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", in.subject, err)
	}
	in.log.Info().Msg("ingest started")

	for {
		select {
		case <-ctx.Done():
			in.log.Info().Msg("ingest stopped")
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("ingest subscription closed")
			}
			in.handle(msg)
			msg.Ack()
		}
	}
}

func (in *Ingest) handle(msg *message.Message) {
	p, err := eventbus.DecodePublication(msg.Payload)
	if err == nil {
		err = in.d.Dispatch(p)
	}
	if err != nil {
		metrics.RecordRelayIngest(ResultInvalid)
		in.log.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("rejected ingested publication")
		return
	}
	metrics.RecordRelayIngest(ResultDispatched)
	in.log.Debug().Str("kind", p.Kind).Str("message_uuid", msg.UUID).Msg("publication dispatched")
}
