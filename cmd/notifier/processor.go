package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"

	"github.com/rohithwtcrofficial/roastery-backoffice/internal/aws"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/catalog"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/config"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/customers"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/logging"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/mailer"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/metrics"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/orders"
)

// Processor decodes order-change messages and hands them to the dispatcher.
type Processor struct {
	dispatcher *mailer.Dispatcher
	log        logging.Logger
}

// NewProcessor wires the full notification pipeline from AWS clients and
// configuration.
func NewProcessor(clients *aws.AWSClients, cfg *config.Config, logger logging.Logger) *Processor {
	catalogStore := catalog.NewStore(clients.DynamoDB, cfg.ProductsTable, cfg.FeaturedTable)

	dispatcher := &mailer.Dispatcher{
		Orders:       orders.NewStore(clients.DynamoDB, cfg.OrdersTable),
		Customers:    customers.NewStore(clients.DynamoDB, cfg.CustomersTable),
		Enrich:       catalog.NewEnricher(catalogStore, cfg.PlaceholderImageURL, cfg.StoreBaseURL),
		Featured:     catalogStore,
		Channel:      mailer.NewChannel(clients.SecretsManager, cfg.MailSecretName),
		Audit:        mailer.NewAuditStore(clients.DynamoDB, cfg.NotificationLogTable),
		Metrics:      metrics.NewEmitter(clients.CloudWatch),
		TrackingBase: cfg.TrackingBaseURL,
		SupportEmail: cfg.SupportEmail,
		Log:          logger,
	}

	return &Processor{
		dispatcher: dispatcher,
		log:        logger,
	}
}

// Handle receives an SQS batch event and processes each message. An error
// here means the event itself was unusable or the order document could not
// be read; the runtime redelivers and the idempotency guard keeps the
// redelivery safe. Business outcomes never error.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			p.log.Errorw("notifier error", "error", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var ev aws.OrderChangeEvent
	if err := json.Unmarshal([]byte(rec.Body), &ev); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	p.log.Infow("received order change",
		"event_type", ev.EventType,
		"order_id", ev.OrderID,
		"before_status", ev.BeforeStatus,
		"after_status", ev.AfterStatus,
		"correlation_id", ev.CorrelationID)

	return p.dispatcher.HandleEvent(ctx, ev)
}
