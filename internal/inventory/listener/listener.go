package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/engrosnet/catalog-service/internal/inventory"
	"github.com/engrosnet/catalog-service/internal/inventory/dto"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ReceiptListener consumes goods-received events published by the external
// receiving process and applies them to the inventory ledger. This is the
// only write path into inventory from this service.
type ReceiptListener struct {
	reader *kafka.Reader
	uc     inventory.UseCase
	logger *zap.Logger
}

func NewReceiptListener(reader *kafka.Reader, uc inventory.UseCase, logger *zap.Logger) *ReceiptListener {
	return &ReceiptListener{
		reader: reader,
		uc:     uc,
		logger: logger,
	}
}

func (l *ReceiptListener) Start(ctx context.Context) {
	l.logger.Info("starting goods receipt listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping goods receipt listener")
			return
		default:
			msg, err := l.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type GoodsReceivedEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Payload   ReceiptPayload `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type ReceiptPayload struct {
	ProductID      string     `json:"product_id"`
	WarehouseID    string     `json:"warehouse_id"`
	Quantity       int        `json:"quantity"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

func (l *ReceiptListener) processMessage(ctx context.Context, value []byte) {
	var event GoodsReceivedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "GoodsReceived" {
		return
	}

	input := &dto.ReceiptInput{
		ProductID:      event.Payload.ProductID,
		WarehouseID:    event.Payload.WarehouseID,
		Quantity:       event.Payload.Quantity,
		ExpirationDate: event.Payload.ExpirationDate,
	}

	if _, err := l.uc.ApplyReceipt(ctx, input); err != nil {
		l.logger.Error("failed to apply goods receipt",
			zap.String("event_id", event.EventID),
			zap.String("product_id", event.Payload.ProductID),
			zap.Error(err),
		)
	}
}
