package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/broker"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/sale"
	"github.com/fekuna/accountbook-service/internal/sale/dto"
	"go.uber.org/zap"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (broker.Message, error)
}

// OrderListener records marketplace orders pushed on the orders topic as sales.
type OrderListener struct {
	consumer MessageReader
	uc       sale.UseCase
	logger   logger.ZapLogger
}

func NewOrderListener(consumer MessageReader, uc sale.UseCase, logger logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting marketplace order listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping marketplace order listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	OrderID       string             `json:"order_id"`
	OwnerID       string             `json:"owner_id"`
	Platform      string             `json:"platform"`
	InvoiceNumber string             `json:"invoice_number"`
	CustomerName  string             `json:"customer_name"`
	OrderedAt     time.Time          `json:"ordered_at"`
	Items         []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductName    string  `json:"product_name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	GSTPercentage  float64 `json:"gst_percentage"`
	GSTInclusive   bool    `json:"gst_inclusive"`
	AmountReceived float64 `json:"amount_received"`
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCreated" {
		return
	}

	p := event.Payload
	if p.OwnerID == "" || p.OrderID == "" {
		l.logger.Warn("Skipping order without owner or order id", zap.String("event_id", event.EventID))
		return
	}
	l.logger.Info("Processing OrderCreated event", zap.String("order_id", p.OrderID))

	date := p.OrderedAt
	if date.IsZero() {
		date = event.Timestamp
	}
	y, m, d := date.Date()

	for i, item := range p.Items {
		// order_id is unique per owner, so multi-item orders get a line suffix.
		orderID := p.OrderID
		if len(p.Items) > 1 {
			orderID = fmt.Sprintf("%s-%d", p.OrderID, i+1)
		}

		result, err := l.uc.CreateSale(ctx, &dto.SaleInput{
			OwnerID:        p.OwnerID,
			Date:           time.Date(y, m, d, 0, 0, 0, 0, time.Local),
			InvoiceNumber:  p.InvoiceNumber,
			OrderID:        orderID,
			CustomerName:   p.CustomerName,
			Platform:       p.Platform,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			GSTPercentage:  item.GSTPercentage,
			GSTInclusive:   item.GSTInclusive,
			AmountReceived: item.AmountReceived,
		})
		switch {
		case errors.Is(err, apperr.ErrConflict):
			// Redelivered event; the sale is already booked.
			l.logger.Debug("Order line already recorded", zap.String("order_id", orderID))
		case err != nil:
			l.logger.Error("Failed to record sale for order line",
				zap.String("order_id", orderID),
				zap.String("product_name", item.ProductName),
				zap.Error(err),
			)
		case len(result.Warnings) > 0:
			l.logger.Warn("Order line recorded with warnings",
				zap.String("order_id", orderID),
				zap.Strings("warnings", result.Warnings),
			)
		}
	}
}
