package listener

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/fekuna/accountbook-service/internal/finance"
	invuc "github.com/fekuna/accountbook-service/internal/inventory/usecase"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/broker"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/sale/dto"
	saleuc "github.com/fekuna/accountbook-service/internal/sale/usecase"
	"github.com/fekuna/accountbook-service/internal/store/memory"
)

const owner = "owner-1"

// scriptedReader hands out queued messages, then cancels the listener.
type scriptedReader struct {
	messages [][]byte
	cancel   context.CancelFunc
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (broker.Message, error) {
	if len(r.messages) == 0 {
		r.cancel()
		<-ctx.Done()
		return broker.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return broker.Message{Value: msg}, nil
}

func orderEvent(t *testing.T, eventType string, items ...OrderItemPayload) []byte {
	t.Helper()
	data, err := json.Marshal(OrderCreatedEvent{
		EventID:   "evt-1",
		EventType: eventType,
		Timestamp: time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC),
		Payload: OrderPayload{
			OrderID:  "MEE-100",
			OwnerID:  owner,
			Platform: "Meesho",
			Items:    items,
		},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func TestOrderListener_BooksEachLineOnce(t *testing.T) {
	store := memory.NewStore()
	log := logger.NewNop()
	stock := memory.NewInventoryRepository(store)
	sales := memory.NewSaleRepository(store)
	ledger := invuc.NewInventoryUseCase(stock, store, cache.NopLocker(), broker.NopPublisher(), log)
	uc := saleuc.NewSaleUseCase(sales, ledger, finance.NewFYCalendar(4), cache.NopStore(), log)

	now := time.Now()
	p := &model.Product{
		BaseModel: model.BaseModel{ID: "gown-id", CreatedAt: now, UpdatedAt: now},
		OwnerID:   owner, Name: "Gown-A", NameKey: model.NameKey("Gown-A"), OpeningStock: 10,
	}
	p.SetLedger(10)
	if err := stock.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	event := orderEvent(t, "OrderCreated",
		OrderItemPayload{ProductName: "Gown-A", Quantity: 2, UnitPrice: 500, GSTPercentage: 5},
		OrderItemPayload{ProductName: "gown-a", Quantity: 1, UnitPrice: 500, GSTPercentage: 5},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &scriptedReader{
		messages: [][]byte{
			event,
			[]byte("{not json"),
			orderEvent(t, "OrderCancelled", OrderItemPayload{ProductName: "Gown-A", Quantity: 5}),
			event, // redelivery
		},
		cancel: cancel,
	}

	done := make(chan struct{})
	go func() {
		NewOrderListener(reader, uc, log).Start(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop")
	}

	items, count, err := sales.FindAll(context.Background(), &dto.SaleFilters{OwnerID: owner})
	if err != nil || count != 2 {
		t.Fatalf("sales = %d, %v; want 2", count, err)
	}
	var ids []string
	for _, s := range items {
		ids = append(ids, *s.OrderID)
		if s.Platform != "Meesho" || s.Date.Day() != 3 {
			t.Fatalf("sale = %+v", s)
		}
	}
	sort.Strings(ids)
	if ids[0] != "MEE-100-1" || ids[1] != "MEE-100-2" {
		t.Fatalf("order ids = %v", ids)
	}

	got, _ := stock.FindProductByID(context.Background(), owner, "gown-id")
	if got.CurrentStock != 7 {
		t.Fatalf("stock = %d, want 7", got.CurrentStock)
	}
}
