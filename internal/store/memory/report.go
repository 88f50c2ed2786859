package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/report/dto"
)

// ReportRepository aggregates the in-memory books the same way the SQL
// report queries do.
type ReportRepository struct {
	s *Store
}

func NewReportRepository(s *Store) *ReportRepository {
	return &ReportRepository{s: s}
}

func inScope(ownerID string, date time.Time, scope dto.Scope) bool {
	return ownerID == scope.OwnerID && inRange(date, scope.From, scope.To)
}

func (r *ReportRepository) Totals(ctx context.Context, scope dto.Scope) (*dto.Totals, error) {
	var t dto.Totals
	var salesAmount, salesTotal, salesProfit, purAmount, purTotal, expenses, retTotal, retLoss []float64
	r.s.read(func(d *dataset) {
		for _, s := range d.sales {
			if !inScope(s.OwnerID, s.Date, scope) {
				continue
			}
			t.SalesCount++
			salesAmount = append(salesAmount, s.Amount)
			salesTotal = append(salesTotal, s.TotalAmount)
			salesProfit = append(salesProfit, s.ProfitAmount)
		}
		for _, p := range d.purchases {
			if inScope(p.OwnerID, p.Date, scope) {
				purAmount = append(purAmount, p.Amount)
				purTotal = append(purTotal, p.TotalAmount)
			}
		}
		for _, e := range d.expenses {
			if inScope(e.OwnerID, e.Date, scope) {
				expenses = append(expenses, e.Amount)
			}
		}
		for _, ret := range d.returns {
			if inScope(ret.OwnerID, ret.Date, scope) {
				retTotal = append(retTotal, ret.TotalAmount)
				retLoss = append(retLoss, ret.NetLoss)
			}
		}
	})
	t.SalesAmount = finance.Sum(salesAmount...)
	t.SalesTotal = finance.Sum(salesTotal...)
	t.SalesProfit = finance.Sum(salesProfit...)
	t.PurchasesAmount = finance.Sum(purAmount...)
	t.PurchasesTotal = finance.Sum(purTotal...)
	t.ExpensesTotal = finance.Sum(expenses...)
	t.ReturnsTotal = finance.Sum(retTotal...)
	t.ReturnsNetLoss = finance.Sum(retLoss...)
	return &t, nil
}

func (r *ReportRepository) PlatformSales(ctx context.Context, scope dto.Scope) ([]dto.PlatformTotal, error) {
	byPlatform := map[string][]float64{}
	r.s.read(func(d *dataset) {
		for _, s := range d.sales {
			if !inScope(s.OwnerID, s.Date, scope) {
				continue
			}
			platform := s.Platform
			if platform == "" {
				platform = "Offline"
			}
			byPlatform[platform] = append(byPlatform[platform], s.Amount)
		}
	})
	items := make([]dto.PlatformTotal, 0, len(byPlatform))
	for platform, amounts := range byPlatform {
		items = append(items, dto.PlatformTotal{Platform: platform, Amount: finance.Sum(amounts...)})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Amount != items[j].Amount {
			return items[i].Amount > items[j].Amount
		}
		return items[i].Platform < items[j].Platform
	})
	return items, nil
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func bucket(amounts map[time.Time][]float64) []dto.MonthlyAmount {
	items := make([]dto.MonthlyAmount, 0, len(amounts))
	for month, values := range amounts {
		items = append(items, dto.MonthlyAmount{Month: month, Amount: finance.Sum(values...)})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Month.Before(items[j].Month) })
	return items
}

func (r *ReportRepository) MonthlySales(ctx context.Context, scope dto.Scope) ([]dto.MonthlyAmount, error) {
	amounts := map[time.Time][]float64{}
	r.s.read(func(d *dataset) {
		for _, s := range d.sales {
			if inScope(s.OwnerID, s.Date, scope) {
				amounts[monthOf(s.Date)] = append(amounts[monthOf(s.Date)], s.Amount)
			}
		}
	})
	return bucket(amounts), nil
}

func (r *ReportRepository) MonthlyPurchases(ctx context.Context, scope dto.Scope) ([]dto.MonthlyAmount, error) {
	amounts := map[time.Time][]float64{}
	r.s.read(func(d *dataset) {
		for _, p := range d.purchases {
			if inScope(p.OwnerID, p.Date, scope) {
				amounts[monthOf(p.Date)] = append(amounts[monthOf(p.Date)], p.Amount)
			}
		}
	})
	return bucket(amounts), nil
}
