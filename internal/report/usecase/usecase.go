package usecase

import (
	"context"
	"time"

	"github.com/fekuna/accountbook-service/internal/asset"
	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/report"
	"github.com/fekuna/accountbook-service/internal/report/dto"
	"go.uber.org/zap"
)

const monthLabel = "Jan 2006"

type reportUseCase struct {
	repo     report.Repository
	assets   asset.UseCase
	calendar finance.FYCalendar
	cache    cache.Store
	ttl      time.Duration
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewReportUseCase(repo report.Repository, assets asset.UseCase, calendar finance.FYCalendar, store cache.Store, ttl time.Duration, log logger.ZapLogger) report.UseCase {
	return &reportUseCase{
		repo:     repo,
		assets:   assets,
		calendar: calendar,
		cache:    store,
		ttl:      ttl,
		logger:   log,
		now:      time.Now,
	}
}

// period is a resolved report window. fy is nil for "all".
type period struct {
	label string
	fy    *finance.FinancialYear
}

func (uc *reportUseCase) resolve(label string) (period, error) {
	switch label {
	case "":
		fy := uc.calendar.Current(uc.now())
		return period{label: fy.Label, fy: &fy}, nil
	case finance.FilterAll:
		return period{label: finance.FilterAll}, nil
	}
	fy, err := uc.calendar.Parse(label)
	if err != nil {
		return period{}, err
	}
	return period{label: fy.Label, fy: &fy}, nil
}

func (p period) scope(ownerID string) dto.Scope {
	s := dto.Scope{OwnerID: ownerID}
	if p.fy != nil {
		r := finance.FromFY(*p.fy)
		s.From, s.To = r.From, r.To
	}
	return s
}

// asOf is the valuation date: the end of the year, or today while it runs.
func (p period) asOf(now time.Time) time.Time {
	if p.fy != nil && p.fy.End.Before(now) {
		return p.fy.End
	}
	return now
}

// cached serves dest from the report cache, or fills it with build and
// stores it. Cache failures only cost a rebuild.
func (uc *reportUseCase) cached(ctx context.Context, ownerID, name, variant string, dest interface{}, build func() error) error {
	key := cache.ReportKey(ownerID, name, variant)
	hit, err := uc.cache.GetJSON(ctx, key, dest)
	if err != nil {
		uc.logger.Warn("failed to read report cache", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return nil
	}

	if err := build(); err != nil {
		return err
	}
	if err := uc.cache.SetJSON(ctx, key, dest, uc.ttl); err != nil {
		uc.logger.Warn("failed to write report cache", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (uc *reportUseCase) Dashboard(ctx context.Context, ownerID, fy string) (*dto.Dashboard, error) {
	p, err := uc.resolve(fy)
	if err != nil {
		return nil, err
	}

	d := &dto.Dashboard{}
	err = uc.cached(ctx, ownerID, "dashboard", p.label, d, func() error {
		return uc.buildDashboard(ctx, ownerID, p, d)
	})
	if err != nil {
		uc.logger.Error("failed to build dashboard", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return d, nil
}

func (uc *reportUseCase) buildDashboard(ctx context.Context, ownerID string, p period, d *dto.Dashboard) error {
	scope := p.scope(ownerID)
	now := uc.now()

	totals, err := uc.repo.Totals(ctx, scope)
	if err != nil {
		return err
	}
	platforms, err := uc.repo.PlatformSales(ctx, scope)
	if err != nil {
		return err
	}
	sales, err := uc.repo.MonthlySales(ctx, scope)
	if err != nil {
		return err
	}
	purchases, err := uc.repo.MonthlyPurchases(ctx, scope)
	if err != nil {
		return err
	}
	valuation, err := uc.assets.Valuation(ctx, ownerID, p.asOf(now))
	if err != nil {
		return err
	}

	d.FinancialYear = p.label
	d.TotalSales = finance.Round2(totals.SalesAmount)
	d.TotalPurchases = finance.Round2(totals.PurchasesAmount)
	d.TotalExpenses = finance.Round2(totals.ExpensesTotal)
	d.NetProfit = finance.Round2(totals.SalesAmount - totals.PurchasesAmount - totals.ExpensesTotal)
	d.SalesProfit = finance.Round2(totals.SalesProfit)
	d.ReturnsNetLoss = finance.Round2(totals.ReturnsNetLoss)
	d.AssetsValue = valuation.TotalCurrentValue
	d.PlatformSales = platforms
	if d.PlatformSales == nil {
		d.PlatformSales = []dto.PlatformTotal{}
	}
	d.Monthly = series(months(p, now), sales, purchases)
	return nil
}

// months lists the first day of each month the dashboard charts: the year so
// far, or the trailing twelve months for "all".
func months(p period, now time.Time) []time.Time {
	if p.fy == nil {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		out := make([]time.Time, 12)
		for i := range out {
			out[i] = first.AddDate(0, i-11, 0)
		}
		return out
	}

	all := p.fy.Months()
	if now.Before(p.fy.Start) || now.After(p.fy.End) {
		return all
	}
	var out []time.Time
	for _, m := range all {
		if m.After(now) {
			break
		}
		out = append(out, m)
	}
	return out
}

func series(months []time.Time, sales, purchases []dto.MonthlyAmount) []dto.MonthlyPoint {
	byMonth := func(rows []dto.MonthlyAmount) map[string]float64 {
		m := make(map[string]float64, len(rows))
		for _, r := range rows {
			m[r.Month.Format("2006-01")] += r.Amount
		}
		return m
	}
	s, p := byMonth(sales), byMonth(purchases)

	points := make([]dto.MonthlyPoint, 0, len(months))
	for _, m := range months {
		key := m.Format("2006-01")
		points = append(points, dto.MonthlyPoint{
			Month:     m.Format(monthLabel),
			Sales:     finance.Round2(s[key]),
			Purchases: finance.Round2(p[key]),
			Profit:    finance.Round2(s[key] - p[key]),
		})
	}
	return points
}

func (uc *reportUseCase) ProfitAndLoss(ctx context.Context, ownerID, fy string) (*dto.ProfitAndLoss, error) {
	p, err := uc.resolve(fy)
	if err != nil {
		return nil, err
	}

	pl := &dto.ProfitAndLoss{}
	err = uc.cached(ctx, ownerID, "profit-loss", p.label, pl, func() error {
		return uc.buildProfitAndLoss(ctx, ownerID, p, pl)
	})
	if err != nil {
		uc.logger.Error("failed to build profit and loss", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return pl, nil
}

// buildProfitAndLoss works on GST-inclusive totals.
func (uc *reportUseCase) buildProfitAndLoss(ctx context.Context, ownerID string, p period, pl *dto.ProfitAndLoss) error {
	totals, err := uc.repo.Totals(ctx, p.scope(ownerID))
	if err != nil {
		return err
	}

	pl.FinancialYear = p.label
	if p.fy != nil {
		pl.From, pl.To = p.fy.Start, p.fy.End
	}
	pl.TotalSales = finance.Round2(totals.SalesTotal)
	pl.TotalPurchases = finance.Round2(totals.PurchasesTotal)
	pl.GrossProfit = finance.Round2(totals.SalesTotal - totals.PurchasesTotal)
	pl.TotalExpenses = finance.Round2(totals.ExpensesTotal)
	pl.NetProfit = finance.Round2(totals.SalesTotal - totals.PurchasesTotal - totals.ExpensesTotal)
	return nil
}

func (uc *reportUseCase) BalanceSheet(ctx context.Context, ownerID, fy string) (*dto.BalanceSheet, error) {
	p, err := uc.resolve(fy)
	if err != nil {
		return nil, err
	}

	bs := &dto.BalanceSheet{}
	err = uc.cached(ctx, ownerID, "balance-sheet", p.label, bs, func() error {
		pl := &dto.ProfitAndLoss{}
		if err := uc.buildProfitAndLoss(ctx, ownerID, p, pl); err != nil {
			return err
		}
		asOf := p.asOf(uc.now())
		valuation, err := uc.assets.Valuation(ctx, ownerID, asOf)
		if err != nil {
			return err
		}

		bs.FinancialYear = p.label
		bs.AsOf = asOf
		bs.AssetsValue = valuation.TotalCurrentValue
		bs.AssetsCost = valuation.TotalPurchaseValue
		bs.Depreciation = valuation.TotalAccumulated
		bs.Capital = pl.NetProfit
		return nil
	})
	if err != nil {
		uc.logger.Error("failed to build balance sheet", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return bs, nil
}

func (uc *reportUseCase) ExportProfitAndLoss(ctx context.Context, ownerID, fy string) ([]byte, string, error) {
	pl, err := uc.ProfitAndLoss(ctx, ownerID, fy)
	if err != nil {
		return nil, "", err
	}
	bs, err := uc.BalanceSheet(ctx, ownerID, fy)
	if err != nil {
		return nil, "", err
	}

	data, err := renderWorkbook(pl, bs, uc.now())
	if err != nil {
		uc.logger.Error("failed to render report workbook", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, "", err
	}
	return data, "profit-loss-" + pl.FinancialYear + ".xlsx", nil
}
