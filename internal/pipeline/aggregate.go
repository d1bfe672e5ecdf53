package pipeline

import (
	"sort"
	"strings"

	"go-sales-report/internal/config"
	"go-sales-report/internal/model"

	"github.com/shopspring/decimal"
)

// monthAccumulator collects one month of one year before it becomes a report row
type monthAccumulator struct {
	month           int
	totalSales      decimal.Decimal
	totalFees       decimal.Decimal
	regionShipments int
	orders          int
	sizes           map[string]int // raw frequency of every size seen, known or not
}

// AggregateYearly groups the unified table by year, then month. Each year maps to
// its monthly rows in calendar order; years without rows never appear.
func AggregateYearly(txns []model.Transaction, cfg *config.Config) (map[int]*model.YearlySummary, error) {
	groups := make(map[int]map[int]*monthAccumulator)

	for _, txn := range txns {
		months, ok := groups[txn.Year]
		if !ok {
			months = make(map[int]*monthAccumulator)
			groups[txn.Year] = months
		}
		acc, ok := months[txn.Month]
		if !ok {
			acc = &monthAccumulator{
				month:      txn.Month,
				totalSales: decimal.Zero,
				totalFees:  decimal.Zero,
				sizes:      make(map[string]int),
			}
			months[txn.Month] = acc
		}
		acc.add(txn, cfg.Region.Tokens)
	}

	result := make(map[int]*model.YearlySummary, len(groups))
	for year, months := range groups {
		summary := &model.YearlySummary{Year: year}
		for _, acc := range months {
			row, err := acc.summary(cfg.Sizes)
			if err != nil {
				return nil, err
			}
			summary.Months = append(summary.Months, row)
		}
		sort.Slice(summary.Months, func(i, j int) bool {
			return summary.Months[i].Month < summary.Months[j].Month
		})
		result[year] = summary
	}
	return result, nil
}

func (a *monthAccumulator) add(txn model.Transaction, regionTokens []string) {
	a.orders++
	if txn.Total.Valid {
		a.totalSales = a.totalSales.Add(txn.Total.Decimal)
	}
	if txn.Fee.Valid {
		a.totalFees = a.totalFees.Add(txn.Fee.Decimal)
	}
	if MatchesRegion(txn.Region, regionTokens) {
		a.regionShipments++
	}
	if txn.Size != "" {
		a.sizes[txn.Size]++
	}
}

// summary expands the size frequencies into the fixed size columns. Sizes not
// in the list are dropped.
func (a *monthAccumulator) summary(sizes []string) (model.MonthlySummary, error) {
	name, err := MonthName(a.month)
	if err != nil {
		return model.MonthlySummary{}, err
	}

	counts := make(map[string]int, len(sizes))
	for _, size := range sizes {
		counts[size] = a.sizes[size]
	}

	return model.MonthlySummary{
		Month:           a.month,
		MonthName:       name,
		TotalSales:      a.totalSales,
		TotalFees:       a.totalFees,
		NetSales:        a.totalSales.Sub(a.totalFees),
		RegionShipments: a.regionShipments,
		SizeCounts:      counts,
		Orders:          a.orders,
	}, nil
}

// MatchesRegion reports whether the lower-cased region contains any token.
// This is a loose substring test: "Cambridge" matches "ca".
func MatchesRegion(region string, tokens []string) bool {
	region = strings.ToLower(region)
	for _, tok := range tokens {
		if tok != "" && strings.Contains(region, tok) {
			return true
		}
	}
	return false
}

// SummarizeCustomers groups the unified table by buyer. Rows without a buyer
// are skipped. The result is sorted by buyer.
func SummarizeCustomers(txns []model.Transaction) []model.CustomerSummary {
	byBuyer := make(map[string]*model.CustomerSummary)

	for _, txn := range txns {
		if txn.Buyer == "" {
			continue
		}
		c, ok := byBuyer[txn.Buyer]
		if !ok {
			c = &model.CustomerSummary{Buyer: txn.Buyer, AmountSpent: decimal.Zero}
			byBuyer[txn.Buyer] = c
		}
		c.Orders++
		if txn.Total.Valid {
			c.AmountSpent = c.AmountSpent.Add(txn.Total.Decimal)
		}
		if txn.SaleDate.After(c.LastPurchase) {
			c.LastPurchase = txn.SaleDate
		}
	}

	result := make([]model.CustomerSummary, 0, len(byBuyer))
	for _, c := range byBuyer {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Buyer < result[j].Buyer
	})
	return result
}
