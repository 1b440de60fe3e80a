package reviews

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/stayhost/reviews-dashboard/internal/models"
)

type runningMean struct {
	sum decimal.Decimal
	n   int
}

func (m *runningMean) add(v *float64) {
	if v == nil {
		return
	}
	m.sum = m.sum.Add(decimal.NewFromFloat(*v))
	m.n++
}

// value is the mean rounded to 2 places, or nil with no samples
func (m runningMean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum.Div(decimal.NewFromInt(int64(m.n))).Round(2).InexactFloat64()
	return &v
}

type monthBucket struct {
	count  int
	rating runningMean
}

// ComputeAggregates summarizes items. Callers pass the filtered collection
// before pagination.
func ComputeAggregates(items []models.Review) models.Aggregates {
	agg := models.Aggregates{
		AvgByCategory: models.CategoryAverages{},
		Counts: models.Counts{
			Total:     len(items),
			ByChannel: map[string]int{},
			ByType:    map[string]int{},
		},
		TimeSeriesMonthly: []models.MonthlyPoint{},
	}
	if len(items) == 0 {
		return agg
	}

	var overall runningMean
	categories := map[string]*runningMean{}
	months := map[string]*monthBucket{}

	for _, r := range items {
		agg.Counts.ByChannel[string(r.Channel)]++
		agg.Counts.ByType[string(r.Type)]++
		overall.add(r.OverallRating)

		for _, c := range r.Categories {
			if c.Rating == nil {
				continue
			}
			m, ok := categories[c.Category]
			if !ok {
				m = &runningMean{}
				categories[c.Category] = m
			}
			m.add(c.Rating)
		}

		key := MonthKey(r.SubmittedAt)
		b, ok := months[key]
		if !ok {
			b = &monthBucket{}
			months[key] = b
		}
		b.count++
		b.rating.add(r.OverallRating)
	}

	agg.AvgOverallRating = overall.value()
	for name, m := range categories {
		agg.AvgByCategory[name] = *m.value()
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b := months[k]
		agg.TimeSeriesMonthly = append(agg.TimeSeriesMonthly, models.MonthlyPoint{
			Month:     k,
			Count:     b.count,
			AvgRating: b.rating.value(),
		})
	}
	return agg
}

// MonthKey buckets a normalized timestamp by UTC year-month
func MonthKey(timestamp string) string {
	return submittedTime(models.Review{SubmittedAt: timestamp}).UTC().Format("2006-01")
}
