package dashboard

import (
	"time"

	"costbook-backend/internal/models"

	"github.com/shopspring/decimal"
)

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

type ChartPoint struct {
	Label  string  `json:"label"` // day, week start or month start
	Cash   float64 `json:"cash"`
	Pix    float64 `json:"pix"`
	Debit  float64 `json:"debit"`
	Credit float64 `json:"credit"`
	Total  float64 `json:"total"`
}

type ChartResponse struct {
	Period      string       `json:"period"`
	From        string       `json:"from"`
	To          string       `json:"to"` // last day included
	Points      []ChartPoint `json:"points"`
	GrandTotals ChartPoint   `json:"grand_totals"`
}

// DefaultCount is the number of buckets shown when the client sends none.
func DefaultCount(period string) int {
	switch period {
	case PeriodWeekly:
		return 8
	case PeriodMonthly:
		return 12
	default:
		return 7
	}
}

// ChartWindow returns the first bucket start and the exclusive end of a
// chart with count buckets finishing at the bucket that contains now.
func ChartWindow(period string, count int, now time.Time) (time.Time, time.Time) {
	last := bucketStart(period, now)
	switch period {
	case PeriodWeekly:
		return last.AddDate(0, 0, -7*(count-1)), last.AddDate(0, 0, 7)
	case PeriodMonthly:
		return last.AddDate(0, -(count - 1), 0), last.AddDate(0, 1, 0)
	default:
		return last.AddDate(0, 0, -(count - 1)), last.AddDate(0, 0, 1)
	}
}

// bucketStart truncates t to its day, its ISO week (Monday) or its month.
func bucketStart(period string, t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch period {
	case PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return day
	}
}

func nextBucket(period string, t time.Time) time.Time {
	switch period {
	case PeriodWeekly:
		return t.AddDate(0, 0, 7)
	case PeriodMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

type bucketAgg struct {
	cash, pix, debit, credit decimal.Decimal
}

func (b bucketAgg) point(label string) ChartPoint {
	total := b.cash.Add(b.pix).Add(b.debit).Add(b.credit)
	return ChartPoint{
		Label:  label,
		Cash:   b.cash.Round(2).InexactFloat64(),
		Pix:    b.pix.Round(2).InexactFloat64(),
		Debit:  b.debit.Round(2).InexactFloat64(),
		Credit: b.credit.Round(2).InexactFloat64(),
		Total:  total.Round(2).InexactFloat64(),
	}
}

func (b *bucketAgg) add(m models.PaymentMethod, v decimal.Decimal) {
	switch m {
	case models.PaymentCash:
		b.cash = b.cash.Add(v)
	case models.PaymentPix:
		b.pix = b.pix.Add(v)
	case models.PaymentDebit:
		b.debit = b.debit.Add(v)
	case models.PaymentCredit:
		b.credit = b.credit.Add(v)
	}
}

// SalesChart splits sale totals per payment method into count buckets;
// empty buckets are reported with zeros. Sales are bucketed in now's
// location.
func SalesChart(sales []models.Sale, period string, count int, now time.Time) ChartResponse {
	switch period {
	case PeriodWeekly, PeriodMonthly:
	default:
		period = PeriodDaily
	}
	if count <= 0 {
		count = DefaultCount(period)
	}

	start, end := ChartWindow(period, count, now)
	loc := now.Location()

	buckets := make(map[time.Time]*bucketAgg, count)
	var grand bucketAgg
	for _, s := range sales {
		d := s.Date.In(loc)
		if d.Before(start) || !d.Before(end) {
			continue
		}
		key := bucketStart(period, d)
		agg, ok := buckets[key]
		if !ok {
			agg = &bucketAgg{}
			buckets[key] = agg
		}
		v := decimal.NewFromFloat(s.Total)
		agg.add(s.PaymentMethod, v)
		grand.add(s.PaymentMethod, v)
	}

	points := make([]ChartPoint, 0, count)
	for b := start; b.Before(end); b = nextBucket(period, b) {
		agg, ok := buckets[b]
		if !ok {
			agg = &bucketAgg{}
		}
		points = append(points, agg.point(b.Format("2006-01-02")))
	}

	return ChartResponse{
		Period:      period,
		From:        start.Format("2006-01-02"),
		To:          end.AddDate(0, 0, -1).Format("2006-01-02"),
		Points:      points,
		GrandTotals: grand.point("total"),
	}
}
