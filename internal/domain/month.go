package domain

import (
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/lead-enrichment-api/pkg/utils"
)

// Month representa um mês do calendário (granularidade da API)
type Month struct {
	Year  int
	Month time.Month
}

func ParseMonth(value string) (Month, error) {
	date, err := utils.ParseYearMonth(value)
	if err != nil {
		return Month{}, errors.Wrap(ErrInvalidInput, err.Error())
	}

	return MonthOf(date), nil
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String retorna o mês no formato YYYY-MM
func (m Month) String() string {
	return m.Time().Format(utils.YearMonthLayout)
}

// FirstDay retorna o primeiro dia do mês (YYYY-MM-DD), formato esperado pela Similarweb
func (m Month) FirstDay() string {
	return m.Time().Format(time.DateOnly)
}

func (m Month) AddMonths(n int) Month {
	return MonthOf(m.Time().AddDate(0, n, 0))
}

func (m Month) Before(other Month) bool {
	return m.Time().Before(other.Time())
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// DateRange é o intervalo de meses solicitado, inclusivo nas duas pontas
type DateRange struct {
	Start Month `json:"start"`
	End   Month `json:"end"`
}

func NewDateRange(start, end string) (DateRange, error) {
	startMonth, err := ParseMonth(start)
	if err != nil {
		return DateRange{}, errors.Wrap(err, "start_date")
	}

	endMonth, err := ParseMonth(end)
	if err != nil {
		return DateRange{}, errors.Wrap(err, "end_date")
	}

	if endMonth.Before(startMonth) {
		return DateRange{}, errors.Wrapf(ErrInvalidInput, "end_date %s is before start_date %s", endMonth, startMonth)
	}

	return DateRange{Start: startMonth, End: endMonth}, nil
}

// DefaultDateRange vai de 4 a 2 meses atrás. O mês anterior ao corrente
// ainda não tem dados consolidados na Similarweb.
func DefaultDateRange(now time.Time) DateRange {
	current := MonthOf(now)
	return DateRange{
		Start: current.AddMonths(-4),
		End:   current.AddMonths(-2),
	}
}

// Months lista todos os meses do intervalo em ordem crescente
func (r DateRange) Months() []Month {
	months := make([]Month, 0, r.Len())
	for m := r.Start; !r.End.Before(m); m = m.AddMonths(1) {
		months = append(months, m)
	}
	return months
}

func (r DateRange) Len() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return (r.End.Year-r.Start.Year)*12 + int(r.End.Month-r.Start.Month) + 1
}
