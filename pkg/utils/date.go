package utils

import (
	"fmt"
	"regexp"
	"time"
)

// YearMonthLayout é o formato aceito para os períodos (YYYY-MM)
const YearMonthLayout = "2006-01"

var yearMonthRegexp = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ParseYearMonth converte uma string YYYY-MM no primeiro dia do mês (UTC)
func ParseYearMonth(value string) (time.Time, error) {
	if !yearMonthRegexp.MatchString(value) {
		return time.Time{}, fmt.Errorf("invalid month %q: expected YYYY-MM", value)
	}

	date, err := time.Parse(YearMonthLayout, value)
	if err != nil {
		return time.Time{}, err
	}

	return date, nil
}
