package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse(DateLayout, dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// ParseRequiredDate exige uma data no formato YYYY-MM-DD
func ParseRequiredDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("data obrigatória no formato %s", DateLayout)
	}

	date, err := ParseDate(dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("data inválida %q: %w", dateStr, err)
	}

	return *date, nil
}

// Yesterday retorna T-1 em relação a now, no fuso de loc, como data UTC
func Yesterday(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := now.In(loc).AddDate(0, 0, -1).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween conta os dias de calendário no intervalo fechado [start, end]
func DaysBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// DateRange lista as datas do intervalo fechado [start, end] em ordem crescente
func DateRange(start, end time.Time) []time.Time {
	dates := make([]time.Time, 0, DaysBetween(start, end))
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
