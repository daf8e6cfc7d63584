package domain

import "time"

// LookbackDays é o período de dados de origem lido em cada execução
const LookbackDays = 60

// TimeWindow representa uma das janelas fixas de agregação
type TimeWindow struct {
	Code string `json:"code"`
	Days int    `json:"days"`
}

var (
	Window1Day   = TimeWindow{Code: "1d", Days: 1}
	Window3Days  = TimeWindow{Code: "3d", Days: 3}
	Window7Days  = TimeWindow{Code: "7d", Days: 7}
	Window30Days = TimeWindow{Code: "30d", Days: 30}
)

// TimeWindows retorna as janelas em ordem crescente de tamanho
func TimeWindows() []TimeWindow {
	return []TimeWindow{Window1Day, Window3Days, Window7Days, Window30Days}
}

// WindowByCode busca a janela pelo código estável
func WindowByCode(code string) (TimeWindow, bool) {
	for _, w := range TimeWindows() {
		if w.Code == code {
			return w, true
		}
	}
	return TimeWindow{}, false
}

// Bounds retorna o intervalo fechado [início, fim] da janela terminando em targetDate
func (w TimeWindow) Bounds(targetDate time.Time) (time.Time, time.Time) {
	end := DateOnly(targetDate)
	start := end.AddDate(0, 0, -(w.Days - 1))
	return start, end
}

// Contains indica se a data cai dentro da janela terminando em targetDate
func (w TimeWindow) Contains(targetDate, date time.Time) bool {
	start, end := w.Bounds(targetDate)
	d := DateOnly(date)
	return !d.Before(start) && !d.After(end)
}

// LookbackBounds retorna o intervalo de leitura da origem para uma data alvo
func LookbackBounds(targetDate time.Time) (time.Time, time.Time) {
	end := DateOnly(targetDate)
	return end.AddDate(0, 0, -(LookbackDays - 1)), end
}

// DateOnly descarta o horário mantendo o dia de calendário, normalizado em UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate compara apenas o dia de calendário
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
