package services

import "time"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// TrailingDays returns count calendar days ending with the day of now,
// oldest first.
func TrailingDays(now time.Time, count int, location *time.Location) []time.Time {
	if count <= 0 {
		return []time.Time{}
	}
	today := DateAtLocation(now, location)
	days := make([]time.Time, count)
	for offset := 0; offset < count; offset++ {
		days[offset] = today.AddDate(0, 0, offset-(count-1))
	}
	return days
}

func dayKey(value time.Time) string {
	return value.Format("2006-01-02")
}
