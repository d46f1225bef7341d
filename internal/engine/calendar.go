package engine

import (
	"sort"
	"time"
)

// Calendar adalah urutan sesi perdagangan yang terurut dan bebas duplikat.
// Seluruh aritmetika tanggal di engine dinyatakan sebagai offset integer ke
// dalam urutan ini, bukan aritmetika hari kalender.
type Calendar struct {
	days []time.Time
}

// NewCalendar membangun kalender dari kumpulan tanggal apa pun; tanggal
// dinormalkan, diurutkan, dan dideduplikasi.
func NewCalendar(dates []time.Time) *Calendar {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		nd := day(d)
		if _, ok := seen[nd]; ok {
			continue
		}
		seen[nd] = struct{}{}
		days = append(days, nd)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return &Calendar{days: days}
}

func (c *Calendar) Len() int {
	return len(c.days)
}

// At mengembalikan sesi pada offset i. Pemanggil wajib menjaga 0 <= i < Len().
func (c *Calendar) At(i int) time.Time {
	return c.days[i]
}

// NextAfter mengembalikan offset sesi pertama yang jatuh SETELAH t.
// ok bernilai false jika t berada pada atau setelah sesi terakhir.
func (c *Calendar) NextAfter(t time.Time) (int, bool) {
	nd := day(t)
	i := sort.Search(len(c.days), func(i int) bool { return c.days[i].After(nd) })
	if i >= len(c.days) {
		return 0, false
	}
	return i, true
}
