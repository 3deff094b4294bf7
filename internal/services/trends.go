package services

import (
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/terraincognita07/kepler/internal/models"
)

const WalkHistogramDays = 7

type WalkDayCount struct {
	Date  time.Time
	Label string
	Count int
}

type ConsistencyBucket struct {
	Rating int
	Name   string
	Color  string
	Count  int
}

type Trends struct {
	WeeklyWalks []WalkDayCount
	Consistency []ConsistencyBucket
}

// HasConsistencyData is false when no bathroom entry carries a rating; the
// presentation layer shows "no data" instead of an empty chart.
func (trends Trends) HasConsistencyData() bool {
	return len(trends.Consistency) > 0
}

func (trends Trends) WeeklyWalkTotal() int {
	total := 0
	for _, day := range trends.WeeklyWalks {
		total += day.Count
	}
	return total
}

// BuildWeeklyWalkHistogram counts walk entries per local calendar day over
// the trailing week ending today, oldest day first.
func BuildWeeklyWalkHistogram(entries []models.LogEntry, now time.Time, location *time.Location) []WalkDayCount {
	if location == nil {
		location = time.Local
	}

	days := TrailingDays(now, WalkHistogramDays, location)
	histogram := make([]WalkDayCount, len(days))
	bucketByDay := make(map[string]int, len(days))
	for index, day := range days {
		histogram[index] = WalkDayCount{Date: day, Label: day.Format("Mon")}
		bucketByDay[dayKey(day)] = index
	}

	for _, entry := range entries {
		if entry.Category != models.CategoryWalk || entry.CreatedAt.IsZero() {
			continue
		}
		index, ok := bucketByDay[dayKey(DateAtLocation(entry.CreatedAt, location))]
		if !ok {
			continue
		}
		histogram[index].Count++
	}
	return histogram
}

// BuildConsistencyDistribution counts bathroom ratings per level. Levels
// with no entries are left out; an empty result means no data.
func BuildConsistencyDistribution(entries []models.LogEntry) []ConsistencyBucket {
	counts := make(map[int]int, 5)
	for _, entry := range entries {
		if entry.Category != models.CategoryBathroom || !models.IsValidConsistencyRating(entry.ConsistencyRating) {
			continue
		}
		counts[entry.ConsistencyRating]++
	}

	distribution := make([]ConsistencyBucket, 0, len(counts))
	for _, level := range models.ConsistencyLevels() {
		count := counts[level.Rating]
		if count == 0 {
			continue
		}
		distribution = append(distribution, ConsistencyBucket{
			Rating: level.Rating,
			Name:   level.Name,
			Color:  level.Color,
			Count:  count,
		})
	}
	return distribution
}

func AggregateTrends(entries []models.LogEntry, now time.Time, location *time.Location) Trends {
	return Trends{
		WeeklyWalks: BuildWeeklyWalkHistogram(entries, now, location),
		Consistency: BuildConsistencyDistribution(entries),
	}
}

// TrendsCache memoizes AggregateTrends on a hash of the listing and the
// local day of now.
type TrendsCache struct {
	mu       sync.Mutex
	location *time.Location
	key      uint64
	valid    bool
	trends   Trends
	misses   int
}

func NewTrendsCache(location *time.Location) *TrendsCache {
	if location == nil {
		location = time.Local
	}
	return &TrendsCache{location: location}
}

func (cache *TrendsCache) Aggregate(entries []models.LogEntry, now time.Time) Trends {
	key := trendsCacheKey(entries, DateAtLocation(now, cache.location))

	cache.mu.Lock()
	defer cache.mu.Unlock()

	if cache.valid && cache.key == key {
		return cloneTrends(cache.trends)
	}
	cache.misses++
	cache.trends = AggregateTrends(entries, now, cache.location)
	cache.key = key
	cache.valid = true
	return cloneTrends(cache.trends)
}

// Misses reports how many times the cache recomputed.
func (cache *TrendsCache) Misses() int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return cache.misses
}

// trendsCacheKey hashes only what the aggregates read: category, creation
// instant and rating of every entry, plus the current local day.
func trendsCacheKey(entries []models.LogEntry, today time.Time) uint64 {
	digest := xxhash.New()
	_, _ = digest.WriteString(dayKey(today))
	for _, entry := range entries {
		_, _ = digest.WriteString("|")
		_, _ = digest.WriteString(string(entry.Category))
		_, _ = digest.WriteString(":")
		_, _ = digest.WriteString(strconv.FormatInt(entry.CreatedAt.UnixNano(), 10))
		_, _ = digest.WriteString(":")
		_, _ = digest.WriteString(strconv.Itoa(entry.ConsistencyRating))
	}
	return digest.Sum64()
}

func cloneTrends(trends Trends) Trends {
	walks := make([]WalkDayCount, len(trends.WeeklyWalks))
	copy(walks, trends.WeeklyWalks)
	consistency := make([]ConsistencyBucket, len(trends.Consistency))
	copy(consistency, trends.Consistency)
	return Trends{WeeklyWalks: walks, Consistency: consistency}
}
