package analyzer

import (
	"math"
	"sort"

	"github.com/blackwell-systems/tablewatch/internal/pos"
)

// Time-of-day buckets used for demand analysis.
const (
	BucketBreakfast = "breakfast" // 06:00-11:00
	BucketLunch     = "lunch"     // 11:00-15:00
	BucketAfternoon = "afternoon" // 15:00-18:00
	BucketDinner    = "dinner"    // 18:00-22:00
	BucketLateNight = "late-night"
)

var bucketOrder = map[string]int{
	BucketBreakfast: 0,
	BucketLunch:     1,
	BucketAfternoon: 2,
	BucketDinner:    3,
	BucketLateNight: 4,
}

const (
	// MinDemandLift is how much a bucket share must exceed the overall
	// share to be reported.
	MinDemandLift = 1.25

	minDemandOrders = 2
)

// TimeBucket maps an hour of day to its demand bucket.
func TimeBucket(hour int) string {
	switch {
	case hour >= 6 && hour < 11:
		return BucketBreakfast
	case hour >= 11 && hour < 15:
		return BucketLunch
	case hour >= 15 && hour < 18:
		return BucketAfternoon
	case hour >= 18 && hour < 22:
		return BucketDinner
	default:
		return BucketLateNight
	}
}

// AnalyzeTimeDemand reports categories whose share of orders in a
// time-of-day bucket is at least MinDemandLift times their share of all
// orders. Shares count orders containing the category, not quantities.
func AnalyzeTimeDemand(orders []pos.Order, menu map[string]pos.MenuItem) []TimeDemand {
	var total int
	overall := make(map[string]int)
	bucketTotals := make(map[string]int)
	bucketCats := make(map[string]map[string]int)

	for _, o := range orders {
		at := o.At()
		if at.IsZero() {
			continue
		}
		cats := orderCategories(o, menu)
		if len(cats) == 0 {
			continue
		}
		bucket := TimeBucket(at.Hour())
		total++
		bucketTotals[bucket]++
		if bucketCats[bucket] == nil {
			bucketCats[bucket] = make(map[string]int)
		}
		for c := range cats {
			overall[c]++
			bucketCats[bucket][c]++
		}
	}
	if total == 0 {
		return nil
	}

	var out []TimeDemand
	for bucket, cats := range bucketCats {
		for cat, n := range cats {
			if n < minDemandOrders {
				continue
			}
			bucketShare := float64(n) / float64(bucketTotals[bucket])
			overallShare := float64(overall[cat]) / float64(total)
			lift := bucketShare / overallShare
			if lift < MinDemandLift {
				continue
			}
			out = append(out, TimeDemand{
				Bucket:       bucket,
				Category:     cat,
				Orders:       n,
				BucketShare:  bucketShare,
				OverallShare: overallShare,
				Lift:         lift,
				Confidence:   clamp(0.5+math.Min(1, float64(n)/20)*0.35, 0.3, 0.9),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Lift != out[j].Lift {
			return out[i].Lift > out[j].Lift
		}
		if out[i].Bucket != out[j].Bucket {
			return bucketOrder[out[i].Bucket] < bucketOrder[out[j].Bucket]
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// orderCategories returns the set of menu categories on an order.
func orderCategories(o pos.Order, menu map[string]pos.MenuItem) map[string]bool {
	cats := make(map[string]bool)
	for _, it := range o.Items {
		if it.Name == "" || it.Quantity <= 0 {
			continue
		}
		cats[categoryOf(menu, it.Name)] = true
	}
	return cats
}
