package footprint

import (
	"fmt"
	"math"

	"github.com/culturemap/culturemap-backend/internal/models"
)

const (
	// MaxCollectDistance is the collection radius in meters.
	MaxCollectDistance = 400
	// MilestoneSize is the number of collected sites per medal.
	MilestoneSize = 5
	// CategoryThreshold is the per-category count that unlocks a category
	// achievement.
	CategoryThreshold = 5

	ProgressCompleted = "completed"
)

type CategoryCount struct {
	CategoryID uint   `json:"category_id"`
	Category   string `json:"category"`
	Count      int64  `json:"count"`
}

type Achievement struct {
	Descriptor
	Progress  string `json:"progress"`
	Completed bool   `json:"completed"`
}

// Stats is a user's progress snapshot. It is recomputed from footprint rows
// on every request and never stored.
type Stats struct {
	Total                 int64           `json:"total"`
	TotalSites            int64           `json:"total_sites"`
	Percentage            float64         `json:"percentage"`
	Medals                int64           `json:"medals"`
	NextMilestoneProgress int64           `json:"next_milestone_progress"`
	CategoryStats         []CategoryCount `json:"category_stats"`
	Achievements          []Achievement   `json:"achievements"`
}

// BuildStats derives the snapshot from raw counts. counts maps category id to
// the user's footprints in it; categories missing from counts report zero.
func BuildStats(total, totalSites int64, categories []models.Category, counts map[uint]int64, table *AchievementTable) *Stats {
	stats := &Stats{
		Total:                 total,
		TotalSites:            totalSites,
		Percentage:            percentage(total, totalSites),
		Medals:                total / MilestoneSize,
		NextMilestoneProgress: total % MilestoneSize,
		CategoryStats:         make([]CategoryCount, 0, len(categories)),
		Achievements:          make([]Achievement, 0),
	}

	for _, c := range categories {
		stats.CategoryStats = append(stats.CategoryStats, CategoryCount{
			CategoryID: c.ID,
			Category:   c.Name,
			Count:      counts[c.ID],
		})
	}

	for _, cs := range stats.CategoryStats {
		if cs.Count < CategoryThreshold {
			continue
		}
		d, ok := table.ForCategory(cs.Category)
		if !ok {
			continue
		}
		stats.Achievements = append(stats.Achievements, Achievement{
			Descriptor: d,
			Progress:   fmt.Sprintf("%d/%d", cs.Count, CategoryThreshold),
			Completed:  true,
		})
	}

	for _, m := range table.Milestones {
		if total < m.Threshold {
			continue
		}
		stats.Achievements = append(stats.Achievements, Achievement{
			Descriptor: m.Descriptor,
			Progress:   ProgressCompleted,
			Completed:  true,
		})
	}

	return stats
}

// percentage is total/totalSites*100 rounded to one decimal, 0 for an empty
// catalog.
func percentage(total, totalSites int64) float64 {
	if totalSites <= 0 {
		return 0
	}
	return math.Round(float64(total)/float64(totalSites)*1000) / 10
}
