package notify

import "github.com/repairtrack-api/internal/domain"

// Aggregate folds per-batch outcomes into one report. Error-tagged batches
// contribute zero to both sums but stay in the list so the caller sees a
// complete accounting of every batch attempted. totalTokens is the
// deduplicated attempted count, before the channel split.
func Aggregate(totalTokens int, results []domain.BatchResult) domain.DeliveryReport {
	report := domain.DeliveryReport{
		TotalTokens:  totalTokens,
		BatchResults: results,
	}
	for _, r := range results {
		report.TotalSuccess += r.SuccessCount
		report.TotalFailure += r.FailureCount
	}
	return report
}
