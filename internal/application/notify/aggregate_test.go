package notify

import (
	"testing"

	"github.com/repairtrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	results := []domain.BatchResult{
		{BatchIndex: 1, Channel: domain.ChannelFCM, SuccessCount: 480, FailureCount: 20},
		{BatchIndex: 2, Channel: domain.ChannelFCM, Error: "upstream 503"},
		{BatchIndex: 1, Channel: domain.ChannelAPNS, SuccessCount: 3, FailureCount: 1},
	}

	report := Aggregate(704, results)

	assert.Equal(t, 704, report.TotalTokens)
	assert.Equal(t, 483, report.TotalSuccess)
	assert.Equal(t, 21, report.TotalFailure)
	assert.Equal(t, results, report.BatchResults)
}

func TestAggregate_Empty(t *testing.T) {
	report := Aggregate(0, nil)
	assert.Zero(t, report.TotalTokens)
	assert.Zero(t, report.TotalSuccess)
	assert.Zero(t, report.TotalFailure)
	assert.Empty(t, report.BatchResults)
}
