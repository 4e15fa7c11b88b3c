package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuckets_Monthly(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	got, err := Buckets(PeriodMonthly, now, 6)
	require.NoError(t, err)

	labels := make([]string, 0, len(got))
	for _, b := range got {
		labels = append(labels, b.Label)
	}
	want := []string{"Oct 2025", "Nov 2025", "Dec 2025", "Jan 2026", "Feb 2026", "Mar 2026"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), got[4].Start)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got[4].End)
	assert.True(t, got[5].Contains(now))
	assert.False(t, got[4].Contains(got[4].End))
}

func TestBuckets_Weekly(t *testing.T) {
	// Saturday
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	got, err := Buckets(PeriodWeekly, now, 6)
	require.NoError(t, err)
	require.Len(t, got, 6)

	assert.Equal(t, "Week 6", got[0].Label)
	assert.Equal(t, "Week 1", got[5].Label)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), got[5].Start)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), got[0].Start)
	assert.True(t, got[5].Contains(now))
}

func TestBuckets_InvalidPeriod(t *testing.T) {
	_, err := Buckets("daily", time.Now(), 6)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
