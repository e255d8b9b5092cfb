package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saglikasistani/backend/pkg/model"
)

func snapshotMedication(times []string) *model.Medication {
	return &model.Medication{
		ID:        "med-1",
		UserID:    "user-1",
		Name:      "Metformin",
		Times:     times,
		SlotCount: len(times),
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:    true,
	}
}

func TestBuildDaySnapshot_OneRowPerTimeSortedByClock(t *testing.T) {
	med := snapshotMedication([]string{"21:00", "09:00", "14:00"})

	rows := buildDaySnapshot(med, "2026-05-10")
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"09:00", "14:00", "21:00"}, []string{rows[0].Time, rows[1].Time, rows[2].Time})
	assert.Equal(t, 1, rows[0].SlotIndex)
	assert.Equal(t, 2, rows[1].SlotIndex)
	assert.Equal(t, 0, rows[2].SlotIndex)

	for _, row := range rows {
		assert.Equal(t, "med-1", row.MedicationID)
		assert.Equal(t, "2026-05-10", row.Date)
		assert.False(t, row.Taken)
		assert.False(t, row.Skipped)
	}
}

func TestBuildDaySnapshot_TiedTimesOrderBySlot(t *testing.T) {
	med := snapshotMedication([]string{"09:00", "09:00"})

	rows := buildDaySnapshot(med, "2026-05-10")
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].SlotIndex)
	assert.Equal(t, 1, rows[1].SlotIndex)
}

func TestBuildDaySnapshot_SlotCountCapsRows(t *testing.T) {
	med := snapshotMedication([]string{"08:00", "14:00", "20:00"})
	med.SlotCount = 2

	rows := buildDaySnapshot(med, "2026-05-10")
	assert.Len(t, rows, 2)
}

func TestMedicationActiveOn_DateWindow(t *testing.T) {
	med := snapshotMedication([]string{"09:00"})
	med.StartDate = time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	med.EndDate = &end

	assert.False(t, medicationActiveOn(med, "2026-05-09"))
	assert.True(t, medicationActiveOn(med, "2026-05-10"))
	assert.True(t, medicationActiveOn(med, "2026-05-20"))
	assert.False(t, medicationActiveOn(med, "2026-05-21"))

	med.Active = false
	assert.False(t, medicationActiveOn(med, "2026-05-15"))
}

func TestSumAdherence_ThreeOfFourIsSeventyFivePercent(t *testing.T) {
	counts := map[string][2]int{
		"2026-05-09": {2, 2},
		"2026-05-10": {1, 2},
	}

	taken, total := sumAdherence(counts)
	assert.Equal(t, 3, taken)
	assert.Equal(t, 4, total)
	assert.InDelta(t, 0.75, float64(taken)/float64(total), 1e-9)
}

func TestSumAdherence_NoRowsMeansZeroTotal(t *testing.T) {
	taken, total := sumAdherence(map[string][2]int{})
	assert.Equal(t, 0, taken)
	assert.Equal(t, 0, total)
}
