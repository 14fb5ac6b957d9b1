package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockParams() BlockParams {
	return BlockParams{
		RangeStart:      monday,
		RangeEnd:        monday,
		Resources:       []int64{7},
		DurationMinutes: 30,
		StepMinutes:     10,
		DayStartHour:    7,
		DayEndHour:      22,
	}
}

func findBlock(blocks []Block, start time.Time) *Block {
	for i := range blocks {
		if blocks[i].Start.Equal(start) {
			return &blocks[i]
		}
	}
	return nil
}

func TestComputeUnavailableBlocksOpenDay(t *testing.T) {
	blocks := ComputeUnavailableBlocks(blockParams(), baseContext())

	// Salon opens at 10:00 and closes at 20:00: the margins of the rendered
	// day collapse into two blocks, one before opening and one at the tail.
	require.NotEmpty(t, blocks)

	head := findBlock(blocks, monday.Add(7*time.Hour))
	require.NotNil(t, head, "expected a block covering the pre-opening hours")
	assert.Equal(t, monday.Add(10*time.Hour), head.End)

	// A 30-minute service no longer fits from 19:40 on
	tail := findBlock(blocks, monday.Add(19*time.Hour+40*time.Minute))
	require.NotNil(t, tail, "expected a block covering the closing tail")
	assert.Equal(t, monday.Add(22*time.Hour), tail.End)

	// Everything inside the working window stays clear
	assert.Len(t, blocks, 2)
}

func TestComputeUnavailableBlocksClosedDayIsOneBlock(t *testing.T) {
	p := blockParams()
	friday := monday.AddDate(0, 0, 4)
	p.RangeStart = friday
	p.RangeEnd = friday

	blocks := ComputeUnavailableBlocks(p, baseContext())

	// A fully closed day coalesces into a single background block,
	// not one mark per grid step.
	require.Len(t, blocks, 1)
	assert.Equal(t, friday.Add(7*time.Hour), blocks[0].Start)
	assert.Equal(t, friday.Add(22*time.Hour), blocks[0].End)
	require.NotNil(t, blocks[0].EmployeeID)
	assert.Equal(t, int64(7), *blocks[0].EmployeeID)
}

func TestComputeUnavailableBlocksMarksBookedSpan(t *testing.T) {
	p := blockParams()
	ctx := baseContext()
	ctx.Busy = []BusyInterval{
		{BookingID: 1, EmployeeID: 7, Start: monday.Add(12 * time.Hour), End: monday.Add(13 * time.Hour)},
	}

	blocks := ComputeUnavailableBlocks(p, ctx)

	// A 30-minute candidate collides with the booking from 11:40 through
	// 12:50, so those grid steps merge into one mid-day block.
	mid := findBlock(blocks, monday.Add(11*time.Hour+40*time.Minute))
	require.NotNil(t, mid, "expected a block around the booked hour")
	assert.Equal(t, monday.Add(13*time.Hour), mid.End)
}

func TestComputeUnavailableBlocksPerResource(t *testing.T) {
	p := blockParams()
	p.Resources = []int64{7, 9}
	ctx := baseContext()
	ctx.Busy = []BusyInterval{
		{BookingID: 1, EmployeeID: 7, Start: monday.Add(12 * time.Hour), End: monday.Add(13 * time.Hour)},
	}

	blocks := ComputeUnavailableBlocks(p, ctx)

	var sevenHasMidday, nineHasMidday bool
	for _, b := range blocks {
		if b.EmployeeID == nil {
			continue
		}
		covers := !b.Start.After(monday.Add(12*time.Hour + 10*time.Minute)) && b.End.After(monday.Add(12*time.Hour+10*time.Minute))
		switch *b.EmployeeID {
		case 7:
			sevenHasMidday = sevenHasMidday || covers
		case 9:
			nineHasMidday = nineHasMidday || covers
		}
	}

	assert.True(t, sevenHasMidday, "booked employee must be marked unavailable mid-day")
	assert.False(t, nineHasMidday, "free employee must stay available mid-day")
}

func TestComputeUnavailableBlocksAggregateMode(t *testing.T) {
	p := blockParams()
	p.Resources = []int64{7, 9}
	p.Aggregate = true

	ctx := baseContext()
	ctx.Busy = []BusyInterval{
		{BookingID: 1, EmployeeID: 7, Start: monday.Add(12 * time.Hour), End: monday.Add(13 * time.Hour)},
	}

	blocks := ComputeUnavailableBlocks(p, ctx)

	for _, b := range blocks {
		assert.Nil(t, b.EmployeeID, "aggregate mode emits unkeyed blocks")
		// Employee 9 is free mid-day, so no aggregate block may cover it
		assert.False(t,
			b.Start.Before(monday.Add(13*time.Hour)) && b.End.After(monday.Add(11*time.Hour+40*time.Minute)) &&
				b.Start.After(monday.Add(10*time.Hour)) && b.End.Before(monday.Add(19*time.Hour)),
			"mid-day block %s-%s should not exist while one employee is free",
			b.Start.Format("15:04"), b.End.Format("15:04"))
	}
}

func TestComputeUnavailableBlocksMultiDay(t *testing.T) {
	p := blockParams()
	p.RangeEnd = monday.AddDate(0, 0, 4) // Monday through Friday

	blocks := ComputeUnavailableBlocks(p, baseContext())

	friday := monday.AddDate(0, 0, 4)
	closed := findBlock(blocks, friday.Add(7*time.Hour))
	require.NotNil(t, closed, "closed Friday must be fully blocked")
	assert.Equal(t, friday.Add(22*time.Hour), closed.End)
}

func TestComputeUnavailableBlocksEmptyInput(t *testing.T) {
	p := blockParams()
	p.Resources = nil
	assert.Empty(t, ComputeUnavailableBlocks(p, baseContext()))

	p = blockParams()
	p.DurationMinutes = 0
	assert.Empty(t, ComputeUnavailableBlocks(p, baseContext()))
}
