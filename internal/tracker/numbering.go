package tracker

import (
	"sort"

	"github.com/balkashynov/punch/internal/models"
)

// NextSessionNo returns max sessionNo in the (date, userName) partition plus one, or 1 when empty
func NextSessionNo(records []models.Record, date, userName string) int {
	highest := 0
	for _, r := range records {
		if r.InPartition(date, userName) && r.SessionNo > highest {
			highest = r.SessionNo
		}
	}
	return highest + 1
}

// Renumber reassigns sessionNo 1..N by startTime within the partition. It returns
// the whole list with the new numbers and the records whose number changed.
func Renumber(records []models.Record, date, userName string) ([]models.Record, []models.Record) {
	out := make([]models.Record, len(records))
	copy(out, records)

	var idx []int
	for i, r := range out {
		if r.InPartition(date, userName) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return models.PadClock(out[idx[a]].StartTime) < models.PadClock(out[idx[b]].StartTime)
	})

	var changed []models.Record
	for pos, i := range idx {
		if out[i].SessionNo != pos+1 {
			out[i].SessionNo = pos + 1
			changed = append(changed, out[i])
		}
	}
	return out, changed
}
