package attendance

import (
	"math"

	"platoon-pulse/internal/shared/timeofday"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusPresent    Status = "present"
	StatusLeaveEarly Status = "leave_early"
	StatusAbsent     Status = "absent"
)

const (
	PresentThreshold    = 80.0
	LeaveEarlyThreshold = 20.0
)

type MarkKind string

const (
	KindEntry MarkKind = "entry"
	KindExit  MarkKind = "exit"
)

// ComputeParticipation is exit minus entry in minutes. A missing side gives
// 0, and exit before entry clamps to 0 instead of failing.
func ComputeParticipation(entry, exit *datatypes.Time) int {
	if entry == nil || exit == nil {
		return 0
	}
	minutes := timeofday.Minutes(*exit) - timeofday.Minutes(*entry)
	if minutes < 0 {
		return 0
	}
	return minutes
}

// ComputePercentage returns participation as a share of duration, clamped
// to [0, 100] and rounded to two decimals.
func ComputePercentage(participation, duration int) float64 {
	if duration <= 0 {
		return 0
	}
	pct := float64(participation*100) / float64(duration)
	pct = math.Max(0, math.Min(100, pct))
	return math.Round(pct*100) / 100
}

func ClassifyStatus(pct float64) Status {
	switch {
	case pct >= PresentThreshold:
		return StatusPresent
	case pct >= LeaveEarlyThreshold:
		return StatusLeaveEarly
	default:
		return StatusAbsent
	}
}

// Recompute refreshes the stored derived fields from the current times.
func Recompute(r *Record, sessionDuration int) {
	r.ParticipationMinutes = ComputeParticipation(r.EntryTime, r.ExitTime)
	r.AttendancePercentage = ComputePercentage(r.ParticipationMinutes, sessionDuration)
	r.AttendanceStatus = string(ClassifyStatus(r.AttendancePercentage))
}
