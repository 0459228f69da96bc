package event

import "time"

const (
	// DefaultConflictWindow 冲突窗口
	DefaultConflictWindow = time.Hour
)

// Conflicts 冲突规则：existing 未完成，且两者计划时间差的绝对值严格小于 window
func Conflicts(existing, candidate *Event, window time.Duration) bool {
	if existing.IsCompleted() {
		return false
	}
	diff := existing.ScheduledTime.Sub(candidate.ScheduledTime)
	if diff < 0 {
		diff = -diff
	}
	return diff < window
}

// FindConflict 在 existing 中查找与 candidate 冲突的第一个事件
func FindConflict(existing []*Event, candidate *Event, window time.Duration) *ConflictError {
	for _, e := range existing {
		if Conflicts(e, candidate, window) {
			return &ConflictError{
				ExistingID:    e.ID,
				ExistingTime:  e.ScheduledTime,
				CandidateTime: candidate.ScheduledTime,
				Window:        window,
			}
		}
	}
	return nil
}
