package domain

import "time"

// SessionStatus is the lifecycle state of a duty session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// DutySession is a tracked field-work period owning a GPS trail.
type DutySession struct {
	StartedAt time.Time
	EndedAt   *time.Time
	// ThinnedAt marks a trail whose retention pass already ran. Thinned
	// sessions are skipped on later runs; the stride rule applied to its
	// own survivors would keep deleting points.
	ThinnedAt *time.Time
	CreatedAt time.Time
	ID        string
	UserID    string
	Status    SessionStatus
}

// EligibleForThinning reports whether the session's trail may be decimated:
// the session must be completed, not yet thinned, and must have ended before
// the retention window started.
func (s *DutySession) EligibleForThinning(now time.Time, window time.Duration) bool {
	return s.Status == SessionCompleted &&
		s.ThinnedAt == nil &&
		s.EndedAt != nil &&
		s.EndedAt.Before(now.Add(-window))
}

// LocationPoint is a single GPS fix recorded during a duty session.
type LocationPoint struct {
	RecordedAt time.Time
	ID         string
	SessionID  string
	Lat        float64
	Lng        float64
	Accuracy   float64
}

// ThinningPlan selects the point IDs to delete from a chronologically ordered
// trail, keeping the first point, the last point, and every strideth point in
// between. Trails of stride points or fewer are never thinned. The plan works
// on positions, so it must run at most once per trail; callers gate re-runs
// on DutySession.ThinnedAt.
func ThinningPlan(points []*LocationPoint, stride int) []string {
	if stride <= 0 || len(points) <= stride {
		return nil
	}

	var deletions []string
	for i := 1; i < len(points)-1; i++ {
		if i%stride != 0 {
			deletions = append(deletions, points[i].ID)
		}
	}

	return deletions
}
