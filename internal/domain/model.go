package domain

// Core domain models. JSON tags double as the persisted document layout and
// the HTTP response shape; keep them stable.

// Status is the outcome vocabulary of a verification check.
type Status string

const (
	StatusVerified Status = "VERIFIED"
	StatusPending  Status = "PENDING"
	StatusRejected Status = "REJECTED"
)

const (
	// HistoryLimit caps the retained verdict history; oldest entries go first.
	HistoryLimit = 100
	// RecentLimit is how many verdicts the stats view returns.
	RecentLimit = 10

	PhantomRiskThreshold = 70
	VerifiedRiskScore    = 15
	UnverifiedRiskScore  = 85

	// TimestampLayout formats verdict timestamps in server local time.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Verdict is the result of one verification check.
type Verdict struct {
	BusinessNumber string `json:"business_number"`
	Status         Status `json:"status"`
	RiskScore      int    `json:"risk_score"`
	Verified       bool   `json:"verified"`
	PhantomRisk    bool   `json:"phantom_risk"`
	Timestamp      string `json:"timestamp,omitempty"`
}

// Stats are monotonic counters over every recorded verdict. They are not
// trimmed with the history, so they can exceed len(State.Verifications).
type Stats struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
	Rejected int `json:"rejected"`
}

// State is everything a StateStore persists.
type State struct {
	Verifications []Verdict `json:"verifications"`
	Stats         Stats     `json:"stats"`
}

// NewState returns an empty state with zeroed counters.
func NewState() State {
	return State{Verifications: []Verdict{}}
}

// Record counts v and appends it to the history, evicting the oldest
// entries beyond HistoryLimit.
func (s *State) Record(v Verdict) {
	s.Stats.Total++
	if v.Verified {
		s.Stats.Verified++
	} else {
		s.Stats.Rejected++
	}
	s.Verifications = append(s.Verifications, v)
	if over := len(s.Verifications) - HistoryLimit; over > 0 {
		s.Verifications = append([]Verdict(nil), s.Verifications[over:]...)
	}
}

// Recent returns up to n verdicts, newest first.
func (s State) Recent(n int) []Verdict {
	if n > len(s.Verifications) {
		n = len(s.Verifications)
	}
	out := make([]Verdict, 0, n)
	for i := len(s.Verifications) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.Verifications[i])
	}
	return out
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{Stats: s.Stats, Verifications: make([]Verdict, len(s.Verifications))}
	copy(out.Verifications, s.Verifications)
	return out
}
