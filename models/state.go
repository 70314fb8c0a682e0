package models

import "time"

// DefaultCycleLength is the assumed menstrual cycle length in days.
const DefaultCycleLength = 28

// HealthData is the single per-installation health record. It lives only in the store.
type HealthData struct {
	LastPeriodDate     *time.Time `json:"last_period_date,omitempty"`
	CycleLength        int        `json:"cycle_length"`
	PregnancyStartDate *time.Time `json:"pregnancy_start_date,omitempty"`
	LastFeedingTime    *time.Time `json:"last_feeding_time,omitempty"`
	FeedingCount       int        `json:"feeding_count"`
}

// HealthPatch carries the fields of a shallow merge; nil fields are left
// untouched. The feeding count has no field: it only moves through
// Store.RecordFeeding.
type HealthPatch struct {
	LastPeriodDate     *time.Time
	CycleLength        *int
	PregnancyStartDate *time.Time
	LastFeedingTime    *time.Time
}

func DefaultHealthData() HealthData {
	return HealthData{CycleLength: DefaultCycleLength}
}

// Merge returns h with every non-nil field of p replaced.
func (h HealthData) Merge(p HealthPatch) HealthData {
	out := h.Clone()
	if p.LastPeriodDate != nil {
		out.LastPeriodDate = timePtr(*p.LastPeriodDate)
	}
	if p.CycleLength != nil {
		out.CycleLength = *p.CycleLength
	}
	if p.PregnancyStartDate != nil {
		out.PregnancyStartDate = timePtr(*p.PregnancyStartDate)
	}
	if p.LastFeedingTime != nil {
		out.LastFeedingTime = timePtr(*p.LastFeedingTime)
	}
	return out
}

func (h HealthData) Clone() HealthData {
	out := h
	if h.LastPeriodDate != nil {
		out.LastPeriodDate = timePtr(*h.LastPeriodDate)
	}
	if h.PregnancyStartDate != nil {
		out.PregnancyStartDate = timePtr(*h.PregnancyStartDate)
	}
	if h.LastFeedingTime != nil {
		out.LastFeedingTime = timePtr(*h.LastFeedingTime)
	}
	return out
}

// AppState is the process-wide snapshot held by the store.
type AppState struct {
	IsAdmin    bool       `json:"is_admin"`
	Posts      []Post     `json:"posts"`
	Comments   []Comment  `json:"comments"`
	HealthData HealthData `json:"health_data"`
	IsLoading  bool       `json:"is_loading"`
	// Version increases by one on every mutation.
	Version uint64 `json:"version"`
}

func NewAppState() AppState {
	return AppState{
		Posts:      []Post{},
		Comments:   []Comment{},
		HealthData: DefaultHealthData(),
	}
}

// Clone returns a copy that shares no mutable memory with s.
func (s AppState) Clone() AppState {
	out := s
	out.Posts = make([]Post, len(s.Posts))
	copy(out.Posts, s.Posts)
	out.Comments = make([]Comment, len(s.Comments))
	copy(out.Comments, s.Comments)
	out.HealthData = s.HealthData.Clone()
	return out
}

func timePtr(t time.Time) *time.Time { return &t }
