package query

import (
	"testing"
	"time"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	sess := &domain.Session{
		Name:            "Intro to Go",
		Speakers:        []string{"Ada", "Linus"},
		DurationMinutes: 45,
		TypeOfSession:   "WORKSHOP",
		Date:            &date,
	}

	tests := []struct {
		name  string
		preds []domain.Predicate
		want  bool
	}{
		{"no predicates", nil, true},
		{"greater int", []domain.Predicate{{Field: "duration", Operator: domain.OpGreater, Value: int64(30)}}, true},
		{"greater int fails", []domain.Predicate{{Field: "duration", Operator: domain.OpGreater, Value: int64(45)}}, false},
		{"greater or equal boundary", []domain.Predicate{{Field: "duration", Operator: domain.OpGreaterOrEqual, Value: int64(45)}}, true},
		{"less", []domain.Predicate{{Field: "duration", Operator: domain.OpLess, Value: int64(60)}}, true},
		{"less or equal", []domain.Predicate{{Field: "duration", Operator: domain.OpLessOrEqual, Value: int64(44)}}, false},
		{"not equal string", []domain.Predicate{{Field: "typeOfSession", Operator: domain.OpNotEqual, Value: "KEYNOTE"}}, true},
		{"range on date string", []domain.Predicate{
			{Field: "date", Operator: domain.OpGreaterOrEqual, Value: "2026-05-01"},
			{Field: "date", Operator: domain.OpLess, Value: "2026-07-01"},
		}, true},
		{"repeated field any element", []domain.Predicate{{Field: "speaker", Operator: domain.OpEqual, Value: "Linus"}}, true},
		{"repeated field no element", []domain.Predicate{{Field: "speaker", Operator: domain.OpEqual, Value: "Grace"}}, false},
		{"int compared with float", []domain.Predicate{{Field: "duration", Operator: domain.OpLess, Value: 45.5}}, true},
		{"incomparable types do not match", []domain.Predicate{{Field: "duration", Operator: domain.OpNotEqual, Value: "45"}}, false},
		{"unknown operator does not match", []domain.Predicate{{Field: "duration", Operator: domain.Operator("~"), Value: int64(1)}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(sess, tt.preds))
		})
	}
}

func TestMatches_StartTimeOrdersChronologically(t *testing.T) {
	// Stored before start times were zero padded.
	early := &domain.Session{Name: "Early", StartTime: "9:00"}
	late := &domain.Session{Name: "Late", StartTime: "14:30"}

	_, ineq, err := Normalize([]domain.RawFilter{{Field: "startTime", Operator: "<", Value: "10:00"}}, domain.SessionSchema)
	assert.NoError(t, err)
	assert.True(t, Matches(early, ineq))
	assert.False(t, Matches(late, ineq))

	_, ineq, err = Normalize([]domain.RawFilter{{Field: "startTime", Operator: ">=", Value: "9:30"}}, domain.SessionSchema)
	assert.NoError(t, err)
	assert.False(t, Matches(early, ineq))
	assert.True(t, Matches(late, ineq))
}

func TestMatches_MissingAttributeIsFailClosed(t *testing.T) {
	// No date and no start time set.
	sess := &domain.Session{Name: "Undated"}
	conf := &domain.Conference{Name: "NoSpeaker"}

	ops := []domain.Operator{
		domain.OpEqual, domain.OpGreater, domain.OpGreaterOrEqual,
		domain.OpLess, domain.OpLessOrEqual, domain.OpNotEqual,
	}
	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			assert.False(t, Matches(sess, []domain.Predicate{{Field: "date", Operator: op, Value: "2026-01-01"}}))
			assert.False(t, Matches(sess, []domain.Predicate{{Field: "startTime", Operator: op, Value: "10:00"}}))
			assert.False(t, Matches(sess, []domain.Predicate{{Field: "nonexistent", Operator: op, Value: "x"}}))
			assert.False(t, Matches(conf, []domain.Predicate{{Field: "featuredSpeaker", Operator: op, Value: "Ada"}}))
		})
	}
}
