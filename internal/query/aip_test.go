package query

import (
	"testing"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestParseFilterString(t *testing.T) {
	t.Run("empty filter", func(t *testing.T) {
		got, err := ParseFilterString("  ", domain.ConferenceSchema)
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("conjunction of comparisons", func(t *testing.T) {
		got, err := ParseFilterString(`city = "London" AND maxAttendees > 10`, domain.ConferenceSchema)
		require.NoError(t, err)
		require.Equal(t, []domain.RawFilter{
			{Field: "city", Operator: "=", Value: "London"},
			{Field: "maxAttendees", Operator: ">", Value: "10"},
		}, got)

		eq, ineq, err := Normalize(got, domain.ConferenceSchema)
		require.NoError(t, err)
		require.Len(t, eq, 1)
		require.Equal(t, []domain.Predicate{{Field: "maxAttendees", Operator: domain.OpGreater, Value: int64(10)}}, ineq)
	})

	t.Run("disjunction is rejected", func(t *testing.T) {
		_, err := ParseFilterString(`city = "London" OR city = "Paris"`, domain.ConferenceSchema)
		require.ErrorIs(t, err, domain.ErrInvalidFilter)
	})

	t.Run("undeclared field is rejected", func(t *testing.T) {
		_, err := ParseFilterString(`color = "red"`, domain.ConferenceSchema)
		require.ErrorIs(t, err, domain.ErrInvalidFilter)
	})
}
