package postgres

import (
	"context"
	"database/sql"
	"testing"

	"conferencecentral/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var speakerRowColumns = []string{"websafe_key", "name", "biography", "company", "specialty"}

func TestSpeakerRepository_GetByName(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM speakers WHERE name = \$1 ORDER BY websafe_key LIMIT 1`).
			WithArgs("Ada").
			WillReturnRows(sqlmock.NewRows(speakerRowColumns).AddRow("sp-1", "Ada", "bio", "Analytical", "{math,engines}"))

		got, err := NewSpeakerRepository(db).GetByName(ctx, "Ada")
		require.NoError(t, err)
		require.Equal(t, &domain.Speaker{Key: "sp-1", Name: "Ada", Biography: "bio", Company: "Analytical", Specialty: []string{"math", "engines"}}, got)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM speakers WHERE name = \$1`).WillReturnError(sql.ErrNoRows)

		_, err = NewSpeakerRepository(db).GetByName(ctx, "Nobody")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSpeakerRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sp := domain.NewPlaceholderSpeaker("Grace")
	sp.Key = "sp-2"
	mock.ExpectExec(`INSERT INTO speakers`).
		WithArgs("sp-2", "Grace", domain.DefaultSpeakerBiography, domain.DefaultSpeakerCompany, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewSpeakerRepository(db).Create(context.Background(), sp))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSpeakerRepository_ListBySpecialty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE \$1 = ANY\(specialty\) ORDER BY name`).
		WithArgs("compilers").
		WillReturnRows(sqlmock.NewRows(speakerRowColumns).AddRow("sp-2", "Grace", "", "Navy", "{compilers}"))

	got, err := NewSpeakerRepository(db).ListBySpecialty(context.Background(), "compilers")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Grace", got[0].Name)
}

func TestSpeakerRepository_FindRejectsUnknownField(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSpeakerRepository(db).Find(context.Background(), []domain.Predicate{{Field: "age", Operator: domain.OpEqual, Value: int64(3)}})
	require.ErrorIs(t, err, domain.ErrInvalidFilter)
}
