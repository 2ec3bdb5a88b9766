package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
)

func weekRows() *pgxmock.Rows {
	return pgxmock.NewRows(weekColumns)
}

func TestWeekRepository_Create(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)
	weekID := uuid.New()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "stamps the caller committee",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(sql("INSERT INTO weeks (committee_id,week_number,title,description,content,start_date,end_date)")).
					WithArgs(uuidArg(testCommittee), 3, "Graphs", "", "", start, end).
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(weekID, testTime))
			},
		},
		{
			name: "duplicate week number",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(sql("INSERT INTO weeks")).
					WithArgs(uuidArg(testCommittee), 3, "Graphs", "", "", start, end).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "weeks_committee_number_key"})
			},
			wantErr: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.mockSetup(mock)

			// a foreign committee id on input is overwritten
			week := &models.Week{CommitteeID: uuid.New(), WeekNumber: 3, Title: "Graphs", StartDate: start, EndDate: end}
			err = NewWeekRepository(mock).Create(context.Background(), adminScope(), week)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, weekID, week.ID)
				assert.Equal(t, testCommittee, week.CommitteeID)
				assert.Equal(t, testTime, week.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWeekRepository_GetByID(t *testing.T) {
	weekID := uuid.New()
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(sql("SELECT id, committee_id, week_number, title, description, content, start_date, end_date, created_at FROM weeks WHERE id = $1 AND committee_id = $2 LIMIT 1")).
		WithArgs(uuidArg(weekID), uuidArg(testCommittee)).
		WillReturnRows(weekRows().AddRow(weekID, testCommittee, 1, "Kickoff", "intro", "", start, start.AddDate(0, 0, 6), testTime))
	mock.ExpectQuery(sql("FROM weeks WHERE id = $1 AND committee_id = $2")).
		WithArgs(uuidArg(weekID), uuidArg(testCommittee)).
		WillReturnError(pgx.ErrNoRows)

	repo := NewWeekRepository(mock)

	week, err := repo.GetByID(context.Background(), memberScope(), weekID)
	require.NoError(t, err)
	assert.Equal(t, 1, week.WeekNumber)
	assert.Equal(t, "Kickoff", week.Title)

	_, err = repo.GetByID(context.Background(), memberScope(), weekID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekRepository_ListUpcoming(t *testing.T) {
	today := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(sql("FROM weeks WHERE committee_id = $1 AND end_date >= $2 ORDER BY week_number ASC")).
		WithArgs(uuidArg(testCommittee), today).
		WillReturnRows(weekRows().
			AddRow(uuid.New(), testCommittee, 2, "Trees", "", "", today, today.AddDate(0, 0, 6), testTime).
			AddRow(uuid.New(), testCommittee, 3, "Graphs", "", "", today.AddDate(0, 0, 7), today.AddDate(0, 0, 13), testTime))

	weeks, err := NewWeekRepository(mock).List(context.Background(), memberScope(), WeekFilter{EndsOnOrAfter: &today})
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, 2, weeks[0].WeekNumber)
	assert.Equal(t, 3, weeks[1].WeekNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekRepository_Delete(t *testing.T) {
	weekID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(sql("DELETE FROM weeks WHERE id = $1 AND committee_id = $2")).
		WithArgs(uuidArg(weekID), uuidArg(testCommittee)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(sql("DELETE FROM weeks")).
		WithArgs(uuidArg(weekID), uuidArg(testCommittee)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewWeekRepository(mock)
	require.NoError(t, repo.Delete(context.Background(), adminScope(), weekID))
	assert.ErrorIs(t, repo.Delete(context.Background(), adminScope(), weekID), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekRepository_Exists(t *testing.T) {
	weekID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(sql("SELECT EXISTS(SELECT 1 FROM weeks WHERE id = $1 AND committee_id = $2)")).
		WithArgs(uuidArg(weekID), uuidArg(testCommittee)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := NewWeekRepository(mock).Exists(context.Background(), adminScope(), weekID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
