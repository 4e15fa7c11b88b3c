package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gameCols = []string{"id", "title", "description", "tasks"}

func gameTasksJSON(t *testing.T, tasks []domain.GameTask) []byte {
	t.Helper()
	b, err := json.Marshal(tasks)
	require.NoError(t, err)
	return b
}

func TestGameRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tasks := []domain.GameTask{{ID: "1", Title: "Match words", Slug: "match", IsUnlocked: true}}
	mock.ExpectQuery(regexp.QuoteMeta("FROM game_categories ORDER BY position, id")).
		WillReturnRows(pgxmock.NewRows(gameCols).
			AddRow("word-match", "Word match", "", gameTasksJSON(t, tasks)).
			AddRow("grid", "Word grid", "", []byte(`null`)))

	got, err := NewGameRepository(mock).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, tasks, got[0].Tasks)
	assert.NotNil(t, got[1].Tasks, "null tasks decode to an empty list")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM game_categories WHERE id = $1")).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err = NewGameRepository(mock).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_UpdateTasks(t *testing.T) {
	t.Run("rewrites tasks under lock", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		before := []domain.GameTask{{ID: "1", Slug: "match"}}
		after := []domain.GameTask{{ID: "1", Slug: "match", IsUnlocked: true}}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT tasks FROM game_categories WHERE id = $1 FOR UPDATE")).
			WithArgs("word-match").
			WillReturnRows(pgxmock.NewRows([]string{"tasks"}).AddRow(gameTasksJSON(t, before)))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE game_categories SET tasks = $2 WHERE id = $1")).
			WithArgs("word-match", gameTasksJSON(t, after)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		err = NewGameRepository(mock).UpdateTasks(context.Background(), "word-match", func(tasks []domain.GameTask) ([]domain.GameTask, error) {
			tasks[0].IsUnlocked = true
			return tasks, nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("callback error rolls back", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs("word-match").
			WillReturnRows(pgxmock.NewRows([]string{"tasks"}).AddRow([]byte(`[]`)))
		mock.ExpectRollback()

		boom := errors.New("task not found")
		err = NewGameRepository(mock).UpdateTasks(context.Background(), "word-match", func([]domain.GameTask) ([]domain.GameTask, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown category", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs("nope").
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		err = NewGameRepository(mock).UpdateTasks(context.Background(), "nope", func(tasks []domain.GameTask) ([]domain.GameTask, error) {
			return tasks, nil
		})
		assert.ErrorIs(t, err, domain.ErrGameNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGameRepository_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	g := &domain.GameCategory{ID: "word-match", Title: "Word match", Tasks: []domain.GameTask{{ID: "1"}}}
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE")).
		WithArgs("word-match", "Word match", "", 2, gameTasksJSON(t, g.Tasks)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewGameRepository(mock).Upsert(context.Background(), g, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
