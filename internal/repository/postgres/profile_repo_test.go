package postgres

import (
	"errors"
	"testing"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectTechnologies(t *testing.T) {
	m := pgtype.NewMap()

	t.Run("nil is written as an empty array", func(t *testing.T) {
		buf, err := m.Encode(pgtype.TextArrayOID, pgtype.TextFormatCode, technologies(&domain.Project{}), nil)
		require.NoError(t, err)
		assert.Equal(t, "{}", string(buf))
	})

	t.Run("plain string slices round trip", func(t *testing.T) {
		buf, err := m.Encode(pgtype.TextArrayOID, pgtype.TextFormatCode, technologies(&domain.Project{Technologies: []string{"Go", "SQL"}}), nil)
		require.NoError(t, err)
		assert.Equal(t, "{Go,SQL}", string(buf))

		var out []string
		require.NoError(t, m.Scan(pgtype.TextArrayOID, pgtype.TextFormatCode, buf, &out))
		assert.Equal(t, []string{"Go", "SQL"}, out)
	})
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(pgx.ErrNoRows), domain.ErrNotFound)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505"}), domain.ErrDuplicate)

	other := errors.New("conn reset")
	assert.Equal(t, other, translate(other))

	assert.ErrorIs(t, requireAffected(pgconn.NewCommandTag("UPDATE 0"), nil), domain.ErrNotFound)
	assert.NoError(t, requireAffected(pgconn.NewCommandTag("UPDATE 1"), nil))
}
