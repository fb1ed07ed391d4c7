package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/trezcool/personal/core"
	"github.com/trezcool/personal/core/identity"
)

type (
	profileRepository struct {
		db core.DBExecutor
	}

	profileRow struct {
		UserID string `db:"user_id"`
		Role   string `db:"role"`
		Nome   string `db:"nome"`
	}
)

func NewProfileRepository(db core.DBExecutor) identity.ProfileRepository {
	return &profileRepository{db: db}
}

func (r profileRow) toProfile() identity.Profile {
	return identity.Profile{UserID: r.UserID, Role: identity.Role(r.Role), Name: r.Nome}
}

func (repo *profileRepository) GetProfile(ctx context.Context, userID string) (identity.Profile, error) {
	var row profileRow
	q := `SELECT user_id, role, nome FROM profiles WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &row, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return identity.Profile{}, identity.ErrProfileNotFound
		}
		return identity.Profile{}, trapErr("getting profile", err)
	}
	return row.toProfile(), nil
}

func (repo *profileRepository) SaveProfile(ctx context.Context, prof identity.Profile) (identity.Profile, error) {
	var row profileRow
	q := `INSERT INTO profiles (user_id, role, nome) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, nome = EXCLUDED.nome
		RETURNING user_id, role, nome`
	if err := repo.db.GetContext(ctx, &row, q, prof.UserID, string(prof.Role), prof.Name); err != nil {
		return identity.Profile{}, trapErr("saving profile", err)
	}
	return row.toProfile(), nil
}
