package inmemdb

import (
	"context"

	"github.com/trezcool/personal/core/identity"
)

type profileRepository struct {
	db *profileTable
}

func NewProfileRepository(db *DB) identity.ProfileRepository {
	return &profileRepository{db: db.profiles}
}

func (repo *profileRepository) GetProfile(_ context.Context, userID string) (identity.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if prof, ok := repo.db.table[userID]; ok {
		return *prof, nil
	}
	return identity.Profile{}, identity.ErrProfileNotFound
}

func (repo *profileRepository) SaveProfile(_ context.Context, prof identity.Profile) (identity.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[prof.UserID] = &prof
	return prof, nil
}
