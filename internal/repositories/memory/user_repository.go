package memory

import (
	"context"

	"seatshare/internal/models"
	"seatshare/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User")
	}
	out := *user
	return &out, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make(map[primitive.ObjectID]*models.User, len(ids))
	for _, id := range ids {
		if user, ok := r.store.users[id]; ok {
			out := *user
			users[id] = &out
		}
	}
	return users, nil
}

func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	r.store.PutUser(user)
	return nil
}
