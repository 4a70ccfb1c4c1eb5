package interfaces

import (
	"context"

	"seatshare/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository reads the accounts bookings refer to. Accounts are managed
// elsewhere; Upsert only exists so operators can register users alongside
// the tokens they mint.
type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}
