package repositories

import (
	"context"
	"errors"
	"strings"

	"leaseboard/internal/kv"
	"leaseboard/internal/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ListAll(ctx context.Context) ([]*models.User, error)

	// Owned-property index (denormalized id list under user_properties:<id>).
	PropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	AddPropertyID(ctx context.Context, userID, propertyID uuid.UUID) error
	RemovePropertyID(ctx context.Context, userID, propertyID uuid.UUID) error
}

type userRepo struct {
	store kv.Store
}

func NewUserRepository(store kv.Store) UserRepository {
	return &userRepo{store: store}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	if err := r.store.Put(ctx, userKey(user.ID), user); err != nil {
		return err
	}
	// Email lookup key for signin; last write wins like everything else.
	return r.store.Put(ctx, userEmailKey(normalizeEmail(user.Email)), user.ID.String())
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	if err := r.store.Get(ctx, userKey(id), user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var idStr string
	if err := r.store.Get(ctx, userEmailKey(normalizeEmail(email)), &idStr); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, errors.New("corrupt email index entry")
	}
	return r.GetByID(ctx, id)
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	return r.store.Put(ctx, userKey(user.ID), user)
}

func (r *userRepo) ListAll(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := r.store.ListPrefix(ctx, userKeyPrefix, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) PropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var raw []string
	err := r.store.Get(ctx, userPropsKey(userID), &raw)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			continue // skip corrupt entries rather than failing the listing
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *userRepo) AddPropertyID(ctx context.Context, userID, propertyID uuid.UUID) error {
	ids, err := r.propertyIDStrings(ctx, userID)
	if err != nil {
		return err
	}
	for _, s := range ids {
		if s == propertyID.String() {
			return nil
		}
	}
	return r.store.Put(ctx, userPropsKey(userID), append(ids, propertyID.String()))
}

func (r *userRepo) RemovePropertyID(ctx context.Context, userID, propertyID uuid.UUID) error {
	ids, err := r.propertyIDStrings(ctx, userID)
	if err != nil {
		return err
	}
	kept := ids[:0]
	for _, s := range ids {
		if s != propertyID.String() {
			kept = append(kept, s)
		}
	}
	return r.store.Put(ctx, userPropsKey(userID), kept)
}

func (r *userRepo) propertyIDStrings(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var ids []string
	err := r.store.Get(ctx, userPropsKey(userID), &ids)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
