package repositories

import (
	"context"

	"leaseboard/internal/kv"
	"leaseboard/internal/models"

	"github.com/google/uuid"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Property, error)
	ListAll(ctx context.Context) ([]*models.Property, error)
}

type propertyRepo struct {
	store kv.Store
	users UserRepository
}

func NewPropertyRepository(store kv.Store, users UserRepository) PropertyRepository {
	return &propertyRepo{store: store, users: users}
}

func (r *propertyRepo) Create(ctx context.Context, property *models.Property) error {
	if err := r.store.Put(ctx, propertyKey(property.ID), property); err != nil {
		return err
	}
	return r.users.AddPropertyID(ctx, property.UserID, property.ID)
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	property := &models.Property{}
	if err := r.store.Get(ctx, propertyKey(id), property); err != nil {
		return nil, err
	}
	return property, nil
}

func (r *propertyRepo) Update(ctx context.Context, property *models.Property) error {
	return r.store.Put(ctx, propertyKey(property.ID), property)
}

func (r *propertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	property, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, propertyKey(id)); err != nil {
		return err
	}
	return r.users.RemovePropertyID(ctx, property.UserID, id)
}

// ListByUser resolves the owner's id list and fetches each document; ids
// whose entries vanished are skipped.
func (r *propertyRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Property, error) {
	ids, err := r.users.PropertyIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	properties := make([]*models.Property, 0, len(ids))
	for _, id := range ids {
		property, err := r.GetByID(ctx, id)
		if err != nil {
			if err == kv.ErrNotFound {
				continue
			}
			return nil, err
		}
		properties = append(properties, property)
	}
	return properties, nil
}

func (r *propertyRepo) ListAll(ctx context.Context) ([]*models.Property, error) {
	var properties []*models.Property
	if err := r.store.ListPrefix(ctx, propertyKeyPrefix, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}
