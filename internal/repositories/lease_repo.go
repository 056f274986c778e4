package repositories

import (
	"context"

	"leaseboard/internal/kv"
	"leaseboard/internal/models"

	"github.com/google/uuid"
)

type LeaseRepository interface {
	Create(ctx context.Context, lease *models.LeaseAgreement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.LeaseAgreement, error)
	Update(ctx context.Context, lease *models.LeaseAgreement) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]*models.LeaseAgreement, error)
	ListAll(ctx context.Context) ([]*models.LeaseAgreement, error)
}

type leaseRepo struct {
	store kv.Store
}

func NewLeaseRepository(store kv.Store) LeaseRepository {
	return &leaseRepo{store: store}
}

func (r *leaseRepo) Create(ctx context.Context, lease *models.LeaseAgreement) error {
	return r.store.Put(ctx, leaseKey(lease.ID), lease)
}

func (r *leaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.LeaseAgreement, error) {
	lease := &models.LeaseAgreement{}
	if err := r.store.Get(ctx, leaseKey(id), lease); err != nil {
		return nil, err
	}
	return lease, nil
}

func (r *leaseRepo) Update(ctx context.Context, lease *models.LeaseAgreement) error {
	return r.store.Put(ctx, leaseKey(lease.ID), lease)
}

func (r *leaseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, leaseKey(id))
}

func (r *leaseRepo) ListByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]*models.LeaseAgreement, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	wanted := make(map[uuid.UUID]bool, len(propertyIDs))
	for _, id := range propertyIDs {
		wanted[id] = true
	}
	leases := make([]*models.LeaseAgreement, 0, len(all))
	for _, lease := range all {
		if wanted[lease.PropertyID] {
			leases = append(leases, lease)
		}
	}
	return leases, nil
}

func (r *leaseRepo) ListAll(ctx context.Context) ([]*models.LeaseAgreement, error) {
	var leases []*models.LeaseAgreement
	if err := r.store.ListPrefix(ctx, leaseKeyPrefix, &leases); err != nil {
		return nil, err
	}
	return leases, nil
}
