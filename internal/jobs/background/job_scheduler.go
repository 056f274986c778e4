package background

import (
	"context"
	"log"
	"sync"
	"time"

	"leaseboard/internal/analytics"
	"leaseboard/internal/models"
	"leaseboard/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler runs the periodic maintenance sweeps.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	analyticsSvc analytics.Service
	users        repositories.UserRepository
	properties   repositories.PropertyRepository
	bookings     repositories.BookingRepository
	leases       repositories.LeaseRepository
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

func NewJobScheduler(analyticsSvc analytics.Service, users repositories.UserRepository,
	properties repositories.PropertyRepository, bookings repositories.BookingRepository,
	leases repositories.LeaseRepository) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		analyticsSvc: analyticsSvc,
		users:        users,
		properties:   properties,
		bookings:     bookings,
		leases:       leases,
		jobs:         make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	analyticsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(js.refreshAnalytics, context.Background()),
		gocron.WithName("analytics-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create analytics job: %v", err)
	} else {
		js.jobs["analytics"] = analyticsJob
	}

	leaseJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.sweepExpiredLeases, context.Background()),
		gocron.WithName("lease-expiry-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create lease expiry job: %v", err)
	} else {
		js.jobs["lease-expiry"] = leaseJob
	}

	bookingJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.sweepCompletedBookings, context.Background()),
		gocron.WithName("booking-completion-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create booking completion job: %v", err)
	} else {
		js.jobs["booking-completion"] = bookingJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// refreshAnalytics re-warms the cached portfolio view for every account
// that owns at least one listing.
func (js *JobScheduler) refreshAnalytics(ctx context.Context) {
	users, err := js.users.ListAll(ctx)
	if err != nil {
		log.Printf("analytics refresh: list users failed: %v", err)
		return
	}
	refreshed := 0
	for _, user := range users {
		ids, err := js.users.PropertyIDs(ctx, user.ID)
		if err != nil || len(ids) == 0 {
			continue
		}
		if err := js.analyticsSvc.RefreshForUser(ctx, user.ID); err != nil {
			log.Printf("analytics refresh failed for %s: %v", user.ID, err)
			continue
		}
		refreshed++
	}
	log.Printf("analytics refresh: %d portfolios recomputed", refreshed)
}

// sweepExpiredLeases expires active leases past their end date and hands
// the unit back to the market.
func (js *JobScheduler) sweepExpiredLeases(ctx context.Context) {
	leases, err := js.leases.ListAll(ctx)
	if err != nil {
		log.Printf("lease sweep: list failed: %v", err)
		return
	}
	now := time.Now().UTC()
	expired := 0
	for _, lease := range leases {
		if lease.Status != models.LeaseStatusActive || lease.LeaseEndDate.After(now) {
			continue
		}
		lease.Status = models.LeaseStatusExpired
		lease.UpdatedAt = now
		if err := js.leases.Update(ctx, lease); err != nil {
			log.Printf("lease sweep: update %s failed: %v", lease.ID, err)
			continue
		}
		if property, err := js.properties.GetByID(ctx, lease.PropertyID); err == nil {
			property.Status = models.PropertyStatusActive
			property.CurrentTenantName = nil
			property.LeaseExpiryDate = nil
			property.UpdatedAt = now
			if err := js.properties.Update(ctx, property); err != nil {
				log.Printf("lease sweep: property %s update failed: %v", property.ID, err)
			}
		}
		expired++
	}
	if expired > 0 {
		log.Printf("lease sweep: %d leases expired", expired)
	}
}

// sweepCompletedBookings marks confirmed stays past their checkout as
// completed.
func (js *JobScheduler) sweepCompletedBookings(ctx context.Context) {
	bookings, err := js.bookings.ListAll(ctx)
	if err != nil {
		log.Printf("booking sweep: list failed: %v", err)
		return
	}
	now := time.Now().UTC()
	completed := 0
	for _, booking := range bookings {
		if booking.Status != models.BookingStatusConfirmed || booking.CheckOut.After(now) {
			continue
		}
		booking.Status = models.BookingStatusCompleted
		booking.UpdatedAt = now
		if err := js.bookings.Update(ctx, booking); err != nil {
			log.Printf("booking sweep: update %s failed: %v", booking.ID, err)
			continue
		}
		completed++
	}
	if completed > 0 {
		log.Printf("booking sweep: %d bookings completed", completed)
	}
}
