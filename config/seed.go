package config

import (
	"context"
	"log"
	"time"

	"court-booking/models"
	"court-booking/services"
)

// DemoBookings are the sample reservations the dashboard starts with.
func DemoBookings() []models.Booking {
	day := time.Date(2025, time.March, 30, 0, 0, 0, 0, time.UTC)
	return []models.Booking{
		{Court: "Court 1", Date: day, Time: 10, Duration: 1, Renter: "John Smith", Paid: true,
			Email: "john.smith@example.com", Phone: "555-123-4567", Amount: 15, Status: models.StatusConfirmed},
		{Court: "Court 2", Date: day, Time: 11.5, Duration: 1.5, Renter: "Emma Johnson", Paid: false,
			Email: "emma.j@example.com", Phone: "555-987-6543", Amount: 30, Status: models.StatusConfirmed},
		{Court: "Court 3", Date: day, Time: 14.5, Duration: 2.5, Renter: "Michael Brown", Paid: true,
			Email: "mbrown@example.com", Phone: "555-456-7890", Amount: 45, Status: models.StatusConfirmed},
		{Court: "Court 1", Date: day, Time: 18.5, Duration: 0.5, Renter: "Sarah Davis", Paid: false,
			Email: "sarah.d@example.com", Phone: "555-789-0123", Amount: 15, Status: models.StatusConfirmed},
	}
}

// SeedBookings adds the demo bookings when the store is empty.
func SeedBookings(ctx context.Context, store services.BookingStore) error {
	existing, err := store.All(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Println("[seed] bookings already present")
		return nil
	}
	if _, err := store.Add(ctx, DemoBookings()...); err != nil {
		return err
	}
	log.Println("[seed] demo bookings seeded")
	return nil
}
