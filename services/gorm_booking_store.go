package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"court-booking/models"
)

// GormBookingStore persists bookings in MySQL. Ids come from AUTO_INCREMENT, so
// they are never reused after deletion.
type GormBookingStore struct {
	DB *gorm.DB
}

func NewGormBookingStore(db *gorm.DB) *GormBookingStore {
	return &GormBookingStore{DB: db}
}

func (s *GormBookingStore) Migrate() error {
	return s.DB.AutoMigrate(&models.BookingRow{})
}

// Add inserts all bookings in one transaction, locking any overlapping rows
// first so two writers cannot book the same slot.
func (s *GormBookingStore) Add(ctx context.Context, bookings ...models.Booking) ([]models.Booking, error) {
	out := make([]models.Booking, 0, len(bookings))
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, b := range bookings {
			if c, ok := firstConflict(out, b); ok {
				return fmt.Errorf("%w: batch item %d conflicts with batch item for %s at %.1f", ErrSlotOverlap, i, c.Court, c.Time)
			}
			var existing models.BookingRow
			err := tx.Model(&models.BookingRow{}).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("court = ? AND date = ?", b.Court, datatypes.Date(models.Day(b.Date))).
				Where("time < ? AND time + duration > ?", b.Time+b.Duration, b.Time).
				Take(&existing).Error
			if err == nil {
				return fmt.Errorf("%w: %s %s %.1f conflicts with booking %d", ErrSlotOverlap, b.Court, models.Day(b.Date).Format("2006-01-02"), b.Time, existing.ID)
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			row := models.BookingRowFrom(b)
			row.ID = 0
			if err := tx.Create(&row).Error; err != nil {
				if isDuplicateKey(err) {
					return fmt.Errorf("%w: %s at %.1f", ErrSlotOverlap, b.Court, b.Time)
				}
				return fmt.Errorf("failed to create booking: %w", err)
			}
			out = append(out, row.ToBooking())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormBookingStore) Get(ctx context.Context, id int64) (models.Booking, error) {
	var row models.BookingRow
	if err := s.DB.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
		}
		return models.Booking{}, fmt.Errorf("failed to find booking: %w", err)
	}
	return row.ToBooking(), nil
}

func (s *GormBookingStore) Remove(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.BookingRow{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
			return err
		}
		if int(n) != len(uniqueIDs(ids)) {
			return fmt.Errorf("%w: one of %v", ErrBookingNotFound, ids)
		}
		return tx.Where("id IN ?", ids).Delete(&models.BookingRow{}).Error
	})
}

func (s *GormBookingStore) RemoveGroupFrom(ctx context.Context, groupID string, from time.Time) ([]int64, error) {
	if groupID == "" {
		return nil, fmt.Errorf("%w: empty recurring group id", ErrInvalidBooking)
	}
	var ids []int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.BookingRow{}).Where("recurring_group_id = ? AND date >= ?", groupID, datatypes.Date(models.Day(from)))
		if err := q.Order("id ASC").Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Where("id IN ?", ids).Delete(&models.BookingRow{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete recurring group: %w", err)
	}
	return ids, nil
}

func (s *GormBookingStore) UpdateStatus(ctx context.Context, id int64, status string) (models.Booking, error) {
	if !models.ValidStatus(status) {
		return models.Booking{}, fmt.Errorf("%w: unknown status %q", ErrInvalidBooking, status)
	}
	return s.update(ctx, id, map[string]interface{}{"status": status})
}

func (s *GormBookingStore) SetPaid(ctx context.Context, id int64, paid bool) (models.Booking, error) {
	return s.update(ctx, id, map[string]interface{}{"paid": paid})
}

func (s *GormBookingStore) SetRecurring(ctx context.Context, id int64, groupID string) (models.Booking, error) {
	var group interface{}
	if groupID != "" {
		group = groupID
	}
	return s.update(ctx, id, map[string]interface{}{
		"recurring":          groupID != "",
		"recurring_group_id": group,
	})
}

func (s *GormBookingStore) All(ctx context.Context) ([]models.Booking, error) {
	var rows []models.BookingRow
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	out := make([]models.Booking, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToBooking())
	}
	return out, nil
}

// NextID is advisory: AUTO_INCREMENT may run ahead after deletions, and Add
// assigns the real ids.
func (s *GormBookingStore) NextID(ctx context.Context) (int64, error) {
	var max int64
	if err := s.DB.WithContext(ctx).Model(&models.BookingRow{}).Select("COALESCE(MAX(id), 0)").Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (s *GormBookingStore) update(ctx context.Context, id int64, fields map[string]interface{}) (models.Booking, error) {
	var row models.BookingRow
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&row).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&row, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
		}
		return models.Booking{}, fmt.Errorf("failed to update booking %d: %w", id, err)
	}
	return row.ToBooking(), nil
}

func isDuplicateKey(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func uniqueIDs(ids []int64) map[int64]struct{} {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
