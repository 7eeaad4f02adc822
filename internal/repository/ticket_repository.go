package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/psds-microservice/helpdesk/internal/errs"
	"github.com/psds-microservice/helpdesk/internal/model"
	"gorm.io/gorm"
)

// TicketRepository — хранилище тикетов (одна таблица tickets).
type TicketRepository interface {
	Create(ctx context.Context, firstName, title, description string) (uint64, error)
	All(ctx context.Context) ([]model.Ticket, error)
	Find(ctx context.Context, id uint64) (*model.Ticket, error)
	UpdateStatus(ctx context.Context, id uint64, status model.TicketStatus) error
	Delete(ctx context.Context, id uint64) error
	// DeleteAll wipes the table. Callers must confirm the operation first.
	DeleteAll(ctx context.Context) error
	CountByStatus(ctx context.Context) (model.StatusCounts, error)
}

// maxID — наибольший id, который может выдать BIGSERIAL/AUTOINCREMENT.
// Большие значения драйверы отвергают, такого тикета заведомо нет.
const maxID = math.MaxInt64

type GormTicketRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db, now: time.Now}
}

// WithClock overrides the time source used for created_at/updated_at.
func (r *GormTicketRepository) WithClock(now func() time.Time) *GormTicketRepository {
	r.now = now
	return r
}

func (r *GormTicketRepository) Create(ctx context.Context, firstName, title, description string) (uint64, error) {
	now := r.now().UTC()
	t := &model.Ticket{
		FirstName:   firstName,
		Title:       title,
		Description: description,
		Status:      model.TicketStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return 0, persistence("create ticket", err)
	}
	return t.ID, nil
}

func (r *GormTicketRepository) All(ctx context.Context) ([]model.Ticket, error) {
	var items []model.Ticket
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, persistence("list tickets", err)
	}
	return items, nil
}

func (r *GormTicketRepository) Find(ctx context.Context, id uint64) (*model.Ticket, error) {
	if id > maxID {
		return nil, errs.ErrTicketNotFound
	}
	var t model.Ticket
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, persistence("find ticket", err)
	}
	return &t, nil
}

func (r *GormTicketRepository) UpdateStatus(ctx context.Context, id uint64, status model.TicketStatus) error {
	if id > maxID {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": r.now().UTC(),
	}).Error
	if err != nil {
		return persistence("update ticket status", err)
	}
	return nil
}

func (r *GormTicketRepository) Delete(ctx context.Context, id uint64) error {
	if id > maxID {
		return nil
	}
	if err := r.db.WithContext(ctx).Delete(&model.Ticket{}, id).Error; err != nil {
		return persistence("delete ticket", err)
	}
	return nil
}

func (r *GormTicketRepository) DeleteAll(ctx context.Context) error {
	// DELETE, а не TRUNCATE: идентификаторы не должны переиспользоваться.
	err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Ticket{}).Error
	if err != nil {
		return persistence("delete all tickets", err)
	}
	return nil
}

func (r *GormTicketRepository) CountByStatus(ctx context.Context) (model.StatusCounts, error) {
	var rows []struct {
		Status model.TicketStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return model.StatusCounts{}, persistence("count tickets", err)
	}
	var c model.StatusCounts
	for _, row := range rows {
		switch row.Status {
		case model.TicketStatusNew:
			c.New = row.Count
		case model.TicketStatusInProgress:
			c.InProgress = row.Count
		case model.TicketStatusDone:
			c.Done = row.Count
		}
		c.Total += row.Count
	}
	return c, nil
}

func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, errs.ErrPersistence, err)
}
