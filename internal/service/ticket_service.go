package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/psds-microservice/helpdesk/internal/errs"
	"github.com/psds-microservice/helpdesk/internal/kafka"
	"github.com/psds-microservice/helpdesk/internal/model"
	"github.com/psds-microservice/helpdesk/internal/render"
	"github.com/psds-microservice/helpdesk/internal/repository"
)

// ConfirmationPhrase must be supplied verbatim to wipe every ticket.
const ConfirmationPhrase = "DELETE"

const sideEffectTimeout = 5 * time.Second

// Indexer — поисковый индекс тикетов (searchindex.Client).
type Indexer interface {
	IndexTicket(ctx context.Context, t *model.Ticket)
	RemoveTicket(ctx context.Context, id uint64)
}

// TicketServicer — интерфейс для HTTP-слоя (Dependency Inversion).
type TicketServicer interface {
	Submit(ctx context.Context, firstName, title, description string) (uint64, error)
	GetPublic(ctx context.Context, id uint64) (*model.EnrichedTicket, error)
	ListForAdmin(ctx context.Context) ([]model.EnrichedTicket, error)
	Toggle(ctx context.Context, id uint64) error
	Delete(ctx context.Context, id uint64) error
	DeleteAll(ctx context.Context, confirmation string) (bool, error)
	Stats(ctx context.Context) (model.StatusCounts, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

// Deps — зависимости сервиса. Producer и Search необязательны.
type Deps struct {
	Tickets  repository.TicketRepository
	Producer kafka.TicketEventProducer
	Search   Indexer
}

type TicketService struct {
	Deps
	wg sync.WaitGroup
}

func NewTicketService(deps Deps) *TicketService {
	return &TicketService{Deps: deps}
}

// Submit trims and validates the form fields and stores a new ticket.
// Validation failures are returned as errs.ValidationErrors and nothing is written.
func (s *TicketService) Submit(ctx context.Context, firstName, title, description string) (uint64, error) {
	firstName = sanitize(firstName)
	title = sanitize(title)
	description = sanitize(description)
	if verrs := validateTicket(firstName, title, description); len(verrs) > 0 {
		return 0, verrs
	}
	id, err := s.Tickets.Create(ctx, firstName, title, description)
	if err != nil {
		return 0, err
	}
	s.afterWrite(kafka.EventTicketCreated, id, map[string]interface{}{
		"ticket_id":  int64(id),
		"first_name": firstName,
		"title":      title,
		"status":     string(model.TicketStatusNew),
	})
	return id, nil
}

func (s *TicketService) GetPublic(ctx context.Context, id uint64) (*model.EnrichedTicket, error) {
	t, err := s.Tickets.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	e := Enrich(*t)
	return &e, nil
}

func (s *TicketService) ListForAdmin(ctx context.Context) ([]model.EnrichedTicket, error) {
	items, err := s.Tickets.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.EnrichedTicket, len(items))
	for i := range items {
		out[i] = Enrich(items[i])
	}
	return out, nil
}

// Toggle advances the ticket one lifecycle step. Missing tickets are ignored.
func (s *TicketService) Toggle(ctx context.Context, id uint64) error {
	t, err := s.Tickets.Find(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			return nil
		}
		return err
	}
	next := t.Status.Next()
	if err := s.Tickets.UpdateStatus(ctx, id, next); err != nil {
		return err
	}
	s.afterWrite(kafka.EventTicketStatusChanged, id, map[string]interface{}{
		"ticket_id": int64(id),
		"from":      string(t.Status),
		"status":    string(next),
	})
	return nil
}

func (s *TicketService) Delete(ctx context.Context, id uint64) error {
	if err := s.Tickets.Delete(ctx, id); err != nil {
		return err
	}
	s.background(func(ctx context.Context) {
		if s.Producer != nil {
			s.Producer.ProduceTicketEvent(ctx, kafka.EventTicketDeleted, map[string]interface{}{"ticket_id": int64(id)})
		}
		if s.Search != nil {
			s.Search.RemoveTicket(ctx, id)
		}
	})
	return nil
}

// DeleteAll wipes the store only when confirmation equals ConfirmationPhrase
// exactly. It reports false, and changes nothing, on a mismatch.
func (s *TicketService) DeleteAll(ctx context.Context, confirmation string) (bool, error) {
	if confirmation != ConfirmationPhrase {
		return false, nil
	}
	// id запоминаем до очистки, чтобы потом убрать их из поискового индекса.
	var indexed []uint64
	if s.Search != nil {
		items, err := s.Tickets.All(ctx)
		if err != nil {
			return false, err
		}
		indexed = make([]uint64, len(items))
		for i := range items {
			indexed[i] = items[i].ID
		}
	}
	if err := s.Tickets.DeleteAll(ctx); err != nil {
		return false, err
	}
	log.Println("ticket-service: all tickets deleted")
	s.background(func(ctx context.Context) {
		if s.Producer != nil {
			s.Producer.ProduceTicketEvent(ctx, kafka.EventTicketsPurged, map[string]interface{}{})
		}
		for _, id := range indexed {
			s.Search.RemoveTicket(ctx, id)
		}
	})
	return true, nil
}

func (s *TicketService) Stats(ctx context.Context) (model.StatusCounts, error) {
	return s.Tickets.CountByStatus(ctx)
}

var csvHeader = []string{"ID", "First Name", "Title", "Status", "Created At", "Updated At"}

// ExportCSV writes the admin queue as CSV in ListForAdmin order.
func (s *TicketService) ExportCSV(ctx context.Context, w io.Writer) error {
	items, err := s.ListForAdmin(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range items {
		row := []string{
			strconv.FormatUint(t.ID, 10),
			t.FirstName,
			t.Title,
			t.StatusLabel,
			t.CreatedAt.String(),
			t.UpdatedAt.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Enrich derives the display fields of t. It is a pure projection and is
// recomputed on every read.
func Enrich(t model.Ticket) model.EnrichedTicket {
	return model.EnrichedTicket{
		ID:                  t.ID,
		FirstName:           t.FirstName,
		Title:               t.Title,
		Description:         t.Description,
		Status:              t.Status,
		CreatedAt:           model.Timestamp(t.CreatedAt),
		UpdatedAt:           model.Timestamp(t.UpdatedAt),
		StatusLabel:         t.Status.Label(),
		StatusBadgeClass:    t.Status.BadgeClass(),
		RenderedDescription: render.Render(t.Description).HTML(),
		DescriptionPreview:  render.Preview(t.Description, render.PreviewLength),
		PublicURL:           PublicURL(t.ID),
	}
}

func PublicURL(id uint64) string {
	return "/ticket/" + strconv.FormatUint(id, 10)
}

func sanitize(v string) string {
	return strings.TrimSpace(v)
}

func validateTicket(firstName, title, description string) errs.ValidationErrors {
	verrs := errs.ValidationErrors{}
	if firstName == "" {
		verrs["first_name"] = "First name is required."
	}
	if title == "" {
		verrs["title"] = "Title is required."
	}
	if description == "" {
		verrs["description"] = "Description is required."
	}
	return verrs
}

// afterWrite publishes the event and reindexes the ticket in the background.
func (s *TicketService) afterWrite(event string, id uint64, payload map[string]interface{}) {
	s.background(func(ctx context.Context) {
		if s.Producer != nil {
			s.Producer.ProduceTicketEvent(ctx, event, payload)
		}
		if s.Search != nil {
			t, err := s.Tickets.Find(ctx, id)
			if err != nil {
				log.Printf("ticket-service: reindex %d: %v", id, err)
				return
			}
			s.Search.IndexTicket(ctx, t)
		}
	})
}

// background runs fn detached from the request with its own timeout.
func (s *TicketService) background(fn func(ctx context.Context)) {
	if s.Producer == nil && s.Search == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		fn(ctx)
	}()
}

// Wait blocks until background event and index updates have finished.
func (s *TicketService) Wait() {
	s.wg.Wait()
}
