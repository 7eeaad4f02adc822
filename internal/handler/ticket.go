package handler

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/helpdesk/internal/errs"
	"github.com/psds-microservice/helpdesk/internal/service"
)

// PublicPollInterval — период опроса /api/tickets/{id} со страницы тикета.
const PublicPollInterval = 5 * time.Second

type TicketHandler struct {
	svc service.TicketServicer
}

func NewTicketHandler(svc service.TicketServicer) *TicketHandler {
	return &TicketHandler{svc: svc}
}

type ticketForm struct {
	FirstName   string
	Title       string
	Description string
}

func (h *TicketHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index", gin.H{"Form": ticketForm{}})
}

func (h *TicketHandler) Create(c *gin.Context) {
	form := ticketForm{
		FirstName:   c.PostForm("first_name"),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}
	id, err := h.svc.Submit(c.Request.Context(), form.FirstName, form.Title, form.Description)
	if err != nil {
		var verrs errs.ValidationErrors
		if errors.As(err, &verrs) {
			c.HTML(http.StatusUnprocessableEntity, "index", gin.H{"Form": form, "Errors": verrs})
			return
		}
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, service.PublicURL(id))
}

func (h *TicketHandler) Show(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	t, err := h.svc.GetPublic(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.HTML(http.StatusNotFound, "not_found", nil)
			return
		}
		respondError(c, err)
		return
	}
	c.HTML(http.StatusOK, "ticket", gin.H{
		"Ticket": t,
		// уже экранировано render.Document.HTML
		"Description": template.HTML(t.RenderedDescription),
		"PollMillis":  PublicPollInterval.Milliseconds(),
	})
}

// Get отдаёт {"ticket": EnrichedTicket | null}.
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	t, err := h.svc.GetPublic(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusOK, gin.H{"ticket": nil})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": t})
}

// ticketID parses the :id param. Non-numeric ids are treated like an
// unknown route.
func ticketID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		NotFound(c)
		return 0, false
	}
	return id, true
}
