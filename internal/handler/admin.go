package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/helpdesk/internal/auth"
	"github.com/psds-microservice/helpdesk/internal/service"
)

// AdminPollInterval — период опроса очереди в консоли администратора.
const AdminPollInterval = 4 * time.Second

const confirmationMismatch = "Confirmation text mismatch."

type AdminHandler struct {
	svc   service.TicketServicer
	guard *auth.Guard
}

func NewAdminHandler(svc service.TicketServicer, guard *auth.Guard) *AdminHandler {
	return &AdminHandler{svc: svc, guard: guard}
}

// Dashboard shows the console to admins and the login form to everyone else.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	if !h.guard.IsAuthenticated(sessions.Default(c)) {
		c.HTML(http.StatusOK, "admin_login", gin.H{})
		return
	}
	c.HTML(http.StatusOK, "admin", gin.H{"PollMillis": AdminPollInterval.Milliseconds()})
}

func (h *AdminHandler) Login(c *gin.Context) {
	if !h.guard.Authenticate(sessions.Default(c), c.PostForm("password")) {
		c.HTML(http.StatusOK, "admin_login", gin.H{"Error": "Incorrect password."})
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *AdminHandler) Logout(c *gin.Context) {
	if err := h.guard.Logout(sessions.Default(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *AdminHandler) List(c *gin.Context) {
	items, err := h.svc.ListForAdmin(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": items})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	counts, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

// Toggle всегда отвечает success:true, даже если тикета нет.
func (h *AdminHandler) Toggle(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	if err := h.svc.Toggle(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) DeleteAll(c *gin.Context) {
	deleted, err := h.svc.DeleteAll(c.Request.Context(), c.PostForm("confirmation"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": confirmationMismatch})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.ExportCSV(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="tickets.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
