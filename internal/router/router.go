package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/helpdesk/api"
	"github.com/psds-microservice/helpdesk/internal/auth"
	"github.com/psds-microservice/helpdesk/internal/handler"
	"github.com/psds-microservice/helpdesk/internal/web"
	"github.com/psds-microservice/helpy/paths"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const sessionCookie = "helpdesk_session"

type Deps struct {
	Tickets  *handler.TicketHandler
	Admin    *handler.AdminHandler
	Health   *handler.HealthHandler
	Guard    *auth.Guard
	Sessions sessions.Store
	// AccessLog включает gin.Logger().
	AccessLog bool
}

func New(d Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	if d.AccessLog {
		r.Use(gin.Logger())
	}
	r.SetHTMLTemplate(web.Templates())
	r.Use(sessions.Sessions(sessionCookie, d.Sessions))
	r.NoRoute(handler.NotFound)

	r.GET(paths.PathHealth, d.Health.Health)
	r.GET(paths.PathReady, d.Health.Ready)
	r.GET(paths.PathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, paths.PathSwagger+"/") })
	r.GET(paths.PathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = paths.PathSwagger + "/index.html"
			c.Request.RequestURI = paths.PathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(paths.PathSwagger+"/openapi.json"))(c)
	})

	// публичная часть
	r.GET("/", d.Tickets.Home)
	r.POST("/create-ticket", d.Tickets.Create)
	r.GET("/ticket/:id", d.Tickets.Show)
	r.GET("/api/tickets/:id", d.Tickets.Get)

	r.GET("/admin", d.Admin.Dashboard)
	r.POST("/admin/login", d.Admin.Login)
	r.POST("/admin/logout", d.Admin.Logout)
	r.GET("/admin/tickets/export.csv", d.Guard.RequireAdminPage("/admin"), d.Admin.ExportCSV)

	admin := r.Group("/", d.Guard.RequireAdminAPI())
	{
		admin.GET("/api/admin/tickets", d.Admin.List)
		admin.GET("/api/admin/stats", d.Admin.Stats)
		admin.POST("/admin/ticket/:id/toggle", d.Admin.Toggle)
		admin.POST("/admin/ticket/:id/delete", d.Admin.Delete)
		admin.POST("/admin/tickets/delete-all", d.Admin.DeleteAll)
	}

	return r
}
