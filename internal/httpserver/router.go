package httpserver

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bidmarket/internal/handler"
	"bidmarket/internal/storage"
)

type Router struct {
	Engine *gin.Engine
}

type RouterConfig struct {
	JWTSecret      string
	FrontendOrigin string
}

func NewRouter(
	cfg RouterConfig,
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	bidHandler *handler.BidHandler,
	deliverableHandler *handler.DeliverableHandler,
	files *storage.Local,
) *Router {
	r := gin.Default()

	r.Use(MetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendOrigin},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Stored deliverable files.
	r.GET("/files/:name", func(c *gin.Context) {
		path, err := files.Path(c.Param("name"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		c.File(path)
	})

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", AuthMiddleware(cfg.JWTSecret), authHandler.Me)
	}

	project := r.Group("/api/project")
	project.Use(AuthMiddleware(cfg.JWTSecret))
	{
		project.POST("/create", projectHandler.Create)
		project.GET("/", projectHandler.List)
		project.GET("/:id", projectHandler.GetByID)
		project.POST("/bid", bidHandler.Create)
		project.PUT("/bid", bidHandler.Update)
		project.DELETE("/bid", bidHandler.Delete)
		project.POST("/select-bid", projectHandler.SelectBid)
		project.POST("/deliver", deliverableHandler.Submit)
		project.POST("/complete", projectHandler.Complete)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
