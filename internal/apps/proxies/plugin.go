package proxies

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/verdantapp/verdant-backend/internal/config"
)

type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "proxies" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&ProxyContact{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewService(db)
	handler := NewHandler(svc)

	router.Post("/proxy/create", handler.Create)
	router.Get("/proxys/search", handler.Search)
	router.Get("/proxys", handler.List)
	router.Get("/proxy/:id", handler.Get)
	router.Put("/proxy/:id", handler.Update)
	router.Delete("/proxy/:id", handler.Delete)
}
