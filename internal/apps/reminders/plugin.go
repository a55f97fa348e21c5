package reminders

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/verdantapp/verdant-backend/internal/cache"
	"github.com/verdantapp/verdant-backend/internal/config"
)

type Plugin struct {
	cache *cache.Cache
}

// New creates the reminders plugin. cache may be nil.
func New(c *cache.Cache) *Plugin {
	return &Plugin{cache: c}
}

func (p *Plugin) ID() string { return "reminders" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&Reminder{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewService(db, p.cache)
	handler := NewHandler(svc)

	router.Post("/reminder/create", handler.Create)
	router.Get("/reminders/search", handler.Search)
	router.Get("/reminders", handler.List)
	router.Get("/reminder/:id", handler.Get)
	router.Put("/reminder/:id", handler.Update)
	router.Delete("/reminder/:id", handler.Delete)
}
