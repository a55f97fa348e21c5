package userplants

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/verdantapp/verdant-backend/internal/config"
)

type Plugin struct {
	photos PhotoStore
}

// New creates the user-plants plugin. photos may be nil when no bucket
// is configured.
func New(photos PhotoStore) *Plugin {
	return &Plugin{photos: photos}
}

func (p *Plugin) ID() string { return "userplants" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&UserPlant{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewService(db, p.photos)
	handler := NewHandler(svc)

	router.Post("/userPlant/create", handler.Create)
	router.Get("/userPlants/search", handler.Search)
	router.Get("/userPlants", handler.List)
	router.Get("/userPlant/:id", handler.Get)
	router.Put("/userPlant/:id", handler.Update)
	router.Delete("/userPlant/:id", handler.Delete)
}
