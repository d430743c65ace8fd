package cli

import (
	"context"

	"github.com/felixgeelhaar/catalog/internal/catalog/application/commands"
	"github.com/felixgeelhaar/catalog/internal/catalog/application/queries"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Product Command Handlers
	CreateProductHandler      *commands.CreateProductHandler
	RetitleProductHandler     *commands.RetitleProductHandler
	RepriceProductHandler     *commands.RepriceProductHandler
	UpdateDetailsHandler      *commands.UpdateDetailsHandler
	DiscontinueProductHandler *commands.DiscontinueProductHandler
	DeleteProductHandler      *commands.DeleteProductHandler

	// Product Query Handlers
	GetProductHandler   *queries.GetProductHandler
	ListProductsHandler *queries.ListProductsHandler

	// Outbox administration
	OutboxRepo      outbox.Repository
	OutboxProcessor *outbox.Processor

	// RelayEvents runs after every command. Nil when another process relays.
	RelayEvents func(ctx context.Context) error

	// Owner of every product the CLI touches
	CurrentOwnerID uuid.UUID
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	createProductHandler *commands.CreateProductHandler,
	retitleProductHandler *commands.RetitleProductHandler,
	repriceProductHandler *commands.RepriceProductHandler,
	updateDetailsHandler *commands.UpdateDetailsHandler,
	discontinueProductHandler *commands.DiscontinueProductHandler,
	deleteProductHandler *commands.DeleteProductHandler,
	getProductHandler *queries.GetProductHandler,
	listProductsHandler *queries.ListProductsHandler,
) *App {
	return &App{
		CreateProductHandler:      createProductHandler,
		RetitleProductHandler:     retitleProductHandler,
		RepriceProductHandler:     repriceProductHandler,
		UpdateDetailsHandler:      updateDetailsHandler,
		DiscontinueProductHandler: discontinueProductHandler,
		DeleteProductHandler:      deleteProductHandler,
		GetProductHandler:         getProductHandler,
		ListProductsHandler:       listProductsHandler,
		CurrentOwnerID:            uuid.Nil,
	}
}

// SetCurrentOwnerID updates the current owner ID.
func (a *App) SetCurrentOwnerID(id uuid.UUID) {
	a.CurrentOwnerID = id
}

// SetOutbox wires the outbox commands.
func (a *App) SetOutbox(repo outbox.Repository, processor *outbox.Processor) {
	a.OutboxRepo = repo
	a.OutboxProcessor = processor
}

// SetEventRelay sets the function run after every command.
func (a *App) SetEventRelay(relay func(ctx context.Context) error) {
	a.RelayEvents = relay
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
