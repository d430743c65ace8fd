package commands

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedProduct(t *testing.T, ownerID uuid.UUID, title string) *domain.Product {
	t.Helper()
	price, err := domain.NewPrice(1000, "EUR")
	require.NoError(t, err)
	p := domain.NewProduct(ownerID, domain.MustTitle(title), price)
	p.ClearDomainEvents()
	return p
}

func captureOutbox(outboxRepo *mockOutboxRepo, ctx context.Context) *[]*outbox.Message {
	var queued []*outbox.Message
	outboxRepo.On("Save", ctx, mock.Anything).
		Run(func(args mock.Arguments) { queued = append(queued, args.Get(1).([]*outbox.Message)...) }).
		Return(nil)
	return &queued
}

func TestRetitleProductHandler(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	product := storedProduct(t, ownerID, "Widget")

	repo := new(mockProductRepo)
	outboxRepo := new(mockOutboxRepo)
	repo.On("FindByID", ctx, product.ID(), ownerID).Return(product, nil)
	repo.On("FindByTitle", ctx, ownerID, domain.MustTitle("Gadget")).Return(nil, domain.ErrProductNotFound)
	repo.On("Save", ctx, product).Return(nil)
	queued := captureOutbox(outboxRepo, ctx)

	handler := NewRetitleProductHandler(repo, outboxRepo, &fakeUnitOfWork{})
	err := handler.Handle(ctx, RetitleProductCommand{ProductID: product.ID(), OwnerID: ownerID, Title: "Gadget"})

	require.NoError(t, err)
	assert.Equal(t, "Gadget", product.Title().Value())
	assert.Equal(t, []string{domain.RoutingKeyRetitled}, routingKeys(*queued))
}

func TestRetitleProductHandler_SameTitleIsNoop(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	product := storedProduct(t, ownerID, "Widget")

	repo := new(mockProductRepo)
	repo.On("FindByID", ctx, product.ID(), ownerID).Return(product, nil)

	handler := NewRetitleProductHandler(repo, new(mockOutboxRepo), &fakeUnitOfWork{})
	require.NoError(t, handler.Handle(ctx, RetitleProductCommand{ProductID: product.ID(), OwnerID: ownerID, Title: "Widget"}))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRetitleProductHandler_TitleTaken(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	product := storedProduct(t, ownerID, "Widget")
	other := storedProduct(t, ownerID, "Gadget")

	repo := new(mockProductRepo)
	repo.On("FindByID", ctx, product.ID(), ownerID).Return(product, nil)
	repo.On("FindByTitle", ctx, ownerID, domain.MustTitle("Gadget")).Return(other, nil)

	handler := NewRetitleProductHandler(repo, new(mockOutboxRepo), &fakeUnitOfWork{})
	err := handler.Handle(ctx, RetitleProductCommand{ProductID: product.ID(), OwnerID: ownerID, Title: "Gadget"})
	assert.ErrorIs(t, err, domain.ErrDuplicateTitle)
	assert.Equal(t, "Widget", product.Title().Value())
}

func TestRetitleProductHandler_BlankTitle(t *testing.T) {
	uow := &fakeUnitOfWork{}
	handler := NewRetitleProductHandler(new(mockProductRepo), new(mockOutboxRepo), uow)
	err := handler.Handle(context.Background(), RetitleProductCommand{ProductID: uuid.New(), Title: "\n"})
	assert.ErrorIs(t, err, domain.ErrBlankTitle)
	assert.Zero(t, uow.begun)
}

func TestRetitleProductHandler_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProductRepo)
	repo.On("FindByID", ctx, mock.Anything, mock.Anything).Return(nil, domain.ErrProductNotFound)

	handler := NewRetitleProductHandler(repo, new(mockOutboxRepo), &fakeUnitOfWork{})
	err := handler.Handle(ctx, RetitleProductCommand{ProductID: uuid.New(), OwnerID: uuid.New(), Title: "Gadget"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestRepriceProductHandler(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("keeps currency when omitted", func(t *testing.T) {
		product := storedProduct(t, ownerID, "Widget")
		repo := new(mockProductRepo)
		outboxRepo := new(mockOutboxRepo)
		repo.On("FindByID", ctx, product.ID(), ownerID).Return(product, nil)
		repo.On("Save", ctx, product).Return(nil)
		queued := captureOutbox(outboxRepo, ctx)

		handler := NewRepriceProductHandler(repo, outboxRepo, &fakeUnitOfWork{})
		require.NoError(t, handler.Handle(ctx, RepriceProductCommand{ProductID: product.ID(), OwnerID: ownerID, Amount: "7.99"}))

		assert.Equal(t, "7.99 EUR", product.Price().String())
		assert.Equal(t, []string{domain.RoutingKeyRepriced}, routingKeys(*queued))
	})

	t.Run("switches currency", func(t *testing.T) {
		product := storedProduct(t, ownerID, "Widget")
		repo := new(mockProductRepo)
		outboxRepo := new(mockOutboxRepo)
		repo.On("FindByID", ctx, product.ID(), ownerID).Return(product, nil)
		repo.On("Save", ctx, product).Return(nil)
		captureOutbox(outboxRepo, ctx)

		handler := NewRepriceProductHandler(repo, outboxRepo, &fakeUnitOfWork{})
		require.NoError(t, handler.Handle(ctx, RepriceProductCommand{ProductID: product.ID(), OwnerID: ownerID, Amount: "10", Currency: "usd"}))
		assert.Equal(t, "10.00 USD", product.Price().String())
	})

	t.Run("same price saves without events", func(t *testing.T) {
		product := storedProduct(t, ownerID, "Widget")
		repo := new(mockProductRepo)
		outboxRepo := new(mockOutboxRepo)
		repo.On("FindByID", ctx, product.ID(), ownerID).Return(product, nil)
		repo.On("Save", ctx, product).Return(nil)

		handler := NewRepriceProductHandler(repo, outboxRepo, &fakeUnitOfWork{})
		require.NoError(t, handler.Handle(ctx, RepriceProductCommand{ProductID: product.ID(), OwnerID: ownerID, Amount: "10.00"}))
		outboxRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid amount", func(t *testing.T) {
		product := storedProduct(t, ownerID, "Widget")
		repo := new(mockProductRepo)
		repo.On("FindByID", ctx, product.ID(), ownerID).Return(product, nil)

		handler := NewRepriceProductHandler(repo, new(mockOutboxRepo), &fakeUnitOfWork{})
		err := handler.Handle(ctx, RepriceProductCommand{ProductID: product.ID(), OwnerID: ownerID, Amount: "ten"})
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	})
}

func TestUpdateDetailsHandler(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	product := storedProduct(t, ownerID, "Widget")

	repo := new(mockProductRepo)
	repo.On("FindByID", ctx, product.ID(), ownerID).Return(product, nil)
	repo.On("Save", ctx, product).Return(nil)

	description := "Now in blue"
	handler := NewUpdateDetailsHandler(repo, new(mockOutboxRepo), &fakeUnitOfWork{})
	require.NoError(t, handler.Handle(ctx, UpdateDetailsCommand{
		ProductID:   product.ID(),
		OwnerID:     ownerID,
		Description: &description,
		AddTags:     []string{"Blue", "sale"},
	}))

	assert.Equal(t, "Now in blue", product.Description().String())
	assert.Equal(t, []string{"blue", "sale"}, product.Tags())

	// A nil description leaves the current one in place.
	require.NoError(t, handler.Handle(ctx, UpdateDetailsCommand{ProductID: product.ID(), OwnerID: ownerID, AddTags: []string{"new"}}))
	assert.Equal(t, "Now in blue", product.Description().String())
	assert.True(t, product.HasTag("new"))
}

func TestDiscontinueProductHandler(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	product := storedProduct(t, ownerID, "Widget")

	repo := new(mockProductRepo)
	outboxRepo := new(mockOutboxRepo)
	repo.On("FindByID", ctx, product.ID(), ownerID).Return(product, nil)
	repo.On("Save", ctx, product).Return(nil).Once()
	queued := captureOutbox(outboxRepo, ctx)
	uow := &fakeUnitOfWork{}

	handler := NewDiscontinueProductHandler(repo, outboxRepo, uow)
	cmd := DiscontinueProductCommand{ProductID: product.ID(), OwnerID: ownerID}

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.True(t, product.IsDiscontinued())
	assert.Equal(t, []string{domain.RoutingKeyDiscontinued}, routingKeys(*queued))

	assert.ErrorIs(t, handler.Handle(ctx, cmd), domain.ErrProductDiscontinued)
	assert.Equal(t, 1, uow.rolledBack)
}

func TestDeleteProductHandler(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	product := storedProduct(t, ownerID, "Widget")

	repo := new(mockProductRepo)
	outboxRepo := new(mockOutboxRepo)
	repo.On("FindByID", ctx, product.ID(), ownerID).Return(product, nil)
	repo.On("Delete", ctx, product.ID(), ownerID).Return(nil)
	queued := captureOutbox(outboxRepo, ctx)

	handler := NewDeleteProductHandler(repo, outboxRepo, &fakeUnitOfWork{})
	require.NoError(t, handler.Handle(ctx, DeleteProductCommand{ProductID: product.ID(), OwnerID: ownerID}))

	require.Len(t, *queued, 1)
	assert.Equal(t, domain.RoutingKeyDeleted, (*queued)[0].RoutingKey)
	assert.Equal(t, product.ID(), (*queued)[0].AggregateID)
	repo.AssertExpectations(t)
}

func TestDeleteProductHandler_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProductRepo)
	repo.On("FindByID", ctx, mock.Anything, mock.Anything).Return(nil, domain.ErrProductNotFound)

	handler := NewDeleteProductHandler(repo, new(mockOutboxRepo), &fakeUnitOfWork{})
	err := handler.Handle(ctx, DeleteProductCommand{ProductID: uuid.New(), OwnerID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
