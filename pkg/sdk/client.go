package gravityview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GravityKit/GravityView-sub009/internal/db"
	dbRedis "github.com/GravityKit/GravityView-sub009/internal/db/redis"
	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
	domview "github.com/GravityKit/GravityView-sub009/internal/domain/view"
	entryrepo "github.com/GravityKit/GravityView-sub009/internal/repository/entry"
	"github.com/GravityKit/GravityView-sub009/internal/repository/sievecache"
	viewrepo "github.com/GravityKit/GravityView-sub009/internal/repository/view"
	entryuc "github.com/GravityKit/GravityView-sub009/internal/usecase/entry"
	healthuc "github.com/GravityKit/GravityView-sub009/internal/usecase/health"
	"github.com/GravityKit/GravityView-sub009/internal/usecase/searchwidget"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for fakes in tests.
type widgetUseCase interface {
	Render(ctx context.Context, viewID int, req searchfield.Request) ([]searchfield.TemplateData, error)
	Legacy(ctx context.Context, viewID int) ([]searchfield.LegacyFormat, error)
	Configuration(ctx context.Context, viewID int) ([]searchfield.Configuration, error)
	Configure(ctx context.Context, viewID int, cfgs []searchfield.Configuration) ([]searchfield.Configuration, error)
	SaveView(ctx context.Context, v domview.View) error
	DeleteView(ctx context.Context, viewID int) error
	SaveUsers(ctx context.Context, users []domview.User) error
	AvailableFields(ctx context.Context, formID int) ([]searchwidget.Available, error)
}

type entryUseCase interface {
	SaveForm(ctx context.Context, form domview.Form) error
	Ingest(ctx context.Context, formID int, entries []domview.Entry) (int, error)
}

// Client is the GravityView SDK entry point.
type Client struct {
	store     db.Store
	widgetSvc widgetUseCase
	entrySvc  entryUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to Redis.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("gravityview: redis address required (use WithRedis or WithRedisCluster)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("gravityview: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("gravityview: database not ready: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	views := viewrepo.New(store)
	entries := entryrepo.NewRedis(store).WithPageSize(cfg.pageSize)

	var source searchfield.ValueSource = entries
	entrySvc := entryuc.New(entries, views)
	if cfg.sieveTTL > 0 {
		cache := sievecache.New(entries, store, cfg.sieveTTL, obs.sieveCacheCounter(), zap.NewNop())
		entrySvc = entrySvc.WithInvalidator(cache)
		source = cache
	}

	widgetSvc := searchwidget.New(views, source)
	if c := obs.fallbackCounter(); c != nil {
		widgetSvc = widgetSvc.WithFallbackCounter(c)
	}

	return &Client{
		store:     store,
		widgetSvc: widgetSvc,
		entrySvc:  entrySvc,
		healthSvc: healthuc.New(store, nil),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// SetUsers replaces the users that entry creator fields offer as choices.
func (c *Client) SetUsers(ctx context.Context, users ...User) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("users.set", start, err, "users", len(users)) }()

	if err = c.widgetSvc.SaveUsers(ctx, users); err != nil {
		return fmt.Errorf("set users: %w", err)
	}
	return nil
}

// Forms returns the form service.
func (c *Client) Forms() *FormService {
	return &FormService{widgetSvc: c.widgetSvc, entrySvc: c.entrySvc, obs: c.obs}
}

// Views returns the view service.
func (c *Client) Views() *ViewService {
	return &ViewService{svc: c.widgetSvc, obs: c.obs}
}

// Entries returns the entry service for a given form.
func (c *Client) Entries(formID int) *EntryService {
	return &EntryService{formID: formID, svc: c.entrySvc, obs: c.obs}
}

// SearchFields returns the search widget service for a given view.
func (c *Client) SearchFields(viewID int) *SearchFieldService {
	return &SearchFieldService{viewID: viewID, svc: c.widgetSvc, obs: c.obs}
}
