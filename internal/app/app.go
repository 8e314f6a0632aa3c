package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/local-market/config"
	"github.com/niksmo/local-market/internal/adapter"
	"github.com/niksmo/local-market/internal/adapter/fixture"
	"github.com/niksmo/local-market/internal/adapter/httphandler"
	"github.com/niksmo/local-market/internal/adapter/kafka"
	"github.com/niksmo/local-market/internal/adapter/storage"
	"github.com/niksmo/local-market/internal/core/auth"
	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
	"github.com/niksmo/local-market/internal/core/service"
	"github.com/niksmo/local-market/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type serdes struct {
	order        schema.Serde
	siteSettings schema.Serde
}

type broker struct {
	tlsConfig        *tls.Config
	serdes           serdes
	ordersProducer   kafka.OrdersProducer
	settingsProducer kafka.SettingsProducer
	historyProc      port.OrderHistoryProcessor
	historyView      *kafka.OrderHistoryView
}

type outbound struct {
	kv            port.KeyValueStore
	orderRecorder port.OrderRecorder
	orderHistory  port.OrderHistory
	closers       []func()
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	catalog    domain.Catalog
	outbound   outbound
	broker     *broker
	service    *service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initCatalog()
	app.initStorage()
	if cfg.Broker.Enabled {
		app.initBroker()
	}
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initCatalog() {
	const op = "App.initCatalog"

	catalog, err := fixture.Open(app.cfg.CatalogFile)
	if err != nil {
		app.fallDown(op, err)
	}
	app.catalog = catalog

	slog.Info("catalog is loaded",
		"products", len(catalog.Products),
		"shops", len(catalog.Shops),
		"locations", len(catalog.Locations),
	)
}

func (app *App) initStorage() {
	const op = "App.initStorage"
	ctx := app.ctx
	cfg := app.cfg.Storage
	out := &app.outbound

	switch cfg.Driver {
	case config.StoragePostgres:
		db, err := storage.NewSQLDB(ctx, cfg.SQLDB)
		if err != nil {
			app.fallDown(op, err)
		}
		repo := storage.NewOrdersRepository(db)
		out.kv = storage.NewSQLKeyValueStore(db)
		out.orderRecorder, out.orderHistory = repo, repo
		out.closers = append(out.closers, db.Close)

	case config.StorageRedis:
		rkv, err := storage.NewRedisKeyValueStore(ctx, storage.RedisOpts{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			app.fallDown(op, err)
		}
		book := storage.NewMemoryOrderBook()
		out.kv = rkv
		out.orderRecorder, out.orderHistory = book, book
		out.closers = append(out.closers, rkv.Close)

	default:
		book := storage.NewMemoryOrderBook()
		out.kv = storage.NewMemoryKeyValueStore()
		out.orderRecorder, out.orderHistory = book, book
	}

	slog.Info("storage is ready", "driver", cfg.Driver)
}

func (app *App) initBroker() {
	const op = "App.initBroker"
	cfg := app.cfg.Broker

	tlsConfig, err := adapter.MakeTLSConfig(cfg.TLS.CA, cfg.TLS.Cert, cfg.TLS.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	kafka.UseTLS(tlsConfig)

	app.broker = &broker{tlsConfig: tlsConfig}
	app.initSerdes()
	app.initOutboundAdapters()
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	ctx := app.ctx
	cfg := app.cfg.Broker

	srOpts := []sr.ClientOpt{sr.URLs(cfg.SchemaRegistryURLs...)}
	if app.broker.tlsConfig != nil {
		srOpts = append(srOpts, sr.HTTPClient(&http.Client{
			Transport: &http.Transport{TLSClientConfig: app.broker.tlsConfig},
		}))
	}

	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	orderSS := cfg.Topics.Orders + "-value"
	orderSerde, err := schema.NewSerdeOrderV1(
		ctx,
		schema.SubjectOpt(orderSS),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	settingsSS := cfg.Topics.SiteSettings + "-value"
	settingsSerde, err := schema.NewSerdeSiteSettingsV1(
		ctx,
		schema.SubjectOpt(settingsSS),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.broker.serdes.order = orderSerde
	app.broker.serdes.siteSettings = settingsSerde
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	ctx := app.ctx
	cfg := app.cfg.Broker
	b := app.broker

	ordersProducer, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(ctx, cfg.SeedBrokers, cfg.Topics.Orders, b.tlsConfig),
		kafka.ProducerEncoderOpt(b.serdes.order),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	settingsProducer, err := kafka.NewSettingsProducer(
		kafka.ProducerClientOpt(ctx, cfg.SeedBrokers, cfg.Topics.SiteSettings, b.tlsConfig),
		kafka.ProducerEncoderOpt(b.serdes.siteSettings),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	historyProc, err := kafka.NewOrderHistoryProc(
		cfg.SeedBrokers,
		cfg.Topics.Orders,
		cfg.Consumers.OrderHistoryGroup,
		b.serdes.order,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	historyView, err := kafka.NewOrderHistoryView(
		cfg.SeedBrokers, cfg.Consumers.OrderHistoryGroup,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	b.ordersProducer = ordersProducer
	b.settingsProducer = settingsProducer
	b.historyProc = historyProc
	b.historyView = historyView

	app.outbound.orderRecorder = ordersProducer
	app.outbound.orderHistory = historyView
}

func (app *App) staffAccounts() []auth.Account {
	const op = "App.staffAccounts"

	if len(app.cfg.Auth.Accounts) == 0 {
		slog.Warn("no staff accounts configured, using demo logins")
		accounts, err := auth.DemoAccounts()
		if err != nil {
			app.fallDown(op, err)
		}
		return accounts
	}

	accounts := make([]auth.Account, 0, len(app.cfg.Auth.Accounts))
	for _, a := range app.cfg.Auth.Accounts {
		accounts = append(accounts, auth.Account{
			Email:        a.Email,
			PasswordHash: []byte(a.PasswordHash),
			Role:         domain.Role(a.Role),
			Name:         a.Name,
		})
	}
	return accounts
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"

	staff, err := auth.NewAccountAuthenticator(app.staffAccounts())
	if err != nil {
		app.fallDown(op, err)
	}

	tokens, err := auth.NewTokenIssuer(
		[]byte(app.cfg.Auth.TokenSecret), app.cfg.Auth.TokenTTL,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	opts := []service.Opt{
		service.KeyValueStoreOpt(app.outbound.kv),
		service.OrdersOpt(app.outbound.orderRecorder, app.outbound.orderHistory),
		service.TokenIssuerOpt(tokens),
		service.AuthenticatorOpt(domain.RoleAdmin, staff),
		service.AuthenticatorOpt(domain.RoleVendor, staff),
		service.CustomerRegistryOpt(auth.NewCustomerRegistry()),
	}
	if app.broker != nil {
		opts = append(opts, service.SettingsPublisherOpt(app.broker.settingsProducer))
	}

	s, err := service.New(app.ctx, app.catalog, opts...)
	if err != nil {
		app.fallDown(op, err)
	}
	app.service = s
}

func (app *App) initInboundAdapters() {
	addr := app.cfg.HTTPServerAddr
	s := app.service

	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, s)
	httphandler.RegisterCarts(mux, s, s)
	httphandler.RegisterWishlists(mux, s)
	httphandler.RegisterAuth(mux, s)
	httphandler.RegisterSettings(mux, s, s)
	httphandler.RegisterOrders(mux, s, s)
	httphandler.RegisterNotFound(mux)

	handler := httphandler.LogRequests(httphandler.AllowJSON(mux))
	app.httpServer = httphandler.NewHTTPServer(addr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	if b := app.broker; b != nil {
		go b.historyProc.Run(app.ctx, stopFn)
		go b.historyView.Run(app.ctx)
	}

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)

	if b := app.broker; b != nil {
		b.historyProc.Close()
		b.ordersProducer.Close()
		b.settingsProducer.Close()
	}

	for _, closeFn := range app.outbound.closers {
		closeFn()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
