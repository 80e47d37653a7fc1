package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/cardsonbase/cards-tcg-store/config"
	"github.com/cardsonbase/cards-tcg-store/internal/adapter/email"
	"github.com/cardsonbase/cards-tcg-store/internal/adapter/httphandler"
	"github.com/cardsonbase/cards-tcg-store/internal/adapter/kafka"
	"github.com/cardsonbase/cards-tcg-store/internal/adapter/onramp"
	"github.com/cardsonbase/cards-tcg-store/internal/adapter/pricefeed"
	"github.com/cardsonbase/cards-tcg-store/internal/adapter/storage"
	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
	"github.com/cardsonbase/cards-tcg-store/internal/core/service"
	"github.com/cardsonbase/cards-tcg-store/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type App struct {
	ctx context.Context
	cfg config.Config

	orderSerde schema.Serde

	sqlDB          storage.SQLDB
	ordersProducer kafka.OrdersProducer
	ordersConsumer kafka.OrdersConsumer
	salesProc      *kafka.SalesCounterProcessor
	salesView      kafka.SalesView
	priceFeed      *pricefeed.Feed

	service    *service.Service
	httpServer httphandler.HTTPServer

	wg sync.WaitGroup
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initSerdes()
	app.initStorage()
	app.initBrokerAdapters()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"

	srClient, err := sr.NewClient(
		sr.URLs(app.cfg.Broker.SchemaRegistryURLs...),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	orderSubject := app.cfg.Broker.Topics.OrderEvents + "-value"
	orderSerde, err := schema.NewSerdeOrderPlacedV1(
		app.ctx,
		schema.SubjectOpt(orderSubject),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.orderSerde = orderSerde
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	sqlDB, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.sqlDB = sqlDB
}

func (app *App) initBrokerAdapters() {
	const op = "App.initBrokerAdapters"

	seedBrokers := app.cfg.Broker.SeedBrokers
	orderEvents := app.cfg.Broker.Topics.OrderEvents

	ordersProducer, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(app.ctx, seedBrokers, orderEvents),
		kafka.ProducerEncoderOpt(app.orderSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.ordersProducer = ordersProducer

	salesProc, err := kafka.NewSalesCounterProc(
		seedBrokers,
		orderEvents,
		app.cfg.Broker.Consumers.SalesCounterGroup,
		app.orderSerde,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.salesProc = salesProc

	salesView, err := kafka.NewSalesView(
		seedBrokers, app.cfg.Broker.Consumers.SalesCounterGroup,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.salesView = salesView
}

func (app *App) initCoreService() {
	products := storage.NewProductsRepository(app.sqlDB)
	orders := storage.NewOrdersRepository(app.sqlDB)

	notifier := email.NewResendNotifier(
		app.cfg.Email.APIKey, app.cfg.Email.From, app.cfg.Email.To,
	)

	app.priceFeed = pricefeed.New(
		app.cfg.PriceFeed.PairURL, app.cfg.PriceFeed.PollInterval,
	)

	payments := service.PaymentConfig{
		MerchantAddress: app.cfg.Payments.MerchantAddress,
		AssetContracts: map[domain.Asset]string{
			domain.AssetCards: app.cfg.Payments.CardsContract,
			domain.AssetUSDC:  app.cfg.Payments.USDCContract,
		},
		PaymentTimeout: app.cfg.Payments.PaymentTimeout,
	}

	app.service = service.New(
		products,
		products,
		products,
		orders,
		app.ordersProducer,
		notifier,
		app.priceFeed,
		service.NewSessionStore(),
		payments,
	)
}

// initOrdersConsumer is separated from the other broker adapters: it
// forwards to the core service, so the service must exist first.
func (app *App) initOrdersConsumer() {
	const op = "App.initOrdersConsumer"

	ordersConsumer, err := kafka.NewOrdersConsumer(
		kafka.ConsumerClientOpt(
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.Topics.OrderEvents,
			app.cfg.Broker.Consumers.OrderNotifierGroup,
		),
		kafka.ConsumerDecoderOpt(app.orderSerde),
		kafka.ConsumerNoticeSenderOpt(app.service),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.ordersConsumer = ordersConsumer
}

func (app *App) initInboundAdapters() {
	const op = "App.initInboundAdapters"

	app.initOrdersConsumer()

	issuer, err := onramp.New(
		app.cfg.Onramp.KeyName,
		app.cfg.Onramp.PrivateKey,
		app.cfg.Onramp.TokenURL,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	products := storage.NewProductsRepository(app.sqlDB)

	mux := http.NewServeMux()
	httphandler.RegisterProducts(mux, products, app.service)
	httphandler.RegisterCheckout(mux, app.service)
	httphandler.RegisterSales(mux, app.salesView)
	httphandler.RegisterOnramp(mux, issuer)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	go app.priceFeed.Run(app.ctx)
	go app.service.Run(app.ctx)
	go app.ordersConsumer.Run(app.ctx)
	go app.salesView.Run(app.ctx)

	app.wg.Add(1)
	go app.salesProc.Run(app.ctx, stopFn, &app.wg)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.salesProc.Close()
	app.ordersConsumer.Close()
	app.ordersProducer.Close()
	app.sqlDB.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
