package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/account"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/admin"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/report"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/status"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Storage *storage.Storage
	Service *service.Service
	Tokens  *auth.TokenIssuer
}

type registrar interface {
	Register(api huma.API)
}

// Handler builds the router with every endpoint registered.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Storage)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	config := huma.DefaultConfig("Ledger API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		auth.SecurityScheme: {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humago.New(mux, config)
	api.UseMiddleware(logging.HumaMiddleware(r.Logger))
	api.UseMiddleware(auth.Middleware(api, r.Tokens, r.Storage.Users))

	svc := r.Service
	handlers := []registrar{
		account.NewRegisterHandler(svc.User),
		account.NewLoginHandler(svc.User, r.Tokens),

		transaction.NewRecentTransactionsHandler(svc.Transaction),
		transaction.NewListMonthsHandler(svc.Transaction),
		transaction.NewCreateTransactionHandler(svc.Transaction),
		transaction.NewListTransactionsHandler(svc.Transaction),
		transaction.NewGetTransactionHandler(svc.Transaction),
		transaction.NewUpdateTransactionHandler(svc.Transaction),
		transaction.NewDeleteTransactionHandler(svc.Transaction),

		report.NewSummaryHandler(svc.Report),
		report.NewDashboardHandler(svc.Report),

		admin.NewReportHandlers(svc.Report),
		admin.NewUserHandlers(svc.User),
	}
	for _, h := range handlers {
		h.Register(api)
	}

	return mux
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		r.Logger.Info("HttpServer.Serve.shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		}
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	}

	<-shutdownDone
	return nil
}
