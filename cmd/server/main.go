// main wires configuration, the upstream tracker client, the token codec,
// and the domain services into the HTTP router, then runs the server until
// shutdown. Business logic lives in the internal service packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"permit-gateway/internal/auth/google"
	authservice "permit-gateway/internal/auth/service"
	"permit-gateway/internal/notify"
	"permit-gateway/internal/otp"
	otpstore "permit-gateway/internal/otp/store"
	"permit-gateway/internal/platform/config"
	"permit-gateway/internal/platform/httpserver"
	"permit-gateway/internal/platform/logger"
	"permit-gateway/internal/platform/metrics"
	platformredis "permit-gateway/internal/platform/redis"
	"permit-gateway/internal/records"
	"permit-gateway/internal/token"
	"permit-gateway/internal/tracker"
	httptransport "permit-gateway/internal/transport/http"
)

func main() {
	log := logger.New("permit-gateway")

	if err := run(log); err != nil {
		log.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	codec, err := token.NewCodec(
		cfg.JWT.SigningKey,
		cfg.JWT.EncryptionSecret,
		cfg.JWT.Issuer,
		cfg.JWT.AccessTTL,
		cfg.JWT.RefreshTTL,
	)
	if err != nil {
		return err
	}

	trackerClient := tracker.New(cfg.Tracker.BaseURL, cfg.Tracker.AdminKey, cfg.Tracker.Timeout)
	admin := trackerClient.Admin()

	var verifier authservice.IDTokenVerifier = google.Disabled{}
	if cfg.Google.ClientID != "" {
		v, err := google.New(ctx, cfg.Google.ClientID)
		if err != nil {
			return err
		}
		verifier = v
	} else {
		log.Warn("google sign-in disabled, no client id configured")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	var codeStore otp.Store
	var health httptransport.HealthChecker
	if redisClient != nil {
		defer redisClient.Close()
		codeStore = otpstore.NewRedisStore(redisClient.Client)
		health = redisClient
		log.Info("using redis code store")
	} else {
		codeStore = otpstore.NewMemoryStore()
		log.Warn("no redis configured, one-time codes are process-local")
	}

	appMetrics := metrics.New()

	authSvc := authservice.New(trackerClient, admin, verifier, codec, cfg.Tracker.RoleProject, log)

	sms := notify.NewSMSGateway(cfg.SMS.BaseURL, cfg.SMS.APIKey, cfg.SMS.SenderID, cfg.Tracker.Timeout)
	email := notify.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	recoverySvc := otp.New(codeStore, admin, sms, email, cfg.ResetURL, log)

	recordsSvc := records.New(
		authSvc.Resolver(),
		func(apiKey string) records.IssueBrowser { return trackerClient.ForUser(apiKey) },
		admin,
		cfg.Tracker.RoleProject,
		log,
	)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Auth:    httptransport.NewAuthHandler(authSvc, recoverySvc, appMetrics),
		Records: httptransport.NewRecordsHandler(recordsSvc),
		Codec:   codec,
		Health:  health,
		Logger:  log,
	})

	api := httpserver.New(cfg.Server.Addr, router)

	opsMux := http.NewServeMux()
	opsMux.Handle("/metrics", promhttp.Handler())
	ops := httpserver.New(cfg.Server.MetricsAddr, opsMux)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("api server listening", slog.String("addr", cfg.Server.Addr))
		if err := api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		log.Info("ops server listening", slog.String("addr", cfg.Server.MetricsAddr))
		if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		log.Info("shutting down")
		err := api.Shutdown(shutdownCtx)
		if opsErr := ops.Shutdown(shutdownCtx); err == nil {
			err = opsErr
		}
		return err
	})

	return group.Wait()
}
