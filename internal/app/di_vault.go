package app

import (
	"fmt"

	"github.com/vaultcode/vaultcode/internal/http"
	vaultHTTP "github.com/vaultcode/vaultcode/internal/vault/http"
	vaultRepository "github.com/vaultcode/vaultcode/internal/vault/repository"
	vaultUsecase "github.com/vaultcode/vaultcode/internal/vault/usecase"
)

// SecretRepository returns the secret repository for the configured driver.
func (c *Container) SecretRepository() (vaultUsecase.SecretRepository, error) {
	c.secretRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["secretRepo"] = fmt.Errorf("failed to get database for secret repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.secretRepo = vaultRepository.NewMySQLSecretRepository(db)
		case "postgres":
			c.secretRepo = vaultRepository.NewPostgreSQLSecretRepository(db)
		default:
			c.initErrors["secretRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["secretRepo"]; exists {
		return nil, err
	}
	return c.secretRepo, nil
}

// VaultUseCase returns the vault use case wrapped with metrics instrumentation.
func (c *Container) VaultUseCase() (vaultUsecase.VaultUseCase, error) {
	c.vaultUseCaseInit.Do(func() {
		repo, err := c.SecretRepository()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
			return
		}

		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
			return
		}

		cipher, err := c.Cipher()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
			return
		}

		useCase := vaultUsecase.NewVaultUseCase(
			repo,
			txManager,
			cipher,
			c.Logger(),
			c.config.DefaultExpiry,
			c.config.MaxContentBytes,
		)
		c.vaultUseCase = vaultUsecase.NewVaultUseCaseWithMetrics(useCase, businessMetrics)
	})
	if err, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, err
	}
	return c.vaultUseCase, nil
}

// HTTPServer returns the API HTTP server.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		useCase, err := c.VaultUseCase()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}

		db, err := c.DB()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}

		routerConfig := http.RouterConfig{
			SecretHandler:    vaultHTTP.NewSecretHandler(useCase, c.Logger()),
			AdminHandler:     vaultHTTP.NewAdminHandler(useCase, c.Logger()),
			Logger:           c.Logger(),
			DB:               db,
			AdminAPIKey:      c.config.AdminAPIKey,
			RateLimitEnabled: c.config.RateLimitEnabled,
			RequestsPerSec:   c.config.RateLimitRequestsPerSec,
			Burst:            c.config.RateLimitBurst,
			CORSEnabled:      c.config.CORSEnabled,
			CORSAllowOrigins: c.config.CORSAllowOrigins,
			MetricsNamespace: c.config.MetricsNamespace,
		}

		if provider, err := c.MetricsProvider(); err == nil && provider != nil {
			routerConfig.MeterProvider = provider.MeterProvider()
		}

		router, err := http.NewRouter(routerConfig)
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}

		c.httpServer = http.NewServer(c.config.ServerHost, c.config.ServerPort, router, c.Logger())
	})
	if err, exists := c.initErrors["httpServer"]; exists {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
	})
	if err, exists := c.initErrors["metricsServer"]; exists {
		return nil, err
	}
	return c.metricsServer, nil
}
