package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/adapters/extrpc"
	gamestatetoml "github.com/PhuocNG0308/stake-and-steal-sub001/internal/adapters/gamestate/toml"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/adapters/probe/httpprobe"
	providerhttp "github.com/PhuocNG0308/stake-and-steal-sub001/internal/adapters/provider/httpjson"
	statusadapter "github.com/PhuocNG0308/stake-and-steal-sub001/internal/adapters/render/status"
	tomlrepo "github.com/PhuocNG0308/stake-and-steal-sub001/internal/adapters/repo/toml"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/adapters/wallet/bridged"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/adapters/wallet/extension"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/adapters/wallet/local"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/application"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/ports"
	"github.com/spf13/viper"
)

const (
	gamestatePathKey   = "gamestate.path"
	extensionSocketKey = "extension.socket"
	bridgeURLKey       = "bridge.url"
	bridgeTagKey       = "bridge.tag"
	endpointsKey       = "network.endpoints"
	probeTimeoutKey    = "network.timeout_seconds"
	probeIntervalKey   = "network.interval_seconds"

	endpointOverrideEnv = "SNS_ENDPOINT"
)

type app struct {
	manager        *application.SessionManager
	funds          *application.FundsService
	reachability   *application.ReachabilityService
	walletRepo     ports.WalletRepository
	binder         *gamestatetoml.Binder
	statusRenderer func(domain.Session, domain.ReachabilityStatus, statusadapter.RenderOptions) (string, error)
	now            func() time.Time
}

func wireApp() (*app, error) {
	cfg := viper.New()

	walletRepo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire wallet repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	profileDir := filepath.Join(homeDir, ".stakesteal")

	cfg.SetDefault(gamestatePathKey, filepath.Join(profileDir, "gamestate.toml"))
	cfg.SetDefault(extensionSocketKey, filepath.Join(profileDir, "extension.sock"))
	cfg.SetDefault(bridgeURLKey, "http://127.0.0.1:8546")
	cfg.SetDefault(bridgeTagKey, "stakesteal-bridge")
	cfg.SetDefault(endpointsKey, []string{
		"devnet=https://devnet.stakesteal.io",
		"testnet=https://testnet.stakesteal.io",
		"local=http://127.0.0.1:8080",
	})
	cfg.SetDefault(probeTimeoutKey, 5)
	cfg.SetDefault(probeIntervalKey, 30)

	binder := gamestatetoml.NewBinder(cfg.GetString(gamestatePathKey), ports.SystemClock{})

	extensionRPC := &extrpc.Client{SocketPath: cfg.GetString(extensionSocketKey)}
	bridgeProvider := &providerhttp.Provider{BaseURL: cfg.GetString(bridgeURLKey)}

	manager := application.NewSessionManager(binder,
		local.NewBackend(walletRepo, ports.SystemClock{}),
		extension.NewBackend(extensionRPC),
		bridged.NewBackend([]ports.InjectedProvider{bridgeProvider}, cfg.GetString(bridgeTagKey)),
	)

	candidates, err := parseEndpoints(cfg.GetStringSlice(endpointsKey))
	if err != nil {
		return nil, err
	}
	if override := os.Getenv(endpointOverrideEnv); override != "" {
		candidates = append([]domain.Endpoint{{
			Name: "override",
			URL:  override,
			Kind: kindForURL(override),
		}}, candidates...)
	}

	reachability := application.NewReachabilityService(
		&httpprobe.Prober{HTTPClient: http.DefaultClient},
		candidates,
		ports.SystemClock{},
	)
	reachability.SetTimings(
		time.Duration(cfg.GetInt(probeTimeoutKey))*time.Second,
		time.Duration(cfg.GetInt(probeIntervalKey))*time.Second,
	)

	return &app{
		manager:        manager,
		funds:          application.NewFundsService(walletRepo),
		reachability:   reachability,
		walletRepo:     walletRepo,
		binder:         binder,
		statusRenderer: statusadapter.Render,
		now:            time.Now,
	}, nil
}

// parseEndpoints reads "name=url" entries; the name doubles as the network
// classification where it matches a known kind.
func parseEndpoints(entries []string) ([]domain.Endpoint, error) {
	endpoints := make([]domain.Endpoint, 0, len(entries))
	for _, entry := range entries {
		name, url, ok := strings.Cut(entry, "=")
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("invalid endpoint entry %q, want name=url", entry)
		}

		kind := kindForName(name)
		if kind == "" {
			kind = kindForURL(url)
		}

		endpoints = append(endpoints, domain.Endpoint{Name: name, URL: url, Kind: kind})
	}
	return endpoints, nil
}

func kindForName(name string) domain.NetworkKind {
	switch domain.NetworkKind(name) {
	case domain.NetworkDevnet, domain.NetworkTestnet, domain.NetworkMainnet, domain.NetworkLocal:
		return domain.NetworkKind(name)
	}
	return ""
}

func kindForURL(url string) domain.NetworkKind {
	switch {
	case strings.Contains(url, "127.0.0.1"), strings.Contains(url, "localhost"):
		return domain.NetworkLocal
	case strings.Contains(url, "devnet"):
		return domain.NetworkDevnet
	case strings.Contains(url, "testnet"):
		return domain.NetworkTestnet
	}
	return domain.NetworkMainnet
}
