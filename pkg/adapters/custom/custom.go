package custom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/agentcore/pkg/adapters/memory"
	"github.com/aretw0/agentcore/pkg/adapters/redis"
	"github.com/aretw0/agentcore/pkg/persistence/middleware"
	"github.com/aretw0/agentcore/pkg/domain"
	"github.com/aretw0/agentcore/pkg/ports"
	"github.com/aretw0/agentcore/pkg/provider"
	"github.com/aretw0/agentcore/pkg/registry"
)

const (
	ProviderName      = "custom"
	DefaultWeatherURL = "https://wttr.in"
	StorageMessage    = "Storage backend not configured"
)

// Options configures the custom provider.
type Options struct {
	// WeatherURL is the base URL of a wttr.in compatible service.
	WeatherURL string `mapstructure:"weather_url"`
	// RedisAddr selects Redis storage. Empty means in-process storage.
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	KeyPrefix     string `mapstructure:"key_prefix"`
	// EncryptionKey is a base64 AES-256 key. When set, stored values are encrypted at rest.
	EncryptionKey string   `mapstructure:"encryption_key"`
	FallbackKeys  []string `mapstructure:"fallback_keys"`
	// MaskFields are key patterns whose values are masked in stored JSON objects.
	MaskFields []string `mapstructure:"mask_fields"`
}

type toolset struct {
	store      ports.KVStore
	weatherURL string
	http       *http.Client
}

// Tools returns the custom tool table over store.
func Tools(store ports.KVStore, weatherURL string, hc *http.Client) []registry.Tool {
	if weatherURL == "" {
		weatherURL = DefaultWeatherURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	ts := &toolset{store: store, weatherURL: strings.TrimRight(weatherURL, "/"), http: hc}

	return []registry.Tool{
		{
			Descriptor: domain.ToolDescriptor{
				Name:        "get_weather",
				Description: "Get current weather for a city",
				InputSchema: domain.InputSchema{
					Properties: map[string]domain.Property{
						"city": {Type: "string", Description: "City name"},
					},
					Required: []string{"city"},
				},
			},
			Handler: ts.getWeather,
		},
		{
			Descriptor: domain.ToolDescriptor{
				Name:        "store_data",
				Description: "Store a value under a key",
				InputSchema: domain.InputSchema{
					Properties: map[string]domain.Property{
						"key":   {Type: "string", Description: "Storage key"},
						"value": {Type: "string", Description: "Value to store"},
					},
					Required: []string{"key", "value"},
				},
			},
			Handler: ts.storeData,
		},
		{
			Descriptor: domain.ToolDescriptor{
				Name:        "get_data",
				Description: "Retrieve a stored value",
				InputSchema: domain.InputSchema{
					Properties: map[string]domain.Property{
						"key": {Type: "string", Description: "Storage key"},
					},
					Required: []string{"key"},
				},
			},
			Handler: ts.getData,
		},
	}
}

func (ts *toolset) getWeather(ctx context.Context, args map[string]any) domain.ToolResult {
	city, err := registry.StringArg(args, "city")
	if err != nil {
		return domain.Failf(domain.KindInvalidRequest, "Weather error: %v", err)
	}

	endpoint := fmt.Sprintf("%s/%s?format=3", ts.weatherURL, url.PathEscape(city))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Failf(domain.KindBackend, "Weather error: %v", err)
	}
	resp, err := ts.http.Do(req)
	if err != nil {
		return domain.Failf(domain.KindBackend, "Weather error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return domain.Failf(domain.KindBackend, "Weather error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Failf(domain.KindBackend, "Weather error: %s returned %d", ts.weatherURL, resp.StatusCode)
	}
	return domain.Text(strings.TrimSpace(string(body)))
}

func (ts *toolset) storeData(ctx context.Context, args map[string]any) domain.ToolResult {
	key, err := registry.StringArg(args, "key")
	if err != nil {
		return domain.Failf(domain.KindInvalidRequest, "Storage error: %v", err)
	}
	raw, ok := args["value"]
	if !ok || raw == nil {
		return domain.Failf(domain.KindInvalidRequest, "Storage error: missing required argument %q", "value")
	}
	value, err := stringify(raw)
	if err != nil {
		return domain.Failf(domain.KindInvalidRequest, "Storage error: %v", err)
	}
	if err := ts.store.Set(ctx, key, value); err != nil {
		return domain.Failf(domain.KindBackend, "Storage error: %v", err)
	}
	return domain.Text(fmt.Sprintf("Stored %d bytes under key %s", len(value), key))
}

func (ts *toolset) getData(ctx context.Context, args map[string]any) domain.ToolResult {
	key, err := registry.StringArg(args, "key")
	if err != nil {
		return domain.Failf(domain.KindInvalidRequest, "Storage error: %v", err)
	}
	value, err := ts.store.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return domain.Failf(domain.KindBackend, "Storage error: no data for key %s", key)
	}
	if err != nil {
		return domain.Failf(domain.KindBackend, "Storage error: %v", err)
	}
	return domain.Text(value)
}

// stringify keeps strings as they are and JSON-encodes anything else.
func stringify(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("value is not serializable: %w", err)
	}
	return string(data), nil
}

// NewProvider builds the custom provider. With a Redis address the store is pinged once;
// an unreachable Redis leaves the provider unavailable.
func NewProvider(ctx context.Context, opts Options, logger *slog.Logger) *provider.Provider {
	var store ports.KVStore
	status := provider.Ready()

	if opts.RedisAddr != "" {
		var ropts []redis.Option
		if opts.KeyPrefix != "" {
			ropts = append(ropts, redis.WithPrefix(opts.KeyPrefix))
		}
		rs := redis.New(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, ropts...)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			logger.Warn("Redis unreachable", "addr", opts.RedisAddr, "err", err)
			status = provider.Unavailable(StorageMessage)
		} else {
			logger.Info("Using Redis storage", "addr", opts.RedisAddr)
		}
		store = rs
	} else {
		logger.Info("Using in-memory storage")
		store = memory.NewStore()
	}

	var mws []middleware.Middleware
	if len(opts.MaskFields) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(opts.MaskFields))
	}
	if opts.EncryptionKey != "" {
		keys, err := middleware.ParseKeys(opts.EncryptionKey, opts.FallbackKeys...)
		if err != nil {
			logger.Warn("Invalid storage encryption key", "err", err)
			status = provider.Unavailable(StorageMessage)
		} else {
			mws = append(mws, middleware.NewEncryptionMiddleware(keys))
		}
	}

	return NewProviderWithStore(middleware.Chain(store, mws...), opts.WeatherURL, status, logger)
}

// NewProviderWithStore builds the provider over an existing store.
func NewProviderWithStore(store ports.KVStore, weatherURL string, status provider.Status, logger *slog.Logger) *provider.Provider {
	reg := registry.MustNew(Tools(store, weatherURL, nil)...)
	return provider.New(ProviderName, reg, status, provider.WithLogger(logger))
}
