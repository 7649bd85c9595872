package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverEthereum = "ethereum"
	DriverIPFS     = "ipfs"
)

type Config struct {
	Env        string
	HTTPServer HTTPServer
	GRPCServer GRPCServer
	Prometheus Prometheus
	Ledger     Ledger
	IPFS       IPFS
	Redis      Redis
	Database   Database
	Feed       Feed
	Tracing    Tracing
}

type HTTPServer struct {
	Address      string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
}

type GRPCServer struct {
	Address             string
	Port                int
	HealthCheckInterval time.Duration
}

type Prometheus struct {
	Address string
	Port    int
}

type Ledger struct {
	Driver          string
	RPCURL          string
	ContractAddress string
	ChainID         int64
	PrivateKey      string
	ABIPath         string
	CallTimeout     time.Duration
}

type IPFS struct {
	Driver           string
	APIURL           string
	GatewayURL       string
	ProjectID        string
	ProjectSecret    string
	FetchTimeout     time.Duration
	MaxBodyBytes     int64
	FetchConcurrency int
}

type Redis struct {
	Enabled  bool
	Address  string
	Port     int
	Password string
	DB       int
	PoolSize int
	BodyTTL  time.Duration
}

type Database struct {
	Enabled        bool
	Username       string
	Password       string
	Host           string
	Port           string
	DbName         string
	MigrationsPath string
}

type Feed struct {
	RefreshInterval time.Duration
	AllowPartial    bool
	PublishedOnly   bool
}

type Tracing struct {
	Enabled      bool
	Exporter     string
	OTLPEndpoint string
	SamplerRatio float64
}

func MustLoad() *Config {
	cfg, err := Load("./config")
	if err != nil {
		log.Printf("Error reading config file: %s", err)
		os.Exit(1)
	}
	return cfg
}

// Load reads config.yaml from path. A missing file is not an error: defaults
// and BLOG_* environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)

	v.SetEnvPrefix("blog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	config := &Config{
		Env: v.GetString("env"),
		HTTPServer: HTTPServer{
			Address:      v.GetString("http_server.address"),
			Port:         v.GetInt("http_server.port"),
			ReadTimeout:  v.GetDuration("http_server.read_timeout"),
			WriteTimeout: v.GetDuration("http_server.write_timeout"),
			MaxBodyBytes: v.GetInt64("http_server.max_body_bytes"),
		},
		GRPCServer: GRPCServer{
			Address:             v.GetString("grpc_server.address"),
			Port:                v.GetInt("grpc_server.port"),
			HealthCheckInterval: v.GetDuration("grpc_server.health_check_interval"),
		},
		Prometheus: Prometheus{
			Address: v.GetString("prometheus.address"),
			Port:    v.GetInt("prometheus.port"),
		},
		Ledger: Ledger{
			Driver:          v.GetString("ledger.driver"),
			RPCURL:          v.GetString("ledger.rpc_url"),
			ContractAddress: v.GetString("ledger.contract_address"),
			ChainID:         v.GetInt64("ledger.chain_id"),
			PrivateKey:      v.GetString("ledger.private_key"),
			ABIPath:         v.GetString("ledger.abi_path"),
			CallTimeout:     v.GetDuration("ledger.call_timeout"),
		},
		IPFS: IPFS{
			Driver:           v.GetString("ipfs.driver"),
			APIURL:           v.GetString("ipfs.api_url"),
			GatewayURL:       v.GetString("ipfs.gateway_url"),
			ProjectID:        v.GetString("ipfs.project_id"),
			ProjectSecret:    v.GetString("ipfs.project_secret"),
			FetchTimeout:     v.GetDuration("ipfs.fetch_timeout"),
			MaxBodyBytes:     v.GetInt64("ipfs.max_body_bytes"),
			FetchConcurrency: v.GetInt("ipfs.fetch_concurrency"),
		},
		Redis: Redis{
			Enabled:  v.GetBool("redis.enabled"),
			Address:  v.GetString("redis.address"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			PoolSize: v.GetInt("redis.pool_size"),
			BodyTTL:  v.GetDuration("redis.body_ttl"),
		},
		Database: Database{
			Enabled:        v.GetBool("database.enabled"),
			Username:       v.GetString("database.username"),
			Password:       v.GetString("database.password"),
			Host:           v.GetString("database.host"),
			Port:           v.GetString("database.port"),
			DbName:         v.GetString("database.db_name"),
			MigrationsPath: v.GetString("database.migrations_path"),
		},
		Feed: Feed{
			RefreshInterval: v.GetDuration("feed.refresh_interval"),
			AllowPartial:    v.GetBool("feed.allow_partial"),
			PublishedOnly:   v.GetBool("feed.published_only"),
		},
		Tracing: Tracing{
			Enabled:      v.GetBool("tracing.enabled"),
			Exporter:     v.GetString("tracing.exporter"),
			OTLPEndpoint: v.GetString("tracing.otlp_endpoint"),
			SamplerRatio: v.GetFloat64("tracing.sampler_ratio"),
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("http_server.address", "0.0.0.0")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.read_timeout", 15*time.Second)
	v.SetDefault("http_server.write_timeout", 2*time.Minute)
	v.SetDefault("http_server.max_body_bytes", 1<<20)

	v.SetDefault("grpc_server.address", "0.0.0.0")
	v.SetDefault("grpc_server.port", 50061)
	v.SetDefault("grpc_server.health_check_interval", 30*time.Second)

	v.SetDefault("prometheus.address", "0.0.0.0")
	v.SetDefault("prometheus.port", 9104)

	v.SetDefault("ledger.driver", DriverEthereum)
	v.SetDefault("ledger.rpc_url", "http://localhost:8545")
	v.SetDefault("ledger.contract_address", "0xc1e99a2a791d85433a3693ef267166412ad462eb")
	v.SetDefault("ledger.chain_id", 9000)
	v.SetDefault("ledger.private_key", "")
	v.SetDefault("ledger.abi_path", "")
	v.SetDefault("ledger.call_timeout", 30*time.Second)

	v.SetDefault("ipfs.driver", DriverIPFS)
	v.SetDefault("ipfs.api_url", "https://ipfs.infura.io:5001")
	v.SetDefault("ipfs.gateway_url", "https://infura-ipfs.io/ipfs")
	v.SetDefault("ipfs.project_id", "")
	v.SetDefault("ipfs.project_secret", "")
	v.SetDefault("ipfs.fetch_timeout", 20*time.Second)
	v.SetDefault("ipfs.max_body_bytes", 4<<20)
	v.SetDefault("ipfs.fetch_concurrency", 8)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "redis")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.body_ttl", 24*time.Hour)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "admin")
	v.SetDefault("database.host", "blog-db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.db_name", "blog")
	v.SetDefault("database.migrations_path", "migrations")

	v.SetDefault("feed.refresh_interval", time.Minute)
	v.SetDefault("feed.allow_partial", true)
	v.SetDefault("feed.published_only", false)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", "stdout")
	v.SetDefault("tracing.otlp_endpoint", "localhost:4318")
	v.SetDefault("tracing.sampler_ratio", 1.0)
}
