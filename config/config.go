package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de calcdesk.
type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Cache   CacheConfig   `yaml:"cache"`
	Chart   ChartConfig   `yaml:"chart"`
	Log     LogConfig     `yaml:"log"`
}

// SolverConfig controla la búsqueda de la IRR por bisección.
// Un cero en cualquier campo usa el valor por defecto del dominio.
type SolverConfig struct {
	LowerBound    float64 `yaml:"lower_bound"`
	UpperBound    float64 `yaml:"upper_bound"`
	MaxExpansions int     `yaml:"max_expansions"` // veces que se duplica el extremo superior
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
}

// HTTPConfig controla el servidor de la API (-serve).
type HTTPConfig struct {
	Addr                   string  `yaml:"addr"`
	RateLimitPerSecond     float64 `yaml:"rate_limit_per_second"` // por IP de cliente
	RateLimitBurst         int     `yaml:"rate_limit_burst"`
	ReadTimeoutSeconds     int     `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int     `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int     `yaml:"shutdown_timeout_seconds"`
}

// StorageConfig controla dónde se persiste el historial.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// CacheConfig controla la caché de resultados.
// Con RedisAddr vacío se usa una caché en memoria.
type CacheConfig struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	TTLSeconds    int    `yaml:"ttl_seconds"`
	MaxEntries    int    `yaml:"max_entries"` // solo caché en memoria
}

// ChartConfig controla el tamaño de los PNG generados.
type ChartConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

// Parse interpreta el YAML, aplica overrides de entorno y defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if _, err := cfg.SolverConfig(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default devuelve la configuración por defecto (sin archivo).
func Default() *Config {
	var cfg Config
	applyEnvOverrides(&cfg)
	setDefaults(&cfg)
	return &cfg
}

// SolverConfig convierte la sección solver en la configuración del dominio.
func (c *Config) SolverConfig() (domain.SolverConfig, error) {
	sc := domain.SolverConfig{
		LowerBound:    c.Solver.LowerBound,
		UpperBound:    c.Solver.UpperBound,
		MaxExpansions: c.Solver.MaxExpansions,
		MaxIterations: c.Solver.MaxIterations,
		Tolerance:     c.Solver.Tolerance,
	}
	if err := sc.Validate(); err != nil {
		return domain.SolverConfig{}, err
	}
	return sc, nil
}

// CacheTTL devuelve el TTL de la caché como time.Duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// ReadTimeout devuelve el timeout de lectura del servidor HTTP.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.HTTP.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout devuelve el timeout de escritura del servidor HTTP.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.HTTP.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout devuelve el plazo para el apagado ordenado del servidor.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.HTTP.ShutdownTimeoutSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("CALCDESK_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("CALCDESK_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.RedisDB = n
		}
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	def := domain.DefaultSolverConfig()
	if cfg.Solver.LowerBound == 0 {
		cfg.Solver.LowerBound = def.LowerBound
	}
	if cfg.Solver.UpperBound == 0 {
		cfg.Solver.UpperBound = def.UpperBound
	}
	if cfg.Solver.MaxExpansions <= 0 {
		cfg.Solver.MaxExpansions = def.MaxExpansions
	}
	if cfg.Solver.MaxIterations <= 0 {
		cfg.Solver.MaxIterations = def.MaxIterations
	}
	if cfg.Solver.Tolerance <= 0 {
		cfg.Solver.Tolerance = def.Tolerance
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.RateLimitPerSecond <= 0 {
		cfg.HTTP.RateLimitPerSecond = 5
	}
	if cfg.HTTP.RateLimitBurst <= 0 {
		cfg.HTTP.RateLimitBurst = 10
	}
	if cfg.HTTP.ReadTimeoutSeconds <= 0 {
		cfg.HTTP.ReadTimeoutSeconds = 10
	}
	if cfg.HTTP.WriteTimeoutSeconds <= 0 {
		cfg.HTTP.WriteTimeoutSeconds = 30
	}
	if cfg.HTTP.ShutdownTimeoutSeconds <= 0 {
		cfg.HTTP.ShutdownTimeoutSeconds = 5
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "calcdesk.db"
	}
	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = 600
	}
	if cfg.Cache.MaxEntries <= 0 {
		cfg.Cache.MaxEntries = 1000
	}
	if cfg.Chart.Width <= 0 {
		cfg.Chart.Width = 800
	}
	if cfg.Chart.Height <= 0 {
		cfg.Chart.Height = 480
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
