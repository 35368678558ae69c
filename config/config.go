package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort           string        `mapstructure:"HTTPPort"`
		Timeout            time.Duration `mapstructure:"HTTPTimeout"`
		AllowedOrigins     []string      `mapstructure:"allowedOrigins"`
		ChatRequestsPerMin int           `mapstructure:"chatRequestsPerMinute"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
		Redis struct {
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"repositories"`
	Observability struct {
		ServiceName string `mapstructure:"serviceName"`
		MetricsPort string `mapstructure:"metricsPort"`
	} `mapstructure:"observability"`
	LLM            LLM            `mapstructure:"llm"`
	Catalog        Catalog        `mapstructure:"catalog"`
	Session        Session        `mapstructure:"session"`
	Recommendation Recommendation `mapstructure:"recommendation"`
	Dialogue       Dialogue       `mapstructure:"dialogue"`
	QA             QA             `mapstructure:"qa"`
}

type LLM struct {
	APIKey             string        `mapstructure:"apiKey"`
	Model              string        `mapstructure:"model"`
	EmbeddingModel     string        `mapstructure:"embeddingModel"`
	EmbeddingDimension int           `mapstructure:"embeddingDimension"`
	Temperature        float32       `mapstructure:"temperature"`
	RequestsPerSecond  float64       `mapstructure:"requestsPerSecond"`
	Burst              int           `mapstructure:"burst"`
	EmbeddingCacheTTL  time.Duration `mapstructure:"embeddingCacheTTL"`
	Breaker            struct {
		MaxFailures uint32        `mapstructure:"maxFailures"`
		OpenTimeout time.Duration `mapstructure:"openTimeout"`
	} `mapstructure:"breaker"`
}

type Catalog struct {
	RefreshInterval time.Duration `mapstructure:"refreshInterval"`
}

type Session struct {
	Store       string        `mapstructure:"store"`
	TTL         time.Duration `mapstructure:"ttl"`
	MaxMessages int           `mapstructure:"maxMessages"`
}

type Recommendation struct {
	TopK                    int           `mapstructure:"topK"`
	InterestThreshold       float64       `mapstructure:"interestThreshold"`
	MaxDistanceKm           float64       `mapstructure:"maxDistanceKm"`
	DefaultBudget           float64       `mapstructure:"defaultBudget"`
	Temperature             float64       `mapstructure:"temperature"`
	SqrtSmoothing           bool          `mapstructure:"sqrtSmoothing"`
	RandomSeed              int64         `mapstructure:"randomSeed"`
	EmbedTimeout            time.Duration `mapstructure:"embedTimeout"`
	Currency                string        `mapstructure:"currency"`
	TitleKeywordBonus       float64       `mapstructure:"titleKeywordBonus"`
	DescriptionKeywordBonus float64       `mapstructure:"descriptionKeywordBonus"`
	KeywordBonusCap         float64       `mapstructure:"keywordBonusCap"`
	Weights                 struct {
		Alpha     float64 `mapstructure:"alpha"`
		Beta      float64 `mapstructure:"beta"`
		Gamma     float64 `mapstructure:"gamma"`
		Delta     float64 `mapstructure:"delta"`
		FreeBonus float64 `mapstructure:"freeBonus"`
	} `mapstructure:"weights"`
}

type Dialogue struct {
	HistoryLimit       int           `mapstructure:"historyLimit"`
	NearbyDistanceKm   float64       `mapstructure:"nearbyDistanceKm"`
	CheapBudget        float64       `mapstructure:"cheapBudget"`
	CheaperFactor      float64       `mapstructure:"cheaperFactor"`
	ExtractTimeout     time.Duration `mapstructure:"extractTimeout"`
	ClassifyTimeout    time.Duration `mapstructure:"classifyTimeout"`
	AnswerTimeout      time.Duration `mapstructure:"answerTimeout"`
	RecommendKeywords  []string      `mapstructure:"recommendKeywords"`
	RefinementKeywords []string      `mapstructure:"refinementKeywords"`
	GuardKeywords      []string      `mapstructure:"guardKeywords"`
}

type QA struct {
	TopK int `mapstructure:"topK"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")
	bindEnv(v)

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// bindEnv lets environment variables override file values, e.g.
// REPOSITORIES_POSTGRES_PASSWORD for repositories.postgres.password.
func bindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the embedded defaults plus environment overrides, ignoring config files on disk.
func Load() (Config, error) {
	var config Config
	v := viper.New()
	v.SetConfigType("yml")
	bindEnv(v)
	if err := v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
		return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}
