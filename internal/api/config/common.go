package config

// Config 配置主体
type Config struct {
	Server              ServerConfig        `mapstructure:"server"`
	DB                  DBConfig            `mapstructure:"database"`
	Redis               RedisConfig         `mapstructure:"redis"`
	Logstash            LogstashConfig      `mapstructure:"logstash"`
	Ingest              IngestConfig        `mapstructure:"ingest"`
	Cache               CacheConfig         `mapstructure:"cache"`
	Scoring             ScoringConfig       `mapstructure:"scoring"`
	Service             ServiceConfig       `mapstructure:"service"`
	Kafka               KafkaConfig         `mapstructure:"kafka"`
	KafkaIngestConsumer KafkaIngestConsumer `mapstructure:"kafka_ingest_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogstashConfig 远程日志上报，address 为空则仅输出到 stdout
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// IngestConfig 摄入配置
type IngestConfig struct {
	BatchSize     int    `mapstructure:"batch_size"`
	SpoolDir      string `mapstructure:"spool_dir"`
	SpoolSchedule string `mapstructure:"spool_schedule"`
}

// CacheConfig 推荐结果缓存：backend 取 memory 或 redis
type CacheConfig struct {
	Backend      string `mapstructure:"backend"`
	TTLSeconds   int    `mapstructure:"ttl_seconds"`
	SingleFlight bool   `mapstructure:"single_flight"`
}

// ScoringConfig attribution 取 seed（复刻基线）或 counterparty
type ScoringConfig struct {
	Attribution string `mapstructure:"attribution"`
}

// ServiceConfig 响应中原样透传的静态标识
type ServiceConfig struct {
	TeamID           string `mapstructure:"team_id"`
	TeamAWSAccountID string `mapstructure:"team_aws_account_id"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaIngestConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
