package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8080
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 30 * time.Second
	DefaultServerMaxBodySize     = 8 << 20
	DefaultServerShutdownTimeout = 10 * time.Second

	DefaultUpstreamAtomPath      = "/interactions/{id}/atoms"
	DefaultUpstreamResiduePath   = "/interactions/{id}/residues"
	DefaultUpstreamViewerPath    = "/interactions/{id}/viewer"
	DefaultUpstreamStructurePath = "/structures/{id}.pdb"
	DefaultUpstreamTimeout       = 20 * time.Second
	DefaultUpstreamRetryMax      = 2
	DefaultUpstreamRetryWait     = 500 * time.Millisecond

	DefaultRedisAddr        = "localhost:6379"
	DefaultRedisPoolSize    = 10
	DefaultRedisDialTimeout = 5 * time.Second
	DefaultRedisIOTimeout   = 3 * time.Second
	DefaultRedisTTL         = 10 * time.Minute
	DefaultRedisKeyPrefix   = "interactome:"

	DefaultKafkaBroker       = "localhost:9092"
	DefaultKafkaTopic        = "interactome.viewer.commands"
	DefaultKafkaBatchSize    = 100
	DefaultKafkaBatchTimeout = 50 * time.Millisecond
	DefaultKafkaRequiredAcks = 1
	DefaultKafkaMaxAttempts  = 3

	DefaultMinIOEndpoint      = "localhost:9000"
	DefaultMinIOBucket        = "interactome-layouts"
	DefaultMinIOPresignExpiry = 15 * time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "interactome"
	DefaultMetricsPath      = "/metrics"

	DefaultLayoutTicks        = 300
	DefaultLayoutWidth        = 800
	DefaultLayoutHeight       = 600
	DefaultLayoutLinkDistance = 90
	DefaultLayoutCharge       = -300
	DefaultLayoutCollidePad   = 4
	DefaultLayoutBaseRadius   = 6
	DefaultLayoutRadiusScale  = 3
	DefaultLayoutMaxRadius    = 22
	DefaultLayoutEdgeSpacing  = 18

	DefaultFilterProximalThreshold = 4.0
	DefaultFilterMode              = "atom"
)

// ApplyDefaults fills every zero-value field in cfg with its default.  Explicit
// values always win.  It runs after unmarshalling and before Validate.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}

	// ── Upstream ──────────────────────────────────────────────────────────────
	if cfg.Upstream.AtomPath == "" {
		cfg.Upstream.AtomPath = DefaultUpstreamAtomPath
	}
	if cfg.Upstream.ResiduePath == "" {
		cfg.Upstream.ResiduePath = DefaultUpstreamResiduePath
	}
	if cfg.Upstream.ViewerPath == "" {
		cfg.Upstream.ViewerPath = DefaultUpstreamViewerPath
	}
	if cfg.Upstream.StructurePath == "" {
		cfg.Upstream.StructurePath = DefaultUpstreamStructurePath
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if cfg.Upstream.RetryMax == 0 {
		cfg.Upstream.RetryMax = DefaultUpstreamRetryMax
	}
	if cfg.Upstream.RetryWait == 0 {
		cfg.Upstream.RetryWait = DefaultUpstreamRetryWait
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = DefaultRedisDialTimeout
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = DefaultRedisIOTimeout
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = DefaultRedisIOTimeout
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.BatchSize == 0 {
		cfg.Kafka.BatchSize = DefaultKafkaBatchSize
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = DefaultKafkaBatchTimeout
	}
	if cfg.Kafka.RequiredAcks == 0 {
		cfg.Kafka.RequiredAcks = DefaultKafkaRequiredAcks
	}
	if cfg.Kafka.MaxAttempts == 0 {
		cfg.Kafka.MaxAttempts = DefaultKafkaMaxAttempts
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = DefaultMinIOPresignExpiry
	}

	// ── Log / Metrics ─────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Layout ────────────────────────────────────────────────────────────────
	if cfg.Layout.Ticks == 0 {
		cfg.Layout.Ticks = DefaultLayoutTicks
	}
	if cfg.Layout.Width == 0 {
		cfg.Layout.Width = DefaultLayoutWidth
	}
	if cfg.Layout.Height == 0 {
		cfg.Layout.Height = DefaultLayoutHeight
	}
	if cfg.Layout.LinkDistance == 0 {
		cfg.Layout.LinkDistance = DefaultLayoutLinkDistance
	}
	if cfg.Layout.Charge == 0 {
		cfg.Layout.Charge = DefaultLayoutCharge
	}
	if cfg.Layout.CollidePad == 0 {
		cfg.Layout.CollidePad = DefaultLayoutCollidePad
	}
	if cfg.Layout.BaseRadius == 0 {
		cfg.Layout.BaseRadius = DefaultLayoutBaseRadius
	}
	if cfg.Layout.RadiusScale == 0 {
		cfg.Layout.RadiusScale = DefaultLayoutRadiusScale
	}
	if cfg.Layout.MaxRadius == 0 {
		cfg.Layout.MaxRadius = DefaultLayoutMaxRadius
	}
	if cfg.Layout.EdgeSpacing == 0 {
		cfg.Layout.EdgeSpacing = DefaultLayoutEdgeSpacing
	}

	// ── Filter ────────────────────────────────────────────────────────────────
	if cfg.Filter.ProximalThreshold == 0 {
		cfg.Filter.ProximalThreshold = DefaultFilterProximalThreshold
	}
	if cfg.Filter.Mode == "" {
		cfg.Filter.Mode = DefaultFilterMode
	}
}

//Personal.AI order the ending
