package constants

import "time"

// API locations.
const (
	// DefaultBaseURL is the public Litnet API root.
	DefaultBaseURL = "https://api.litnet.com/v1/"

	// RegistrationEndpoint registers an anonymous device.
	RegistrationEndpoint = "registration/registration-by-device"

	// BookEndpointFormat fetches a single book by id.
	BookEndpointFormat = "book/get/%d"

	// TokenField is the registration response field holding the token.
	TokenField = "token"
)

// Configuration locations.
const (
	// ConfigDirName is the configuration directory under the user's home.
	ConfigDirName = ".litnet"

	// ConfigFileName is the configuration file inside ConfigDirName.
	ConfigFileName = "config.yml"

	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "LITNET"

	// EnvFile is loaded into the environment before configuration is read.
	EnvFile = ".env"
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0o750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0o600

	// DataDirPerm is the permission for dataset directories.
	DataDirPerm = 0o755
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// BoltOpenTimeout bounds waiting for the bbolt file lock.
	BoltOpenTimeout = time.Second

	// NATSReconnectWait is the delay between NATS reconnect attempts.
	NATSReconnectWait = 2 * time.Second

	// NATSFlushTimeout bounds the final flush when a NATS sink closes.
	NATSFlushTimeout = 5 * time.Second

	// MetricsShutdownTimeout bounds the metrics server shutdown.
	MetricsShutdownTimeout = 5 * time.Second
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// MaskedPrefixLength is how many leading characters of a secret stay visible.
	MaskedPrefixLength = 4
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// Sink names.
const (
	SinkStdout = "stdout"
	SinkFile   = "file"
	SinkNATS   = "nats"
	SinkBolt   = "bolt"
)

// Dataset defaults.
const (
	// DefaultNATSURL is the default NATS server.
	DefaultNATSURL = "nats://localhost:4222"

	// DefaultNATSSubject prefixes the subject each book is published on.
	DefaultNATSSubject = "litnet.books"

	// DefaultBoltPath is the default bbolt dataset file.
	DefaultBoltPath = "./data/books.db"

	// BoltBooksBucket is the bucket book records are stored in.
	BoltBooksBucket = "books"
)
