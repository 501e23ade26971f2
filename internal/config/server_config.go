package config

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/selendra/did-wallet/internal/util"
	"golang.org/x/text/language"
)

type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	EnableCORSMiddleware           bool
	EnableLoggerMiddleware         bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
	EnableTrailingSlashMiddleware  bool
	AllowOrigins                   []string
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	// Request and response bodies are never logged, they carry passwords and phrases.
	LogRequestHeader   bool
	LogRequestQuery    bool
	LogResponseHeader  bool
	PrettyPrintConsole bool
}

// Storage configures the durable key-value store holding the vault and last known addresses.
type Storage struct {
	// Backend is one of "leveldb", "badger", "keyring" or "memory".
	Backend            string
	Path               string
	KeyringBackend     string
	KeyringServiceName string
	KeyringPassword    string `json:"-"`
}

// Vault configures key stretching for newly created vaults.
// Opening a vault always uses the parameters stored inside it.
type Vault struct {
	ScryptN int
	ScryptP int
}

type Chain struct {
	EVMRPCURLs  []string
	NativeWSURL string
	SS58Prefix  uint16
	DialTimeout time.Duration
}

type Binding struct {
	ClaimDomainName    string
	ClaimDomainVersion string
	FinalizeTimeout    time.Duration
	// UseChainBindingState queries EvmAccounts storage before submitting
	// instead of relying on the balance heuristic alone.
	UseChainBindingState bool
}

type Faucet struct {
	Enabled        bool
	URL            string
	RequestTimeout time.Duration
	MaxElapsedTime time.Duration
}

type Session struct {
	UnlockWait        time.Duration
	CreateWalletRoute string
	PublicRoutes      []string
}

type I18n struct {
	DefaultLanguage language.Tag
}

type Management struct {
	EnableMetrics bool
	ProbeTimeout  time.Duration
}

type Server struct {
	Echo       EchoServer
	Logger     LoggerServer
	Storage    Storage
	Vault      Vault
	Chain      Chain
	Binding    Binding
	Faucet     Faucet
	Session    Session
	I18n       I18n
	Management Management
}

const (
	// DefaultScryptN matches vaults created by the browser wallet. Raising it only affects new vaults.
	DefaultScryptN = 4096
	DefaultScryptP = 1

	DefaultSS58Prefix = 204

	defaultCreateWalletRoute = "/createWallet"
	defaultProfileRoute      = "/profile"
)

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below.
// We don't expect that ENV_VARs change while we are running our application or our tests
// (and it would be a bad thing to do anyways with parallel testing).
// Do NOT use os.Setenv / os.Unsetenv in tests utilizing DefaultServiceConfigFromEnv()!
func DefaultServiceConfigFromEnv() Server {
	return Server{
		Echo: EchoServer{
			Debug:                          util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
			ListenAddress:                  util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", "127.0.0.1:8080"),
			HideInternalServerErrorDetails: util.GetEnvAsBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true),
			EnableCORSMiddleware:           util.GetEnvAsBool("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE", true),
			EnableLoggerMiddleware:         util.GetEnvAsBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true),
			EnableRecoverMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableRequestIDMiddleware:      util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
			EnableTrailingSlashMiddleware:  util.GetEnvAsBool("SERVER_ECHO_ENABLE_TRAILING_SLASH_MIDDLEWARE", true),
			AllowOrigins:                   util.GetEnvAsStringArr("SERVER_ECHO_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
		},
		Logger: LoggerServer{
			Level:              util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_LEVEL", zerolog.DebugLevel.String())),
			RequestLevel:       util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_REQUEST_LEVEL", zerolog.DebugLevel.String())),
			LogRequestHeader:   util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_HEADER", false),
			LogRequestQuery:    util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_QUERY", false),
			LogResponseHeader:  util.GetEnvAsBool("SERVER_LOGGER_LOG_RESPONSE_HEADER", false),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Storage: Storage{
			Backend:            util.GetEnv("SERVER_STORAGE_BACKEND", "leveldb"),
			Path:               util.GetEnv("SERVER_STORAGE_PATH", "./data"),
			KeyringBackend:     util.GetEnv("SERVER_STORAGE_KEYRING_BACKEND", "file"),
			KeyringServiceName: util.GetEnv("SERVER_STORAGE_KEYRING_SERVICE_NAME", "did-wallet"),
			KeyringPassword:    util.GetEnv("SERVER_STORAGE_KEYRING_PASSWORD", ""),
		},
		Vault: Vault{
			ScryptN: util.GetEnvAsInt("SERVER_VAULT_SCRYPT_N", DefaultScryptN),
			ScryptP: util.GetEnvAsInt("SERVER_VAULT_SCRYPT_P", DefaultScryptP),
		},
		Chain: Chain{
			EVMRPCURLs:  util.GetEnvAsStringArr("SERVER_CHAIN_EVM_RPC_URLS", []string{"https://rpc.testnet.selendra.org"}),
			NativeWSURL: util.GetEnv("SERVER_CHAIN_NATIVE_WS_URL", "wss://rpc.testnet.selendra.org"),
			SS58Prefix:  util.GetEnvAsUint16("SERVER_CHAIN_SS58_PREFIX", DefaultSS58Prefix),
			DialTimeout: util.GetEnvAsDuration("SERVER_CHAIN_DIAL_TIMEOUT", 15*time.Second),
		},
		Binding: Binding{
			ClaimDomainName:      util.GetEnv("SERVER_BINDING_CLAIM_DOMAIN_NAME", "Selendra EVM claim"),
			ClaimDomainVersion:   util.GetEnv("SERVER_BINDING_CLAIM_DOMAIN_VERSION", "1"),
			FinalizeTimeout:      util.GetEnvAsDuration("SERVER_BINDING_FINALIZE_TIMEOUT", 2*time.Minute),
			UseChainBindingState: util.GetEnvAsBool("SERVER_BINDING_USE_CHAIN_BINDING_STATE", true),
		},
		Faucet: Faucet{
			Enabled:        util.GetEnvAsBool("SERVER_FAUCET_ENABLED", true),
			URL:            util.GetEnv("SERVER_FAUCET_URL", "https://api-faucet.selendra.org/api/claim/testnet"),
			RequestTimeout: util.GetEnvAsDuration("SERVER_FAUCET_REQUEST_TIMEOUT", 30*time.Second),
			MaxElapsedTime: util.GetEnvAsDuration("SERVER_FAUCET_MAX_ELAPSED_TIME", time.Minute),
		},
		Session: Session{
			UnlockWait:        util.GetEnvAsDuration("SERVER_SESSION_UNLOCK_WAIT", 10*time.Millisecond),
			CreateWalletRoute: util.GetEnv("SERVER_SESSION_CREATE_WALLET_ROUTE", defaultCreateWalletRoute),
			PublicRoutes:      util.GetEnvAsStringArr("SERVER_SESSION_PUBLIC_ROUTES", []string{defaultCreateWalletRoute, defaultProfileRoute}),
		},
		I18n: I18n{
			DefaultLanguage: util.GetEnvAsLanguageTag("SERVER_I18N_DEFAULT_LANGUAGE", language.English),
		},
		Management: Management{
			EnableMetrics: util.GetEnvAsBool("SERVER_MANAGEMENT_ENABLE_METRICS", true),
			ProbeTimeout:  util.GetEnvAsDuration("SERVER_MANAGEMENT_PROBE_TIMEOUT", 2*time.Second),
		},
	}
}
