package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// LoadDotEnv loads variables from the given .env files into the process environment.
// Already set variables are left untouched, missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Wrapf(err, "failed to stat env file %s", path)
		}

		if err := gotenv.Load(path); err != nil {
			return errors.Wrapf(err, "failed to load env file %s", path)
		}
	}

	return nil
}

// ApplyConfigFile overrides values of cfg with the keys set in the given config file
// (any format supported by viper: yaml, toml, json).
func ApplyConfigFile(cfg *Server, path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}

	setString := func(key string, target *string) {
		if v.IsSet(key) {
			*target = v.GetString(key)
		}
	}
	setBool := func(key string, target *bool) {
		if v.IsSet(key) {
			*target = v.GetBool(key)
		}
	}
	setInt := func(key string, target *int) {
		if v.IsSet(key) {
			*target = v.GetInt(key)
		}
	}

	setString("echo.listen_address", &cfg.Echo.ListenAddress)
	setBool("echo.debug", &cfg.Echo.Debug)
	if v.IsSet("echo.allow_origins") {
		cfg.Echo.AllowOrigins = v.GetStringSlice("echo.allow_origins")
	}

	setBool("logger.pretty_print_console", &cfg.Logger.PrettyPrintConsole)

	setString("storage.backend", &cfg.Storage.Backend)
	setString("storage.path", &cfg.Storage.Path)
	setString("storage.keyring_backend", &cfg.Storage.KeyringBackend)
	setString("storage.keyring_service_name", &cfg.Storage.KeyringServiceName)

	setInt("vault.scrypt_n", &cfg.Vault.ScryptN)
	setInt("vault.scrypt_p", &cfg.Vault.ScryptP)

	if v.IsSet("chain.evm_rpc_urls") {
		cfg.Chain.EVMRPCURLs = v.GetStringSlice("chain.evm_rpc_urls")
	}
	setString("chain.native_ws_url", &cfg.Chain.NativeWSURL)
	if v.IsSet("chain.ss58_prefix") {
		cfg.Chain.SS58Prefix = v.GetUint16("chain.ss58_prefix")
	}
	if v.IsSet("chain.dial_timeout") {
		cfg.Chain.DialTimeout = v.GetDuration("chain.dial_timeout")
	}

	setString("binding.claim_domain_name", &cfg.Binding.ClaimDomainName)
	setString("binding.claim_domain_version", &cfg.Binding.ClaimDomainVersion)
	setBool("binding.use_chain_binding_state", &cfg.Binding.UseChainBindingState)
	if v.IsSet("binding.finalize_timeout") {
		cfg.Binding.FinalizeTimeout = v.GetDuration("binding.finalize_timeout")
	}

	setBool("faucet.enabled", &cfg.Faucet.Enabled)
	setString("faucet.url", &cfg.Faucet.URL)

	if v.IsSet("session.public_routes") {
		cfg.Session.PublicRoutes = v.GetStringSlice("session.public_routes")
	}

	return nil
}
