package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	rp "github.com/krazyTry/reward-pool-go/reward_pool"
)

const EnvPrefix = "REWARD_POOL"

// Config is the on-disk configuration of the reward pool CLI.
type Config struct {
	KeyPath    string `yaml:"key_path" json:"key_path" mapstructure:"key_path"`
	LogFile    string `yaml:"log_file" json:"log_file" mapstructure:"log_file"`
	DebugLog   bool   `yaml:"debug_log" json:"debug_log" mapstructure:"debug_log"`
	HTTPRPCURL string `yaml:"http_rpc_url" json:"http_rpc_url" mapstructure:"http_rpc_url"`
	WSRPCURL   string `yaml:"ws_rpc_url" json:"ws_rpc_url" mapstructure:"ws_rpc_url"`
	// LedgerPath is the LevelDB directory of the local ledger. Empty keeps it in memory.
	LedgerPath string       `yaml:"ledger_path" json:"ledger_path" mapstructure:"ledger_path"`
	IdlePolicy string       `yaml:"idle_policy" json:"idle_policy" mapstructure:"idle_policy"`
	Pools      []PoolConfig `yaml:"pools,omitempty" json:"pools,omitempty" mapstructure:"pools"`
	Programs   Programs     `yaml:"programs" json:"programs" mapstructure:"programs"`
}

type Programs struct {
	RewardPool Program `yaml:"reward_pool" json:"reward_pool" mapstructure:"reward_pool"`
}

// Program is a deployed program the CLI talks to.
type Program struct {
	ID      string `yaml:"id" json:"id" mapstructure:"id"`
	IDLPath string `yaml:"idl_path" json:"idl_path" mapstructure:"idl_path"`
}

type PoolConfig struct {
	Name           string `yaml:"name" json:"name" mapstructure:"name"`
	Account        string `yaml:"account" json:"account" mapstructure:"account"`
	AccountNonce   uint8  `yaml:"account_nonce" json:"account_nonce" mapstructure:"account_nonce"`
	Authority      string `yaml:"authority" json:"authority" mapstructure:"authority"`
	StakingMint    string `yaml:"staking_mint" json:"staking_mint" mapstructure:"staking_mint"`
	RewardAMint    string `yaml:"reward_a_mint" json:"reward_a_mint" mapstructure:"reward_a_mint"`
	RewardBMint    string `yaml:"reward_b_mint" json:"reward_b_mint" mapstructure:"reward_b_mint"`
	RewardDuration uint64 `yaml:"reward_duration" json:"reward_duration" mapstructure:"reward_duration"`
	RewardAAmount  uint64 `yaml:"reward_a_amount" json:"reward_a_amount" mapstructure:"reward_a_amount"`
	RewardBAmount  uint64 `yaml:"reward_b_amount" json:"reward_b_amount" mapstructure:"reward_b_amount"`
}

func Default() Config {
	return Config{
		KeyPath:    "~/.config/solana/id.json",
		LogFile:    "",
		HTTPRPCURL: "https://api.devnet.solana.com",
		WSRPCURL:   "wss://api.devnet.solana.com",
		IdlePolicy: "forfeit",
		Programs: Programs{
			RewardPool: Program{
				ID:      rp.ProgramID.String(),
				IDLPath: "target/idl/reward_pool.json",
			},
		},
	}
}

// flag name -> config key
var flagKeys = map[string]string{
	"rpc-url":     "http_rpc_url",
	"ws-url":      "ws_rpc_url",
	"key-path":    "key_path",
	"ledger":      "ledger_path",
	"idle-policy": "idle_policy",
	"debug":       "debug_log",
	"log-file":    "log_file",
}

// Load merges defaults, the config file, REWARD_POOL_* environment variables and flags.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("key_path", def.KeyPath)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("debug_log", def.DebugLog)
	v.SetDefault("http_rpc_url", def.HTTPRPCURL)
	v.SetDefault("ws_rpc_url", def.WSRPCURL)
	v.SetDefault("ledger_path", def.LedgerPath)
	v.SetDefault("idle_policy", def.IdlePolicy)
	v.SetDefault("programs.reward_pool.id", def.Programs.RewardPool.ID)
	v.SetDefault("programs.reward_pool.idl_path", def.Programs.RewardPool.IDLPath)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, errors.Wrapf(err, "bind flag %s", name)
				}
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrap(err, "read config")
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, errors.Wrap(err, "read config")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	return cfg, nil
}

// Save writes the configuration as YAML, or as indented JSON when asJSON is set.
func (c Config) Save(path string, asJSON bool) error {
	var (
		data []byte
		err  error
	)
	if asJSON {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o600), "write %s", path)
}

func (c Config) PoolByName(name string) (PoolConfig, error) {
	for _, p := range c.Pools {
		if p.Name == name {
			return p, nil
		}
	}
	return PoolConfig{}, errors.Errorf("no pool config found for %q", name)
}

func (c Config) ProgramID() (solana.PublicKey, error) {
	return solana.PublicKeyFromBase58(c.Programs.RewardPool.ID)
}

// Wallet reads the public key of the keypair file at KeyPath. A leading ~ is the home directory.
func (c Config) Wallet() (solana.PublicKey, error) {
	path := c.KeyPath
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return solana.PublicKey{}, errors.Wrap(err, "home directory")
		}
		path = filepath.Join(home, rest)
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return solana.PublicKey{}, errors.Wrapf(err, "key path %s", path)
	}
	return key.PublicKey(), nil
}

func (p PoolConfig) AccountKey() (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(p.Account)
	return key, errors.Wrapf(err, "pool %s account", p.Name)
}

// PoolKeys parses the account addresses of every configured pool.
func (c Config) PoolKeys() ([]solana.PublicKey, error) {
	out := make([]solana.PublicKey, 0, len(c.Pools))
	for _, p := range c.Pools {
		key, err := p.AccountKey()
		if err != nil {
			return nil, err
		}
		out = append(out, key)
	}
	return out, nil
}
