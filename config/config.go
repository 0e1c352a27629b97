// Package config holds the settings shared by the server and the command line tools.
package config

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	DefaultLotteryAddress = "0x062251Bcf7bD198850DDb256e4c6Ba03d30155a8"
	DefaultVotingAddress  = "0x87350eE91d1B939B29d2BE0427aD7761A8B92B95"
)

type Config struct {
	Node    Node    `toml:"node"`
	Lottery Lottery `toml:"lottery"`
	Voting  Voting  `toml:"voting"`
	Wallet  Wallet  `toml:"wallet"`
	Server  Server  `toml:"server"`
	Log     Log     `toml:"log"`
}

type Node struct {
	RPCURL string `toml:"rpc_url"`
	// ChainID of 0 means the node is asked.
	ChainID int64 `toml:"chain_id"`
}

type Lottery struct {
	Address  string `toml:"address"`
	ABIPath  string `toml:"abi"`
	EntryFee string `toml:"entry_fee"`
}

type Voting struct {
	Address      string   `toml:"address"`
	ABIPath      string   `toml:"abi"`
	PollInterval Duration `toml:"poll_interval"`
}

type Wallet struct {
	Keystore       string `toml:"keystore"`
	Account        string `toml:"account"`
	PasswordFile   string `toml:"password_file"`
	KeyFile        string `toml:"key_file"`
	ExternalSigner string `toml:"external_signer"`
}

type Server struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	QueueSize   int      `toml:"queue_size"`
}

type Log struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	FileLevel  string `toml:"file_level"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"`
	Compress   bool   `toml:"compress"`
}

// Duration lets TOML files write durations as "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() *Config {
	return &Config{
		Node: Node{
			RPCURL: "http://127.0.0.1:8545",
		},
		Lottery: Lottery{
			Address:  DefaultLotteryAddress,
			EntryFee: "0.1",
		},
		Voting: Voting{
			Address:      DefaultVotingAddress,
			PollInterval: Duration{15 * time.Second},
		},
		Server: Server{
			Port:        8080,
			CORSOrigins: []string{"*"},
			QueueSize:   16,
		},
		Log: Log{
			Level:      "info",
			FileLevel:  "debug",
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     28,
		},
	}
}

// Load reads a TOML file on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to load config %s", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Node.RPCURL == "" {
		return errors.New("node rpc_url is required")
	}
	if c.Node.ChainID < 0 {
		return errors.Errorf("invalid chain_id %d", c.Node.ChainID)
	}
	if !common.IsHexAddress(c.Lottery.Address) {
		return errors.Errorf("invalid lottery address %q", c.Lottery.Address)
	}
	if !common.IsHexAddress(c.Voting.Address) {
		return errors.Errorf("invalid voting address %q", c.Voting.Address)
	}
	fee, err := decimal.NewFromString(c.Lottery.EntryFee)
	if err != nil {
		return errors.Wrapf(err, "invalid lottery entry_fee %q", c.Lottery.EntryFee)
	}
	if !fee.IsPositive() {
		return errors.Errorf("lottery entry_fee must be positive, got %s", c.Lottery.EntryFee)
	}
	if c.Voting.PollInterval.Duration <= 0 {
		return errors.Errorf("voting poll_interval must be positive, got %s", c.Voting.PollInterval)
	}
	if c.Wallet.Account != "" && !common.IsHexAddress(c.Wallet.Account) {
		return errors.Errorf("invalid wallet account %q", c.Wallet.Account)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.QueueSize <= 0 {
		return errors.Errorf("server queue_size must be positive, got %d", c.Server.QueueSize)
	}
	return nil
}
