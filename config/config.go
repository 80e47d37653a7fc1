package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "CARDS_CONFIG_FILE"

type consumers struct {
	OrderNotifierGroup string `mapstructure:"order_notifier_group"`
	SalesCounterGroup  string `mapstructure:"sales_counter_group"`
}

type topics struct {
	OrderEvents string `mapstructure:"order_events"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
}

type payments struct {
	MerchantAddress string        `mapstructure:"merchant_address"`
	CardsContract   string        `mapstructure:"cards_contract"`
	USDCContract    string        `mapstructure:"usdc_contract"`
	PaymentTimeout  time.Duration `mapstructure:"payment_timeout"`
}

type priceFeed struct {
	PairURL      string        `mapstructure:"pair_url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type onramp struct {
	KeyName    string `mapstructure:"key_name"`
	PrivateKey string `mapstructure:"private_key"`
	TokenURL   string `mapstructure:"token_url"`
}

type email struct {
	APIKey string `mapstructure:"api_key"`
	From   string `mapstructure:"from"`
	To     string `mapstructure:"to"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	SQLDB          string     `mapstructure:"sql_db"`
	Broker         broker     `mapstructure:"broker"`
	Payments       payments   `mapstructure:"payments"`
	PriceFeed      priceFeed  `mapstructure:"price_feed"`
	Onramp         onramp     `mapstructure:"onramp"`
	Email          email      `mapstructure:"email"`
}

func Load() Config {
	viper.SetConfigFile(getConfigFilepath())

	err := viper.ReadInConfig()
	if err != nil {
		die(err)
	}

	var cfg Config
	err = viper.UnmarshalExact(&cfg)
	if err != nil {
		die(err)
	}

	return cfg
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

// Print dumps everything except secrets.
func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	SQLDB=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		OrderEvents=%q
	Consumers:
		OrderNotifierGroup=%q
		SalesCounterGroup=%q

	Payments:
	MerchantAddress=%q
	CardsContract=%q
	USDCContract=%q
	PaymentTimeout=%q

	PriceFeed:
	PairURL=%q
	PollInterval=%q

	Onramp:
	KeyName=%q
	TokenURL=%q

	Email:
	From=%q
	To=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.SQLDB,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.OrderEvents,
		c.Broker.Consumers.OrderNotifierGroup,
		c.Broker.Consumers.SalesCounterGroup,
		c.Payments.MerchantAddress,
		c.Payments.CardsContract,
		c.Payments.USDCContract,
		c.Payments.PaymentTimeout,
		c.PriceFeed.PairURL,
		c.PriceFeed.PollInterval,
		c.Onramp.KeyName,
		c.Onramp.TokenURL,
		c.Email.From,
		c.Email.To,
	)
}
