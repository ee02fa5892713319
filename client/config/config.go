package config

import (
	"crypto/tls"
	"time"

	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/clearnetwork/clearnet/client/modules/state"
)

type HttpApiConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

type KafkaStorageConfig struct {
	DBDSN               string           // storage_dbdsn
	Topic               string           // storage_topic
	ConsumerGroup       string           // kafka_consumer_group
	TlsConfig           *tls.Config      // kafka_truststore_path
	ProducerCredentials *plain.Mechanism // producer_credentials
	ConsumerCredentials *plain.Mechanism // consumer_credentials
	Timeout             time.Duration
}

type Config struct {
	HttpApiConfig *HttpApiConfig `mapstructure:"http_api_config"`

	KafkaStorageConfig *KafkaStorageConfig

	Username      string `mapstructure:"username"`
	State         state.State
	KeyStoreDBDSN string `mapstructure:"key_store_dbdsn"`
	StateDBDSN    string `mapstructure:"state_dbdsn"`
	SlotDBDSN     string `mapstructure:"slot_dbdsn"`
}
