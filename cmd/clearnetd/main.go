package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/spf13/cobra"

	"github.com/clearnetwork/clearnet/client/api/http_api"
	"github.com/clearnetwork/clearnet/client/config"
	"github.com/clearnetwork/clearnet/client/modules/keystore"
	"github.com/clearnetwork/clearnet/client/modules/logger"
	"github.com/clearnetwork/clearnet/client/modules/state"
	"github.com/clearnetwork/clearnet/client/services"
	"github.com/clearnetwork/clearnet/client/services/watchtower"
	"github.com/clearnetwork/clearnet/quorum"
	"github.com/clearnetwork/clearnet/registry"
	"github.com/clearnetwork/clearnet/storage"
	"github.com/clearnetwork/clearnet/storage/file_storage"
	"github.com/clearnetwork/clearnet/storage/kafka_storage"
	"github.com/clearnetwork/clearnet/vault"
)

const (
	flagUserName                 = "username"
	flagListenHost               = "listen_host"
	flagListenPort               = "listen_port"
	flagStateDBDSN               = "state_dbdsn"
	flagSlotDBDSN                = "slot_dbdsn"
	flagStorageType              = "storage_type"
	flagStorageDBDSN             = "storage_dbdsn"
	flagStorageTopic             = "storage_topic"
	flagKafkaConsumerGroup       = "kafka_consumer_group"
	flagKafkaProducerCredentials = "producer_credentials"
	flagKafkaConsumerCredentials = "consumer_credentials"
	flagKafkaTrustStorePath      = "kafka_truststore_path"
	flagStoreDBDSN               = "key_store_dbdsn"
	flagAdmin                    = "admin"

	storageTypeFile  = "file"
	storageTypeKafka = "kafka"
)

func init() {
	rootCmd.PersistentFlags().String(flagUserName, "testUser", "Username")
	rootCmd.PersistentFlags().String(flagListenHost, "localhost", "Listen host")
	rootCmd.PersistentFlags().Int(flagListenPort, 8080, "Listen port")
	rootCmd.PersistentFlags().String(flagStateDBDSN, "./clearnet_node_state", "Node state DBDSN")
	rootCmd.PersistentFlags().String(flagSlotDBDSN, "./clearnet_slot_store", "Slot store DBDSN")
	rootCmd.PersistentFlags().String(flagStorageType, storageTypeFile, "Storage type: file or kafka")
	rootCmd.PersistentFlags().String(flagStorageDBDSN, "./clearnet_file_storage", "Storage DBDSN")
	rootCmd.PersistentFlags().String(flagStorageTopic, "notifications", "Storage Topic (Kafka)")
	rootCmd.PersistentFlags().String(flagKafkaConsumerGroup, "", "Kafka consumer group")
	rootCmd.PersistentFlags().String(flagKafkaProducerCredentials, "producer:producerpass", "Producer credentials for Kafka: username:password")
	rootCmd.PersistentFlags().String(flagKafkaConsumerCredentials, "consumer:consumerpass", "Consumer credentials for Kafka: username:password")
	rootCmd.PersistentFlags().String(flagKafkaTrustStorePath, "certs/ca.pem", "Path to kafka truststore")
	rootCmd.PersistentFlags().String(flagStoreDBDSN, "./clearnet_key_store", "Key Store DBDSN")
	rootCmd.PersistentFlags().String(flagAdmin, "", "Admin authority (hex-encoded public key)")
}

func genKeyPairCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "gen_keys",
		Short: "generates a keypair to sign and verify messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			userName, err := cmd.Flags().GetString(flagUserName)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			keyStoreDBDSN, err := cmd.Flags().GetString(flagStoreDBDSN)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			keyPair := keystore.NewKeyPair()
			keyStore, err := keystore.NewLevelDBKeyStore(userName, keyStoreDBDSN)
			if err != nil {
				return fmt.Errorf("failed to init key store: %w", err)
			}
			if err = keyStore.PutKeys(userName, keyPair); err != nil {
				return fmt.Errorf("failed to save keypair: %w", err)
			}
			fmt.Printf("keypair generated for user %s with authority %s and saved to %s\n",
				userName, keyPair.GetAddr(), keyStoreDBDSN)
			return nil
		},
	}
}

func initVaultCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "initializes the vault config with the given admin authority",
		RunE: func(cmd *cobra.Command, args []string) error {
			slotDBDSN, err := cmd.Flags().GetString(flagSlotDBDSN)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			admin, err := cmd.Flags().GetString(flagAdmin)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			if admin == "" {
				return fmt.Errorf("flag --%s is required", flagAdmin)
			}

			db, err := vault.OpenSlotDB(slotDBDSN)
			if err != nil {
				return fmt.Errorf("failed to open slot store: %w", err)
			}
			defer db.Close()

			cfg, err := vault.NewConfigStore(db).Initialize(admin)
			if err != nil {
				return fmt.Errorf("failed to initialize vault config: %w", err)
			}

			fmt.Printf("vault initialized: admin %s, challenge period %ds, request bond %d\n",
				cfg.Admin, cfg.ChallengePeriod, cfg.RequestBond)
			return nil
		},
	}
}

func parseKafkaSaslPlain(creds string) (*plain.Mechanism, error) {
	credsSplited := strings.SplitN(creds, ":", 2)
	if len(credsSplited) == 1 {
		return nil, fmt.Errorf("failed to parse credentials")
	}
	return &plain.Mechanism{
		Username: credsSplited[0],
		Password: credsSplited[1],
	}, nil
}

func buildStorage(cmd *cobra.Command) (storage.Storage, error) {
	storageType, err := cmd.Flags().GetString(flagStorageType)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %v", err)
	}
	storageDBDSN, err := cmd.Flags().GetString(flagStorageDBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %v", err)
	}

	switch storageType {
	case storageTypeFile:
		return file_storage.NewFileStorage(storageDBDSN)
	case storageTypeKafka:
		storageTopic, err := cmd.Flags().GetString(flagStorageTopic)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration: %v", err)
		}
		consumerGroup, err := cmd.Flags().GetString(flagKafkaConsumerGroup)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration: %v", err)
		}
		kafkaTrustStorePath, err := cmd.Flags().GetString(flagKafkaTrustStorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration: %v", err)
		}
		tlsConfig, err := kafka_storage.GetTLSConfig(kafkaTrustStorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create tls config: %w", err)
		}
		producerCredentials, err := cmd.Flags().GetString(flagKafkaProducerCredentials)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration: %v", err)
		}
		producerCreds, err := parseKafkaSaslPlain(producerCredentials)
		if err != nil {
			return nil, err
		}
		consumerCredentials, err := cmd.Flags().GetString(flagKafkaConsumerCredentials)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration: %v", err)
		}
		consumerCreds, err := parseKafkaSaslPlain(consumerCredentials)
		if err != nil {
			return nil, err
		}
		return kafka_storage.NewKafkaStorage(storageDBDSN, storageTopic, consumerGroup,
			tlsConfig, producerCreds, consumerCreds, 10*time.Second)
	default:
		return nil, fmt.Errorf("unknown storage type %s", storageType)
	}
}

func startCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "starts clearnet node",
		Run: func(cmd *cobra.Command, args []string) {
			userName, err := cmd.Flags().GetString(flagUserName)
			if err != nil {
				log.Fatalf("failed to read configuration: %v", err)
			}
			listenHost, err := cmd.Flags().GetString(flagListenHost)
			if err != nil {
				log.Fatalf("failed to read configuration: %v", err)
			}
			listenPort, err := cmd.Flags().GetInt(flagListenPort)
			if err != nil {
				log.Fatalf("failed to read configuration: %v", err)
			}
			stateDBDSN, err := cmd.Flags().GetString(flagStateDBDSN)
			if err != nil {
				log.Fatalf("failed to read configuration: %v", err)
			}
			slotDBDSN, err := cmd.Flags().GetString(flagSlotDBDSN)
			if err != nil {
				log.Fatalf("failed to read configuration: %v", err)
			}
			keyStoreDBDSN, err := cmd.Flags().GetString(flagStoreDBDSN)
			if err != nil {
				log.Fatalf("failed to read configuration: %v", err)
			}

			ctx, cancel := context.WithCancel(context.Background())

			nodeState, err := state.NewLevelDBState(stateDBDSN)
			if err != nil {
				log.Fatalf("Failed to init node state: %v", err)
			}

			stg, err := buildStorage(cmd)
			if err != nil {
				log.Fatalf("Failed to init storage client: %v", err)
			}

			keyStore, err := keystore.NewLevelDBKeyStore(userName, keyStoreDBDSN)
			if err != nil {
				log.Fatalf("Failed to init key store: %v", err)
			}

			keyPair, err := keyStore.LoadKeys(userName, "")
			if err != nil {
				log.Fatalf("Failed to load keys: %v", err)
			}

			slotDB, err := vault.OpenSlotDB(slotDBDSN)
			if err != nil {
				log.Fatalf("Failed to open slot store: %v", err)
			}

			configStore := vault.NewConfigStore(slotDB)
			nodes := registry.NewLevelDBNodeRegistry(slotDB, configStore)
			verifier := quorum.NewEd25519Verifier(quorum.DefaultPolicy)
			ledger := vault.NewLedger(slotDB)
			machine := vault.NewMachine(slotDB, configStore, nodes, verifier, ledger, stg, keyPair)

			cfg := &config.Config{
				HttpApiConfig: &config.HttpApiConfig{
					Host: listenHost,
					Port: listenPort,
				},
				Username:      userName,
				State:         nodeState,
				KeyStoreDBDSN: keyStoreDBDSN,
				StateDBDSN:    stateDBDSN,
				SlotDBDSN:     slotDBDSN,
			}

			sp := services.ServiceProvider{}
			sp.SetLogger(logger.NewLogger(userName))
			sp.SetState(nodeState)
			sp.SetKeyStore(keyStore)
			sp.SetStorage(stg)
			sp.SetMachine(machine)
			sp.SetNodeRegistry(nodes)
			sp.SetLedger(ledger)
			sp.SetConfigStore(configStore)

			wt, err := watchtower.NewWatchtower(ctx, cfg, &sp)
			if err != nil {
				log.Fatalf("Failed to init watchtower: %v", err)
			}

			var apiProvider http_api.RESTApiProvider
			if err := apiProvider.NewServer(cfg, wt); err != nil {
				log.Fatalf("Failed to init HTTP server: %v", err)
			}

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigs

				log.Println("Received signal, stopping node...")
				cancel()

				log.Println("Node stopped, exiting")
				os.Exit(0)
			}()

			go func() {
				if err := apiProvider.Start(); err != nil {
					log.Fatalf("HTTP server error: %v", err)
				}
			}()

			wt.GetLogger().Log("starting to poll messages from append-only log...")
			if err = wt.Poll(); err != nil {
				log.Fatalf("error while polling messages: %v", err)
			}
			wt.GetLogger().Log("polling is stopped")
		},
	}
}

var rootCmd = &cobra.Command{
	Use:   "clearnetd",
	Short: "clearnet vault node daemon",
}

func main() {
	rootCmd.AddCommand(
		startCommand(),
		genKeyPairCommand(),
		initVaultCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute root command: %v", err)
	}
}
