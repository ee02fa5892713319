package services

import (
	"github.com/clearnetwork/clearnet/client/modules/keystore"
	"github.com/clearnetwork/clearnet/client/modules/logger"
	"github.com/clearnetwork/clearnet/client/modules/state"
	"github.com/clearnetwork/clearnet/registry"
	"github.com/clearnetwork/clearnet/storage"
	"github.com/clearnetwork/clearnet/vault"
)

type ServiceProvider struct {
	logger      logger.Logger
	state       state.State
	keyStore    keystore.KeyStore
	storage     storage.Storage
	machine     *vault.Machine
	nodes       registry.NodeRegistry
	ledger      *vault.Ledger
	configStore *vault.ConfigStore
}

func (p *ServiceProvider) SetLogger(log logger.Logger) {
	p.logger = log
}

func (p *ServiceProvider) GetLogger() logger.Logger {
	return p.logger
}

func (p *ServiceProvider) SetState(st state.State) {
	p.state = st
}

func (p *ServiceProvider) GetState() state.State {
	return p.state
}

func (p *ServiceProvider) SetKeyStore(ks keystore.KeyStore) {
	p.keyStore = ks
}

func (p *ServiceProvider) GetKeyStore() keystore.KeyStore {
	return p.keyStore
}

func (p *ServiceProvider) SetStorage(stg storage.Storage) {
	p.storage = stg
}

func (p *ServiceProvider) GetStorage() storage.Storage {
	return p.storage
}

func (p *ServiceProvider) SetMachine(machine *vault.Machine) {
	p.machine = machine
}

func (p *ServiceProvider) GetMachine() *vault.Machine {
	return p.machine
}

func (p *ServiceProvider) SetNodeRegistry(nodes registry.NodeRegistry) {
	p.nodes = nodes
}

func (p *ServiceProvider) GetNodeRegistry() registry.NodeRegistry {
	return p.nodes
}

func (p *ServiceProvider) SetLedger(ledger *vault.Ledger) {
	p.ledger = ledger
}

func (p *ServiceProvider) GetLedger() *vault.Ledger {
	return p.ledger
}

func (p *ServiceProvider) SetConfigStore(configStore *vault.ConfigStore) {
	p.configStore = configStore
}

func (p *ServiceProvider) GetConfigStore() *vault.ConfigStore {
	return p.configStore
}
