package mocks

//go:generate mockgen -source=./../client/modules/state/state.go -destination=./clientMocks/state_mock.go -package=clientMocks
//go:generate mockgen -source=./../client/modules/keystore/keystore.go -destination=./clientMocks/keystore_mock.go -package=clientMocks
//go:generate mockgen -source=./../storage/types.go -destination=./storageMocks/storage_mock.go -package=storageMocks
//go:generate mockgen -source=./../registry/registry.go -destination=./registryMocks/registry_mock.go -package=registryMocks
//go:generate mockgen -source=./../quorum/verifier.go -destination=./quorumMocks/verifier_mock.go -package=quorumMocks
