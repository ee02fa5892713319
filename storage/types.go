package storage

// Message is one record of the append-only notification stream. Event names
// the vault transition, Data carries its JSON payload, and Signature is the
// emitter's ed25519 signature over Data.
type Message struct {
	ID         string `json:"id"`
	Offset     uint64 `json:"offset"`
	Event      string `json:"event"`
	Data       []byte `json:"data"`
	Signature  []byte `json:"signature"`
	SenderAddr string `json:"sender"`
}

type Storage interface {
	Send(msgs ...Message) error
	GetMessages(offset uint64) ([]Message, error)
	Close() error
}
