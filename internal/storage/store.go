// Package storage provides opaque blob stores for the trained model state.
// The scoring engine only needs save/load-last semantics; placement (file,
// database row) is decided here.
package storage

// BlobStore persists one opaque blob, replacing any previous one.
type BlobStore interface {
	Save(blob []byte) error
	Load() (blob []byte, found bool, err error)
}
