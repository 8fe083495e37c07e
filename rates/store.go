package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"go-currency-ledger"
)

// ErrNotStored is returned by a Store that holds no snapshot yet. It is a cache miss, not a failure.
var ErrNotStored = errors.New("no stored rates")

// Store persists the latest rate table between runs.
type Store interface {
	Load(ctx context.Context) (ledger.RateTable, error)
	Save(ctx context.Context, table ledger.RateTable) error
}

// encodeSnapshot writes {"timestamp": <epoch seconds>, "rates": {<code>: <rate>}}
func encodeSnapshot(table ledger.RateTable) ([]byte, error) {
	type snapshot struct {
		Timestamp int64                            `json:"timestamp"`
		Rates     map[ledger.Currency]json.Number `json:"rates"`
	}
	s := snapshot{
		Timestamp: table.Timestamp.Unix(),
		Rates:     make(map[ledger.Currency]json.Number, len(table.Rates)),
	}
	for k, v := range table.Rates {
		s.Rates[k] = json.Number(v.String())
	}
	return json.Marshal(s)
}

// decodeSnapshot reads what encodeSnapshot writes. Fractional timestamps are accepted.
func decodeSnapshot(data []byte) (ledger.RateTable, error) {
	type snapshot struct {
		Timestamp float64                              `json:"timestamp"`
		Rates     map[ledger.Currency]decimal.Decimal `json:"rates"`
	}
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return ledger.RateTable{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	if len(s.Rates) == 0 {
		return ledger.RateTable{}, fmt.Errorf("decoding snapshot: no rates")
	}
	rates := ledger.Rates(s.Rates)
	if err := rates.Validate(); err != nil {
		return ledger.RateTable{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	sec := int64(s.Timestamp)
	nsec := int64((s.Timestamp - float64(sec)) * float64(time.Second))
	return ledger.RateTable{Timestamp: time.Unix(sec, nsec), Rates: rates}, nil
}

// FileStore keeps the snapshot in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a Store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (ledger.RateTable, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ledger.RateTable{}, ErrNotStored
	}
	if err != nil {
		return ledger.RateTable{}, fmt.Errorf("reading %v: %w", s.path, err)
	}
	return decodeSnapshot(data)
}

// Save replaces the file atomically by writing a sibling temp file and renaming it.
func (s *FileStore) Save(_ context.Context, table ledger.RateTable) error {
	data, err := encodeSnapshot(table)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %v: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %v: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %v: %w", s.path, err)
	}
	return nil
}
