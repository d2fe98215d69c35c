package history

import (
	"context"
	"encoding/json"
	"time"

	"resume-ocr/internal/ocr"
	"resume-ocr/internal/shared/metrics"
	"resume-ocr/internal/shared/telemetry"
	"resume-ocr/internal/shared/util"
)

// DefaultLimit is the number of entries kept per client.
const DefaultLimit = 10

const keyPrefix = "ocrHistory/"

// Service keeps a capped, newest-first list of results per owner.
// Reads and writes are not atomic across requests; the last writer wins.
type Service struct {
	Storage Storage
	Limit   int
	Now     func() time.Time
}

// NewService constructs a Service. A non-positive limit uses DefaultLimit.
func NewService(storage Storage, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{Storage: storage, Limit: limit}
}

func (s *Service) limit() int {
	if s.Limit <= 0 {
		return DefaultLimit
	}
	return s.Limit
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func storageKey(owner string) string {
	return keyPrefix + owner
}

// Read returns the owner's history, newest first. Storage or decode failures
// are logged and yield an empty list.
func (s *Service) Read(ctx context.Context, owner string) []StoredResult {
	entries, err := s.load(ctx, owner)
	if err != nil {
		return []StoredResult{}
	}
	return entries
}

// Write prepends entry and evicts the oldest entries beyond the limit.
// Failures are logged and the write is dropped; a failed read never
// overwrites the stored list.
func (s *Service) Write(ctx context.Context, owner string, entry StoredResult) {
	existing, err := s.load(ctx, owner)
	if err != nil {
		return
	}
	entries := append([]StoredResult{entry}, existing...)
	if len(entries) > s.limit() {
		entries = entries[:s.limit()]
	}
	s.store(ctx, owner, entries)
}

// load returns an error only when storage itself fails. A value that does
// not decode is logged and treated as an empty list.
func (s *Service) load(ctx context.Context, owner string) ([]StoredResult, error) {
	raw, ok, err := s.Storage.Get(ctx, storageKey(owner))
	if err != nil {
		s.logFailure("history.read_failed", owner, err)
		return nil, err
	}
	if !ok || raw == "" {
		return []StoredResult{}, nil
	}
	var entries []StoredResult
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logFailure("history.decode_failed", owner, err)
		return []StoredResult{}, nil
	}
	if len(entries) > s.limit() {
		entries = entries[:s.limit()]
	}
	return entries, nil
}

// Save records a new result for fileName and returns it.
func (s *Service) Save(ctx context.Context, owner, fileName string, doc ocr.Document) StoredResult {
	now := s.now()
	entry := StoredResult{
		ID:        util.NewResultID(now),
		Timestamp: now.UnixMilli(),
		Filename:  fileName,
		Result:    doc,
	}
	s.Write(ctx, owner, entry)
	return entry
}

// Get returns one entry by id.
func (s *Service) Get(ctx context.Context, owner, id string) (StoredResult, error) {
	for _, e := range s.Read(ctx, owner) {
		if e.ID == id {
			return e, nil
		}
	}
	return StoredResult{}, ErrNotFound
}

// Delete removes one entry by id.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	entries, err := s.load(ctx, owner)
	if err != nil {
		return err
	}
	kept := entries[:0]
	found := false
	for _, e := range entries {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return ErrNotFound
	}
	if len(kept) == 0 {
		return s.Clear(ctx, owner)
	}
	s.store(ctx, owner, kept)
	return nil
}

// Clear drops the owner's whole history.
func (s *Service) Clear(ctx context.Context, owner string) error {
	if err := s.Storage.Delete(ctx, storageKey(owner)); err != nil {
		s.logFailure("history.clear_failed", owner, err)
		return err
	}
	return nil
}

// ClearAll wipes the backing storage for every owner.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.Storage.Clear(ctx); err != nil {
		s.logFailure("history.clear_all_failed", "", err)
		return err
	}
	return nil
}

func (s *Service) store(ctx context.Context, owner string, entries []StoredResult) {
	raw, err := json.Marshal(entries)
	if err != nil {
		s.logFailure("history.encode_failed", owner, err)
		return
	}
	if err := s.Storage.Set(ctx, storageKey(owner), string(raw)); err != nil {
		s.logFailure("history.write_failed", owner, err)
	}
}

func (s *Service) logFailure(msg, owner string, err error) {
	metrics.IncHistoryErrors()
	telemetry.Warn(msg, map[string]any{
		"owner": owner,
		"error": err,
	})
}
