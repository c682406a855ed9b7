package sharestore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/nurturemyplants/plantcare/internal/domain/share"
)

// ValkeyStore keeps share entries in a Valkey-compatible database so links
// survive process restarts. Expiry rides on the server-side TTL, with the
// same read-time check as the memory store for clock skew.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	now    func() time.Time
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "plantshare"
	}
	return &ValkeyStore{client: client, prefix: prefix, now: time.Now}
}

// Save implements share.Store. SET NX doubles as the collision check.
func (s *ValkeyStore) Save(ctx context.Context, entry share.Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	ttl := time.Until(entry.ExpiresAt)
	if ttl < time.Second {
		ttl = time.Second
	}
	cmd := s.client.B().Set().Key(s.entryKey(entry.ShareCode)).
		Value(string(payload)).Nx().Ex(ttl).Build()
	result := s.client.Do(ctx, cmd)
	if err := result.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			// SET NX answers nil when the key already exists.
			return share.ErrCodeTaken
		}
		return err
	}
	return nil
}

// Get implements share.Store.
func (s *ValkeyStore) Get(ctx context.Context, code string) (share.Entry, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(code)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return share.Entry{}, false, nil
		}
		return share.Entry{}, false, err
	}
	var entry share.Entry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return share.Entry{}, false, err
	}
	if entry.Expired(s.now()) {
		_ = s.client.Do(ctx, s.client.B().Del().Key(s.entryKey(code)).Build()).Error()
		return share.Entry{}, false, nil
	}
	return entry, true, nil
}

func (s *ValkeyStore) entryKey(code string) string {
	return s.prefix + ":" + code
}

var _ share.Store = (*ValkeyStore)(nil)
