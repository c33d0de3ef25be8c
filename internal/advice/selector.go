// Package advice maps (category, level) and (task, level) keys to
// caregiver-facing guidance text: a read-through lookup with staff
// overrides in Redis layered over a compiled-in default table.
package advice

import (
	"context"
	"encoding/json"

	"mantelzorg-engine/internal/models"

	"go.uber.org/zap"
)

// Selector resolves advice keys. Lookup order: override store first,
// compiled-in defaults second. A miss in both tiers is a silent absence,
// not an error: the caller decides the fallback copy.
type Selector struct {
	kv        KVStore
	keyPrefix string
	logger    *zap.Logger
}

// NewSelector creates a selector. kv may be nil, in which case only the
// compiled-in defaults are consulted.
func NewSelector(kv KVStore, keyPrefix string, logger *zap.Logger) *Selector {
	return &Selector{
		kv:        kv,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

// Select returns the advice entry for a key and whether one was found.
// An inactive entry in either tier does not resolve at that tier: an
// inactive override falls through to the default, an inactive default is
// a miss.
func (s *Selector) Select(ctx context.Context, key string) (models.AdviceEntry, bool) {
	if entry, ok := s.lookupOverride(ctx, key); ok {
		return entry, true
	}

	entry, ok := DefaultEntry(key)
	if !ok || !entry.Active {
		return models.AdviceEntry{}, false
	}
	return entry, true
}

// SelectText is the convenience form used when assembling reports.
func (s *Selector) SelectText(ctx context.Context, key string) (string, bool) {
	entry, ok := s.Select(ctx, key)
	if !ok {
		return "", false
	}
	return entry.Text, true
}

func (s *Selector) lookupOverride(ctx context.Context, key string) (models.AdviceEntry, bool) {
	if s.kv == nil {
		return models.AdviceEntry{}, false
	}

	val, err := s.kv.Get(ctx, s.keyPrefix+key)
	if err != nil {
		if err != ErrCacheMiss {
			// Store trouble degrades to defaults rather than failing the report.
			s.logger.Warn("Failed to read advice override",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return models.AdviceEntry{}, false
	}

	var entry models.AdviceEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		s.logger.Warn("Malformed advice override, falling back to default",
			zap.String("key", key),
			zap.Error(err),
		)
		return models.AdviceEntry{}, false
	}
	if !entry.Active {
		return models.AdviceEntry{}, false
	}
	if entry.Key == "" {
		entry.Key = key
	}
	return entry, true
}
