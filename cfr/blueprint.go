package cfr

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/lox/cfrsolver/internal/fileutil"
)

const blueprintVersion = 1

// Blueprint is a frozen, normalized average-policy export: the artifact
// a training run produces and a runtime consumer loads to sample actions
// without carrying around regrets or an infostate table.
type Blueprint[A comparable] struct {
	Version     int                          `json:"version"`
	GeneratedAt time.Time                    `json:"generated_at"`
	Iterations  int                          `json:"iterations"`
	Strategies  map[Player]map[string]PolicySnapshot[A] `json:"strategies"`
}

// BuildBlueprint normalizes every player's average policy table and
// freezes it into a Blueprint. Infosets whose average weights sum to
// zero (never reached while updating) are omitted.
func BuildBlueprint[A comparable](players []Player, average map[Player]*StatePolicy[A], iterations int, generatedAt time.Time) *Blueprint[A] {
	bp := &Blueprint[A]{
		Version:     blueprintVersion,
		GeneratedAt: generatedAt,
		Iterations:  iterations,
		Strategies:  make(map[Player]map[string]PolicySnapshot[A], len(players)),
	}
	for _, p := range players {
		table := average[p]
		if table == nil {
			continue
		}
		byKey := make(map[string]PolicySnapshot[A], table.Len())
		for _, key := range table.Keys() {
			norm, err := table.Normalized(key)
			if err != nil {
				continue
			}
			weights := make([]float64, 0, norm.Len())
			norm.Range(func(_ A, w float64) bool { weights = append(weights, w); return true })
			byKey[key] = PolicySnapshot[A]{Actions: norm.Actions(), Weights: weights}
		}
		bp.Strategies[p] = byKey
	}
	return bp
}

// Save writes the blueprint to disk atomically.
func (b *Blueprint[A]) Save(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

// LoadBlueprint reads a blueprint previously written by Save.
func LoadBlueprint[A comparable](path string) (*Blueprint[A], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bp Blueprint[A]
	if err := json.Unmarshal(data, &bp); err != nil {
		return nil, err
	}
	if bp.Version != blueprintVersion {
		return nil, fmt.Errorf("%w: unsupported blueprint version", ErrInvalidConfiguration)
	}
	return &bp, nil
}

// Strategy returns the stored normalized strategy for player p at
// infoset key, and whether one was recorded.
func (b *Blueprint[A]) Strategy(p Player, key string) (PolicySnapshot[A], bool) {
	byKey, ok := b.Strategies[p]
	if !ok {
		return PolicySnapshot[A]{}, false
	}
	snap, ok := byKey[key]
	return snap, ok
}
