package counter

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/VoxFoxApp/VoxFox/internal/pkg/cache"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/database"
)

const (
	generationDownloadsKey = "generation:counters:downloads"
)

// AddGenerationDownload increments the pending download counter for a
// generation in Redis. Increments are flushed to MySQL in batches.
func AddGenerationDownload(generationID uint) error {
	ctx := context.Background()
	field := strconv.FormatUint(uint64(generationID), 10)
	return cache.GetClient().HIncrBy(ctx, generationDownloadsKey, field, 1).Err()
}

// FlushAll flushes all pending counters to the database
func FlushAll() error {
	return flushHashToTable(generationDownloadsKey, "voice_generations", "download_count")
}

// flushHashToTable drains a Redis hash atomically and applies batched increments.
// Uses RENAME to a temporary key for atomic drain without losing in-flight increments.
func flushHashToTable(redisKey, table, column string) error {
	ctx := context.Background()
	rdb := cache.GetClient()

	tmpKey := fmt.Sprintf("%s:tmp:%d", redisKey, time.Now().UnixNano())
	if err := rdb.Do(ctx, "RENAME", redisKey, tmpKey).Err(); err != nil {
		// If key does not exist, nothing to flush
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return nil
		}
		return err
	}

	entries, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_ = rdb.Del(ctx, tmpKey).Err()
		return nil
	}

	// Group IDs by increment so each distinct delta becomes one UPDATE.
	byDelta := make(map[int64][]uint64)
	for field, raw := range entries {
		id, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		delta, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || delta == 0 {
			continue
		}
		byDelta[delta] = append(byDelta[delta], id)
	}

	db := database.GetDB()
	deltas := make([]int64, 0, len(byDelta))
	for d := range byDelta {
		deltas = append(deltas, d)
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i] < deltas[j] })

	for _, delta := range deltas {
		ids := byDelta[delta]
		query := fmt.Sprintf("UPDATE %s SET %s = %s + ? WHERE id IN ?", table, column, column)
		if err := db.Exec(query, delta, ids).Error; err != nil {
			return err
		}
	}

	return rdb.Del(ctx, tmpKey).Err()
}

// StartFlusher periodically flushes counters until the process exits
func StartFlusher(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if err := FlushAll(); err != nil {
				fmt.Printf("counter flush failed: %v\n", err)
			}
		}
	}()
}
