package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/VoxFoxApp/VoxFox/app/models"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/cache"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/database"
)

const (
	CacheKeyGenerationsTotal = "statistics:generations:total"
	CacheKeyGenerationsDaily = "statistics:generations:daily:%s" // Format with date YYYY-MM-DD
	CacheKeyUsers            = "statistics:users:total"
	CacheExpiration          = 30 * time.Minute
)

// StatisticsData holds the headline numbers shown on the public landing data endpoint
type StatisticsData struct {
	TodayGenerations int
	TotalUsers       int
	TotalGenerations int
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached statistics are stale
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the statistics cache when it is stale
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Failed to update statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next check to refresh the cache
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache updates all statistics in the cache
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalGenerations int64
	if err := db.Model(&models.VoiceGeneration{}).Count(&totalGenerations).Error; err != nil {
		log.Printf("Error counting total generations: %v", err)
		return err
	}

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		log.Printf("Error counting total users: %v", err)
		return err
	}

	today := time.Now().Format("2006-01-02")
	var todayGenerations int64
	if err := db.Model(&models.VoiceGeneration{}).
		Where("DATE(created_at) = ?", today).
		Count(&todayGenerations).Error; err != nil {
		log.Printf("Error counting today's generations: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyGenerationsTotal, strconv.FormatInt(totalGenerations, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyUsers, strconv.FormatInt(totalUsers, 10), CacheExpiration); err != nil {
		return err
	}
	dailyKey := fmt.Sprintf(CacheKeyGenerationsDaily, today)
	if err := cache.Set(dailyKey, strconv.FormatInt(todayGenerations, 10), CacheExpiration); err != nil {
		return err
	}

	return nil
}

// GetStatistics returns the cached statistics, refreshing the cache on miss
func GetStatistics() StatisticsData {
	UpdateCacheIfNeeded()

	data := StatisticsData{}

	if v, err := cache.GetInt(CacheKeyUsers); err == nil {
		data.TotalUsers = v
	}
	if v, err := cache.GetInt(CacheKeyGenerationsTotal); err == nil {
		data.TotalGenerations = v
	}
	today := time.Now().Format("2006-01-02")
	if v, err := cache.GetInt(fmt.Sprintf(CacheKeyGenerationsDaily, today)); err == nil {
		data.TodayGenerations = v
	}

	return data
}
