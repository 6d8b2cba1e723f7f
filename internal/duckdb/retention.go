package duckdb

import (
	"log"
	"sync"
	"time"
)

// RetentionConfig holds configuration for the retention cleaner.
type RetentionConfig struct {
	// RetentionDays is how long a session's state outlives its last write.
	RetentionDays int
	// Interval between sweeps; defaults to one hour.
	Interval time.Duration
}

// RetentionCleaner periodically deletes the state of sessions idle for
// longer than the retention period.
type RetentionCleaner struct {
	store         *Store
	retentionDays int
	interval      time.Duration
	done          chan struct{}
	wg            sync.WaitGroup
	stopOnce      sync.Once
}

// NewRetentionCleaner creates a retention cleaner for idle session state.
// Returns nil when retention is 0 (disabled).
func NewRetentionCleaner(store *Store, conf ...RetentionConfig) *RetentionCleaner {
	days := 30
	interval := time.Hour
	if len(conf) > 0 {
		days = conf[0].RetentionDays
		if conf[0].Interval > 0 {
			interval = conf[0].Interval
		}
	}
	if days <= 0 {
		return nil
	}

	rc := &RetentionCleaner{
		store:         store,
		retentionDays: days,
		interval:      interval,
		done:          make(chan struct{}),
	}

	// Catch up after downtime.
	rc.cleanup()

	rc.wg.Add(1)
	go rc.tickLoop()

	return rc
}

func (rc *RetentionCleaner) tickLoop() {
	defer rc.wg.Done()
	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rc.cleanup()
		case <-rc.done:
			return
		}
	}
}

func (rc *RetentionCleaner) cleanup() {
	cutoff := time.Now().Add(-time.Duration(rc.retentionDays) * 24 * time.Hour)

	rows, err := rc.store.DeleteIdleBefore(cutoff)
	if err != nil {
		log.Printf("duckdb: retention cleanup error: %v", err)
		return
	}
	if rows > 0 {
		log.Printf("duckdb: retention cleanup deleted %d entries of sessions idle for %d days", rows, rc.retentionDays)
	}
}

// Stop signals the cleaner to stop and waits for it to finish.
func (rc *RetentionCleaner) Stop() {
	rc.stopOnce.Do(func() {
		close(rc.done)
		rc.wg.Wait()
	})
}
