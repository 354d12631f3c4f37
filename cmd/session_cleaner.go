package main

import (
	"context"
	"log"
	"time"

	"chazonBack/internal/repositories"
)

const sessionCleanerTimeout = 1 * time.Minute

// startSessionCleaner purges expired refresh sessions once a day so the
// sessions table does not grow without bound.
func startSessionCleaner(ctx context.Context, repo *repositories.UserRepository, infoLog, errorLog *log.Logger) {
	if repo == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, sessionCleanerTimeout)
			err := repo.DeleteExpiredSessions(runCtx, time.Now())
			cancel()
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("session cleaner: failed to delete expired sessions: %v", err)
				}
			} else if infoLog != nil {
				infoLog.Printf("session cleaner: expired sessions purged")
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
