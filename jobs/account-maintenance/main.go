package main

import (
	"log/slog"
	"time"
)

func main() {
	slog.Info("Starting account maintenance job")
	start := time.Now()

	if conf.RunTasks.ExpirePasswords {
		expirePasswords()
	}

	slog.Info("Account maintenance job completed", slog.Duration("duration", time.Since(start)))
}

func expirePasswords() {
	slog.Debug("Start expiring accounts with passed password expiry")

	count, err := accountUserDBService.ExpireUsersWithPassedPasswordExpiry(time.Now())
	if err != nil {
		slog.Error("Error expiring accounts", slog.String("error", err.Error()))
		return
	}

	slog.Info("Expiring accounts finished", slog.Int("count", int(count)))
}
