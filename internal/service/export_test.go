package service

import "time"

// SetAuthClock replaces the clock of an AuthService built by NewAuthService.
func SetAuthClock(svc AuthService, now func() time.Time) {
	svc.(*authService).now = now
}
