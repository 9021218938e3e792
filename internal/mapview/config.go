package mapview

import "github.com/tabilog/tabilog/backend/pkg/config"

// ConfigFrom builds a machine Config from the loaded map section, so the
// polling interval, attempt bounds and settle delay all come from the
// environment.
func ConfigFrom(mc config.MapConfig) Config {
	return Config{
		ContainerID:       mc.ContainerID,
		CenterLatitude:    mc.CenterLatitude,
		CenterLongitude:   mc.CenterLongitude,
		Zoom:              mc.Zoom,
		PollInterval:      mc.PollInterval,
		ContainerAttempts: mc.ContainerAttempts,
		LibraryAttempts:   mc.LibraryAttempts,
		SettleDelay:       mc.SettleDelay,
	}
}
