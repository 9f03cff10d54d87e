// File: utils/constants.go
package utils

import "time"

// AvailabilityCachePrefix is the prefix used for Redis availability cache keys.
const AvailabilityCachePrefix = "avail:"

// AvailabilityCacheTTL is the time-to-live for availability cache entries.
// Short on purpose: holds expire out from under cached grids.
const AvailabilityCacheTTL = 30 * time.Second

// AvailabilityCacheKey builds the cache key for a station/date grid.
func AvailabilityCacheKey(stationID, date string) string {
	return AvailabilityCachePrefix + stationID + ":" + date
}
