package utils

import (
	"fmt"
	"strconv"
	"time"
)

// ParseBlockTime parses the block time carried by inbound events.
// RFC3339 is expected, unix seconds and the indexer's legacy layout are accepted.
func ParseBlockTime(timestamp string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, timestamp)
	if err == nil {
		return t.UTC(), nil
	}
	if secs, errUnix := strconv.ParseInt(timestamp, 10, 64); errUnix == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	// TODO: drop once the relayer emits RFC3339 only
	layout := "2006-01-02 15:04:05 -0700 MST"
	tInMST, errMstTime := time.Parse(layout, timestamp)
	if errMstTime != nil {
		return time.Time{}, fmt.Errorf("invalid block time %q: %w", timestamp, err)
	}
	return tInMST.UTC(), nil
}
