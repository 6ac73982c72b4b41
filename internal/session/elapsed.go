package session

import (
	"fmt"
	"time"
)

// FormatElapsed renders a duration as zero-padded hh:mm:ss, dropping
// fractions of a second
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}
