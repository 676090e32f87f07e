package domain

import (
	"fmt"
	"time"
)

const (
	regularReferencePrefix  = "TRX"
	externalReferencePrefix = "EXT"
)

// FormatReference renders a human-readable sale reference. seq must come from a
// counter shared by regular and external sales so references never collide.
func FormatReference(variant SaleVariant, date time.Time, seq int64) string {
	prefix := regularReferencePrefix
	if _, ok := variant.(ExternalSale); ok {
		prefix = externalReferencePrefix
	}
	return fmt.Sprintf("%s-%s-%06d", prefix, date.UTC().Format("20060102"), seq)
}
