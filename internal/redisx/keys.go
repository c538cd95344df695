package redisx

import "time"

const (
	// Cache order per id: order:{order_id} -> JSON order lengkap
	KeyOrder = "order:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Cache report aggregate: report:{name} -> JSON hasil agregasi
	KeyReport = "report:%s"
)

var (
	TTLOrderCache  = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
	TTLReportCache = 10 * time.Minute
)
