// Package stats: consumer yang menjaga cache report tetap hangat.
// Setiap lifecycle event (order/transaksi) memicu hitung ulang agregat.
package stats

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-inventory-admin.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-inventory-admin.git/internal/kafka"
	"github.com/ariefcatur/go-inventory-admin.git/internal/redisx"
	"github.com/ariefcatur/go-inventory-admin.git/internal/reports"
)

type Service struct {
	Reports     *reports.Service
	Redis       *redis.Client
	Log         logrus.FieldLogger
	ServiceName string
}

// HandleEvent dipasang sebagai handler consumer untuk kedua topic.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env inventory.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		// payload rusak: log, commit, jangan retry selamanya
		s.Log.WithError(err).Warn("bad envelope, skipping")
		return nil
	}

	// dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	if err := s.Reports.Refresh(ctx); err != nil {
		return err
	}
	s.Log.WithFields(logrus.Fields{
		"event_type": env.EventType,
		"event_id":   env.EventID,
	}).Debug("report cache refreshed")
	return nil
}
