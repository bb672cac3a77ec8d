package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/notehub-gamification/internal/domain"
)

// Enqueue creates a notification record. Delivery is handled elsewhere; this
// engine only persists the record.
func (r *Repository) Enqueue(ctx context.Context, userID string, typ domain.NotificationType, payload map[string]interface{}) error {
	var payloadJSON []byte
	var err error
	if payload != nil {
		payloadJSON, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling notification payload: %w", err)
		}
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), userID, string(typ), payloadJSON, time.Now())
	if err != nil {
		return fmt.Errorf("enqueueing notification: %w", err)
	}
	return nil
}
