package repository

import (
	"context"

	"github.com/polkiloo/secondfamilies/internal/domain/model"
)

// DonationRepository persists donation submissions.
type DonationRepository interface {
	Insert(ctx context.Context, donation *model.Donation) (int64, error)
}
