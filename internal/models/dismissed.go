package models

import "time"

// DismissedRecommendation records a catalog slug the user has rejected.
// Keyed uniquely by slug; dismissing the same slug twice is a no-op.
type DismissedRecommendation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TraktSlug   string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"trakt_slug"`
	DismissedAt time.Time `gorm:"not null" json:"dismissed_at"`
}

// TableName specifies the table name for DismissedRecommendation
func (DismissedRecommendation) TableName() string {
	return "dismissed_recommendations"
}
