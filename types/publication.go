package types

import "time"

// Platform identifies a social target for publication.
type Platform string

const (
	PlatformTelegram  Platform = "telegram"
	PlatformVK        Platform = "vk"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformMedium    Platform = "medium"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformThreads   Platform = "threads"
	PlatformDzen      Platform = "dzen"
)

// AllPlatforms lists every supported platform.
var AllPlatforms = []Platform{
	PlatformTelegram, PlatformVK, PlatformInstagram, PlatformYouTube,
	PlatformMedium, PlatformFacebook, PlatformTwitter, PlatformLinkedIn,
	PlatformThreads, PlatformDzen,
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	for _, known := range AllPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// PublicationStatus tracks one publish attempt. Published and failed are
// terminal; no transitions occur after either.
type PublicationStatus string

const (
	PublicationPending    PublicationStatus = "pending"
	PublicationPublishing PublicationStatus = "publishing"
	PublicationPublished  PublicationStatus = "published"
	PublicationFailed     PublicationStatus = "failed"
)

// Publication records one attempt to post an article to one platform.
// Attempts accumulate: a new row is created per (platform, publish request).
type Publication struct {
	ID           string            `json:"id" gorm:"primaryKey;size:36"`
	ArticleID    string            `json:"articleId" gorm:"size:36;index"`
	Platform     Platform          `json:"platform" gorm:"size:32"`
	Status       PublicationStatus `json:"status" gorm:"size:32"`
	PublishedURL string            `json:"publishedUrl,omitempty"`
	PublishedAt  *time.Time        `json:"publishedAt,omitempty"`
	ScheduledAt  *time.Time        `json:"scheduledAt,omitempty"`
	Error        string            `json:"error,omitempty" gorm:"type:text"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// StyleTemplate is a stored generation style preset.
type StyleTemplate struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:128"`
	Description string    `json:"description"`
	Config      string    `json:"config" gorm:"type:text"`
	IsDefault   bool      `json:"isDefault"`
	CreatedAt   time.Time `json:"createdAt"`
}
