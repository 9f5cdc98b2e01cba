package model

import "time"

// Category is the content category reported by the provider for an item.
type Category string

const (
	CategoryPage     Category = "page"
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryDocument Category = "document"
	CategoryOther    Category = "other"
)

// State is the download lifecycle state of an item.
type State string

const (
	StateInProgress  State = "in_progress"
	StatePaused      State = "paused"
	StateInterrupted State = "interrupted"
	StatePending     State = "pending"
	StateFailed      State = "failed"
	StateCancelled   State = "cancelled"
	StateComplete    State = "complete"
)

// OfflineItem is one downloaded (or saved-for-offline) entity as reported by
// the content provider. Identity is by ID: two values with the same ID describe
// the same underlying download even when other fields differ.
type OfflineItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
	State       State    `json:"state"`

	// IsSuggested marks content the browser prefetched on the user's behalf
	// rather than an explicit download.
	IsSuggested bool `json:"isSuggested,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	TotalSizeBytes int64 `json:"totalSizeBytes"`
	ReceivedBytes  int64 `json:"receivedBytes,omitempty"`

	PageURL  string `json:"pageUrl,omitempty"`
	FilePath string `json:"filePath,omitempty"`
}

// SameIdentity reports whether both values describe the same underlying item.
func (i OfflineItem) SameIdentity(other OfflineItem) bool {
	return i.ID == other.ID
}

// ShareInfo is the per-item payload used to build a share handoff.
type ShareInfo struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}

// FilterType is the user-facing list filter. It doubles as the section key in
// the date-grouped list: every item maps to exactly one FilterType.
type FilterType string

const (
	FilterNone       FilterType = "none"
	FilterSites      FilterType = "sites"
	FilterVideos     FilterType = "videos"
	FilterMusic      FilterType = "music"
	FilterImages     FilterType = "images"
	FilterDocuments  FilterType = "documents"
	FilterOther      FilterType = "other"
	FilterPrefetched FilterType = "prefetched"
)
