package model

// Visuals is the cached presentation payload for one item (thumbnail on
// disk, favicon, ...). Nil visuals mean "render the generic glyph".
type Visuals struct {
	ThumbnailPath string `json:"thumbnailPath,omitempty"`
	FaviconPath   string `json:"faviconPath,omitempty"`
}
