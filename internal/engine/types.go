package engine

// --- Input types ---

// VideoRequest is the request body shared by every video operation.
type VideoRequest struct {
	URL       string   `json:"url" jsonschema:"YouTube video URL (watch, youtu.be, embed or /v/ form)"`
	Languages []string `json:"languages,omitempty" jsonschema:"Preferred caption language codes in priority order, e.g. [\"en\",\"es\"]"`
}

// --- Output types (JSON responses) ---

// VideoMetadata is the fixed projection of a YouTube oEmbed response.
type VideoMetadata struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	Type         string `json:"type"`
	Height       int    `json:"height"` // thumbnail height
	Width        int    `json:"width"`  // thumbnail width
	Version      string `json:"version"`
	ProviderName string `json:"provider_name"`
	ProviderURL  string `json:"provider_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// CaptionLine is one timed line of a transcript track.
type CaptionLine struct {
	Start    float64 `json:"start"`    // seconds from video start
	Duration float64 `json:"duration"` // seconds
	Text     string  `json:"text"`
}

type CaptionsOutput struct {
	Text string `json:"text"`
}

type TimestampsOutput struct {
	Timestamps []string `json:"timestamps"`
}
