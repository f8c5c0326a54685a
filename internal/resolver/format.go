package resolver

import (
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_ytools/internal/engine"
)

// NoCaptionsText is returned by FetchCaptions when the track has no lines.
const NoCaptionsText = "No captions found for video"

// FormatTimestamp renders a caption line as "M:SS - text".
// The start offset is truncated to whole seconds; minutes are not padded.
func FormatTimestamp(line engine.CaptionLine) string {
	start := int(line.Start)
	minutes, seconds := start/60, start%60
	return fmt.Sprintf("%d:%02d - %s", minutes, seconds, line.Text)
}

// JoinCaptions concatenates line texts with single spaces.
func JoinCaptions(lines []engine.CaptionLine) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, " ")
}
