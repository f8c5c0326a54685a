package resolver

import (
	"net/url"
	"strings"
)

// ExtractVideoID returns the video identifier embedded in a YouTube URL.
//
// Recognized shapes:
//
//	https://youtu.be/<id>
//	https://www.youtube.com/watch?v=<id>
//	https://www.youtube.com/embed/<id>
//	https://www.youtube.com/v/<id>
//
// The identifier is returned as found; its format is not validated.
func ExtractVideoID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	path := u.EscapedPath()

	var id string
	switch strings.ToLower(u.Hostname()) {
	case "youtu.be":
		if path != "" {
			id = path[1:]
		}
	case "youtube.com", "www.youtube.com":
		switch {
		case path == "/watch":
			id = firstNonBlank(u.Query()["v"])
		case strings.HasPrefix(path, "/embed/"), strings.HasPrefix(path, "/v/"):
			id = strings.Split(path, "/")[2]
		}
	}
	return id, id != ""
}

func firstNonBlank(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
