package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_ytools/internal/engine"
)

// YouTube Innertube API: constants, player response types and the ANDROID
// /player track lister. Transcript assembly lives in youtube_transcript.go.

const (
	ytPlayerPath     = "/youtubei/v1/player"
	ytAndroidVersion = "20.10.38"
	ytAndroidUA      = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"
)

// --- ANDROID client types (/player endpoint) ---

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

// playerResponse is the subset of a player response (Innertube /player or the
// watch page's ytInitialPlayerResponse) needed to locate caption tracks.
type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

func (t captionTrack) generated() bool { return t.Kind == "asr" }

// captionTracks validates playability and returns the listed tracks.
func (p playerResponse) captionTracks(videoID string) ([]captionTrack, error) {
	if ps := p.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
		return nil, &VideoUnavailableError{VideoID: videoID, Status: ps.Status, Reason: ps.Reason}
	}
	if p.Captions == nil {
		return nil, ErrTranscriptsDisabled
	}
	tracks := p.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, ErrTranscriptsDisabled
	}
	return tracks, nil
}

// playerLister lists caption tracks via the ANDROID Innertube /player endpoint.
type playerLister struct {
	up      *engine.Upstream
	baseURL string
}

func (l *playerLister) listTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	body, err := l.up.Fetch(ctx, engine.Request{
		Method: http.MethodPost,
		URL:    strings.TrimRight(l.baseURL, "/") + ytPlayerPath + "?prettyPrint=false",
		Body:   reqBody,
		Headers: map[string]string{
			"Content-Type":             "application/json",
			"User-Agent":               ytAndroidUA,
			"X-Youtube-Client-Name":    "3",
			"X-Youtube-Client-Version": ytAndroidVersion,
		},
		Limit: 3 * 1024 * 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("android innertube: %w", err)
	}

	var resp playerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	return resp.captionTracks(videoID)
}
