// Package ytserver registers the video resolver operations as MCP tools.
package ytserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytools/internal/engine"
	"github.com/anatolykoptev/go_ytools/internal/toolutil"
)

// VideoService is the resolver surface the tools call.
type VideoService interface {
	FetchMetadata(ctx context.Context, rawURL string) (engine.VideoMetadata, error)
	FetchCaptions(ctx context.Context, rawURL string, languages []string) (string, error)
	FetchTimestamps(ctx context.Context, rawURL string, languages []string) ([]string, error)
}

// RegisterTools registers video_metadata, video_captions and video_timestamps.
func RegisterTools(server *mcp.Server, svc VideoService) {
	registerVideoMetadata(server, svc)
	registerVideoCaptions(server, svc)
	registerVideoTimestamps(server, svc)
}

func normalize(in engine.VideoRequest) engine.VideoRequest {
	in.URL = toolutil.NormURL(in.URL)
	in.Languages = toolutil.NormLanguages(in.Languages)
	return in
}

func registerVideoMetadata(server *mcp.Server, svc VideoService) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_metadata",
		Description: "Get public metadata for a YouTube video via oEmbed: title, channel name and URL, thumbnail URL and size, provider info. Accepts watch, youtu.be, embed and /v/ URLs.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.VideoRequest) (*mcp.CallToolResult, engine.VideoMetadata, error) {
		input = normalize(input)
		meta, err := svc.FetchMetadata(ctx, input.URL)
		if err != nil {
			return nil, engine.VideoMetadata{}, err
		}
		return nil, meta, nil
	})
}

func registerVideoCaptions(server *mcp.Server, svc VideoService) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_captions",
		Description: "Get the captions of a YouTube video as one plain-text string. Optional languages list (priority order); without it English is preferred, else the first available track.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.VideoRequest) (*mcp.CallToolResult, engine.CaptionsOutput, error) {
		input = normalize(input)
		text, err := svc.FetchCaptions(ctx, input.URL, input.Languages)
		if err != nil {
			return nil, engine.CaptionsOutput{}, err
		}
		return nil, engine.CaptionsOutput{Text: text}, nil
	})
}

func registerVideoTimestamps(server *mcp.Server, svc VideoService) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_timestamps",
		Description: "Get timestamped caption lines (\"M:SS - text\") for a YouTube video. Optional languages list; defaults to English.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.VideoRequest) (*mcp.CallToolResult, engine.TimestampsOutput, error) {
		input = normalize(input)
		stamps, err := svc.FetchTimestamps(ctx, input.URL, input.Languages)
		if err != nil {
			return nil, engine.TimestampsOutput{}, err
		}
		if stamps == nil {
			stamps = []string{}
		}
		return nil, engine.TimestampsOutput{Timestamps: stamps}, nil
	})
}
