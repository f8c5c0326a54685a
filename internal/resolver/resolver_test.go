package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_ytools/internal/engine"
)

type MockMetadata struct {
	mock.Mock
}

func (m *MockMetadata) Fetch(ctx context.Context, videoID string) (engine.VideoMetadata, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).(engine.VideoMetadata), args.Error(1)
}

type MockTranscripts struct {
	mock.Mock
}

func (m *MockTranscripts) FetchTranscript(ctx context.Context, videoID string, languages []string) ([]engine.CaptionLine, error) {
	args := m.Called(ctx, videoID, languages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engine.CaptionLine), args.Error(1)
}

const rickURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func TestInvalidInputMakesNoCalls(t *testing.T) {
	inputs := map[string]string{
		"empty":        "",
		"foreign host": "https://vimeo.com/123",
		"watch no v":   "https://www.youtube.com/watch",
	}
	for name, url := range inputs {
		t.Run(name, func(t *testing.T) {
			meta := new(MockMetadata)
			tr := new(MockTranscripts)
			svc := New(meta, tr)
			ctx := context.Background()

			_, err := svc.FetchMetadata(ctx, url)
			assert.Equal(t, KindInvalidInput, KindOf(err))

			_, err = svc.FetchCaptions(ctx, url, nil)
			assert.Equal(t, KindInvalidInput, KindOf(err))

			_, err = svc.FetchTimestamps(ctx, url, nil)
			assert.Equal(t, KindInvalidInput, KindOf(err))

			meta.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
			tr.AssertNotCalled(t, "FetchTranscript", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestInvalidInputMessages(t *testing.T) {
	svc := New(new(MockMetadata), new(MockTranscripts))

	_, err := svc.FetchCaptions(context.Background(), "", nil)
	require.Error(t, err)
	assert.Equal(t, "No URL provided", err.Error())

	_, err = svc.FetchCaptions(context.Background(), "https://example.com/watch?v=x", nil)
	require.Error(t, err)
	assert.Equal(t, "Invalid YouTube URL", err.Error())
}

func TestFetchMetadata(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		meta := new(MockMetadata)
		want := engine.VideoMetadata{Title: "Never Gonna Give You Up", AuthorName: "Rick Astley", Height: 360, Width: 480}
		meta.On("Fetch", mock.Anything, "dQw4w9WgXcQ").Return(want, nil)

		got, err := New(meta, nil).FetchMetadata(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
		require.NoError(t, err)
		assert.Equal(t, want, got)
		meta.AssertExpectations(t)
	})

	t.Run("upstream failure", func(t *testing.T) {
		meta := new(MockMetadata)
		cause := errors.New("oembed: HTTP 404: Not Found")
		meta.On("Fetch", mock.Anything, "dQw4w9WgXcQ").Return(engine.VideoMetadata{}, cause)

		_, err := New(meta, nil).FetchMetadata(context.Background(), rickURL)
		require.Error(t, err)
		assert.Equal(t, KindUpstream, KindOf(err))
		assert.Equal(t, "Error getting video data: oembed: HTTP 404: Not Found", err.Error())
		assert.ErrorIs(t, err, cause)
	})
}

func TestFetchCaptions(t *testing.T) {
	t.Run("joins lines", func(t *testing.T) {
		tr := new(MockTranscripts)
		tr.On("FetchTranscript", mock.Anything, "dQw4w9WgXcQ", []string(nil)).Return([]engine.CaptionLine{
			{Start: 0, Text: "Hello"},
			{Start: 62, Text: "world"},
		}, nil)

		got, err := New(nil, tr).FetchCaptions(context.Background(), rickURL, nil)
		require.NoError(t, err)
		assert.Equal(t, "Hello world", got)
		tr.AssertExpectations(t)
	})

	t.Run("passes languages through", func(t *testing.T) {
		tr := new(MockTranscripts)
		tr.On("FetchTranscript", mock.Anything, "dQw4w9WgXcQ", []string{"es", "en"}).
			Return([]engine.CaptionLine{{Text: "Hola"}}, nil)

		got, err := New(nil, tr).FetchCaptions(context.Background(), rickURL, []string{"es", "en"})
		require.NoError(t, err)
		assert.Equal(t, "Hola", got)
		tr.AssertExpectations(t)
	})

	t.Run("empty track yields sentinel text", func(t *testing.T) {
		tr := new(MockTranscripts)
		tr.On("FetchTranscript", mock.Anything, "dQw4w9WgXcQ", []string(nil)).Return([]engine.CaptionLine{}, nil)

		got, err := New(nil, tr).FetchCaptions(context.Background(), rickURL, nil)
		require.NoError(t, err)
		assert.Equal(t, "No captions found for video", got)
	})

	t.Run("upstream failure", func(t *testing.T) {
		tr := new(MockTranscripts)
		tr.On("FetchTranscript", mock.Anything, "dQw4w9WgXcQ", []string(nil)).
			Return(nil, errors.New("transcripts are disabled for this video"))

		_, err := New(nil, tr).FetchCaptions(context.Background(), rickURL, nil)
		require.Error(t, err)
		assert.Equal(t, KindUpstream, KindOf(err))
		assert.Equal(t, "Error getting captions for video: transcripts are disabled for this video", err.Error())
	})
}

func TestFetchTimestamps(t *testing.T) {
	t.Run("defaults to english", func(t *testing.T) {
		tr := new(MockTranscripts)
		tr.On("FetchTranscript", mock.Anything, "dQw4w9WgXcQ", []string{"en"}).Return([]engine.CaptionLine{
			{Start: 0, Text: "Hello"},
			{Start: 62, Text: "world"},
		}, nil)

		got, err := New(nil, tr).FetchTimestamps(context.Background(), rickURL, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"0:00 - Hello", "1:02 - world"}, got)
		tr.AssertExpectations(t)
	})

	t.Run("explicit languages", func(t *testing.T) {
		tr := new(MockTranscripts)
		tr.On("FetchTranscript", mock.Anything, "dQw4w9WgXcQ", []string{"de"}).
			Return([]engine.CaptionLine{{Start: 3.9, Text: "Hallo"}}, nil)

		got, err := New(nil, tr).FetchTimestamps(context.Background(), rickURL, []string{"de"})
		require.NoError(t, err)
		assert.Equal(t, []string{"0:03 - Hallo"}, got)
	})

	t.Run("empty track yields empty list", func(t *testing.T) {
		tr := new(MockTranscripts)
		tr.On("FetchTranscript", mock.Anything, "dQw4w9WgXcQ", []string{"en"}).Return([]engine.CaptionLine{}, nil)

		got, err := New(nil, tr).FetchTimestamps(context.Background(), rickURL, nil)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("upstream failure", func(t *testing.T) {
		tr := new(MockTranscripts)
		tr.On("FetchTranscript", mock.Anything, "dQw4w9WgXcQ", []string{"en"}).
			Return(nil, errors.New("no transcript found"))

		_, err := New(nil, tr).FetchTimestamps(context.Background(), rickURL, nil)
		require.Error(t, err)
		assert.Equal(t, KindUpstream, KindOf(err))
		assert.Equal(t, "Error generating timestamps: no transcript found", err.Error())
	})
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		start float64
		want  string
	}{
		{0, "0:00 - x"},
		{5, "0:05 - x"},
		{5.99, "0:05 - x"},
		{59.9, "0:59 - x"},
		{60, "1:00 - x"},
		{65, "1:05 - x"},
		{125, "2:05 - x"},
		{3599, "59:59 - x"},
		{3600, "60:00 - x"},
		{7384.5, "123:04 - x"},
	}
	for _, tt := range tests {
		got := FormatTimestamp(engine.CaptionLine{Start: tt.start, Text: "x"})
		if got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.start, got, tt.want)
		}
	}
}

func TestJoinCaptions(t *testing.T) {
	if got := JoinCaptions(nil); got != "" {
		t.Errorf("JoinCaptions(nil) = %q, want empty", got)
	}
	lines := []engine.CaptionLine{{Text: "a"}, {Text: ""}, {Text: "b c"}}
	if got := JoinCaptions(lines); got != "a  b c" {
		t.Errorf("JoinCaptions() = %q, want %q", got, "a  b c")
	}
}
