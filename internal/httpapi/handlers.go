package httpapi

import (
	_ "embed"
	"io"
	"net/http"
)

//go:embed openapi.yaml
var openAPISpec []byte

// HandleVideoData returns oEmbed metadata. Languages are accepted and ignored.
func (s *Server) HandleVideoData(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeVideoRequest(w, r)
	if !ok {
		return
	}
	meta, err := s.svc.FetchMetadata(r.Context(), req.URL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// HandleVideoCaptions returns the captions as a single JSON string.
func (s *Server) HandleVideoCaptions(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeVideoRequest(w, r)
	if !ok {
		return
	}
	text, err := s.svc.FetchCaptions(r.Context(), req.URL, req.Languages)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, text)
}

// HandleVideoTimestamps returns the "M:SS - text" lines as a JSON array.
func (s *Server) HandleVideoTimestamps(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeVideoRequest(w, r)
	if !ok {
		return
	}
	stamps, err := s.svc.FetchTimestamps(r.Context(), req.URL, req.Languages)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if stamps == nil {
		stamps = []string{}
	}
	writeJSON(w, http.StatusOK, stamps)
}

func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/docs", http.StatusTemporaryRedirect)
}

func (s *Server) HandleDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, swaggerUIHTML)
}

func (s *Server) HandleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openAPISpec)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": ServiceName,
	})
}

func (s *Server) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, s.cfg.Metrics())
}

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>YouTube Tools API</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "/docs/openapi.yaml",
        dom_id: '#swagger-ui',
        deepLinking: true
      });
    };
    </script>
</body>
</html>
`
