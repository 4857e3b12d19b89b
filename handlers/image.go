package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// allowedImageHosts are the only upstreams the proxy will fetch from.
var allowedImageHosts = map[string]bool{
	"img.youtube.com": true,
	"i.ytimg.com":     true,
	"image.tmdb.org":  true,
}

// ImageHandler proxies provider thumbnails through a disk cache so the
// browser never talks to the upstream CDNs directly.
type ImageHandler struct {
	cacheDir string
	httpc    *http.Client

	mu         sync.Mutex
	inProgress map[string]chan struct{}
}

func NewImageHandler(cacheDir string) *ImageHandler {
	imgCacheDir := filepath.Join(cacheDir, "images")
	if err := os.MkdirAll(imgCacheDir, 0o755); err != nil {
		log.Printf("[images] could not create cache dir %s: %v", imgCacheDir, err)
	}

	return &ImageHandler{
		cacheDir:   imgCacheDir,
		httpc:      &http.Client{Timeout: 30 * time.Second},
		inProgress: make(map[string]chan struct{}),
	}
}

// Proxy fetches the image named by the url query param, caches it on disk
// and serves it with a sniffed content type.
func (h *ImageHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	sourceURL := r.URL.Query().Get("url")
	if sourceURL == "" {
		respondError(w, http.StatusBadRequest, "url parameter required")
		return
	}

	parsed, err := url.Parse(sourceURL)
	if err != nil || !allowedImageHosts[parsed.Hostname()] {
		respondError(w, http.StatusForbidden, "url not allowed")
		return
	}

	sum := sha256.Sum256([]byte(sourceURL))
	cachePath := filepath.Join(h.cacheDir, hex.EncodeToString(sum[:16]))

	if h.serveCached(w, cachePath) {
		return
	}

	// Collapse concurrent fetches of the same URL into one download.
	h.mu.Lock()
	if ch, exists := h.inProgress[cachePath]; exists {
		h.mu.Unlock()
		<-ch
		if h.serveCached(w, cachePath) {
			return
		}
		respondError(w, http.StatusBadGateway, "failed to fetch image")
		return
	}
	ch := make(chan struct{})
	h.inProgress[cachePath] = ch
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.inProgress, cachePath)
		h.mu.Unlock()
		close(ch)
	}()

	resp, err := h.httpc.Get(sourceURL)
	if err != nil {
		log.Printf("[images] fetch error for %s: %v", sourceURL, err)
		respondError(w, http.StatusBadGateway, "failed to fetch image")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[images] fetch returned %d for %s", resp.StatusCode, sourceURL)
		respondError(w, http.StatusBadGateway, "image source error")
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		respondError(w, http.StatusBadGateway, "failed to read image")
		return
	}

	kind := mimetype.Detect(data)
	if !isImageMIME(kind) {
		respondError(w, http.StatusBadGateway, "upstream did not return an image")
		return
	}

	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		log.Printf("[images] could not cache %s: %v", sourceURL, err)
	}

	h.writeImage(w, kind.String(), data, "MISS")
}

func (h *ImageHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *ImageHandler) serveCached(w http.ResponseWriter, cachePath string) bool {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return false
	}
	h.writeImage(w, mimetype.Detect(data).String(), data, "HIT")
	return true
}

func (h *ImageHandler) writeImage(w http.ResponseWriter, contentType string, data []byte, cacheState string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=2592000") // 30 days
	w.Header().Set("X-Cache", cacheState)
	w.Write(data)
}

func isImageMIME(kind *mimetype.MIME) bool {
	for m := kind; m != nil; m = m.Parent() {
		if m.Is("image/jpeg") || m.Is("image/png") || m.Is("image/webp") || m.Is("image/gif") {
			return true
		}
	}
	return false
}
