package playback

import (
	"crypto/tls"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/grafov/m3u8"

	"github.com/whisper-darkly/stream-scout/logger"
)

// NewPlaylistProbe returns a Probe that fetches a candidate and logs what
// kind of playlist it is before the player is launched. Master playlists
// frequently stall external players that expect a media playlist, so the
// classification makes exhausted runs explainable from the log alone.
// Probe failures are informational only.
func NewPlaylistProbe(log *logger.Logger) func(string) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}

	return func(link string) {
		resp, err := client.Get(link)
		if err != nil {
			log.Debug("probe %s: %v", link, err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			log.Warn("probe %s: http %d", link, resp.StatusCode)
			return
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			log.Debug("probe %s: read body: %v", link, err)
			return
		}

		p, kind, err := m3u8.DecodeFrom(strings.NewReader(string(body)), true)
		if err != nil {
			log.Debug("probe %s: not a parseable playlist: %v", link, err)
			return
		}
		switch kind {
		case m3u8.MASTER:
			master := p.(*m3u8.MasterPlaylist)
			log.Info("candidate is a master playlist with %d variants", len(master.Variants))
		case m3u8.MEDIA:
			media := p.(*m3u8.MediaPlaylist)
			log.Info("candidate is a media playlist with %d segments", media.Count())
		}
	}
}
