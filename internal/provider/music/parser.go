// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package music

import (
	"log/slog"

	"github.com/moodboard/core/internal/models"
)

// recommendationsResponse mirrors the subset of /recommendations we read.
type recommendationsResponse struct {
	Tracks []spotifyTrack `json:"tracks"`
}

type spotifyTrack struct {
	Name       string  `json:"name"`
	PreviewURL *string `json:"preview_url"`
	Artists    []struct {
		Name string `json:"name"`
	} `json:"artists"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	Album struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
}

// parseTracks converts provider tracks into canonical tracks, preserving
// order. Tracks missing a name, an artist or an external URL are skipped.
func parseTracks(resp recommendationsResponse) []models.Track {
	tracks := make([]models.Track, 0, len(resp.Tracks))
	for _, t := range resp.Tracks {
		track, ok := parseTrack(t)
		if !ok {
			slog.Debug("skipping incomplete track", "name", t.Name)
			continue
		}
		tracks = append(tracks, track)
	}
	return tracks
}

func parseTrack(t spotifyTrack) (models.Track, bool) {
	if t.Name == "" || len(t.Artists) == 0 || t.Artists[0].Name == "" || t.ExternalURLs.Spotify == "" {
		return models.Track{}, false
	}

	track := models.Track{
		Name:        t.Name,
		Artist:      t.Artists[0].Name,
		ExternalURL: t.ExternalURLs.Spotify,
	}
	if t.PreviewURL != nil {
		track.PreviewURL = models.StringPtr(*t.PreviewURL)
	}
	if len(t.Album.Images) > 0 {
		track.AlbumImage = models.StringPtr(t.Album.Images[0].URL)
	}
	return track, true
}
