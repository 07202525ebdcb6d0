package tasks

import (
	"fmt"

	"github.com/desertthunder/sonix/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchIndex Phase = iota
	FetchArtist
	FetchAlbums
	FetchSimilar
	UpgradeSimilar
	ExportArtist
	SnapshotArtist
)

func (p Phase) String() string {
	switch p {
	case FetchIndex:
		return "fetch_index"
	case FetchArtist:
		return "fetch_artist"
	case FetchAlbums:
		return "fetch_albums"
	case FetchSimilar:
		return "fetch_similar"
	case UpgradeSimilar:
		return "upgrade_similar"
	case ExportArtist:
		return "export_artist"
	case SnapshotArtist:
		return "snapshot_artist"
	default:
		return ""
	}
}

func fetchIndexUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchIndex,
		Step:    1,
		Total:   1,
		Message: "Fetching artist index...",
	}
}

func fetchArtistUpdate(step, total int, id uint64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchArtist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching artist %d...", step, total, id),
	}
}

func fetchAlbumsUpdate(d *models.Discography) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchAlbums,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found artist: %s (%d albums)", d.Artist.Name, len(d.Albums)),
		Data:    d,
	}
}

func fetchSimilarUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSimilar,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching artists similar to %s...", name),
	}
}

func upgradeSimilarUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UpgradeSimilar,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, name),
	}
}

func exportingArtistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportArtist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportArtist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportArtist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func snapshotFailedUpdate(name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SnapshotArtist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("snapshot of %s failed: %v", name, err),
	}
}
