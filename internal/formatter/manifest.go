package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/sonix/internal/models"
	"github.com/desertthunder/sonix/internal/shared"
)

type manifestEntry struct {
	ID      uint64   `json:"id"`
	Name    string   `json:"name"`
	Success bool     `json:"success"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Manifest is the summary file written at the root of an export directory.
type Manifest struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	Format          string          `json:"format"`
	OutputDirectory string          `json:"output_directory"`
	Total           int             `json:"total"`
	Successful      int             `json:"successful"`
	Failed          int             `json:"failed"`
	Artists         []manifestEntry `json:"artists"`
}

// NewManifest builds the manifest for result.
func NewManifest(result *models.ExportResult, format string) Manifest {
	m := Manifest{
		GeneratedAt:     time.Now().UTC(),
		Format:          format,
		OutputDirectory: result.OutputDirectory,
		Total:           result.TotalArtists,
		Successful:      result.SuccessfulExports,
		Failed:          result.FailedExports,
		Artists:         make([]manifestEntry, 0, len(result.Results)),
	}

	for _, r := range result.Results {
		e := manifestEntry{ID: r.ArtistID, Name: r.ArtistName, Success: r.Success, Files: r.Files}
		if r.Error != nil {
			e.Error = r.Error.Error()
		}
		m.Artists = append(m.Artists, e)
	}
	return m
}

// WriteExportManifest writes the manifest for result to path as indented JSON.
func WriteExportManifest(result *models.ExportResult, format, path string) error {
	data, err := shared.MarshalJSON(NewManifest(result, format), true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
