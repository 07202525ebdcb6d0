// package formatter provides functions to export discographies to various formats (JSON, YAML, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/desertthunder/sonix/internal/models"
	"github.com/desertthunder/sonix/internal/shared"
)

// FormatDuration renders seconds as m:ss, or h:mm:ss from one hour on.
func FormatDuration(seconds uint64) string {
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func year(y uint64) string {
	if y == 0 {
		return ""
	}
	return strconv.FormatUint(y, 10)
}

// ExportToJSON encodes the full discography, entities in their wire shape.
func ExportToJSON(d *models.Discography) ([]byte, error) {
	return shared.MarshalJSON(d, true)
}

// ExportToCSV converts a Discography to CSV format with columns: ID, Album, Year, Genre, Songs, Duration
func ExportToCSV(d *models.Discography) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Album", "Year", "Genre", "Songs", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, album := range d.Albums {
		record := []string{
			strconv.FormatUint(album.ID, 10),
			album.Name,
			year(album.Year),
			album.Genre,
			strconv.FormatUint(album.SongCount, 10),
			strconv.FormatUint(album.Duration, 10),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Discography to Markdown format with optional cover image
func ExportToMarkdown(d *models.Discography, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", d.Artist.Name)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	fmt.Fprintf(&buf, "**Albums**: %d\n", len(d.Albums))
	fmt.Fprintf(&buf, "**Songs**: %d\n", d.TotalSongs())
	fmt.Fprintf(&buf, "**Duration**: %s\n\n", FormatDuration(d.TotalDuration()))

	buf.WriteString("## Albums\n\n")
	for i, album := range d.Albums {
		yearPart := ""
		if album.Year != 0 {
			yearPart = fmt.Sprintf(" (%d)", album.Year)
		}
		fmt.Fprintf(&buf, "%d. %s%s - %d songs [%s]\n", i+1, album.Name, yearPart, album.SongCount, FormatDuration(album.Duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Discography to plain text format
func ExportToText(d *models.Discography) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Artist: %s\n", d.Artist.Name)
	fmt.Fprintf(&buf, "Albums: %d\n\n", len(d.Albums))

	for i, album := range d.Albums {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, album.Name)
	}

	return buf.Bytes(), nil
}

type artistMetadata struct {
	ID         uint64 `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	AlbumCount uint64 `json:"album_count" yaml:"album_count"`
	CoverArt   string `json:"cover_art,omitempty" yaml:"cover_art,omitempty"`
	Songs      uint64 `json:"songs" yaml:"songs"`
	Duration   uint64 `json:"duration" yaml:"duration"`
}

func metadata(d *models.Discography) artistMetadata {
	cover, _ := d.Artist.CoverID()
	return artistMetadata{
		ID:         d.Artist.ID,
		Name:       d.Artist.Name,
		AlbumCount: d.Artist.AlbumCount,
		CoverArt:   cover,
		Songs:      d.TotalSongs(),
		Duration:   d.TotalDuration(),
	}
}

// ToMetadataJSON generates a JSON representation of artist metadata (without albums)
func ToMetadataJSON(d *models.Discography) ([]byte, error) {
	return shared.MarshalJSON(metadata(d), true)
}

type yamlAlbum struct {
	ID       uint64 `yaml:"id"`
	Name     string `yaml:"name"`
	Year     uint64 `yaml:"year,omitempty"`
	Genre    string `yaml:"genre,omitempty"`
	Songs    uint64 `yaml:"songs"`
	Duration string `yaml:"duration"`
}

type yamlDiscography struct {
	Artist artistMetadata `yaml:"artist"`
	Albums []yamlAlbum    `yaml:"albums"`
}

// ExportToYAML renders the discography as a YAML document with human readable durations.
func ExportToYAML(d *models.Discography) ([]byte, error) {
	doc := yamlDiscography{Artist: metadata(d), Albums: make([]yamlAlbum, 0, len(d.Albums))}
	for _, a := range d.Albums {
		doc.Albums = append(doc.Albums, yamlAlbum{
			ID:       a.ID,
			Name:     a.Name,
			Year:     a.Year,
			Genre:    a.Genre,
			Songs:    a.SongCount,
			Duration: FormatDuration(a.Duration),
		})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BaseName is the default file name stem for an artist: its slug and server id.
func BaseName(d *models.Discography) string {
	return fmt.Sprintf("%s-%d", shared.Slugify(d.Artist.Name), d.Artist.ID)
}

// WriteJSONExport writes the discography as JSON.
//
// Defaults to {BaseName}.json as the filename.
func WriteJSONExport(d *models.Discography, path string) (string, error) {
	if path == "" {
		path = BaseName(d) + ".json"
	}

	data, err := ExportToJSON(d)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}
	return path, nil
}

// WriteYAMLExport writes the discography as YAML.
//
// Defaults to {BaseName}.yaml as the filename.
func WriteYAMLExport(d *models.Discography, path string) (string, error) {
	if path == "" {
		path = BaseName(d) + ".yaml"
	}

	data, err := ExportToYAML(d)
	if err != nil {
		return "", fmt.Errorf("failed to generate YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}
	return path, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	AlbumsFile   string
	MetadataFile string
}

// WriteCSVExport exports a discography to CSV format with accompanying metadata JSON file.
//
// Defaults to [BaseName] as the base filename & creates {base}_albums.csv and {base}_metadata.json
func WriteCSVExport(d *models.Discography, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = BaseName(d)
	}

	csvData, err := ExportToCSV(d)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	albumsFile := baseFilepath + "_albums.csv"
	if err := os.WriteFile(albumsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(d)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		AlbumsFile:   albumsFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a discography to Markdown format in a dedicated directory.
//
// Directory name defaults to [BaseName]. cover is optional image data written next to the README.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(d *models.Discography, outputDir string, cover []byte) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = BaseName(d)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if len(cover) > 0 {
		coverImagePath := filepath.Join(outputDir, "cover.jpg")
		if err := os.WriteFile(coverImagePath, cover, 0644); err != nil {
			return nil, fmt.Errorf("failed to save cover image: %w", err)
		}
		coverImageFilename = "cover.jpg"
		result.CoverImage = coverImagePath
		result.Files = append(result.Files, coverImagePath)
	}

	mdData, err := ExportToMarkdown(d, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteTextExport exports a discography to plain text format.
//
// Defaults to {BaseName}_albums.txt as the filename.
func WriteTextExport(d *models.Discography, path string) (string, error) {
	if path == "" {
		path = BaseName(d) + "_albums.txt"
	}

	textData, err := ExportToText(d)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}
