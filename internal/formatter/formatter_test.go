package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/desertthunder/sonix/internal/models"
	"github.com/desertthunder/sonix/internal/subsonic"
	th "github.com/desertthunder/sonix/internal/testing"
)

func testDiscography(t *testing.T) *models.Discography {
	t.Helper()

	var d models.Discography
	if err := json.Unmarshal([]byte(`{"id":"1","name":"Misteur Valaire","coverArt":"ar-1","albumCount":2}`), &d.Artist); err != nil {
		t.Fatalf("failed to parse artist: %v", err)
	}
	for _, raw := range []string{
		`{"id":"10","name":"Golden Years","songCount":12,"duration":2700,"year":2010,"genre":"Electro"}`,
		`{"id":"11","name":"Bellevue, Live","songCount":9,"duration":1920}`,
	} {
		var a subsonic.Album
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			t.Fatalf("failed to parse album: %v", err)
		}
		d.Albums = append(d.Albums, a)
	}
	return &d
}

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		in   uint64
		want string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{1920, "32:00"},
		{4620, "1:17:00"},
	}

	for _, tt := range tc {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%d) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testDiscography(t))
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "ID,Album,Year,Genre,Songs,Duration\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "10,Golden Years,2010,Electro,12,2700") {
			t.Errorf("CSV missing first album, got: %s", output)
		}
		if !strings.Contains(output, `11,"Bellevue, Live",,,9,1920`) {
			t.Errorf("CSV should quote names with commas and leave unknown years empty, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(testDiscography(t), "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# Misteur Valaire\n",
				"**Albums**: 2\n",
				"**Songs**: 21\n",
				"**Duration**: 1:17:00\n",
				"1. Golden Years (2010) - 12 songs [45:00]\n",
				"2. Bellevue, Live - 9 songs [32:00]\n",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q, got: %s", want, output)
				}
			}
			if strings.Contains(output, "![Cover]") {
				t.Error("Markdown should not reference a cover")
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(testDiscography(t), "cover.jpg")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}
			if !strings.Contains(string(data), "![Cover](cover.jpg)") {
				t.Errorf("Markdown missing cover, got: %s", data)
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testDiscography(t))
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		want := "Artist: Misteur Valaire\nAlbums: 2\n\n1. Golden Years\n2. Bellevue, Live\n"
		if string(data) != want {
			t.Errorf("expected %q, got %q", want, data)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testDiscography(t))
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var back models.Discography
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("exported JSON should decode back: %v", err)
		}
		if back.Artist.Name != "Misteur Valaire" || len(back.Albums) != 2 {
			t.Errorf("unexpected round trip %+v", back)
		}
		if !strings.Contains(string(data), `"coverArt": "ar-1"`) {
			t.Errorf("expected wire field names, got: %s", data)
		}
	})

	t.Run("ExportToYAML", func(t *testing.T) {
		data, err := ExportToYAML(testDiscography(t))
		if err != nil {
			t.Fatalf("ExportToYAML failed: %v", err)
		}

		var doc struct {
			Artist struct {
				Name  string `yaml:"name"`
				Songs uint64 `yaml:"songs"`
			} `yaml:"artist"`
			Albums []struct {
				Name     string `yaml:"name"`
				Year     uint64 `yaml:"year"`
				Duration string `yaml:"duration"`
			} `yaml:"albums"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			t.Fatalf("invalid YAML: %v", err)
		}

		if doc.Artist.Name != "Misteur Valaire" || doc.Artist.Songs != 21 {
			t.Errorf("unexpected artist %+v", doc.Artist)
		}
		if len(doc.Albums) != 2 {
			t.Fatalf("expected 2 albums, got %d", len(doc.Albums))
		}
		if doc.Albums[0].Duration != "45:00" || doc.Albums[0].Year != 2010 {
			t.Errorf("unexpected first album %+v", doc.Albums[0])
		}
		if strings.Contains(string(data), "year: 0") {
			t.Error("unset year should be omitted")
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(testDiscography(t))
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		var meta map[string]any
		if err := json.Unmarshal(data, &meta); err != nil {
			t.Fatalf("invalid metadata JSON: %v", err)
		}
		if meta["name"] != "Misteur Valaire" || meta["songs"] != float64(21) {
			t.Errorf("unexpected metadata %v", meta)
		}
		if _, ok := meta["albums"]; ok {
			t.Error("metadata should not include albums")
		}
	})

	t.Run("BaseName", func(t *testing.T) {
		if got := BaseName(testDiscography(t)); got != "misteur-valaire-1" {
			t.Errorf("expected misteur-valaire-1, got %s", got)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteJSONExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "artist.json")

		got, err := WriteJSONExport(testDiscography(t), path)
		if err != nil {
			t.Fatalf("WriteJSONExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("WriteYAMLExport", func(t *testing.T) {
		t.Chdir(t.TempDir())

		got, err := WriteYAMLExport(testDiscography(t), "")
		if err != nil {
			t.Fatalf("WriteYAMLExport failed: %v", err)
		}
		if got != "misteur-valaire-1.yaml" {
			t.Errorf("unexpected default path %s", got)
		}
		th.AssertFileExists(t, got)
	})

	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			t.Chdir(t.TempDir())

			result, err := WriteCSVExport(testDiscography(t), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if result.AlbumsFile != "misteur-valaire-1_albums.csv" {
				t.Errorf("unexpected albums file %s", result.AlbumsFile)
			}
			th.AssertFileExists(t, result.AlbumsFile)
			th.AssertFileExists(t, result.MetadataFile)

			if !strings.Contains(th.MustReadFile(t, result.AlbumsFile), "Golden Years") {
				t.Error("CSV file missing album")
			}
			if !strings.Contains(th.MustReadFile(t, result.MetadataFile), `"album_count": 2`) {
				t.Error("metadata file missing album count")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "custom")

			result, err := WriteCSVExport(testDiscography(t), base)
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			if result.AlbumsFile != base+"_albums.csv" {
				t.Errorf("unexpected albums file %s", result.AlbumsFile)
			}
			th.AssertFileExists(t, result.MetadataFile)
		})

		t.Run("UnwritableDirectory", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "missing", "custom")
			if _, err := WriteCSVExport(testDiscography(t), base); err == nil {
				t.Error("expected error writing into a missing directory")
			}
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		t.Run("WithCover", func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "mv")

			result, err := WriteMarkdownExport(testDiscography(t), dir, []byte{0xff, 0xd8, 0xff})
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			if len(result.Files) != 2 {
				t.Fatalf("expected cover and README, got %v", result.Files)
			}
			th.AssertFileExists(t, result.CoverImage)
			if !strings.Contains(th.MustReadFile(t, filepath.Join(dir, "README.md")), "![Cover](cover.jpg)") {
				t.Error("README should reference the cover")
			}
		})

		t.Run("WithDefaultDirectory", func(t *testing.T) {
			t.Chdir(t.TempDir())

			result, err := WriteMarkdownExport(testDiscography(t), "", nil)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}
			if result.Directory != "misteur-valaire-1" || result.CoverImage != "" {
				t.Errorf("unexpected result %+v", result)
			}
			if _, err := os.Stat(filepath.Join("misteur-valaire-1", "cover.jpg")); !os.IsNotExist(err) {
				t.Error("no cover should be written without image data")
			}
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "artist.txt")

		got, err := WriteTextExport(testDiscography(t), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if !strings.HasPrefix(th.MustReadFile(t, got), "Artist: Misteur Valaire") {
			t.Error("unexpected text export")
		}
	})
}
