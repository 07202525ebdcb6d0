// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sonix/internal/shared"
)

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output JSON instead of text",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

func countFlag(usage string) cli.Flag {
	return &cli.IntFlag{
		Name:    "count",
		Aliases: []string{"n"},
		Usage:   usage,
	}
}

// setupCommand handles setup operations for configuration and the library database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the bundled template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the library database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

func pingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "ping",
		Usage:  "Check connectivity and credentials",
		Action: r.Ping,
	}
}

func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "scan",
		Usage:  "Show the media library scan status",
		Flags:  outputFlags(),
		Action: r.ScanStatus,
	}
}

// rawCommand performs an operation and prints the undecoded response
func rawCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "raw",
		Usage:     "Call any operation and print the response as received",
		ArgsUsage: "<operation> [key=value...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON responses",
				Value: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Save the response body to a file",
			},
		},
		Action: r.Raw,
	}
}

// artistCommand handles artist lookups
func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "artist",
		Aliases: []string{"ar"},
		Usage:   "Artist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the artist index",
				Flags: append(outputFlags(), &cli.IntFlag{
					Name:  "folder",
					Usage: "Restrict to a music folder id",
				}),
				Action: r.ArtistList,
			},
			{
				Name:      "get",
				Usage:     "Show an artist",
				ArgsUsage: "<id>",
				Flags:     outputFlags(),
				Action:    r.ArtistGet,
			},
			{
				Name:      "albums",
				Usage:     "List the albums of an artist",
				ArgsUsage: "<id>",
				Flags:     outputFlags(),
				Action:    r.ArtistAlbums,
			},
			{
				Name:      "info",
				Usage:     "Show biography and similar artists from the metadata agent",
				ArgsUsage: "<id>",
				Flags: append(outputFlags(),
					countFlag("Maximum number of similar artists"),
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Include similar artists missing from the library",
					},
				),
				Action: r.ArtistInfo,
			},
			{
				Name:      "top",
				Usage:     "List the top songs of an artist",
				ArgsUsage: "<id>",
				Flags:     append(outputFlags(), countFlag("Maximum number of songs")),
				Action:    r.ArtistTop,
			},
			{
				Name:      "similar",
				Usage:     "Resolve similar artists against the library",
				ArgsUsage: "<id>",
				Flags:     append(outputFlags(), countFlag("Maximum number of similar artists")),
				Action:    r.ArtistSimilar,
			},
		},
	}
}

// albumCommand handles album lookups
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "album",
		Aliases: []string{"al"},
		Usage:   "Album operations",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Show an album",
				ArgsUsage: "<id>",
				Flags:     outputFlags(),
				Action:    r.AlbumGet,
			},
			{
				Name:      "songs",
				Usage:     "List the songs of an album",
				ArgsUsage: "<id>",
				Flags: append(outputFlags(), &cli.BoolFlag{
					Name:  "urls",
					Usage: "Print a stream URL for every song",
				}),
				Action: r.AlbumSongs,
			},
		},
	}
}

func coverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "cover",
		Usage:     "Download the cover art of an artist, album or song",
		ArgsUsage: "<artist|album|song> <id>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "size",
				Usage: "Scale the image to this many pixels",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: {kind}-{id}.jpg)",
			},
			&cli.BoolFlag{
				Name:  "url",
				Usage: "Print the cover URL instead of downloading",
			},
		},
		Action: r.Cover,
	}
}

// exportCommand writes discographies to disk
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export artist discographies (all artists when no id is given)",
		ArgsUsage: "[id...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: " + strings.Join(shared.ExportFormats, ", "),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent file writers",
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Maximum requests per second",
			},
			&cli.BoolFlag{
				Name:  "covers",
				Usage: "Download artist cover art (markdown only)",
			},
			&cli.BoolFlag{
				Name:  "db",
				Usage: "Snapshot exported artists into the library database",
			},
		},
		Action: r.Export,
	}
}

// libraryCommand reads the snapshot written by export --db
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "library",
		Usage: "List artists stored in the library database",
		Flags: append(outputFlags(),
			&cli.StringFlag{
				Name:  "name",
				Usage: "Filter by artist name",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of artists",
			},
		),
		Action: r.Library,
	}
}

