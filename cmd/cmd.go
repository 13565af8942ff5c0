// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles configuration bootstrap.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a starter configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// syncCommand populates the catalog from the library.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "sync",
		Usage:  "Sync the catalog from the music library",
		Action: r.Sync,
	}
}

// statusCommand reports the catalog lifecycle state.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show catalog state and size",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Status,
	}
}

// tracksCommand handles track listing and lookup.
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Track listing operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all tracks in the catalog",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "shuffle",
						Usage: "Return tracks in random order",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.TracksList,
			},
			{
				Name:  "get",
				Usage: "Look up a single track by id",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.TracksGet,
			},
		},
	}
}

// searchCommand searches the catalog by metadata field.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search tracks by title, album, artist, or genre",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "field",
				Aliases: []string{"f"},
				Usage:   "Metadata field to match (title, album, artist, genre)",
				Value:   "title",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Search,
	}
}

// genresCommand lists the distinct genres of the catalog.
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "List distinct genres in the catalog",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Genres,
	}
}

// favoritesCommand manages the favorite track set.
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite tracks",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Mark a track as favorite",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesAdd,
			},
			{
				Name:  "remove",
				Usage: "Unmark a favorite track",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesRemove,
			},
			{
				Name:  "list",
				Usage: "List favorite track ids",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.FavoritesList,
			},
		},
	}
}

// browseCommand walks the media hierarchy.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "List children of a media id in the browse tree",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "media-id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Browse,
	}
}

// artworkCommand manages cached cover art.
func artworkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artwork",
		Usage: "Cover art operations",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Download a track's cover image into the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Track id to fetch artwork for",
						Required: true,
					},
				},
				Action: r.ArtworkFetch,
			},
		},
	}
}

// exportCommand writes track listings to files.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the catalog or a playlist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format (csv, markdown, text)",
				Value: "csv",
			},
			&cli.StringFlag{
				Name:  "playlist",
				Usage: "Playlist id to export instead of the full catalog",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output base path or directory",
			},
		},
		Action: r.Export,
	}
}

// serveCommand runs the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host interface to bind",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive catalog browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing the catalog",
		Action:  r.TUI,
	}
}
