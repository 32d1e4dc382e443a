// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your CineTalk account",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account and log in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Display name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "captcha",
						Usage: "Captcha token (required when the server enables captcha)",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "subscribe",
				Usage: "Set your streaming provider subscriptions",
				Flags: []cli.Flag{
					&cli.IntSliceFlag{
						Name:  "ott",
						Usage: "Provider IDs (repeatable; omit to clear)",
					},
				},
				Action: r.AuthSubscribe,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session state",
				Action: r.AuthStatus,
			},
		},
	}
}

// moviesCommand handles catalog browsing and exports
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"movie", "m"},
		Usage:   "Search and inspect the movie catalog",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search movies by title with optional provider filters",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.IntSliceFlag{
						Name:  "ott",
						Usage: "Streaming provider IDs to filter by (repeatable)",
					},
					&cli.StringFlag{
						Name:  "ordering",
						Usage: "Sort key: -release_date, release_date, -average_rating_cache, average_rating_cache, -review_count or title",
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Result page number",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesSearch,
			},
			{
				Name:  "show",
				Usage: "Show a movie's detail page with its reviews",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "spoilers",
						Usage: "Show spoiler reviews unmasked",
					},
				},
				Action: r.MoviesShow,
			},
			{
				Name:   "providers",
				Usage:  "List streaming providers",
				Action: r.MoviesProviders,
			},
			{
				Name:   "recent",
				Usage:  "Show recently viewed movies",
				Action: r.MoviesRecent,
			},
			{
				Name:  "export",
				Usage: "Export search results or a movie detail",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: csv, markdown or json",
						Value: "csv",
					},
					&cli.IntFlag{
						Name:  "id",
						Usage: "Export a single movie instead of search results",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (stdout when omitted)",
					},
				},
				Action: r.MoviesExport,
			},
		},
	}
}

// reviewsCommand handles review CRUD, voting and review comments
func reviewsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "reviews",
		Aliases: []string{"review", "r"},
		Usage:   "Write and manage movie reviews",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Post a review for a movie",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "movie",
						Usage:    "Movie ID",
						Required: true,
					},
					&cli.FloatFlag{
						Name:     "rating",
						Usage:    "Star rating from 0.5 to 5.0 in half steps",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "comment",
						Usage:    "Review text",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "spoiler",
						Usage: "Mark the review as a spoiler",
					},
					&cli.StringSliceFlag{
						Name:  "image",
						Usage: "Attach an image file (repeatable, up to 5)",
					},
				},
				Action: r.ReviewsCreate,
			},
			{
				Name:  "edit",
				Usage: "Update an existing review",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.FloatFlag{
						Name:  "rating",
						Usage: "New star rating",
					},
					&cli.StringFlag{
						Name:  "comment",
						Usage: "New review text",
					},
					&cli.StringSliceFlag{
						Name:  "image",
						Usage: "Add an image file (repeatable)",
					},
					&cli.IntSliceFlag{
						Name:  "delete-image",
						Usage: "Existing image IDs to remove (repeatable)",
					},
				},
				Action: r.ReviewsEdit,
			},
			{
				Name:  "delete",
				Usage: "Delete a review",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.ReviewsDelete,
			},
			{
				Name:  "vote",
				Usage: "Like a review (--down to dislike)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "down",
						Usage: "Dislike instead of like",
					},
				},
				Action: r.ReviewsVote,
			},
			{
				Name:  "comment",
				Usage: "Comment on a review",
				Commands: []*cli.Command{
					{
						Name:  "add",
						Usage: "Add a comment to a review",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "review-id"},
							&cli.StringArg{Name: "content"},
						},
						Action: r.ReviewsCommentAdd,
					},
					{
						Name:  "delete",
						Usage: "Delete a review comment",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Action: r.ReviewsCommentDelete,
					},
				},
			},
		},
	}
}

// boardCommand handles community board operations
func boardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "board",
		Aliases: []string{"b"},
		Usage:   "Browse and post on the community board",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List posts on a board tab",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "tab",
						Usage: "Board tab slug (hot, free, ...)",
						Value: "hot",
					},
					&cli.StringFlag{
						Name:  "search",
						Usage: "Search text",
					},
					&cli.StringFlag{
						Name:  "search-type",
						Usage: "Search field: title, content or user",
						Value: "title",
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Result page number",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.BoardList,
			},
			{
				Name:  "read",
				Usage: "Read a post with its comments",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.BoardRead,
			},
			{
				Name:  "post",
				Usage: "Create a new post",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Post title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "content",
						Usage:    "Post body",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Category slug",
						Value: "free",
					},
					&cli.StringSliceFlag{
						Name:  "attach",
						Usage: "Attach a file (repeatable, up to 5)",
					},
				},
				Action: r.BoardPost,
			},
			{
				Name:  "edit",
				Usage: "Edit an existing post",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "New title",
					},
					&cli.StringFlag{
						Name:  "content",
						Usage: "New body",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "New category slug",
					},
					&cli.StringSliceFlag{
						Name:  "attach",
						Usage: "Add an attachment (repeatable)",
					},
					&cli.IntSliceFlag{
						Name:  "delete-attachment",
						Usage: "Existing attachment IDs to remove (repeatable)",
					},
				},
				Action: r.BoardEdit,
			},
			{
				Name:  "delete",
				Usage: "Delete a post",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.BoardDelete,
			},
			{
				Name:  "like",
				Usage: "Like a post (--down to dislike)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "down",
						Usage: "Dislike instead of like",
					},
				},
				Action: r.BoardLike,
			},
			{
				Name:  "comment",
				Usage: "Comment on a post",
				Commands: []*cli.Command{
					{
						Name:  "add",
						Usage: "Add a comment to a post",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "post-id"},
							&cli.StringArg{Name: "content"},
						},
						Action: r.BoardCommentAdd,
					},
					{
						Name:  "delete",
						Usage: "Delete a board comment",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Action: r.BoardCommentDelete,
					},
					{
						Name:  "like",
						Usage: "Like a board comment (--down to dislike)",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "down",
								Usage: "Dislike instead of like",
							},
						},
						Action: r.BoardCommentLike,
					},
				},
			},
		},
	}
}

// setupCommand handles local configuration and cache setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a config.toml from the embedded template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the local cache database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Action:  r.TUI,
	}
}
