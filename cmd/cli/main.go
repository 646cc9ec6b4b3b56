// Command streamish is a CLI client for the Streamish video API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/and161185/streamish/internal/client"
	"github.com/and161185/streamish/internal/convert"
	"github.com/and161185/streamish/internal/model"
	"github.com/and161185/streamish/internal/view"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

var errUsage = errors.New("usage")

// ---- utils ----

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func defaultAddr() string {
	if v := os.Getenv("STREAMISH_ADDR"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `streamish CLI
Usage:
  streamish [-addr URL] [-timeout D] <cmd> [args]

Commands:
  version
  list       [-html]                                 (all videos with comments)
  get        -id <n>
  add        -title <t> -url <u> -user <n> [-desc <d>]
  search     -q <term> [-desc]
  profiles
  profile    -id <n>
`)
}

// ---- main ----

// main parses global flags and dispatches subcommands.
func main() {
	addr := flag.String("addr", defaultAddr(), "server base URL")
	timeout := flag.Duration("timeout", 30*time.Second, "per-call timeout")
	flag.Usage = func() { usage(os.Stderr) }
	flag.Parse()

	c := client.New(*addr, client.WithTimeout(*timeout))
	err := run(context.Background(), c, flag.Args(), os.Stdout)
	if errors.Is(err, errUsage) {
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
}

func run(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {

	case "version":
		_, err := fmt.Fprintf(out, "streamish %s (%s)\n", version, buildDate)
		return err

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		asHTML := fs.Bool("html", false, "render video cards as HTML")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		vs, err := c.FetchAllVideosWithComments(ctx)
		if err != nil {
			return err
		}
		if *asHTML {
			return view.RenderCards(out, vs)
		}
		return printJSON(out, convert.ToVideos(vs))

	case "get":
		fs := flag.NewFlagSet("get", flag.ContinueOnError)
		id := fs.Int64("id", 0, "video id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("need -id: %w", errUsage)
		}
		v, err := c.FetchVideoByID(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(out, convert.ToVideo(v))

	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		title := fs.String("title", "", "video title")
		url := fs.String("url", "", "playback URL")
		desc := fs.String("desc", "", "description")
		user := fs.Int64("user", 0, "owner profile id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *title == "" || *url == "" || *user == 0 {
			return fmt.Errorf("need -title, -url and -user: %w", errUsage)
		}
		resp, err := c.SubmitVideo(ctx, model.Video{
			Title:         *title,
			URL:           *url,
			Description:   *desc,
			UserProfileID: *user,
		})
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if _, err := fmt.Fprintln(out, resp.Status); err != nil {
			return err
		}
		if resp.StatusCode != http.StatusCreated {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return fmt.Errorf("submit rejected: %s", body)
		}
		return nil

	case "search":
		fs := flag.NewFlagSet("search", flag.ContinueOnError)
		q := fs.String("q", "", "title substring")
		desc := fs.Bool("desc", false, "newest first")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		bar := &client.SearchBar{}
		bar.SetTerm(*q)
		if *desc {
			bar.ToggleSort()
		}
		var vs []model.Video
		if err := bar.Search(ctx, c, func(found []model.Video) { vs = found }); err != nil {
			return err
		}
		return printJSON(out, convert.ToVideos(vs))

	case "profiles":
		ps, err := c.FetchProfiles(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, convert.ToUserProfiles(ps))

	case "profile":
		fs := flag.NewFlagSet("profile", flag.ContinueOnError)
		id := fs.Int64("id", 0, "profile id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("need -id: %w", errUsage)
		}
		p, err := c.FetchProfile(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(out, convert.ToUserProfile(p))

	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}
