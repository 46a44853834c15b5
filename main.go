package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/llehouerou/ripple/internal/config"
	"github.com/llehouerou/ripple/internal/favorites"
	"github.com/llehouerou/ripple/internal/history"
	"github.com/llehouerou/ripple/internal/notify"
	"github.com/llehouerou/ripple/internal/playback"
	"github.com/llehouerou/ripple/internal/player"
)

const usage = `usage: ripple <command> [args]

commands:
  list [dir]             list audio files (default: configured folder or cwd)
  play <file>            play a file and wait for it to finish
  rename <file> <name>   rename a file within its directory
  copy <dest> <file...>  copy files into dest
  fav list               list favorites
  fav add <file>         add a favorite
  fav remove <file>      remove a favorite
  recent [n]             show the n most recent plays (default 10)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "ripple: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch command {
	case "list":
		return cmdList(cfg, args)
	case "play":
		return cmdPlay(args)
	case "rename":
		return cmdRename(args)
	case "copy":
		return cmdCopy(args)
	case "fav":
		return cmdFav(args)
	case "recent":
		return cmdRecent(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// newService wires the full stack; history and notifications are best
// effort and disabled when their backends fail to open.
func newService() (playback.Service, error) {
	favs, err := favorites.Open()
	if err != nil {
		return nil, err
	}

	hist, err := history.Open()
	if err != nil {
		hist = nil
	}

	notifier, err := notify.New()
	if err != nil {
		notifier = nil
	}

	return playback.New(player.New(), favs, hist, notifier), nil
}

func cmdList(cfg *config.Config, args []string) error {
	dir := cfg.DefaultFolder
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return err
		}
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	listed, err := svc.ListAudioFiles(dir)
	if err != nil {
		return err
	}
	for _, f := range listed {
		if f.DurationSeconds != nil {
			fmt.Printf("%8.1fs  %s\n", *f.DurationSeconds, f.Name)
		} else {
			fmt.Printf("%9s  %s\n", "-", f.Name)
		}
	}
	return nil
}

func cmdPlay(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("play takes exactly one file")
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	sub := svc.Subscribe()
	if err := svc.Play(args[0]); err != nil {
		return err
	}

	if info := svc.TrackInfo(); info != nil {
		fmt.Printf("playing %s (%s)\n", info.Title, info.Duration.Round(time.Second))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case e := <-sub.TrackFinished:
		fmt.Printf("finished %s\n", e.Path)
	case <-sigCh:
		svc.Stop()
	}
	return nil
}

func cmdRename(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("rename takes a file and a new name")
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	newPath, err := svc.Rename(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Println(newPath)
	return nil
}

func cmdCopy(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("copy takes a destination and at least one file")
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	copied, err := svc.Copy(args[1:], args[0])
	if err != nil {
		return err
	}
	for _, path := range copied {
		fmt.Println(path)
	}
	return nil
}

func cmdFav(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("fav takes list, add or remove")
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	switch args[0] {
	case "list":
		favs, err := svc.ListFavorites()
		if err != nil {
			return err
		}
		for _, path := range favs {
			fmt.Println(path)
		}
		return nil
	case "add":
		if len(args) != 2 {
			return fmt.Errorf("fav add takes one file")
		}
		return svc.AddFavorite(args[1])
	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("fav remove takes one file")
		}
		return svc.RemoveFavorite(args[1])
	default:
		return fmt.Errorf("unknown fav subcommand %q", args[0])
	}
}

func cmdRecent(args []string) error {
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("recent takes a positive count")
		}
		limit = n
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	plays, err := svc.RecentPlays(limit)
	if err != nil {
		return err
	}
	for _, p := range plays {
		fmt.Printf("%s  %s\n", p.PlayedAt.Format("2006-01-02 15:04"), p.Path)
	}
	return nil
}
