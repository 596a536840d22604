// Command thumbprobe fetches a single share page and prints every harvested
// candidate, the filtered list, and the chosen thumbnail.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hyperifyio/thumbgallery/internal/fetch"
	"github.com/hyperifyio/thumbgallery/internal/thumb"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: thumbprobe <share-url|file.html>")
		os.Exit(2)
	}
	if err := inspectTarget(os.Stdout, os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "err:", err)
		os.Exit(1)
	}
}

func inspectTarget(w io.Writer, target string) error {
	body, err := load(target)
	if err != nil {
		return err
	}
	r := thumb.NewExtractor(nil, thumb.Douyin).Inspect(body)
	fmt.Fprintf(w, "candidates (%d):\n", len(r.Candidates))
	for i, c := range r.Candidates {
		fmt.Fprintf(w, "%d. %s\n", i+1, c)
	}
	fmt.Fprintf(w, "filtered (%d):\n", len(r.Filtered))
	for i, c := range r.Filtered {
		fmt.Fprintf(w, "%d. %s\n", i+1, c)
	}
	fmt.Fprintln(w, "best:", r.Best)
	return nil
}

// load reads a saved page from disk, or fetches it when target is a URL.
func load(target string) ([]byte, error) {
	if _, err := os.Stat(target); err == nil {
		return os.ReadFile(target)
	}
	client := &fetch.Client{UserAgent: fetch.MobileSafariUA, Header: fetch.BrowserHeader(), PerRequestTimeout: 10 * time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	body, _, err := client.Get(ctx, target)
	return body, err
}
