// Command timeline prints the resolved intro table with absolute offsets,
// without opening a window.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/milk9111/linkpage/ecs/component"
	"github.com/milk9111/linkpage/ecs/entity"
	"github.com/milk9111/linkpage/prefabs"
)

var log = logging.Logger("timeline")

func main() {
	file := flag.String("file", "timeline.yaml", "timeline prefab; empty prints the built-in table")
	prefabDir := flag.String("prefabs", prefabs.Dir, "directory whose prefabs shadow the embedded ones")
	flag.Parse()

	prefabs.Dir = *prefabDir
	steps, err := entity.LoadTimeline(*file)
	if err != nil {
		log.Errorw("load timeline", "file", *file, "err", err)
		os.Exit(1)
	}
	if err := printTable(os.Stdout, steps); err != nil {
		log.Errorw("print timeline", "err", err)
		os.Exit(1)
	}
}

func printTable(out io.Writer, steps []component.IntroStep) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDELAY\tAT\tACTION")
	var at time.Duration
	for i, s := range steps {
		at += s.Delay
		fmt.Fprintf(tw, "%d\t+%s\t%s\t%s\n", i+1, s.Delay, at, s.Action)
	}
	return tw.Flush()
}
