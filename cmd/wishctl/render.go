package main

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/vncsmyrnk/wishpool/internal/core/board"
)

type printNotifier struct {
	mu     sync.Mutex
	out    io.Writer
	failed bool
}

func (n *printNotifier) Notify(notice board.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if notice.Kind == board.NoticeError {
		n.failed = true
	}
	fmt.Fprintf(n.out, "[%s] %s\n", notice.Kind, notice.Message)
}

func (n *printNotifier) Celebrate(wishID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "*** thanks for voting on %s ***\n", wishID)
}

func printBoard(out io.Writer, views []board.ItemView, admin bool) {
	if admin {
		fmt.Fprintln(out, "(admin)")
	}
	if len(views) == 0 {
		fmt.Fprintln(out, "no wishes yet")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VOTES\tID\tTITLE\tFLAGS")
	for _, v := range views {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", v.Votes, v.ID, v.Title, flags(v))
	}
	tw.Flush()
}

func flags(v board.ItemView) string {
	var out []byte
	add := func(on bool, s string) {
		if !on {
			return
		}
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s...)
	}
	add(v.Owner, "mine")
	add(v.Voted, "voted")
	add(v.Pending, "pending")
	add(v.Deleting, "deleting")
	return string(out)
}
