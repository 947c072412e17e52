package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/pulsechat/internal/client/live"
	"github.com/dmitrijs2005/pulsechat/internal/client/views"
)

// lineFeed reads stdin one line at a time on its own goroutine. After each
// line it waits for a signal on next before reading again, so command
// handlers can prompt on the same reader without racing it.
type lineFeed struct {
	lines chan string
	next  chan struct{}
}

func startLineFeed(ctx context.Context, r *bufio.Reader) *lineFeed {
	f := &lineFeed{lines: make(chan string), next: make(chan struct{}, 1)}
	go func() {
		defer close(f.lines)
		for {
			line, err := r.ReadString('\n')
			if err != nil && line == "" {
				return
			}
			select {
			case f.lines <- strings.TrimRight(line, "\r\n"):
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
			select {
			case <-f.next:
			case <-ctx.Done():
				return
			}
		}
	}()
	return f
}

// loop is the only goroutine that touches view state. Input lines, history
// results and live events all funnel through it.
func (a *App) loop(ctx context.Context) error {
	feed := startLineFeed(ctx, a.reader)

	for {
		fmt.Fprintf(a.out, "pulsechat (%s)> ", a.status())

		select {
		case <-ctx.Done():
			return nil

		case line, ok := <-feed.lines:
			if !ok {
				fmt.Fprintln(a.out, "Bye!")
				return nil
			}
			if dispatch(ctx, a, line) {
				return nil
			}
			feed.next <- struct{}{}

		case res := <-a.history:
			if a.conv.ApplyHistory(res.ticket, res.msgs, res.err) {
				fmt.Fprintln(a.out)
				a.redraw()
			}

		case ev := <-a.live.Events():
			fmt.Fprintln(a.out)
			a.handleEvent(ctx, ev)
		}
	}
}

func (a *App) handleEvent(ctx context.Context, ev live.Event) {
	switch ev.Kind {
	case live.EventClosed:
		a.notices.Error("Live connection lost. Re-open the chat to reconnect.")
		a.redraw()

	case live.EventMessage:
		if a.router.Current() == views.RouteChat && a.conv.Receive(ev.Message) {
			a.redraw()
			return
		}
		// Messages for other conversations are only logged.
		if ev.Message.IsMine(a.session.Current().UserID()) {
			return
		}
		if sender, ok := a.roster.Find(ev.Message.SenderID); ok {
			a.log.Info(ctx, "message received", "from", sender.Username)
		}
	}
}
