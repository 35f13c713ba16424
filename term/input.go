package term

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/unictris/game"
)

// Pump forwards key presses from screen to actions until ctx is done or
// the screen is finalized. Resize events request a full redraw. actions
// is closed on return.
func Pump(ctx context.Context, screen tcell.Screen, actions chan<- game.Action) error {
	defer close(actions)

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	for {
		var ev tcell.Event
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}
			ev = e
		}

		action := game.ActionNone
		switch ev := ev.(type) {
		case *tcell.EventKey:
			action = ActionFor(ev)
		case *tcell.EventResize:
			action = game.Redraw
		}
		if action == game.ActionNone {
			continue
		}

		select {
		case actions <- action:
		case <-ctx.Done():
			return nil
		}
	}
}
