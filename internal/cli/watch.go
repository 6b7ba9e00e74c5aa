package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/julianstephens/tminus/internal/constants"
	"github.com/julianstephens/tminus/internal/logger"
	"github.com/julianstephens/tminus/internal/models"
	"github.com/julianstephens/tminus/internal/poller"
)

type WatchCmd struct{}

// Run polls once a second and asks about each countdown as it completes.
func (cmd *WatchCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := poller.New(a.Tracker)
	ctx.printf("Watching %d active countdowns (Ctrl+C to stop)...\n", len(a.Tracker.ActiveCountdowns()))

	err = p.Run(runCtx, constants.PollInterval, func(c models.Countdown) {
		if err := ctx.resolveCompletion(p, c); err != nil {
			logger.Error("failed to resolve completion", "id", c.ID, "error", err)
			ctx.printf("Error: %v\n", err)
			p.Dismiss()
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// resolveCompletion asks whether the pending countdown was completed and,
// if not, whether to extend or cancel it.
func (c *Context) resolveCompletion(p *poller.Poller, cd models.Countdown) error {
	c.printf("\n⏰ %s has reached its target.\n", cd.Name)
	done, err := c.confirm("Did you complete it?")
	if err != nil {
		p.Dismiss()
		return err
	}
	if done {
		unlocked, err := p.Confirm()
		if err != nil {
			return err
		}
		c.println("✓ Countdown complete")
		if unlocked {
			c.println(unlockMessage)
		}
		return nil
	}

	answer, err := c.prompt(fmt.Sprintf("Extend by how many days? (default %d, 'c' to cancel it): ", c.Config.ExtendDays))
	if err != nil {
		p.Dismiss()
		return err
	}
	if strings.EqualFold(answer, "c") {
		if err := p.Cancel(); err != nil {
			return err
		}
		c.println("Countdown canceled")
		return nil
	}

	// Anything unparseable extends by the configured default
	days, err := strconv.Atoi(answer)
	if err != nil || days < 1 {
		days = c.Config.ExtendDays
	}
	if err := p.Extend(days); err != nil {
		return err
	}
	c.printf("Extended by %d days\n", days)
	return nil
}
