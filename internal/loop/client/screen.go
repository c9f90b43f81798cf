package client

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tomz197/coincatch/internal/draw"
	"github.com/tomz197/coincatch/internal/loop"
	"github.com/tomz197/coincatch/internal/loop/config"
	"github.com/tomz197/coincatch/internal/object"
)

// Draw implements loop.Frame.
func (c *Client) Draw() error {
	// On phase, inactivity or shutdown transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	phase := c.session.Phase()
	if !c.state.drawnOnce || phase != c.state.prevPhase ||
		c.state.isInactive != c.state.wasInactive || c.state.shuttingDown != c.state.wasShutdown {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
		c.state.prevPhase = phase
		c.state.wasInactive = c.state.isInactive
		c.state.wasShutdown = c.state.shuttingDown
		c.state.drawnOnce = true
	}

	c.canvas.Clear()

	ctx := object.DrawContext{
		Canvas: c.canvas,
		Writer: c.chunkWriter,
	}

	if !c.state.shuttingDown && !c.state.isInactive {
		for _, coin := range c.session.Coins() {
			if err := coin.Draw(ctx); err != nil {
				return err
			}
		}
		if err := c.session.Basket().Draw(ctx); err != nil {
			return err
		}
		if err := c.effects.Draw(ctx); err != nil {
			return err
		}
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	// Draw UI overlay
	if err := c.drawUI(ctx); err != nil {
		return err
	}

	return c.chunkWriter.Flush()
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(ctx object.DrawContext) error {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth/2 + 1
	centerY := termHeight / 2

	if c.state.shuttingDown {
		return c.drawShutdownScreen(ctx, centerX, centerY)
	}
	if c.state.isInactive {
		return c.drawInactivityScreen(ctx, centerX, centerY)
	}

	switch c.session.Phase() {
	case loop.PhaseIdle:
		return c.drawStartScreen(ctx, centerX, centerY)
	case loop.PhaseRunning:
		c.drawPlayingHUD(termWidth, termHeight)
	case loop.PhaseLevelTransition:
		c.drawPlayingHUD(termWidth, termHeight)
		c.drawLevelBanner(centerX, centerY)
	case loop.PhaseGameOver:
		return c.drawGameOverScreen(ctx, centerX, centerY)
	}
	return nil
}

// drawLines draws centered lines starting at row y.
func drawLines(ctx object.DrawContext, centerX, y int, lines ...string) error {
	for i, line := range lines {
		if line == "" {
			continue
		}
		if err := object.Centered(centerX, y+i, line).Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// titleArt is the figlet "small" rendering of the game name.
var titleArt = []string{
	`  ___ ___ ___ _  _    ___   _ _____ ___ _  _ `,
	` / __/ _ \_ _| \| |  / __| /_\_   _/ __| || |`,
	`| (_| (_) | || .' | | (__ / _ \| || (__| __ |`,
	` \___\___/___|_|\_|  \___/_/ \_\_| \___|_||_|`,
}

// drawStartScreen draws the title and the autostart countdown.
func (c *Client) drawStartScreen(ctx object.DrawContext, centerX, centerY int) error {
	top := centerY - 7
	if c.canvas.TerminalWidth() >= len(titleArt[0]) {
		if err := drawLines(ctx, centerX, top, titleArt...); err != nil {
			return err
		}
	} else if err := drawLines(ctx, centerX, top+2, "COIN CATCH"); err != nil {
		return err
	}

	mode := "Catch the falling coins!"
	if c.session.Settings().Miss == config.MissLimited {
		mode = fmt.Sprintf("Miss %d in one level and it's over", c.session.Settings().MaxMisses)
	}

	controls := "A D / < >  . . . . Move"
	if c.session.Settings().VerticalMove {
		controls = "WASD / arrows  . . Move"
	}

	remaining := c.session.AutostartRemaining() / 1000
	return drawLines(ctx, centerX, top+len(titleArt)+1,
		mode,
		"",
		controls,
		"Mouse  . . . . . . Follow",
		"E  . . . . .  End round",
		"Q  . . . . . . . . Quit",
		"",
		fmt.Sprintf("Starting in %.1fs", remaining),
	)
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen (since we no longer clear every frame).
func (c *Client) drawPlayingHUD(termWidth, termHeight int) {
	cw := c.chunkWriter
	score := c.session.Score()

	scoreText := fmt.Sprintf("Score: %-6d", score.Round)
	cw.WriteAt(2, 1, scoreText)

	bestText := fmt.Sprintf("Best: %6d", score.Best)
	cw.WriteAt(termWidth-len(bestText), 1, bestText)

	walletText := fmt.Sprintf("$ %-12s", formatThousands(score.Lifetime))
	cw.WriteAt(2, 2, draw.ColorYellow+walletText+draw.ColorReset)

	settings := c.session.Settings()
	if settings.Spawn == config.SpawnLeveled {
		levelText := fmt.Sprintf("Level %-3d", c.session.Level())
		cw.WriteAt(termWidth-len(levelText), 2, levelText)
	}
	if settings.Miss == config.MissLimited {
		missText := missMarks(c.session.Misses(), settings.MaxMisses)
		cw.WriteAt(termWidth-len(missText), 3, missText)
	}

	playersText := fmt.Sprintf("Players: %-4d", c.server.Players())
	cw.WriteAt(2, termHeight, playersText)
}

// missMarks renders the miss count as X for used and . for remaining.
func missMarks(misses, limit int) string {
	b := make([]byte, 0, limit)
	for i := 0; i < limit; i++ {
		if i < misses {
			b = append(b, 'X')
		} else {
			b = append(b, '.')
		}
	}
	return string(b)
}

// drawLevelBanner pulses the new level in the middle of the play area.
func (c *Client) drawLevelBanner(centerX, centerY int) {
	label := fmt.Sprintf(" LEVEL %d ", c.session.Level())
	col := centerX - len(label)/2
	c.canvas.MarkTextDirty(col, centerY, len(label))
	if !object.Blink(c.session.BannerRemaining(), 125) {
		return
	}
	c.chunkWriter.WriteAt(col, centerY, draw.ColorYellow+label+draw.ColorReset)
}

// drawGameOverScreen shows the final score and the restart prompt.
func (c *Client) drawGameOverScreen(ctx object.DrawContext, centerX, centerY int) error {
	gameOverArt := []string{
		`  ___   _   __  __ ___    _____   _____ ___ `,
		` / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \`,
		`| (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   /`,
		` \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\`,
	}

	top := centerY - 6
	if c.canvas.TerminalWidth() >= len(gameOverArt[0]) {
		if err := drawLines(ctx, centerX, top, gameOverArt...); err != nil {
			return err
		}
	} else if err := drawLines(ctx, centerX, top+2, "GAME OVER"); err != nil {
		return err
	}

	score := c.session.Score()
	lines := []string{
		fmt.Sprintf("Score: %d", score.Round),
		fmt.Sprintf("Best: %d", score.Best),
		fmt.Sprintf("Coins collected: $%s", formatThousands(score.Lifetime)),
	}
	if c.session.Settings().Spawn == config.SpawnLeveled {
		lines = append(lines, fmt.Sprintf("Reached level %d", c.session.Level()))
	}
	if err := drawLines(ctx, centerX, top+len(gameOverArt)+1, lines...); err != nil {
		return err
	}

	if !object.Blink(c.session.Now(), 600) {
		return nil
	}
	prompt := object.Centered(centerX, top+len(gameOverArt)+len(lines)+2, ">>  Press SPACE to Play Again  <<")
	prompt.Color = draw.ColorYellow
	return prompt.Draw(ctx)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(ctx object.DrawContext, centerX, centerY int) error {
	left := int(config.InactivityDisconnectUser - time.Since(c.lastInput).Seconds())
	return drawLines(ctx, centerX, centerY-2,
		"INACTIVITY WARNING",
		"",
		fmt.Sprintf("Disconnecting in %d seconds.", left),
		"",
		"Press any key to continue",
	)
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(ctx object.DrawContext, centerX, centerY int) error {
	remaining := int(c.state.shutdownTimer) + 1
	return drawLines(ctx, centerX, centerY-3,
		"SERVER SHUTTING DOWN",
		"",
		"Your scores are saved.",
		"Please reconnect in a moment.",
		"",
		fmt.Sprintf("Disconnecting in %d seconds...", remaining),
		"",
		"Press Q to disconnect now",
	)
}

// formatThousands renders n with comma thousands separators.
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3+1)
	if neg {
		out = append(out, '-')
	}
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}
