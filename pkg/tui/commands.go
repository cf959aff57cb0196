package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ksysoev/rulebook/pkg/core"
	"github.com/ksysoev/rulebook/pkg/webapp"
)

const helpText = ":goto RULEID [CDOC]  :page CDOC N  :tab ID  :filter TYPE on|off  :fold ID  :help"

var errUnknownCommand = errors.New("unknown command")

// parseCommand turns an input line into an action. Lines that do not start
// with ':' are searches. A nil action with a nil error asks for help.
func parseCommand(line string) (func(*webapp.App) error, error) {
	line = strings.TrimSpace(line)

	cmd, ok := strings.CutPrefix(line, ":")
	if !ok {
		return func(app *webapp.App) error {
			app.Search(line)
			return nil
		}, nil
	}

	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command: %w", errUnknownCommand)
	}

	args := fields[1:]

	switch fields[0] {
	case "help", "h":
		return nil, nil
	case "goto", "g":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("usage: :goto RULEID [CDOC]")
		}

		cdocID := ""
		if len(args) == 2 {
			cdocID = args[1]
		}

		return func(app *webapp.App) error {
			return app.GoTo(cdocID, args[0], "")
		}, nil
	case "page", "p":
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: :page CDOC N")
		}

		n, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid page number %q", args[1])
		}

		return func(app *webapp.App) error {
			app.ShowPage(args[0], n)
			return nil
		}, nil
	case "tab", "t":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: :tab ID")
		}

		return func(app *webapp.App) error {
			app.ActivateTab(navGroup, args[0])
			return nil
		}, nil
	case "filter", "f":
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: :filter TYPE on|off")
		}

		var show bool

		switch args[1] {
		case "on", "show":
			show = true
		case "off", "hide":
		default:
			return nil, fmt.Errorf("invalid filter state %q", args[1])
		}

		return func(app *webapp.App) error {
			return app.SetSRFilter(core.SRType(args[0]), show)
		}, nil
	case "fold":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: :fold ID")
		}

		return func(app *webapp.App) error {
			return app.ToggleCollapser(args[0])
		}, nil
	default:
		return nil, fmt.Errorf("%s: %w", fields[0], errUnknownCommand)
	}
}
