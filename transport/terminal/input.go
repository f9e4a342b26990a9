package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-link/internal/usecase"
)

const helpText = "commands: 1-9 play a cell, n new game, s share link, p <link> paste opponent link, q quit"

// Input reads one command per line.
type Input struct {
	renderer *Renderer
	// paste is nil when the transport does not take pasted links.
	paste func(raw string) error
}

func NewInput(renderer *Renderer, paste func(raw string) error) *Input {
	return &Input{
		renderer: renderer,
		paste:    paste,
	}
}

// Run forwards intents until the user quits, r is exhausted or ctx is done.
func (that *Input) Run(ctx context.Context, r io.Reader, intents chan<- usecase.Intent) error {
	scanner := bufio.NewScanner(r)
	that.renderer.Println(helpText)

	for scanner.Scan() {
		intent, quit, ok := that.parse(scanner.Text())
		if quit {
			return nil
		}

		if !ok {
			continue
		}

		select {
		case intents <- intent:
		case <-ctx.Done():
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func (that *Input) parse(line string) (usecase.Intent, bool, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return usecase.Intent{}, false, false
	}

	switch command := strings.ToLower(fields[0]); command {
	case "q", "quit", "exit":
		return usecase.Intent{}, true, false
	case "n", "new":
		return usecase.Intent{Kind: usecase.IntentNewGame}, false, true
	case "s", "share":
		return usecase.Intent{Kind: usecase.IntentShare}, false, true
	case "p", "paste":
		return that.pasted(fields[1:])
	case "h", "help", "?":
		that.renderer.Println(helpText)
		return usecase.Intent{}, false, false
	default:
		cell, err := strconv.Atoi(command)
		if err != nil || cell < 1 || cell > 9 {
			that.renderer.Println("unknown command " + strconv.Quote(fields[0]) + "; " + helpText)
			return usecase.Intent{}, false, false
		}

		return usecase.MoveIntent(cell - 1), false, true
	}
}

func (that *Input) pasted(args []string) (usecase.Intent, bool, bool) {
	if that.paste == nil {
		that.renderer.Println("pasting links is only available with the url transport")
		return usecase.Intent{}, false, false
	}

	if len(args) != 1 {
		that.renderer.Println("usage: p <link>")
		return usecase.Intent{}, false, false
	}

	if err := that.paste(args[0]); err != nil {
		that.renderer.Println("could not use that link: " + err.Error())
		return usecase.Intent{}, false, false
	}

	return usecase.Intent{Kind: usecase.IntentRefresh}, false, true
}
