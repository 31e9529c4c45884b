package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var ErrInputClosed = errors.New("input closed")

const (
	msgInvalidMove   = "Invalid move. Choose an empty cell 1-9."
	msgInvalidChoice = "Invalid choice."
	msgDraw          = "It's a draw!"
	msgHumanWins     = "You win!"
	msgComputerWins  = "Computer wins!"
)

type inputLine struct {
	text string
	err  error
}

// Console plays a game on a line-oriented terminal.
type Console struct {
	logger     *slog.Logger
	controller *tictactoe.Controller

	in          *bufio.Scanner
	lines       chan inputLine
	startReader sync.Once

	out    io.Writer
	styles styles
}

func New(logger *slog.Logger, controller *tictactoe.Controller, in io.Reader, out io.Writer) *Console {
	return &Console{
		logger:     logger.With("component", "console"),
		controller: controller,
		in:         bufio.NewScanner(in),
		lines:      make(chan inputLine),
		out:        out,
		styles:     newStyles(lipgloss.NewRenderer(out)),
	}
}

// Run shows the mode menu and plays one game.
func (that *Console) Run(ctx context.Context) error {
	that.println("Tic-Tac-Toe")
	that.println("1) Player vs Player")
	that.println("2) Player vs Computer (Unbeatable)")

	for {
		choice, err := that.prompt(ctx, "Choose mode (1/2): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			_, err = that.PlayPvP(ctx)
			return err
		case "2":
			answer, err := that.prompt(ctx, "Do you want to go first? (y/n): ")
			if err != nil {
				return err
			}

			_, err = that.PlayVsEngine(ctx, strings.EqualFold(answer, "y"))
			return err
		default:
			that.println(msgInvalidChoice)
		}
	}
}

// PlayPvP alternates two humans at the same terminal.
func (that *Console) PlayPvP(ctx context.Context) (entity.Outcome, error) {
	that.println("Tic-Tac-Toe (Player vs Player)")

	game := newSession(entity.ModePvP)

	for {
		that.print(that.styles.renderBoard(game.Board))
		that.println(fmt.Sprintf("Turn: %s", game.Turn))

		outcome, err := that.humanTurn(ctx, game)
		if err != nil {
			return outcome, err
		}

		if outcome.IsTerminal() {
			that.print(that.styles.renderBoard(game.Board))
			that.announcePvP(outcome)
			return outcome, nil
		}
	}
}

// PlayVsEngine - the side that moves first plays X.
func (that *Console) PlayVsEngine(ctx context.Context, humanFirst bool) (entity.Outcome, error) {
	that.println("Tic-Tac-Toe (You vs Computer)")

	game := newSession(entity.ModeBot)
	game.BotMark = entity.PlayerX
	if humanFirst {
		game.BotMark = entity.PlayerO
	}

	log := that.logger.With("bot_mark", game.BotMark)

	for {
		var (
			outcome entity.Outcome
			err     error
		)

		if game.IsBotTurn() {
			that.println(fmt.Sprintf("Computer's turn (%s)", game.BotMark))

			var cell int
			cell, outcome, err = that.controller.MakeEngineTurn(game)
			if err != nil {
				return outcome, fmt.Errorf("engine turn: %w", err)
			}

			log.Debug("engine moved", "cell", cell)
		} else {
			that.print(that.styles.renderBoard(game.Board))
			that.println(fmt.Sprintf("Your turn (%s)", game.BotMark.Opponent()))

			outcome, err = that.humanTurn(ctx, game)
			if err != nil {
				return outcome, err
			}
		}

		if outcome.IsTerminal() {
			that.print(that.styles.renderBoard(game.Board))
			that.announceVsEngine(outcome, game.BotMark)
			return outcome, nil
		}
	}
}

// humanTurn re-prompts until the controller accepts a move.
func (that *Console) humanTurn(ctx context.Context, game *entity.Game) (entity.Outcome, error) {
	for {
		answer, err := that.prompt(ctx, "Enter position (1-9): ")
		if err != nil {
			return entity.OngoingOutcome(), err
		}

		position, err := parsePosition(answer)
		if err != nil {
			that.println(msgInvalidMove)
			continue
		}

		outcome, err := that.controller.MakeTurn(game, game.Turn, position-1)
		if errors.Is(err, apperror.ErrInvalidMove) {
			that.println(msgInvalidMove)
			continue
		}

		if err != nil {
			return outcome, fmt.Errorf("failed to make turn: %w", err)
		}

		return outcome, nil
	}
}

func (that *Console) announcePvP(outcome entity.Outcome) {
	if outcome.Result == entity.Draw {
		that.println(msgDraw)
		return
	}

	that.println(fmt.Sprintf("%s wins!", outcome.Winner))
}

func (that *Console) announceVsEngine(outcome entity.Outcome, botMark entity.Mark) {
	switch {
	case outcome.Result == entity.Draw:
		that.println(msgDraw)
	case outcome.Winner == botMark:
		that.println(msgComputerWins)
	default:
		that.println(msgHumanWins)
	}
}

// prompt waits for the next input line or for ctx to be canceled, whichever comes first.
func (that *Console) prompt(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	that.print(question)

	that.startReader.Do(func() {
		go that.readLines()
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-that.lines:
		if !ok {
			return "", ErrInputClosed
		}

		if line.err != nil {
			return "", fmt.Errorf("failed to read input: %w", line.err)
		}

		return strings.TrimSpace(line.text), nil
	}
}

// readLines forwards scanned lines to prompt until the input ends.
func (that *Console) readLines() {
	defer close(that.lines)

	for that.in.Scan() {
		that.lines <- inputLine{text: that.in.Text()}
	}

	if err := that.in.Err(); err != nil {
		that.lines <- inputLine{err: err}
	}
}

func (that *Console) print(s string) {
	if _, err := io.WriteString(that.out, s); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

func (that *Console) println(s string) {
	that.print(s + "\n")
}

var errNotAPosition = errors.New("not a position")

// parsePosition accepts plain digits only, so signs and spaces are rejected.
func parsePosition(answer string) (int, error) {
	if answer == "" {
		return 0, errNotAPosition
	}

	for _, r := range answer {
		if !unicode.IsDigit(r) {
			return 0, fmt.Errorf("%w: %q", errNotAPosition, answer)
		}
	}

	return strconv.Atoi(answer)
}

func newSession(mode string) *entity.Game {
	game := entity.NewGame("", mode)
	game.Status = entity.StatusOngoing

	return game
}
