package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/park285/gridchess/internal/board"
	appcfg "github.com/park285/gridchess/internal/config"
	"github.com/park285/gridchess/internal/fenio"
	"github.com/park285/gridchess/internal/msgcat"
	"github.com/park285/gridchess/internal/obslog"
	"github.com/park285/gridchess/internal/render"
	"go.uber.org/zap"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	// stdout belongs to the board; console logs go to stderr.
	logger, err := obslog.Build(cfg.Log, os.Stderr)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	restore := obslog.Replace(logger)
	defer restore()
	defer func() { _ = logger.Sync() }()

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		log.Fatalf("messages init error: %v", err)
	}

	game := board.NewGame()
	if cfg.StartFEN != "" {
		grid, err := fenio.FromFEN(cfg.StartFEN)
		if err != nil {
			log.Fatalf("START_FEN: %v", err)
		}
		game = board.NewGameFrom(grid)
	}

	play(os.Stdin, os.Stdout, game, cat)
}

// play runs the prompt loop until the king falls or input ends.
func play(in io.Reader, out io.Writer, game *board.Game, cat *msgcat.Catalog) {
	fmt.Fprintln(out, cat.Text("game.start", nil, "Start game"))
	fmt.Fprint(out, render.Text(game.Board()))

	sc := bufio.NewScanner(in)
	moves := 0
	for !game.GameOver() {
		fmt.Fprint(out, cat.Text("game.prompt", nil, "Enter your move (example: b2,b3): "))
		if !sc.Scan() {
			fmt.Fprintln(out)
			fmt.Fprintln(out, cat.Text("game.bye", nil, "Input closed, leaving the game."))
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		res, err := game.Apply(line)
		if err != nil {
			obslog.L().Info("grid_move_rejected",
				zap.String("input", line),
				zap.String("reason", board.Reason(err)),
			)
			fmt.Fprintln(out, cat.MoveAdvice(err))
			continue
		}
		moves++
		fmt.Fprintln(out, cat.MoveSummary(res))
		fmt.Fprint(out, render.Text(game.Board()))
	}
	if game.GameOver() {
		fmt.Fprintln(out, cat.Text("game.over", nil, "King captured! Game over."))
	}
	obslog.L().Info("grid_console_done", zap.Int("moves", moves), zap.Bool("game_over", game.GameOver()))
}
