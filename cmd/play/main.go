package main

import (
	"flag"
	"fmt"
	"hash/maphash"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/fieldmine/minesweeper/internal/cli"
	"github.com/fieldmine/minesweeper/internal/mines"
)

var log = logrus.New()

var (
	width   int
	height  int
	mineNum int
	verbose bool
)

func init() {
	flag.IntVar(&width, "width", 16, "board width")
	flag.IntVar(&height, "height", 16, "board height")
	flag.IntVar(&mineNum, "mines", 40, "number of mines")
	flag.BoolVar(&verbose, "v", false, "debug logging")
}

// setupLogging sends all log output to a rotating file so the board
// owns the terminal.
func setupLogging() {
	logLevel := logrus.InfoLevel
	if verbose {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetOutput(io.Discard)

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   "minesweeper.log",
		MaxSize:    10, // Mb
		MaxBackups: 3,
		MaxAge:     7, // days
		Level:      logLevel,
		Formatter:  &logrus.TextFormatter{},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to set up log file:", err)
		os.Exit(1)
	}
	log.AddHook(hook)

	mines.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func main() {
	flag.Parse()
	setupLogging()

	params := mines.GameParams{Width: width, Height: height, MineCount: mineNum}
	rnd := rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))

	game, err := mines.NewGame(params, rnd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.WithFields(logrus.Fields{"seed": params.Seed()}).Info("game created")

	if err := cli.Run(game, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
