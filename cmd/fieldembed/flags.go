package main

import (
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/jluo41/FieldEmbed/internal/logger"
)

var (
	logLevel  string
	logFormat string
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
	}
}

func buildLogger(w io.Writer) logger.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := logger.ParseLevel(logLevel)
	switch logFormat {
	case "json":
		return logger.JSON(w, level)
	case "text":
		return logger.Default()
	default:
		return logger.Pretty(w, level)
	}
}
