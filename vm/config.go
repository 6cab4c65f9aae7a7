package vm

import (
	goIO "io"

	"github.com/sirupsen/logrus"
)

// Config holds the settings a VM is built with.
type Config struct {
	// Origin is the initial program counter.
	Origin Word
	// Prompt is written by the IN trap before it reads a character.
	Prompt string
	// HaltMessage is written by the HALT trap. Empty means print nothing.
	HaltMessage string
	// Logger receives the instruction trace at debug level. Nil discards.
	Logger *logrus.Logger
}

func DefaultConfig() Config {
	return Config{
		Origin:      UserSpaceStart,
		Prompt:      "Enter a character: ",
		HaltMessage: "HALT\n",
	}
}

func (c Config) logger() *logrus.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	l := logrus.New()
	l.SetOutput(goIO.Discard)
	return l
}
