package console

import (
	"fmt"
	"strings"
)

// Op is a console operation
type Op string

const (
	OpLoad  Op = "load"
	OpStep  Op = "step"
	OpRun   Op = "run"
	OpStop  Op = "stop"
	OpDo    Op = "do"
	OpReset Op = "reset"
	OpMem   Op = "mem"
	OpScene Op = "scene"
	OpHelp  Op = "help"
	OpQuit  Op = "quit"
)

// Command is a parsed console line
type Command struct {
	Op   Op
	Args []string
}

var aliases = map[string]Op{
	"s":    OpStep,
	"r":    OpRun,
	"q":    OpQuit,
	"exit": OpQuit,
	"?":    OpHelp,
	"m":    OpMem,
}

// ParseLine splits a console line into an operation and its arguments.
// A blank line parses to a zero Command.
func ParseLine(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, nil
	}

	word := strings.ToLower(fields[0])
	op, ok := aliases[word]
	if !ok {
		op = Op(word)
	}
	cmd := Command{Op: op, Args: fields[1:]}

	switch op {
	case OpDo:
		if len(cmd.Args) != 1 {
			return Command{}, fmt.Errorf("usage: do <command>")
		}
	case OpLoad:
		// load with no arguments clears the program
	case OpStep, OpRun, OpStop, OpReset, OpMem, OpScene, OpHelp, OpQuit:
		if len(cmd.Args) != 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", op)
		}
	default:
		return Command{}, fmt.Errorf("unknown console command: %q (type help)", fields[0])
	}
	return cmd, nil
}

const helpText = `load <cmd...>  load a program (e.g. load forward right forward)
step           run the next command
run            run the whole program in the background
stop           stop the running program after its current step
do <cmd>       run one command without moving through the program
reset          put the character back at the start and rewind
mem            show memory
scene          draw the grid
help           show this help
quit           leave the console`
