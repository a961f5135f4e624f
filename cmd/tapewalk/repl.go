package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/tapewalk/tapewalk/pkg/interpreter"
	"github.com/tapewalk/tapewalk/pkg/parser"
)

const (
	historyFile = ".tapewalk_history"
	promptMain  = "TAPE> "
	promptCont  = "....> "
	tapeWindow  = 8
)

// runREPL reads programs line by line and runs them against one tape that
// persists until :reset. Input instructions read from the :input buffer.
func runREPL(interp *interpreter.Interpreter) {
	if !*flagQuiet {
		printBanner()
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	input := &strings.Reader{}
	interp.Input = input

	multiLineBuffer := ""
	bracketDepth := 0

	for {
		prompt := promptMain
		if multiLineBuffer != "" {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			multiLineBuffer = ""
			bracketDepth = 0
			continue
		}
		if err != nil {
			fmt.Println()
			return
		}

		if multiLineBuffer == "" {
			if quit, handled := handleCommand(interp, input, line); handled {
				ln.AppendHistory(line)
				if quit {
					return
				}
				continue
			}
		}

		// Track bracket depth for multi-line input
		for _, op := range parser.Filter(line) {
			switch op.Char() {
			case '[':
				bracketDepth++
			case ']':
				bracketDepth--
			}
		}

		multiLineBuffer += line + "\n"

		if bracketDepth <= 0 {
			if strings.TrimSpace(multiLineBuffer) != "" {
				ln.AppendHistory(strings.ReplaceAll(strings.TrimSpace(multiLineBuffer), "\n", " "))
				executeREPL(interp, multiLineBuffer)
			}
			multiLineBuffer = ""
			bracketDepth = 0
		}
	}
}

// handleCommand runs a :command line. It reports whether the REPL should
// exit and whether the line was a command at all.
func handleCommand(interp *interpreter.Interpreter, input *strings.Reader, line string) (quit, handled bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false, true
	}
	if !strings.HasPrefix(trimmed, ":") {
		return false, false
	}

	name, arg, _ := strings.Cut(trimmed, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":help", ":h", ":?":
		printHelp()

	case ":quit", ":q", ":exit":
		fmt.Println("Goodbye!")
		return true, true

	case ":tape", ":t":
		fmt.Println(interp.TapeString(tapeWindow))

	case ":reset", ":r":
		interp.Reset()
		fmt.Println("Tape cleared.")

	case ":debug", ":d":
		setTracing(interp, !interp.Debug)
		fmt.Printf("Debug mode: %v\n", interp.Debug)

	case ":cells":
		printCells(interp)

	case ":strip":
		fmt.Println(parser.Strip(arg))

	case ":strict":
		interp.Strict = !interp.Strict
		fmt.Printf("Strict mode: %v\n", interp.Strict)

	case ":input", ":i":
		input.Reset(arg)
		fmt.Printf("Input buffer: %d bytes\n", len(arg))

	case ":gas":
		if arg == "" {
			fmt.Println(interp.GasString())
			break
		}
		gas, err := strconv.Atoi(arg)
		if err != nil || gas < 0 {
			fmt.Println("Usage: :gas <n>")
			break
		}
		interp.SetGas(gas)
		fmt.Printf("Gas limit set to %d\n", gas)

	case ":load", ":l":
		if arg == "" {
			fmt.Println("Usage: :load <filename>")
			break
		}
		interp.Refuel()
		if err := runFile(interp, arg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		fmt.Println()

	default:
		fmt.Printf("Unknown command %s. Type :help for commands.\n", name)
	}
	return false, true
}

func executeREPL(interp *interpreter.Interpreter, source string) {
	interp.Refuel()
	if err := interp.RunSource("<repl>", source); err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		return
	}
	if interp.Debug {
		fmt.Println()
		fmt.Println(interp.TapeString(tapeWindow))
		fmt.Printf("  %s\n", interp.GasString())
	}
}

// setTracing switches instruction tracing and moves the handler level with
// it, so traces are visible whatever level was configured.
func setTracing(interp *interpreter.Interpreter, on bool) {
	interp.Debug = on
	if on {
		logLevel.Set(interpreter.LevelTrace)
		return
	}
	logLevel.Set(configuredLevel)
}

// printCells lists every non-zero cell on the tape.
func printCells(interp *interpreter.Interpreter) {
	n := 0
	for idx, v := range interp.Memory.Cells() {
		if v == 0 {
			continue
		}
		fmt.Printf("  [%d] = %d\n", idx, v)
		n++
	}
	fmt.Printf("%d non-zero of %d cells\n", n, interp.Memory.Len())
}

func printBanner() {
	fmt.Print(`
tapewalk - eight-command tape language
Type :help for commands, :quit to exit
`)
}

func printHelp() {
	fmt.Print(`
Commands:
  :help, :h, :?    Show this help
  :quit, :q        Exit
  :tape, :t        Show the cells around the pointer
  :reset, :r       Clear the tape
  :debug, :d       Toggle instruction tracing
  :cells           List every non-zero cell
  :strip <code>    Show code with comments removed
  :strict          Toggle rejection of unclosed loops
  :input <text>    Set the bytes read by ,
  :load <file>     Run a file against the current tape
  :gas [n]         Show or set the step limit (0 = unlimited)

Language:
  + -              Increment / decrement the current cell
  > <              Move right (grows the tape) / left (wraps at 0)
  . ,              Write the cell as a character / read one byte
  [ ... ]          Repeat while the current cell is non-zero
  anything else    Comment

Example:
  ++++++++[>++++++++<-]>+.
`)
}
