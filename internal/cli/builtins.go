package cli

import (
	"fmt"
	"strings"

	"github.com/termcmd/termcmd/internal/dispatch"
)

// Parameter signatures of the built-in commands. They share the user
// commands' signature language.
const (
	helpParams = "s"
	echoParams = "ss"
)

// runBuiltin handles the engine's own commands. It reports whether name
// was one of them.
func (e *Engine) runBuiltin(name string, tok *dispatch.Tokenizer) bool {
	switch {
	case equalCommand(name, "help"):
		dispatch.ParseParams(helpParams, tok, &e.args)
		e.cmdHelp()
	case equalCommand(name, "hiddenhelp"):
		dispatch.ParseParams("", tok, &e.args)
		e.cmdHiddenHelp()
	case equalCommand(name, "echo"):
		dispatch.ParseParams(echoParams, tok, &e.args)
		e.cmdEcho()
	case equalCommand(name, "exit") && e.cfg.EnableExit:
		dispatch.ParseParams("", tok, &e.args)
		e.cmdExit()
	default:
		return false
	}
	return true
}

func equalCommand(name, want string) bool {
	return len(name) == len(want) && strings.EqualFold(name, want)
}

// cmdHelp prints the command table, or detailed help for one command.
func (e *Engine) cmdHelp() {
	if e.args.Count > 0 {
		if !e.commandHelp(e.args.V[0].Str) {
			e.warnf("Command '%s' not found", e.args.V[0].Str)
		}
		return
	}
	e.genericHelp(false)
	e.infof("\r\nCommand specific help is displayed with 'help <command>'")
}

// cmdHiddenHelp lists only the hidden commands.
func (e *Engine) cmdHiddenHelp() {
	e.genericHelp(true)
	e.infof("\r\nCommand specific help is displayed with 'help <command>'")
}

// cmdEcho reports or changes the echo setting. "echo off off" also stops
// control-character output entirely.
func (e *Engine) cmdEcho() {
	if e.args.Count == 0 {
		if e.ed.Echo() {
			e.infof("echo on")
		} else {
			e.infof("echo off")
		}
		return
	}
	switch e.args.V[0].Str {
	case "on":
		e.ed.SetEcho(true)
		e.infof("echo on")
	case "off":
		e.ed.SetEcho(false)
		if e.args.Count == 2 && e.args.V[1].Str == "off" {
			e.ed.SetShowCtrl(false)
		}
		e.infof("echo off")
	default:
		e.warnf("Invalid configuration choice. Usage: echo on/off")
	}
}

// cmdExit flags the session for shutdown; the transport owner decides
// what shutdown means.
func (e *Engine) cmdExit() {
	if e.args.Count > 0 {
		e.warnf("Incorrect usage")
		return
	}
	e.exitRequested = true
}

// genericHelp prints the name/synopsis table for the visible commands, or
// for the hidden ones when showHidden is set.
func (e *Engine) genericHelp(showHidden bool) {
	maxLen := 0
	for i := range e.table {
		if n := len(e.table[i].Name); n > maxLen {
			maxLen = n
		}
	}
	e.putBold(fmt.Sprintf("\r\n\t %-*s  %s\r\n", maxLen+1, "COMMANDS", "PARAMETERS"))
	for i := range e.table {
		c := &e.table[i]
		if c.Hidden != showHidden {
			continue
		}
		e.out.PutString(fmt.Sprintf("\t  %-*s  %s\r\n", maxLen+1, c.Name, c.Synopsis))
	}
}

// commandHelp prints the COMMAND/SYNOPSIS/DESCRIPTION block for one
// command. It reports whether the command exists.
func (e *Engine) commandHelp(name string) bool {
	c := dispatch.Match(e.table, name)
	if c == nil {
		return false
	}
	e.ed.Newline()
	e.putBold("\tCOMMAND:\r\n")
	e.out.PutString(fmt.Sprintf("\t  %s - %s\r\n", c.Name, c.Summary))
	e.putBold("\n\tSYNOPSIS:\r\n")
	e.out.PutString(fmt.Sprintf("\t  %s %s", c.Name, c.Synopsis))
	e.ed.Newline()
	if c.Description != "" || c.Desc != nil {
		e.putBold("\n\tDESCRIPTION:\r\n")
		if c.Description != "" {
			e.out.PutString(c.Description)
		}
		if c.Desc != nil {
			e.out.PutString(c.Desc())
		}
		e.ed.Newline()
	}
	return true
}
