package net

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/peterkuimelis/biopath/internal/game"
)

// ErrEmptyCommand is returned for a blank input line.
var ErrEmptyCommand = errors.New("empty command")

type verb struct {
	name    string
	aliases []string
	usage   string
}

var verbs = []verb{
	{name: "turn", aliases: []string{"t", "next"}, usage: "turn                 start the next turn"},
	{name: "select", aliases: []string{"s", "sel"}, usage: "select N             select hand card N"},
	{name: "deselect", aliases: []string{"u", "unselect"}, usage: "deselect             clear the selection"},
	{name: "play", aliases: []string{"p"}, usage: "play [N] STAGE       play the selected card (or card N) on STAGE"},
	{name: "discard", aliases: []string{"x", "toss"}, usage: "discard [N]          discard the selected card (or card N)"},
	{name: "accept", aliases: []string{"y", "yes"}, usage: "accept               take the hand refresh"},
	{name: "decline", aliases: []string{"n", "no"}, usage: "decline              keep the current hand"},
	{name: "dismiss", aliases: []string{"ok"}, usage: "dismiss              close the deck peek"},
	{name: "pick", aliases: []string{"k", "take"}, usage: "pick N               draft card N"},
	{name: "chain", aliases: []string{"c"}, usage: "chain                resolve the pending chain advance"},
	{name: "endless", aliases: []string{"e"}, usage: "endless              continue past the turn limit"},
	{name: "restart", aliases: []string{"new"}, usage: "restart              abandon the run and deal a new one"},
	{name: "state", aliases: []string{"look", "l"}, usage: "state                show the board"},
}

// Usage lists the REPL commands, one per line.
func Usage() string {
	var sb strings.Builder
	for _, v := range verbs {
		sb.WriteString("  ")
		sb.WriteString(v.usage)
		sb.WriteByte('\n')
	}
	sb.WriteString("  help                 show this list\n")
	sb.WriteString("  quit                 leave\n")
	return sb.String()
}

// ParseCommand turns a REPL line into protocol messages. Hand and draft
// positions are 1-based on the command line. Verbs and stage names
// tolerate small typos.
func ParseCommand(line string, cat *game.Catalog) ([]ClientMessage, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil, ErrEmptyCommand
	}
	name, err := matchVerb(fields[0])
	if err != nil {
		return nil, err
	}
	args := fields[1:]

	switch name {
	case "turn":
		return single(name, MsgStartTurn, args)
	case "deselect":
		return single(name, MsgDeselect, args)
	case "accept":
		return single(name, MsgAcceptRefresh, args)
	case "decline":
		return single(name, MsgDeclineRefresh, args)
	case "dismiss":
		return single(name, MsgDismissPeek, args)
	case "chain":
		return single(name, MsgChainStep, args)
	case "endless":
		return single(name, MsgEndless, args)
	case "restart":
		return single(name, MsgRestart, args)
	case "state":
		return single(name, MsgState, args)

	case "select", "pick":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: %s N", name)
		}
		idx, err := parsePosition(args[0])
		if err != nil {
			return nil, err
		}
		typ := MsgSelect
		if name == "pick" {
			typ = MsgPick
		}
		return []ClientMessage{{Type: typ, Index: idx}}, nil

	case "discard":
		switch len(args) {
		case 0:
			return []ClientMessage{{Type: MsgDiscard}}, nil
		case 1:
			idx, err := parsePosition(args[0])
			if err != nil {
				return nil, err
			}
			return []ClientMessage{{Type: MsgSelect, Index: idx}, {Type: MsgDiscard}}, nil
		}
		return nil, errors.New("usage: discard [N]")

	case "play":
		var msgs []ClientMessage
		switch len(args) {
		case 1:
		case 2:
			idx, err := parsePosition(args[0])
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, ClientMessage{Type: MsgSelect, Index: idx})
			args = args[1:]
		default:
			return nil, errors.New("usage: play [N] STAGE")
		}
		stage, err := ParseStage(args[0], cat)
		if err != nil {
			return nil, err
		}
		return append(msgs, ClientMessage{Type: MsgPlay, Stage: stage}), nil
	}
	return nil, fmt.Errorf("unknown command %q", fields[0])
}

func single(name, typ string, args []string) ([]ClientMessage, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("%s takes no arguments", name)
	}
	return []ClientMessage{{Type: typ}}, nil
}

func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("expected a card number, got %q", s)
	}
	return n - 1, nil
}

// matchVerb resolves a typed verb to its canonical name.
func matchVerb(token string) (string, error) {
	for _, v := range verbs {
		if token == v.name {
			return v.name, nil
		}
		for _, a := range v.aliases {
			if token == a {
				return v.name, nil
			}
		}
	}
	names := make([]string, len(verbs))
	for i, v := range verbs {
		names[i] = v.name
	}
	name, ok, ambiguous := closest(token, names)
	switch {
	case ambiguous:
		return "", fmt.Errorf("ambiguous command %q", token)
	case !ok:
		return "", fmt.Errorf("unknown command %q", token)
	}
	return name, nil
}

// ParseStage resolves a stage by 1-based number, id or abbreviation.
func ParseStage(token string, cat *game.Catalog) (int, error) {
	if n, err := strconv.Atoi(token); err == nil {
		if n < 1 || n > len(cat.Stages) {
			return 0, fmt.Errorf("stage number must be between 1 and %d", len(cat.Stages))
		}
		return n - 1, nil
	}
	if i, ok := cat.StageIndex(token); ok {
		return i, nil
	}

	var keys []string
	owner := make(map[string]int)
	for i, s := range cat.Stages {
		for _, k := range []string{strings.ToLower(s.ID), strings.ToLower(s.Abbreviation)} {
			if _, dup := owner[k]; !dup {
				keys = append(keys, k)
			}
			owner[k] = i
		}
	}
	key, ok, ambiguous := closest(strings.ToLower(token), keys)
	if ambiguous {
		return 0, fmt.Errorf("ambiguous stage %q", token)
	}
	if !ok {
		return 0, fmt.Errorf("unknown stage %q", token)
	}
	return owner[key], nil
}

// closest finds the candidate within edit distance of token. Two
// candidates at the same best distance are ambiguous.
func closest(token string, candidates []string) (best string, ok, ambiguous bool) {
	if len(token) < 3 {
		return "", false, false
	}
	bestDist := -1
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(token, cand)
		if dist > levenshteinLimit(len(cand)) {
			continue
		}
		switch {
		case bestDist < 0 || dist < bestDist:
			best, bestDist, ambiguous = cand, dist, false
		case dist == bestDist:
			ambiguous = true
		}
	}
	return best, bestDist >= 0, ambiguous
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
