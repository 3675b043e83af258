package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/peterkuimelis/biopath/internal/game"
)

// Transport carries one command to a session and returns its reply.
type Transport interface {
	Send(ctx context.Context, msg ClientMessage) (ServerMessage, error)
	Close() error
}

// LocalTransport talks to an in-process session.
type LocalTransport struct {
	Session *Session
}

func (t *LocalTransport) Send(ctx context.Context, msg ClientMessage) (ServerMessage, error) {
	if err := ctx.Err(); err != nil {
		return ServerMessage{}, err
	}
	return t.Session.Apply(msg), nil
}

func (t *LocalTransport) Close() error { return nil }

// ConnTransport speaks the JSON protocol over a stream connection.
type ConnTransport struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
}

// NewConnTransport wraps an established connection.
func NewConnTransport(conn net.Conn) *ConnTransport {
	return &ConnTransport{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
	}
}

// Dial connects to a server.
func Dial(ctx context.Context, addr string) (*ConnTransport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return NewConnTransport(conn), nil
}

func (t *ConnTransport) Send(ctx context.Context, msg ClientMessage) (ServerMessage, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetDeadline(deadline)
	}
	if err := t.enc.Encode(msg); err != nil {
		return ServerMessage{}, fmt.Errorf("send %s: %w", msg.Type, err)
	}
	var reply ServerMessage
	if err := t.dec.Decode(&reply); err != nil {
		return ServerMessage{}, fmt.Errorf("read reply: %w", err)
	}
	return reply, nil
}

func (t *ConnTransport) Close() error {
	return t.conn.Close()
}

// Client is a terminal REPL over a Transport.
type Client struct {
	transport Transport
	catalog   *game.Catalog
	in        io.Reader
	out       io.Writer
}

// NewClient creates a REPL reading commands from in and rendering to out.
// The catalog resolves stage names typed by the player.
func NewClient(t Transport, cat *game.Catalog, in io.Reader, out io.Writer) *Client {
	if cat == nil {
		cat = game.DefaultCatalog()
	}
	return &Client{transport: t, catalog: cat, in: in, out: out}
}

// Run shows the board and processes commands until quit or end of input.
func (c *Client) Run(ctx context.Context) error {
	reply, err := c.transport.Send(ctx, ClientMessage{Type: MsgState})
	if err != nil {
		return err
	}
	c.render(reply)

	scanner := bufio.NewScanner(c.in)
	c.prompt(reply.State)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			return nil
		case "help", "h", "?":
			fmt.Fprint(c.out, Usage())
			c.prompt(reply.State)
			continue
		}

		msgs, err := ParseCommand(line, c.catalog)
		if err != nil {
			if !errors.Is(err, ErrEmptyCommand) {
				fmt.Fprintln(c.out, err)
			}
			c.prompt(reply.State)
			continue
		}

		for _, msg := range msgs {
			reply, err = c.transport.Send(ctx, msg)
			if err != nil {
				return err
			}
			c.render(reply)
			if reply.Type == ReplyError || reply.Ignored {
				break
			}
		}
		c.prompt(reply.State)
	}
	return scanner.Err()
}

func (c *Client) render(msg ServerMessage) {
	if msg.Type == ReplyError {
		fmt.Fprintf(c.out, "error: %s\n", msg.Error)
		return
	}
	for _, ev := range msg.Events {
		c.renderEvent(ev)
	}
	if msg.Ignored {
		fmt.Fprintln(c.out, "(not now)")
	}
	c.renderState(msg.State)
}

func (c *Client) renderEvent(ev EventView) {
	fmt.Fprintf(c.out, "T%-2d %-16s| %s\n", ev.Turn, ev.Phase, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	w := c.out

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════╗")
	turn := fmt.Sprintf("%d/%d", sv.Turn, sv.MaxTurns)
	if sv.Endless {
		turn = fmt.Sprintf("%d (endless)", sv.Turn)
	}
	fmt.Fprintf(w, "║  Turn %s | %s | Score %d | Best %d\n", turn, sv.Phase, sv.Score, sv.BestScore)
	fmt.Fprintf(w, "║  Combo %d  x%.1f  Stalled %d  Rotations %d  Hand limit %d\n",
		sv.Combo, sv.Multiplier, sv.Stalled, sv.Rotations, sv.HandLimit)
	fmt.Fprintf(w, "║  NADH %d  FADH2 %d  GTP %d  Deck %d  Discard %d\n",
		sv.Energy[string(game.YieldNADH)], sv.Energy[string(game.YieldFADH2)], sv.Energy[string(game.YieldGTP)],
		sv.DeckCount, sv.Discards)
	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")
	for _, st := range sv.Stages {
		fmt.Fprintf(w, "║  %s\n", formatStage(st))
	}
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════╝")

	if sv.Event != "" {
		fmt.Fprintf(w, "Event: %s (%s)\n", sv.Event, sv.EventDescription)
	}
	if sv.EnzymeBoost {
		fmt.Fprintln(w, "Enzyme boost ready")
	}
	if sv.ShieldTurns > 0 {
		fmt.Fprintf(w, "Combo shield: %d turns\n", sv.ShieldTurns)
	}
	if len(sv.Hand) > 0 {
		fmt.Fprintf(w, "Hand: %s\n", formatCards(sv.Hand, sv.Selected))
	}
	if len(sv.Draft) > 0 {
		fmt.Fprintf(w, "Draft: %s\n", formatCards(sv.Draft, -1))
	}
	if sv.PeekPending {
		if len(sv.Peek) > 0 {
			fmt.Fprintf(w, "Top of deck: %s\n", formatCards(sv.Peek, -1))
		} else {
			fmt.Fprintln(w, "Top of deck: (empty)")
		}
	}
	if sv.Over {
		line := fmt.Sprintf("GAME OVER: final score %d", sv.Score)
		if sv.NewBest {
			line += " (new best!)"
		}
		fmt.Fprintln(w, line)
	}
}

func formatStage(st StageView) string {
	marker := " "
	switch {
	case st.Current:
		marker = ">"
	case st.Completed:
		marker = "✓"
	}
	needs := "-"
	if len(st.Cofactors) > 0 {
		needs = strings.Join(st.Cofactors, "+")
	}
	line := fmt.Sprintf("%s %d %-5s → %-5s needs %-10s", marker, st.Index+1, st.Abbreviation, st.Product, needs)
	if st.Yield != "" {
		line += fmt.Sprintf(" +%d %s", st.YieldValue, st.Yield)
	}
	if len(st.Staged) > 0 {
		names := make([]string, len(st.Staged))
		for i, cv := range st.Staged {
			names[i] = cv.Abbreviation
		}
		line += " [" + strings.Join(names, " ") + "]"
	}
	return line
}

func formatCards(cards []CardView, selected int) string {
	parts := make([]string, len(cards))
	for i, cv := range cards {
		if i == selected {
			parts[i] = fmt.Sprintf("[%d]*%s", i+1, cv.Abbreviation)
		} else {
			parts[i] = fmt.Sprintf("[%d] %s", i+1, cv.Abbreviation)
		}
	}
	return strings.Join(parts, "  ")
}

// prompt hints at the command the current phase is waiting for.
func (c *Client) prompt(sv *StateView) {
	hint := ""
	if sv != nil {
		switch {
		case sv.Over && !sv.Endless:
			hint = "restart or endless"
		case sv.Over:
			hint = "restart"
		case sv.PendingChain:
			hint = "chain"
		case sv.PendingRefresh:
			hint = "accept or decline"
		case sv.PeekPending:
			hint = "dismiss"
		case len(sv.Draft) > 0:
			hint = "pick N"
		case sv.Phase == game.PhaseDraw.String():
			hint = "turn"
		case sv.Phase == game.PhaseAction.String():
			hint = "play [N] STAGE, discard [N]"
		}
	}
	if hint != "" {
		fmt.Fprintf(c.out, "(%s) ", hint)
	}
	fmt.Fprint(c.out, "> ")
}
