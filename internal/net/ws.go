package net

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"LocalSketch/internal/export"
	"LocalSketch/internal/input"
	"LocalSketch/internal/library"
	"LocalSketch/internal/render"
	"LocalSketch/internal/session"
	"LocalSketch/internal/state"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 64
)

// SessionDefaults seeds every new websocket session.
type SessionDefaults struct {
	Brush input.Brush
	Mode  session.Mode
}

// Peer is one websocket client and the practice session it drives. Reads
// are turned into events on the session loop; one goroutine writes.
type Peer struct {
	ID     string
	Remote string

	conn *websocket.Conn
	loop *session.Loop
	list *render.DrawList
	sess *session.Session
	log  *slog.Logger

	send      chan any
	done      chan struct{}
	closeOnce sync.Once
}

func newPeer(conn *websocket.Conn, catalog library.Catalog, defaults SessionDefaults, log *slog.Logger) *Peer {
	id := uuid.NewString()
	p := &Peer{
		ID:     id,
		Remote: conn.RemoteAddr().String(),
		conn:   conn,
		loop:   session.NewLoop(),
		list:   render.NewDrawList(0, 0),
		log:    log.With("peer", id),
		send:   make(chan any, sendBuffer),
		done:   make(chan struct{}),
	}
	p.sess = session.New(catalog, p.list, session.Options{
		ID:     id,
		Brush:  defaults.Brush,
		Mode:   defaults.Mode,
		Post:   p.post,
		Logger: p.log,
	})
	p.sess.OnImage = func(v session.ImageView) {
		p.queue(ImageMessage{Type: "image", ImageView: v})
	}
	p.sess.OnTimer = func(remaining int, active bool) {
		p.queue(TimerMessage{
			Type:      "timer",
			Remaining: remaining,
			Active:    active,
			Display:   session.FormatRemaining(remaining, active),
		})
	}
	p.sess.OnStatus = func(text string) {
		p.queue(StatusMessage{Type: "status", Text: text})
	}
	p.sess.OnChange = func(v session.View) {
		p.queue(StateMessage{Type: "state", View: v})
	}
	return p
}

// serve runs the peer until the connection drops or ctx is done.
func (p *Peer) serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		p.loop.Run(ctx)
	}()
	go p.writePump(ctx)

	p.post(func() {
		p.queue(StateMessage{Type: "state", View: p.sess.View()})
	})
	p.readPump(ctx)

	p.loop.Post(p.sess.Close)
	p.loop.Close()
	<-loopDone
	p.Close()
}

// post runs fn on the session loop and then ships whatever it drew.
func (p *Peer) post(fn func()) {
	p.loop.Post(func() {
		fn()
		p.flush()
	})
}

func (p *Peer) flush() {
	if p.list.Len() == 0 {
		return
	}
	p.queue(DrawMessage{Type: "draw", Ops: p.list.Flush()})
}

// queue hands a message to the writer. Messages for a closed peer are dropped.
func (p *Peer) queue(msg any) {
	select {
	case p.send <- msg:
	case <-p.done:
	}
}

// Close drops the connection. Safe to call more than once.
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.conn.Close()
	})
}

func (p *Peer) readPump(ctx context.Context) {
	p.conn.SetReadLimit(maxMessageSize)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := p.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.log.Warn("websocket read failed", "error", err)
			}
			return
		}
		p.post(func() { p.dispatch(ctx, msg) })
	}
}

func (p *Peer) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteJSON(msg); err != nil {
				p.log.Warn("websocket write failed", "error", err)
				p.Close()
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				p.Close()
				return
			}
		case <-ctx.Done():
			_ = p.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case <-p.done:
			return
		}
	}
}

// dispatch applies one client message to the session. It runs on the loop.
func (p *Peer) dispatch(ctx context.Context, msg ClientMessage) {
	if err := p.apply(ctx, msg); err != nil {
		p.log.Debug("message rejected", "type", msg.Type, "error", err)
		p.queue(ErrorMessage{Type: "error", Kind: errorKind(err), Message: err.Error()})
	}
}

func (p *Peer) apply(ctx context.Context, msg ClientMessage) error {
	s := p.sess
	switch msg.Type {
	case msgPointer:
		ev, err := input.FromMouse(msg.Event, msg.ClientX, msg.ClientY)
		if err != nil {
			return err
		}
		return s.Pointer(ev, msg.Rect)
	case msgTouch:
		ev, err := input.FromTouches(msg.Event, msg.Touches)
		if err != nil {
			return err
		}
		return s.Pointer(ev, msg.Rect)
	case msgKey:
		return s.Key(input.Key{Key: msg.Key, Ctrl: msg.Ctrl, Meta: msg.Meta, Shift: msg.Shift})
	case msgTool:
		tool, err := state.ParseTool(msg.Tool)
		if err != nil {
			return err
		}
		return s.SetTool(tool)
	case msgColor:
		return s.SetColor(msg.Color)
	case msgSize:
		return s.SetSize(msg.Size)
	case msgUndo:
		return s.Undo()
	case msgRedo:
		return s.Redo()
	case msgClear:
		return s.Clear()
	case msgMode:
		return s.SetMode(session.Mode(msg.Mode))
	case msgContainer:
		s.SetContainer(msg.Width, msg.Height)
	case msgImage:
		s.SetImageSize(msg.Width, msg.Height)
	case msgLoad:
		return s.LoadImages(ctx, msg.Folders)
	case msgNext:
		if !s.Next() {
			return fmt.Errorf("%w: please load images first", state.ErrValidation)
		}
	case msgTimerStart:
		return s.StartTimer(msg.Interval)
	case msgTimerStop:
		s.StopTimer()
	case msgExport:
		return p.export(msg.Format)
	default:
		return fmt.Errorf("%w: unknown message type %q", state.ErrValidation, msg.Type)
	}
	return nil
}

func (p *Peer) export(format string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	v := p.sess.View()
	data, err := export.Bytes(f, export.Drawing{
		Width:   v.Width,
		Height:  v.Height,
		Strokes: p.sess.History().Committed(),
		Title:   p.sess.Image().Path,
	})
	if err != nil {
		return err
	}
	p.queue(ExportMessage{Type: "export", Format: string(f), Data: data})
	return nil
}
