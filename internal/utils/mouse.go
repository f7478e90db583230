package utils

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// GlobalPointer queries the X11 root window for the pointer position. It is
// used when the canvas runs as a desktop background and never sees mouse
// events of its own.
type GlobalPointer struct {
	conn *xgb.Conn
	root xproto.Window
}

// NewGlobalPointer opens a connection to the default X display.
func NewGlobalPointer() (*GlobalPointer, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect x11: %w", err)
	}
	setup := xproto.Setup(conn)
	return &GlobalPointer{conn: conn, root: setup.DefaultScreen(conn).Root}, nil
}

// Position returns the pointer position in root window coordinates.
func (g *GlobalPointer) Position() (int, int, error) {
	reply, err := xproto.QueryPointer(g.conn, g.root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("query pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}

func (g *GlobalPointer) Close() {
	if g.conn != nil {
		g.conn.Close()
		g.conn = nil
	}
}
