package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/oauth2"
)

// MsgKind enumerates all message types in the setup screen.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgTokenReceived MsgKind = iota
	MsgBrowserOpened
)

type tokenResult struct {
	token *oauth2.Token
	err   error
}

// tokenReceivedMsg is the constructor for [MsgTokenReceived]
func tokenReceivedMsg(token *oauth2.Token, err error) Msg {
	return Msg{kind: MsgTokenReceived, data: tokenResult{token, err}}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: err}
}
