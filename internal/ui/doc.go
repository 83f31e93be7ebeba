// Package ui implements the interactive credential setup screen using bubbletea's Elm architecture.
//
// The [DeviceModel] walks through the OAuth device authorization grant:
//  1. [WaitingView] : shows the verification URL and user code while the token endpoint is polled
//  2. [DoneView] : the user approved and a token was issued
//  3. [FailedView] : the user denied, the code expired, or setup was cancelled
//
// Polling runs as a [tea.Cmd] so the spinner keeps animating; its outcome arrives as a [Msg].
//
// Keyboard bindings (o, q) are displayed with charmbracelet/bubbles/help.
package ui
