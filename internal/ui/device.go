package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/oauth2"
)

// ErrCancelled is returned by [DeviceModel.Result] when the user quits before approving.
var ErrCancelled = errors.New("setup cancelled")

// ViewState represents the current view in the TUI.
type ViewState int

const (
	WaitingView ViewState = iota
	DoneView
	FailedView
)

// WaitFunc blocks until the device code is approved, denied or expired.
type WaitFunc func(ctx context.Context) (*oauth2.Token, error)

// OpenFunc opens url in a browser.
type OpenFunc func(url string) error

// DeviceModel represents the setup screen state.
type DeviceModel struct {
	ctx     context.Context
	cancel  context.CancelFunc
	auth    *oauth2.DeviceAuthResponse
	wait    WaitFunc
	open    OpenFunc
	view    ViewState
	token   *oauth2.Token
	err     error
	notice  string
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewDeviceModel creates a setup screen for auth. open may be nil to disable the browser shortcut.
func NewDeviceModel(ctx context.Context, auth *oauth2.DeviceAuthResponse, wait WaitFunc, open OpenFunc) *DeviceModel {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.warn

	keys := newKeyMap()
	keys.open.SetEnabled(open != nil)

	return &DeviceModel{
		ctx:     ctx,
		cancel:  cancel,
		auth:    auth,
		wait:    wait,
		open:    open,
		view:    WaitingView,
		spinner: s,
		help:    help.New(),
		keys:    keys,
	}
}

// Init starts the spinner and the token poll.
func (m *DeviceModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

func (m *DeviceModel) poll() tea.Cmd {
	return func() tea.Msg {
		token, err := m.wait(m.ctx)
		return tokenReceivedMsg(token, err)
	}
}

func (m *DeviceModel) openBrowser() tea.Cmd {
	url := m.verificationURL()
	return func() tea.Msg {
		return browserOpenedMsg(m.open(url))
	}
}

// Update handles incoming messages and updates the model state.
func (m *DeviceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			m.cancel()
			if m.view == WaitingView {
				m.view = FailedView
				m.err = ErrCancelled
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.open) && m.view == WaitingView:
			return m, m.openBrowser()
		}

	case Msg:
		switch msg.kind {
		case MsgTokenReceived:
			res := msg.data.(tokenResult)
			if m.view != WaitingView {
				return m, nil
			}
			m.cancel()
			if res.err != nil {
				m.view = FailedView
				m.err = res.err
			} else {
				m.view = DoneView
				m.token = res.token
			}
			return m, tea.Quit
		case MsgBrowserOpened:
			if err, _ := msg.data.(error); err != nil {
				m.notice = fmt.Sprintf("Could not open a browser: %v", err)
			} else {
				m.notice = "Opened the verification page in your browser."
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current state.
func (m *DeviceModel) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("mirei · YouTube Music setup"))
	b.WriteString("\n")

	switch m.view {
	case DoneView:
		b.WriteString(styles.ok.Render("✓ Authorization granted"))
		b.WriteString("\n")
		return b.String()
	case FailedView:
		b.WriteString(styles.err.Render(fmt.Sprintf("✗ Setup failed: %v", m.err)))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "1. Visit %s\n", m.verificationURL())
	fmt.Fprintf(&b, "2. Enter the code:\n\n%s\n\n", styles.code.Render(m.auth.UserCode))
	fmt.Fprintf(&b, "%s Waiting for approval", m.spinner.View())
	if !m.auth.Expiry.IsZero() {
		fmt.Fprintf(&b, " (code expires at %s)", m.auth.Expiry.Local().Format("15:04"))
	}
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(styles.help.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Result returns the issued token, or the reason none was issued.
func (m *DeviceModel) Result() (*oauth2.Token, error) {
	switch m.view {
	case DoneView:
		return m.token, nil
	case FailedView:
		return nil, m.err
	default:
		return nil, ErrCancelled
	}
}

// verificationURL prefers the complete URI, which embeds the user code, when the server provides one.
func (m *DeviceModel) verificationURL() string {
	if m.auth.VerificationURIComplete != "" {
		return m.auth.VerificationURIComplete
	}
	return m.auth.VerificationURI
}
