package domain

import (
	"net"
	"strconv"

	"github.com/google/uuid"
)

// CommandKind discriminates the Command variants.
type CommandKind string

const (
	KindConnect         CommandKind = "connect"
	KindRefreshSnapshot CommandKind = "refresh_snapshot"
)

// Command is an operation queued by the listener and applied on the tick.
// The set of variants is closed: only types in this package implement it.
type Command interface {
	Kind() CommandKind
	CommandID() string
	sealed()
}

// ConnectCommand asks the simulation to join the session at Address.
type ConnectCommand struct {
	ID      string
	Address string
	// Token is nil when the request carried no token.
	Token *string
}

// NewConnect creates a ConnectCommand. A nil token means "no token step".
func NewConnect(address string, token *string) ConnectCommand {
	cmd := ConnectCommand{ID: uuid.NewString(), Address: address}
	if token != nil {
		t := *token
		cmd.Token = &t
	}
	return cmd
}

func (c ConnectCommand) Kind() CommandKind { return KindConnect }
func (c ConnectCommand) CommandID() string { return c.ID }
func (ConnectCommand) sealed()             {}

// HasToken reports whether the command carries a session token.
func (c ConnectCommand) HasToken() bool { return c.Token != nil }

// Endpoint joins the address with the session port.
func (c ConnectCommand) Endpoint(port int) string {
	return net.JoinHostPort(c.Address, strconv.Itoa(port))
}

// RefreshSnapshotCommand asks the simulation to republish the ids map.
type RefreshSnapshotCommand struct {
	ID string
}

// NewRefreshSnapshot creates a RefreshSnapshotCommand.
func NewRefreshSnapshot() RefreshSnapshotCommand {
	return RefreshSnapshotCommand{ID: uuid.NewString()}
}

func (c RefreshSnapshotCommand) Kind() CommandKind { return KindRefreshSnapshot }
func (c RefreshSnapshotCommand) CommandID() string { return c.ID }
func (RefreshSnapshotCommand) sealed()             {}
