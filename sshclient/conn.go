// Package sshclient provides the production transport behind the bridge:
// it dials SSH, authenticates, reports traffic to the delegate, and
// derives the file-transfer subsystem using the SFTP protocol engine.
package sshclient

import (
	"fmt"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/bridgefs/sshbridge"
)

// Config carries the connection parameters for Dial.
type Config struct {
	// User is the login name.
	User string

	// Auth lists the authentication methods to offer, in order.
	Auth []ssh.AuthMethod

	// HostKeyCallback verifies the server key. Required; use
	// ssh.InsecureIgnoreHostKey only for testing.
	HostKeyCallback ssh.HostKeyCallback

	// Timeout bounds the TCP connect and the SSH handshake.
	Timeout time.Duration
}

// Conn is an established SSH connection. It implements
// sshbridge.RawSession; hand it to sshbridge.NewClient, which becomes its
// exclusive owner.
type Conn struct {
	client   *ssh.Client
	delegate sshbridge.Delegate
	addr     string
}

// Dial connects and authenticates, reporting connection lifecycle and
// traffic to delegate.
func Dial(network, addr string, cfg *Config, delegate sshbridge.Delegate) (*Conn, error) {
	if delegate == nil {
		delegate = sshbridge.NopDelegate{}
	}

	dialer := net.Dialer{Timeout: cfg.Timeout}

	nc, err := dialer.Dial(network, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", addr)
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            cfg.Auth,
		HostKeyCallback: cfg.HostKeyCallback,
		Timeout:         cfg.Timeout,
	}

	tc := &trafficConn{Conn: nc, delegate: delegate}

	sconn, chans, reqs, err := ssh.NewClientConn(tc, addr, sshCfg)
	if err != nil {
		nc.Close()
		return nil, errors.Wrapf(err, "ssh handshake with %s", addr)
	}

	delegate.Connected(addr)
	delegate.Debug(fmt.Sprintf("ssh connection established to %s", addr))

	return &Conn{
		client:   ssh.NewClient(sconn, chans, reqs),
		delegate: delegate,
		addr:     addr,
	}, nil
}

// NewConn wraps an already-established *ssh.Client, for callers that ran
// their own handshake. Traffic notifications are not available in this
// mode; lifecycle and debug notifications are.
func NewConn(client *ssh.Client, delegate sshbridge.Delegate) *Conn {
	if delegate == nil {
		delegate = sshbridge.NopDelegate{}
	}
	return &Conn{client: client, delegate: delegate}
}

// OpenSubsystem implements sshbridge.RawSession by starting the sftp
// subsystem on a new channel.
func (c *Conn) OpenSubsystem() (sshbridge.RawSubsystem, error) {
	cl, err := sftp.NewClient(c.client)
	if err != nil {
		return nil, errors.Wrap(err, "start sftp subsystem")
	}

	c.delegate.Debug("sftp subsystem started")
	return &subsystem{cl: cl}, nil
}

// Close implements sshbridge.RawSession.
func (c *Conn) Close() error {
	err := c.client.Close()
	return err
}

// trafficConn reports transport traffic to the delegate. Callbacks run on
// the transport goroutines, synchronously with the traffic they describe.
type trafficConn struct {
	net.Conn
	delegate sshbridge.Delegate
}

func (t *trafficConn) Read(p []byte) (int, error) {
	n, err := t.Conn.Read(p)
	if n > 0 {
		t.delegate.DataReceived(n)
	}
	return n, err
}

func (t *trafficConn) Write(p []byte) (int, error) {
	n, err := t.Conn.Write(p)
	if n > 0 {
		t.delegate.DataSent(n)
	}
	return n, err
}
