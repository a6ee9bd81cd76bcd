package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/bridgefs/sshbridge"
	"github.com/bridgefs/sshbridge/localfs"
	"github.com/bridgefs/sshbridge/sshclient"
)

var flags struct {
	config     string
	host       string
	port       int
	user       string
	keyFile    string
	knownHosts string
	password   bool
	agent      bool
	insecure   bool
	verbose    bool
	local      string
	timeout    time.Duration
}

var rootCmd = &cobra.Command{
	Use:           "sshbridge",
	Short:         "SFTP client over the sshbridge library",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	home, _ := os.UserHomeDir()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", filepath.Join(home, ".sshbridge.yaml"), "config file")
	pf.StringVarP(&flags.host, "host", "H", "", "remote host")
	pf.IntVarP(&flags.port, "port", "p", 0, "remote port")
	pf.StringVarP(&flags.user, "user", "u", "", "login user")
	pf.StringVarP(&flags.keyFile, "key", "i", "", "private key file")
	pf.StringVar(&flags.knownHosts, "known-hosts", filepath.Join(home, ".ssh", "known_hosts"), "known_hosts file")
	pf.BoolVar(&flags.password, "password", false, "prompt for a password")
	pf.BoolVar(&flags.agent, "agent", false, "authenticate via the running ssh agent")
	pf.BoolVar(&flags.insecure, "insecure", false, "skip host key verification")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&flags.local, "local", "", "operate on a local directory instead of a remote host (loopback mode)")
	pf.DurationVar(&flags.timeout, "timeout", 30*time.Second, "connect and handshake timeout")
}

// connect builds a Client from the flags and config file: either a
// loopback client over a local directory, or an SSH connection.
func connect() (*sshbridge.Client, error) {
	delegate := newLogDelegate(flags.verbose)

	if flags.local != "" {
		return sshbridge.NewClient(localfs.NewSession(flags.local), sshbridge.WithDelegate(delegate))
	}

	cfg, err := loadConfig(flags.config)
	if err != nil {
		return nil, err
	}
	if flags.host != "" {
		cfg.Host = flags.host
	}
	if flags.port != 0 {
		cfg.Port = flags.port
	}
	if flags.user != "" {
		cfg.User = flags.user
	}
	if flags.keyFile != "" {
		cfg.KeyFile = flags.keyFile
	}
	if cfg.KnownHosts != "" && !rootCmd.PersistentFlags().Changed("known-hosts") {
		flags.knownHosts = cfg.KnownHosts
	}
	if cfg.Host == "" {
		return nil, errors.New("no host given: use --host, --local or a config file")
	}
	if cfg.User == "" {
		cfg.User = os.Getenv("USER")
	}

	var auth []ssh.AuthMethod

	if flags.agent {
		m, err := sshclient.AgentAuth()
		if err != nil {
			return nil, err
		}
		auth = append(auth, m)
	}
	if cfg.KeyFile != "" {
		pem, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "read key file")
		}
		m, err := sshclient.PrivateKeyAuth(pem, "")
		if err != nil {
			return nil, err
		}
		auth = append(auth, m)
	}
	if flags.password {
		pw, err := readPassword(fmt.Sprintf("%s@%s password: ", cfg.User, cfg.Host))
		if err != nil {
			return nil, err
		}
		auth = append(auth, sshclient.PasswordAuth(pw))
	}
	auth = append(auth, sshclient.KeyboardInteractiveAuth(delegate))

	hostKeys := ssh.InsecureIgnoreHostKey() //nolint:gosec // gated behind --insecure
	if !flags.insecure {
		cb, err := knownhosts.New(flags.knownHosts)
		if err != nil {
			return nil, errors.Wrap(err, "load known_hosts")
		}
		hostKeys = cb
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	conn, err := sshclient.Dial("tcp", addr, &sshclient.Config{
		User:            cfg.User,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         flags.timeout,
	}, delegate)
	if err != nil {
		return nil, err
	}

	return sshbridge.NewClient(conn, sshbridge.WithDelegate(delegate))
}

// progressPrinter renders transfer progress on stderr.
func progressPrinter() sshbridge.ProgressFunc {
	return func(transferred, total int64) bool {
		if total == sshbridge.SizeUnknown {
			fmt.Fprintf(os.Stderr, "\r%d bytes", transferred)
		} else {
			fmt.Fprintf(os.Stderr, "\r%d / %d bytes", transferred, total)
		}
		return true
	}
}
