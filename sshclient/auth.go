package sshclient

import (
	"github.com/pkg/errors"
	sshagent "github.com/xanzy/ssh-agent"
	"golang.org/x/crypto/ssh"

	"github.com/bridgefs/sshbridge"
)

// PasswordAuth offers password authentication.
func PasswordAuth(password string) ssh.AuthMethod {
	return ssh.Password(password)
}

// KeyboardInteractiveAuth routes the server's interactive prompts through
// the delegate, which must return one answer per question.
func KeyboardInteractiveAuth(delegate sshbridge.Delegate) ssh.AuthMethod {
	return ssh.KeyboardInteractive(func(name, instruction string, questions []string, echos []bool) ([]string, error) {
		return delegate.KeyboardInteractive(name, instruction, questions, echos)
	})
}

// PrivateKeyAuth offers public-key authentication with a PEM-encoded
// private key. passphrase may be empty for unencrypted keys.
func PrivateKeyAuth(pemBytes []byte, passphrase string) (ssh.AuthMethod, error) {
	var signer ssh.Signer
	var err error

	if passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(pemBytes, []byte(passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(pemBytes)
	}
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}

	return ssh.PublicKeys(signer), nil
}

// AgentAuth offers the keys held by the running SSH agent
// (SSH_AUTH_SOCK, or Pageant on Windows).
func AgentAuth() (ssh.AuthMethod, error) {
	ag, _, err := sshagent.New()
	if err != nil {
		return nil, errors.Wrap(err, "connect to ssh agent")
	}

	return ssh.PublicKeysCallback(ag.Signers), nil
}
