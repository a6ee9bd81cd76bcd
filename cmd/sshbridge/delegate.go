package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/bridgefs/sshbridge"
)

// logDelegate routes bridge notifications into logrus and answers
// keyboard-interactive prompts on the terminal.
type logDelegate struct {
	log *logrus.Logger
}

func newLogDelegate(verbose bool) *logDelegate {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return &logDelegate{log: log}
}

func (d *logDelegate) Connected(addr string) {
	d.log.WithField("addr", addr).Info("connected")
}

func (d *logDelegate) Disconnected(err error) {
	if err != nil {
		d.log.WithError(err).Warn("disconnected")
		return
	}
	d.log.Info("disconnected")
}

func (d *logDelegate) DataSent(n int) {
	d.log.WithField("bytes", n).Trace("sent")
}

func (d *logDelegate) DataReceived(n int) {
	d.log.WithField("bytes", n).Trace("received")
}

func (d *logDelegate) Debug(msg string) {
	d.log.Debug(msg)
}

func (d *logDelegate) KeyboardInteractive(name, instruction string, questions []string, echos []bool) ([]string, error) {
	if name != "" {
		fmt.Fprintln(os.Stderr, name)
	}
	if instruction != "" {
		fmt.Fprintln(os.Stderr, instruction)
	}

	answers := make([]string, len(questions))
	for i, q := range questions {
		fmt.Fprint(os.Stderr, q)
		if echos[i] {
			if _, err := fmt.Scanln(&answers[i]); err != nil {
				return nil, err
			}
			continue
		}

		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, err
		}
		answers[i] = string(b)
	}
	return answers, nil
}

// readPassword prompts for a password without echo.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var _ sshbridge.Delegate = (*logDelegate)(nil)
