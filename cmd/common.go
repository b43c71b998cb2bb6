package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/illarion/sealtext/internal/config"
	"github.com/illarion/sealtext/internal/core"
	"github.com/illarion/sealtext/internal/crypto"
	"github.com/illarion/sealtext/internal/envelope"
	"github.com/illarion/sealtext/internal/keyring"
)

// PasswordSource tells where a password came from
type PasswordSource int

const (
	SourceEnv PasswordSource = iota
	SourceKeyring
	SourcePrompt
	SourceFlag
)

func (s PasswordSource) String() string {
	switch s {
	case SourceEnv:
		return "environment"
	case SourceKeyring:
		return "keyring"
	case SourceFlag:
		return "flag"
	default:
		return "prompt"
	}
}

var ErrMismatch = errors.New("decrypted text does not match")

var (
	cfg = config.Default()
	log = logrus.New()
)

var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

// Setup applies loaded configuration to all commands
func Setup(c *config.Config) {
	cfg = c

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if c.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
}

func success(format string, args ...any) {
	fmt.Fprintf(stdout, color.GreenString("✓ ")+format+"\n", args...)
}

// readInput returns arg, or all of stdin when arg is "-"
func readInput(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// GetPassword retrieves password from flag, environment or prompt.
// The caller is responsible for calling crypto.ClearBytes on the returned password
func GetPassword(flagValue, prompt string) ([]byte, PasswordSource, error) {
	if flagValue != "" {
		return []byte(flagValue), SourceFlag, nil
	}

	// Try environment variable first
	if password := core.GetPasswordFromEnv(); password != nil {
		return password, SourceEnv, nil
	}

	password, err := core.ReadPassword(prompt)
	if err != nil {
		return nil, SourcePrompt, err
	}
	return password, SourcePrompt, nil
}

// GetNewPassword retrieves a password that will protect new data.
// Checks flag and environment first, then prompts with confirmation
func GetNewPassword(flagValue string) ([]byte, PasswordSource, error) {
	if flagValue != "" {
		return []byte(flagValue), SourceFlag, nil
	}
	if password := core.GetPasswordFromEnv(); password != nil {
		return password, SourceEnv, nil
	}

	password, err := core.ReadPasswordConfirm()
	return password, SourcePrompt, err
}

// GetPasswordWithRetry retrieves a store password from environment, keyring or prompt.
// A keyring entry that no longer verifies is reported and skipped.
func GetPasswordWithRetry(prompt, storeID string, verify func([]byte) error) ([]byte, PasswordSource, error) {
	if password := core.GetPasswordFromEnv(); password != nil {
		return password, SourceEnv, nil
	}

	if cfg.Keyring && storeID != "" {
		stored, err := keyring.GetPassword(storeID)
		switch {
		case err == nil:
			password := []byte(stored)
			if verr := verify(password); verr == nil {
				log.Debugf("using password from keyring for store %s", storeID)
				return password, SourceKeyring, nil
			} else if !errors.Is(verr, core.ErrWrongPassword) {
				crypto.ClearBytes(password)
				return nil, SourceKeyring, verr
			}
			crypto.ClearBytes(password)
			fmt.Fprintln(os.Stderr, color.YellowString("warning:")+" password in keyring is outdated")
		case keyring.IsNotStored(err):
			log.Debugf("no keyring entry for store %s", storeID)
		default:
			log.WithError(err).Debug("keyring unavailable")
		}
	}

	password, err := core.ReadPassword(prompt)
	if err != nil {
		return nil, SourcePrompt, err
	}
	return password, SourcePrompt, nil
}

// OfferToSavePassword asks whether to cache a prompted password in the keyring
func OfferToSavePassword(storeID string, password []byte) {
	if !cfg.Keyring || !core.IsTerminal() {
		return
	}

	fmt.Fprint(os.Stderr, "Save password to keyring? [y/N] ")
	answer, _ := bufio.NewReader(stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		return
	}

	if err := keyring.SavePassword(storeID, string(password)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save to keyring: %s\n", err)
		return
	}
	success("Password saved to keyring")
}

// errorMessage maps known errors to user-facing text and an optional hint
func errorMessage(err error) (string, string) {
	var argErr *envelope.ArgumentError
	switch {
	case errors.As(err, &argErr) && argErr.Reason != "":
		return fmt.Sprintf("%s %s", argErr.Field, argErr.Reason), ""
	case errors.As(err, &argErr):
		return fmt.Sprintf("%s must not be empty", argErr.Field), ""
	case errors.Is(err, envelope.ErrMalformedEnvelope):
		return "malformed envelope: not base64 or too short", ""
	case errors.Is(err, envelope.ErrDecryptionFailed):
		return "decryption failed: wrong password or corrupted data", ""
	case errors.Is(err, core.ErrNotInitialized):
		return fmt.Sprintf("no store at %s", cfg.Store), "Run 'sealtext init' first"
	case errors.Is(err, core.ErrAlreadyExists):
		return fmt.Sprintf("%s already exists", cfg.Store), "Use 'sealtext ls' to see its contents"
	case errors.Is(err, core.ErrWrongPassword):
		return "wrong password", ""
	case errors.Is(err, core.ErrNotFound):
		return err.Error(), "Use 'sealtext ls' to list entries"
	default:
		return err.Error(), ""
	}
}

// HandleError prints err consistently and exits with status 1
func HandleError(err error) {
	msg, hint := errorMessage(err)
	log.WithError(err).Debug("command failed")

	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("Error:"), msg)
	if hint != "" {
		fmt.Fprintln(os.Stderr, hint)
	}
	os.Exit(1)
}
