package cmd

import (
	"fmt"

	"github.com/illarion/sealtext/internal/core"
	"github.com/illarion/sealtext/internal/crypto"
	"github.com/illarion/sealtext/internal/envelope"
)

// Demo encrypts text, then decrypts the result and prints all three.
// Fewer than two arguments print the banner and a short usage.
func Demo(args []string) error {
	fmt.Fprintln(stdout, "=================================")
	fmt.Fprintln(stdout, "    AES Encryption Demo")
	fmt.Fprintln(stdout, "=================================")
	fmt.Fprintln(stdout)

	if len(args) < 2 {
		fmt.Fprintln(stdout, "Usage: sealtext <text> <password>")
		fmt.Fprintln(stdout, "Example: sealtext \"Secret Message\" MyPass123")
		fmt.Fprintln(stdout, "Run 'sealtext help' for all commands")
		return nil
	}
	text, password := args[0], args[1]

	fmt.Fprintf(stdout, "Original: %s\n", text)

	encrypted, err := envelope.Encrypt(text, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nEncrypted: %s\n", encrypted)

	decrypted, err := envelope.Decrypt(encrypted, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nDecrypted: %s\n", decrypted)

	return nil
}

// Encrypt prints the envelope for text
func Encrypt(text, passwordFlag string) error {
	text, err := readInput(text)
	if err != nil {
		return err
	}

	password, source, err := GetNewPassword(passwordFlag)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)
	log.Debugf("encrypting %d bytes, password from %s", len(text), source)

	plaintext := []byte(text)
	defer crypto.ClearBytes(plaintext)

	env, err := envelope.Seal(plaintext, password)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, env)
	return nil
}

// Decrypt prints the plaintext of an envelope
func Decrypt(text, passwordFlag string) error {
	text, err := readInput(text)
	if err != nil {
		return err
	}

	password, source, err := GetPassword(passwordFlag, "Enter password: ")
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)
	log.Debugf("decrypting %d characters, password from %s", len(text), source)

	plaintext, err := envelope.Open(text, password)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(plaintext)

	fmt.Fprintln(stdout, string(plaintext))
	return nil
}

// Inspect prints the public parts of an envelope
func Inspect(text string) error {
	text, err := readInput(text)
	if err != nil {
		return err
	}

	info, err := envelope.Inspect(text)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Salt:       %s\n", info.Salt)
	fmt.Fprintf(stdout, "Ciphertext: %d bytes (%d blocks)\n", info.CiphertextLength, info.Blocks)
	fmt.Fprintf(stdout, "Cipher:     AES-%d-CBC, PBKDF2-HMAC-SHA1 x %d\n", crypto.KeySize*8, crypto.DefaultIters)
	if !info.Aligned {
		fmt.Fprintln(stdout, "warning: ciphertext is not block aligned, the envelope cannot decrypt")
	}
	return nil
}

// Verify decrypts an envelope and compares it with the expected text
func Verify(text, expected, passwordFlag string) error {
	text, err := readInput(text)
	if err != nil {
		return err
	}

	password, _, err := GetPassword(passwordFlag, "Enter password: ")
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	plaintext, err := envelope.Open(text, password)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(plaintext)

	ok, diff := core.Compare("text", expected, string(plaintext))
	if !ok {
		fmt.Fprint(stdout, diff)
		return ErrMismatch
	}

	success("Envelope matches")
	return nil
}
