package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/sealtext/cmd"
	"github.com/illarion/sealtext/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	cmd.Setup(cfg)

	args := os.Args[1:]
	if len(args) == 0 {
		check(cmd.Demo(nil))
		return
	}

	switch args[0] {
	case "encrypt":
		runEncrypt(args[1:])
	case "decrypt":
		runDecrypt(args[1:])
	case "inspect":
		runInspect(args[1:])
	case "verify":
		runVerify(args[1:])
	case "init":
		runNoArgs("init", args[1:], cmd.Init)
	case "put":
		runPut(args[1:])
	case "get":
		runGet(args[1:])
	case "export":
		runExport(args[1:])
	case "ls", "status":
		check(cmd.List(ctx))
	case "rm":
		check(cmd.Remove(ctx, parse("rm", args[1:]).Args()))
	case "passwd":
		parse("passwd", args[1:])
		check(cmd.Passwd(ctx))
	case "compact":
		runNoArgs("compact", args[1:], cmd.Compact)
	case "keyring":
		runKeyring(args[1:])
	case "config":
		runConfig(args[1:])
	case "completion":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: sealtext completion <bash|zsh|fish>")
			os.Exit(1)
		}
		check(cmd.Completion(args[1]))
	case "help", "-h", "--help":
		if len(args) < 2 {
			printUsage()
			return
		}
		printCommandHelp(args[1])
	case "--":
		check(cmd.Demo(args[1:]))
	default:
		check(cmd.Demo(args))
	}
}

// check reports err and exits non-zero
func check(err error) {
	if err != nil {
		cmd.HandleError(err)
	}
}

func parse(name string, args []string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return fs
}

func requireArgs(fs *flag.FlagSet, n int, usage string) []string {
	if fs.NArg() != n {
		fmt.Fprintf(os.Stderr, "Usage: %s\n", usage)
		os.Exit(1)
	}
	return fs.Args()
}

func runEncrypt(args []string) {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	password := fs.String("p", "", "Password (visible in process list, prefer SEALTEXT_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	rest := requireArgs(fs, 1, "sealtext encrypt [-p password] <text|->")
	check(cmd.Encrypt(rest[0], *password))
}

func runDecrypt(args []string) {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	password := fs.String("p", "", "Password (visible in process list, prefer SEALTEXT_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	rest := requireArgs(fs, 1, "sealtext decrypt [-p password] <envelope|->")
	check(cmd.Decrypt(rest[0], *password))
}

func runInspect(args []string) {
	fs := parse("inspect", args)
	rest := requireArgs(fs, 1, "sealtext inspect <envelope|->")
	check(cmd.Inspect(rest[0]))
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	password := fs.String("p", "", "Password (visible in process list, prefer SEALTEXT_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	rest := requireArgs(fs, 2, "sealtext verify [-p password] <envelope|-> <expected>")
	check(cmd.Verify(rest[0], rest[1], *password))
}

func runNoArgs(name string, args []string, fn func() error) {
	fs := parse(name, args)
	requireArgs(fs, 0, "sealtext "+name)
	check(fn())
}

func runPut(args []string) {
	fs := parse("put", args)
	rest := requireArgs(fs, 2, "sealtext put <name> <text|->")
	check(cmd.Put(rest[0], rest[1]))
}

func runGet(args []string) {
	fs := parse("get", args)
	rest := requireArgs(fs, 1, "sealtext get <name>")
	check(cmd.Get(rest[0]))
}

func runExport(args []string) {
	fs := parse("export", args)
	rest := requireArgs(fs, 1, "sealtext export <name>")
	check(cmd.Export(rest[0]))
}

func runKeyring(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sealtext keyring <save|delete|status>")
		os.Exit(1)
	}

	switch args[0] {
	case "save":
		check(cmd.KeyringSave())
	case "delete":
		check(cmd.KeyringDelete())
	case "status":
		check(cmd.KeyringStatus())
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: sealtext keyring <save|delete|status>")
		os.Exit(1)
	}
}

func runConfig(args []string) {
	if len(args) < 1 {
		check(cmd.ConfigShow())
		return
	}

	switch args[0] {
	case "show":
		check(cmd.ConfigShow())
	case "init":
		check(cmd.ConfigInit())
	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: sealtext config [show|init]")
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("sealtext - Password-based text encryption")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sealtext <text> <password>      Encrypt, decrypt and print both")
	fmt.Println("  sealtext <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  encrypt     Encrypt text into an envelope")
	fmt.Println("  decrypt     Decrypt an envelope")
	fmt.Println("  inspect     Show salt and length of an envelope")
	fmt.Println("  verify      Check that an envelope decrypts to the expected text")
	fmt.Println("  init        Create an envelope store")
	fmt.Println("  put         Seal text into the store")
	fmt.Println("  get         Print a stored value")
	fmt.Println("  ls, status  List stored entries")
	fmt.Println("  export      Print a stored envelope")
	fmt.Println("  rm          Remove entries from the store")
	fmt.Println("  passwd      Change store password")
	fmt.Println("  compact     Compact store to reclaim disk space")
	fmt.Println("  keyring     Manage the store password in the OS keyring")
	fmt.Println("  config      Show or create the config file")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  sealtext \"Secret Message\" MyPass123")
	fmt.Println("  sealtext encrypt \"Secret Message\"    # prompts for password")
	fmt.Println("  echo \"$ENVELOPE\" | sealtext decrypt -")
	fmt.Println()
	fmt.Println("Use 'sealtext help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "encrypt":
		fmt.Println("sealtext encrypt [-p password] <text|->")
		fmt.Println()
		fmt.Println("Encrypts text with AES-256-CBC under a key derived from the password.")
		fmt.Println("Prints a base64 envelope holding a random salt and the ciphertext.")
		fmt.Println("Encrypting the same text twice gives different envelopes.")
		fmt.Println("Use - to read the text from stdin.")
		fmt.Println()
		fmt.Println("Password: -p, then $SEALTEXT_PASSWORD, then a prompt with confirmation.")
	case "decrypt":
		fmt.Println("sealtext decrypt [-p password] <envelope|->")
		fmt.Println()
		fmt.Println("Decrypts an envelope and prints the original text.")
		fmt.Println("A wrong password and a corrupted envelope give the same error.")
		fmt.Println("Use - to read the envelope from stdin.")
	case "inspect":
		fmt.Println("sealtext inspect <envelope|->")
		fmt.Println()
		fmt.Println("Shows the salt and ciphertext size of an envelope.")
		fmt.Println("Does not require a password.")
	case "verify":
		fmt.Println("sealtext verify [-p password] <envelope|-> <expected>")
		fmt.Println()
		fmt.Println("Decrypts an envelope and compares it with the expected text.")
		fmt.Println("Prints a unified diff and exits with status 1 when they differ.")
	case "init":
		fmt.Println("sealtext init")
		fmt.Println()
		fmt.Println("Creates an envelope store (default .sealtext, see $SEALTEXT_STORE).")
		fmt.Println("Prompts for the password that protects every stored value.")
	case "put":
		fmt.Println("sealtext put <name> <text|->")
		fmt.Println()
		fmt.Println("Encrypts text under the store password and saves it as name.")
		fmt.Println("An existing entry with the same name is replaced.")
	case "get":
		fmt.Println("sealtext get <name>")
		fmt.Println()
		fmt.Println("Decrypts and prints the value stored as name.")
	case "ls", "status":
		fmt.Println("sealtext ls")
		fmt.Println()
		fmt.Println("Lists stored entries with sizes and modification times.")
		fmt.Println("Does not require a password.")
	case "export":
		fmt.Println("sealtext export <name>")
		fmt.Println()
		fmt.Println("Prints the envelope stored as name. It can be decrypted anywhere")
		fmt.Println("with 'sealtext decrypt' and the store password.")
		fmt.Println("Does not require a password.")
	case "rm":
		fmt.Println("sealtext rm <name> [name...]")
		fmt.Println()
		fmt.Println("Removes entries from the store and compacts it.")
	case "passwd":
		fmt.Println("sealtext passwd")
		fmt.Println()
		fmt.Println("Changes the store password.")
		fmt.Println("Re-encrypts every entry with the new password.")
	case "compact":
		fmt.Println("sealtext compact")
		fmt.Println()
		fmt.Println("Compacts the store database to reclaim unused disk space.")
		fmt.Println("This is automatically done after 'rm' and 'passwd'.")
	case "keyring":
		fmt.Println("sealtext keyring <save|delete|status>")
		fmt.Println()
		fmt.Println("Manages the store password in the OS keyring.")
		fmt.Println("Set keyring = false in the config file or SEALTEXT_NO_KEYRING=1 to disable.")
	case "config":
		fmt.Println("sealtext config [show|init]")
		fmt.Println()
		fmt.Println("show prints the config file location and the effective settings.")
		fmt.Println("init writes the effective settings to the config file if it does not exist.")
		fmt.Println("The file is $SEALTEXT_CONFIG or <user config dir>/sealtext/config.toml.")
	case "completion":
		fmt.Println("sealtext completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(sealtext completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(sealtext completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  sealtext completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
