package cmd

import (
	"fmt"
)

// Completion outputs shell completion scripts
func Completion(shell string) error {
	switch shell {
	case "bash":
		fmt.Fprint(stdout, bashCompletion)
	case "zsh":
		fmt.Fprint(stdout, zshCompletion)
	case "fish":
		fmt.Fprint(stdout, fishCompletion)
	default:
		return fmt.Errorf("unknown shell: %s\nSupported: bash, zsh, fish", shell)
	}
	return nil
}

const bashCompletion = `_sealtext() {
    local cur prev words cword
    _init_completion || return

    local commands="encrypt decrypt inspect verify init put get ls export rm passwd compact keyring config help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        encrypt|decrypt|verify)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-p" -- "$cur"))
            fi
            ;;
        get|rm|export|put)
            # Complete with names from the store
            local names
            names=$(sealtext ls 2>/dev/null | awk '/^  [^ (]/ {print $1}')
            COMPREPLY=($(compgen -W "$names" -- "$cur"))
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        config)
            COMPREPLY=($(compgen -W "show init" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _sealtext sealtext
`

const zshCompletion = `#compdef sealtext

_sealtext() {
    local -a commands
    commands=(
        'encrypt:Encrypt text into an envelope'
        'decrypt:Decrypt an envelope'
        'inspect:Show the public parts of an envelope'
        'verify:Check an envelope against expected text'
        'init:Create an envelope store'
        'put:Seal text into the store'
        'get:Print a stored value'
        'ls:List stored entries'
        'export:Print a stored envelope'
        'rm:Remove entries from the store'
        'passwd:Change store password'
        'compact:Compact store to reclaim disk space'
        'keyring:Manage password in OS keyring'
        'config:Show or create the config file'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'sealtext commands' commands
            ;;
        args)
            case "${words[2]}" in
                encrypt|decrypt|verify)
                    _arguments '-p[Password]:password:'
                    ;;
                get|rm|export|put)
                    _arguments '*:store entry:_sealtext_names'
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                config)
                    _values 'subcommand' show init
                    ;;
                help)
                    _describe -t commands 'sealtext commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_sealtext_names() {
    local -a names
    names=(${(f)"$(sealtext ls 2>/dev/null | awk '/^  [^ (]/ {print $1}')"})
    _describe -t names 'store entries' names
}

_sealtext "$@"
`

const fishCompletion = `# sealtext fish completions

set -l commands encrypt decrypt inspect verify init put get ls export rm passwd compact keyring config help completion

complete -c sealtext -f

# Commands
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a encrypt -d 'Encrypt text'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a decrypt -d 'Decrypt an envelope'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a inspect -d 'Inspect an envelope'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a verify -d 'Verify an envelope'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a init -d 'Create a store'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a put -d 'Seal text into the store'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a get -d 'Print a stored value'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a ls -d 'List entries'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a export -d 'Print a stored envelope'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a rm -d 'Remove entries'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a passwd -d 'Change store password'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact store'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage password in OS keyring'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a config -d 'Show or create the config file'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c sealtext -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# password flag
complete -c sealtext -n "__fish_seen_subcommand_from encrypt decrypt verify" -s p -d 'Password'

# store entries
complete -c sealtext -n "__fish_seen_subcommand_from get rm export put" -a "(sealtext ls 2>/dev/null | awk '/^  [^ (]/ {print \$1}')"

# keyring subcommands
complete -c sealtext -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# config subcommands
complete -c sealtext -n "__fish_seen_subcommand_from config" -a "show init"

# help completions
complete -c sealtext -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c sealtext -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
