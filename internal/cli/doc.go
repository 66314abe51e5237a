// Package cli implements the lockbox command tree.
//
// Commands
//
//	new                       create an empty store
//	show [--reveal]           list entries and fields
//	add-entry NAME            add an entry
//	set-field ENTRY FIELD     add or replace a field
//	remove ENTRY [FIELD]      remove an entry or one of its fields
//	totp ENTRY FIELD          print the current TOTP code
//	passwd                    change the store password
//	update INPUT [OUTPUT]     convert an outdated store to the current format
//	emit-plaintext IN OUT     decrypt a store into plaintext YAML
//	from-plaintext IN OUT     encrypt plaintext YAML into a new store
//
// Commands that work on "the" store use --store, LOCKBOX_STORE_PATH or the
// config file, in that order. Passwords are always read from the terminal.
package cli
