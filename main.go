package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/avasiliev/tfadump/cmd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "dump":
		runDump(os.Args[2:])
	case "seal":
		runSeal(os.Args[2:])
	case "diff":
		runDiff(os.Args[2:])
	case "import":
		runImport(os.Args[2:])
	case "ls":
		runLs(os.Args[2:])
	case "keyring":
		runKeyring(os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	output := fs.String("o", "pretty", "Output format: json, csv or pretty")
	outFile := fs.String("out", "", "Write output to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tfadump dump [-o json|csv|pretty] [-out FILE] <backup.2fas>")
		os.Exit(1)
	}

	cmd.Dump(fs.Arg(0), *output, *outFile)
}

func runSeal(args []string) {
	fs := flag.NewFlagSet("seal", flag.ExitOnError)
	outFile := fs.String("out", "backup.2fas", "Output backup file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tfadump seal [-out FILE] <services.json>")
		os.Exit(1)
	}

	cmd.Seal(fs.Arg(0), *outFile)
}

func runDiff(args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: tfadump diff <a.2fas> <b.2fas>")
		os.Exit(1)
	}

	cmd.Diff(fs.Arg(0), fs.Arg(1))
}

func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	archive := fs.String("archive", cmd.DefaultArchivePath(), "Archive database path")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tfadump import [-archive FILE] <backup.2fas>")
		os.Exit(1)
	}

	cmd.Import(fs.Arg(0), *archive)
}

func runLs(args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	archive := fs.String("archive", cmd.DefaultArchivePath(), "Archive database path")
	full := fs.Bool("full", false, "Show the full account table (requires password)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.List(*archive, *full)
}

func runKeyring(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: tfadump keyring <save|rm|status> <backup.2fas>")
		os.Exit(1)
	}

	switch args[0] {
	case "save":
		cmd.KeyringSave(args[1])
	case "rm":
		cmd.KeyringDelete(args[1])
	case "status":
		cmd.KeyringStatus(args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", args[0])
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("tfadump - Decrypt and inspect 2FAS backup files")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tfadump <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  dump        Decrypt a backup and print its accounts")
	fmt.Println("  seal        Encrypt a plaintext services JSON into a backup")
	fmt.Println("  diff        Compare the accounts of two backups")
	fmt.Println("  import      Merge a backup into the local account archive")
	fmt.Println("  ls          List accounts in the local archive")
	fmt.Println("  keyring     Manage the backup password in the OS keyring")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  tfadump dump backup.2fas                 # Pretty-print accounts")
	fmt.Println("  tfadump dump -o csv backup.2fas          # CSV to stdout")
	fmt.Println("  tfadump seal -out new.2fas accounts.json # Build an encrypted backup")
	fmt.Println("  tfadump keyring save backup.2fas         # Cache the password")
	fmt.Println()
	fmt.Println("The password is read from TFADUMP_PASSWORD, the OS keyring, or a prompt.")
	fmt.Println()
	fmt.Println("Use 'tfadump help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "dump":
		fmt.Println("tfadump dump [-o json|csv|pretty] [-out FILE] <backup.2fas>")
		fmt.Println()
		fmt.Println("Decrypts a password-protected 2FAS backup and renders the account")
		fmt.Println("list. The password is taken from the TFADUMP_PASSWORD environment")
		fmt.Println("variable, the OS keyring, or an interactive prompt, in that order.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -o      Output format: json, csv or pretty (default pretty)")
		fmt.Println("  -out    Write output to a file instead of stdout")
	case "seal":
		fmt.Println("tfadump seal [-out FILE] <services.json>")
		fmt.Println()
		fmt.Println("Encrypts a plaintext JSON array of accounts into a complete")
		fmt.Println("password-protected .2fas backup, generating a fresh salt and IVs.")
		fmt.Println("Prompts for the password twice unless TFADUMP_PASSWORD is set.")
	case "diff":
		fmt.Println("tfadump diff <a.2fas> <b.2fas>")
		fmt.Println()
		fmt.Println("Decrypts both backups and prints a colorized diff of their")
		fmt.Println("account tables.")
	case "import":
		fmt.Println("tfadump import [-archive FILE] <backup.2fas>")
		fmt.Println()
		fmt.Println("Decrypts a backup and merges its accounts into the local archive")
		fmt.Println("database. The archive is encrypted with the backup password.")
	case "ls":
		fmt.Println("tfadump ls [-archive FILE] [-full]")
		fmt.Println()
		fmt.Println("Lists account names stored in the local archive. With -full,")
		fmt.Println("prompts for the password and prints the full account table.")
	case "keyring":
		fmt.Println("tfadump keyring <save|rm|status> <backup.2fas>")
		fmt.Println()
		fmt.Println("Caches a backup password in the OS keyring, keyed by a")
		fmt.Println("fingerprint of the backup's salt. 'save' verifies the password")
		fmt.Println("against the backup's reference field before storing it.")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}
