// ABOUTME: Admin CLI for inkwell user and content management
// ABOUTME: Operates on the SQLite database directly via a TOML profile

package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/mail"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/2389/inkwell/internal/auth"
	"github.com/2389/inkwell/internal/store"
)

const banner = `
  _       _                  _ _            _           _
 (_)_ __ | | ____      _____| | |  __ _  __| |_ __ ___ (_)_ __
 | | '_ \| |/ /\ \ /\ / / _ \ | | / _' |/ _' | '_ ' _ \| | '_ \
 | | | | |   <  \ V  V /  __/ | || (_| | (_| | | | | | | | | | |
 |_|_| |_|_|\_\  \_/\_/ \___|_|_| \__,_|\__,_|_| |_| |_|_|_| |_|
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	profile, err := loadProfile(getProfilePath())
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.NewSQLiteStore(profile.Database.Path)
	if err != nil {
		color.Red("Error: opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	ctx := context.Background()

	switch cmd {
	case "users":
		err = cmdUsers(ctx, s, args)
	case "token":
		err = cmdToken(ctx, s, profile, args)
	case "sessions":
		err = cmdSessions(ctx, s, args)
	case "comments":
		err = cmdComments(ctx, s, args)
	case "articles":
		err = cmdArticles(ctx, s, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: inkwell-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  users                     List all accounts")
	fmt.Println("  users list                List all accounts")
	fmt.Println("  users create              Create an account")
	fmt.Println("  users set-role <id> <role>")
	fmt.Println("                            Change an account's role (user or admin)")
	fmt.Println("  users delete <id>         Delete an account and everything it owns")
	fmt.Println("  token create              Mint an API bearer token for a user")
	fmt.Println("  sessions prune            Delete expired login sessions")
	fmt.Println("  comments show <id>        Inspect a comment")
	fmt.Println("  articles create           Import a legacy article")
	fmt.Println()
	yellow.Println("Profile:")
	fmt.Println("  INKWELL_ADMIN_CONFIG      Profile path (default: ~/.config/inkwell/admin.toml)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  inkwell-admin users create --name Ada --email ada@example.com --admin")
	fmt.Println("  inkwell-admin token create --user <id> --ttl 720h")
	fmt.Println("  inkwell-admin articles create --title 'Old piece' --body-file piece.md --author <id>")
	fmt.Println()
}

// cmdUsers handles users subcommands
func cmdUsers(ctx context.Context, s store.Store, args []string) error {
	// Default to list
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "list", "ls":
		return usersList(ctx, s)
	case "create", "add":
		return usersCreate(ctx, s, args)
	case "set-role":
		return usersSetRole(ctx, s, args)
	case "delete", "rm", "remove":
		return usersDelete(ctx, s, args)
	default:
		return fmt.Errorf("unknown users subcommand: %s", subcmd)
	}
}

func usersList(ctx context.Context, s store.Store) error {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No accounts.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Name, u.Email, u.Role, u.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func usersCreate(ctx context.Context, s store.Store, args []string) error {
	var name, email, password string
	admin := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--name", "-n":
			if i+1 >= len(args) {
				return fmt.Errorf("--name requires a value")
			}
			name = args[i+1]
			i++
		case "--email", "-e":
			if i+1 >= len(args) {
				return fmt.Errorf("--email requires a value")
			}
			email = args[i+1]
			i++
		case "--password", "-p":
			if i+1 >= len(args) {
				return fmt.Errorf("--password requires a value")
			}
			password = args[i+1]
			i++
		case "--admin":
			admin = true
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	if name == "" {
		return fmt.Errorf("--name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("--email must be a valid address: %w", err)
	}

	// Generate a password when none was given.
	generated := false
	if password == "" {
		buf := make([]byte, 12)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generating password: %w", err)
		}
		password = base64.RawURLEncoding.EncodeToString(buf)
		generated = true
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	role := store.RoleUser
	if admin {
		role = store.RoleAdmin
	}

	user := &store.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Created account: %s\n", email)
	fmt.Printf("  ID:   %s\n", user.ID)
	fmt.Printf("  Role: %s\n", role)
	if generated {
		fmt.Printf("  Password: %s\n", password)
	}
	return nil
}

func usersSetRole(ctx context.Context, s store.Store, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: inkwell-admin users set-role <id> <role>")
	}
	id, role := args[0], store.Role(args[1])

	valid := false
	for _, r := range store.ValidRoles {
		if role == r {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("invalid role %q (want user or admin)", args[1])
	}

	if err := s.UpdateUserRole(ctx, id, role); err != nil {
		return fmt.Errorf("updating role: %w", err)
	}

	color.Green("  ✓ Role updated: %s is now %s\n", id, role)
	return nil
}

func usersDelete(ctx context.Context, s store.Store, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: inkwell-admin users delete <id>")
	}

	if err := s.DeleteUser(ctx, args[0]); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	color.Green("  ✓ Deleted account %s and everything it owned\n", args[0])
	return nil
}

// cmdToken mints an API bearer token for a user
func cmdToken(ctx context.Context, s store.Store, profile *Profile, args []string) error {
	if len(args) == 0 || args[0] != "create" {
		return fmt.Errorf("usage: inkwell-admin token create --user <id> [--ttl <duration>]")
	}
	args = args[1:]

	var userID string
	ttl := 30 * 24 * time.Hour

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--user", "-u":
			if i+1 >= len(args) {
				return fmt.Errorf("--user requires a value")
			}
			userID = args[i+1]
			i++
		case "--ttl", "-t":
			if i+1 >= len(args) {
				return fmt.Errorf("--ttl requires a value")
			}
			parsed, err := time.ParseDuration(args[i+1])
			if err != nil {
				return fmt.Errorf("parsing --ttl: %w", err)
			}
			ttl = parsed
			i++
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	if userID == "" {
		return fmt.Errorf("--user is required")
	}
	if profile.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required in the profile for token create")
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}

	verifier, err := auth.NewJWTVerifier([]byte(profile.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating JWT verifier: %w", err)
	}

	token, err := verifier.Generate(user.ID, ttl)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	expiresAt := time.Now().Add(ttl).UTC()

	color.Green("  ✓ Token for %s (expires %s)\n", user.Email, expiresAt.Format("Jan 02, 2006"))
	fmt.Println()
	fmt.Println(token)
	return nil
}

// cmdSessions handles sessions subcommands
func cmdSessions(ctx context.Context, s store.Store, args []string) error {
	if len(args) == 0 || args[0] != "prune" {
		return fmt.Errorf("usage: inkwell-admin sessions prune")
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("pruning sessions: %w", err)
	}

	color.Green("  ✓ Pruned %d expired session(s)\n", n)
	return nil
}

// cmdComments inspects a single comment, useful when moderating by ID
func cmdComments(ctx context.Context, s store.Store, args []string) error {
	if len(args) != 2 || args[0] != "show" {
		return fmt.Errorf("usage: inkwell-admin comments show <id>")
	}

	comment, err := s.GetComment(ctx, args[1])
	if err != nil {
		return fmt.Errorf("looking up comment: %w", err)
	}

	author := comment.AuthorID
	if author == "" {
		author = "(anonymous)"
	}

	fmt.Printf("ID:      %s\n", comment.ID)
	fmt.Printf("On:      %s %s\n", comment.Commentable.Kind, comment.Commentable.ID)
	fmt.Printf("Author:  %s\n", author)
	fmt.Printf("Created: %s\n", comment.CreatedAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println(comment.Body)
	return nil
}

// cmdArticles imports legacy articles
func cmdArticles(ctx context.Context, s store.Store, args []string) error {
	if len(args) == 0 || args[0] != "create" {
		return fmt.Errorf("usage: inkwell-admin articles create --title <title> --body-file <path> --author <id>")
	}
	args = args[1:]

	var title, bodyFile, authorID string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--title", "-t":
			if i+1 >= len(args) {
				return fmt.Errorf("--title requires a value")
			}
			title = args[i+1]
			i++
		case "--body-file", "-f":
			if i+1 >= len(args) {
				return fmt.Errorf("--body-file requires a value")
			}
			bodyFile = args[i+1]
			i++
		case "--author", "-a":
			if i+1 >= len(args) {
				return fmt.Errorf("--author requires a value")
			}
			authorID = args[i+1]
			i++
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	if title == "" {
		return fmt.Errorf("--title is required")
	}
	if bodyFile == "" {
		return fmt.Errorf("--body-file is required")
	}
	if authorID == "" {
		return fmt.Errorf("--author is required")
	}

	body, err := os.ReadFile(bodyFile)
	if err != nil {
		return fmt.Errorf("reading body file: %w", err)
	}

	// Make sure the author exists before importing.
	if _, err := s.GetUser(ctx, authorID); err != nil {
		return fmt.Errorf("looking up author: %w", err)
	}

	article := &store.Article{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      strings.TrimSpace(string(body)),
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.CreateArticle(ctx, article); err != nil {
		return fmt.Errorf("creating article: %w", err)
	}

	color.Green("  ✓ Imported article: %s\n", title)
	fmt.Printf("  ID: %s\n", article.ID)
	return nil
}
