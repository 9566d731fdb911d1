// ABOUTME: Entry point for the chatstore command line tool
// ABOUTME: Creates the chat database schema and walks through the store operations

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"github.com/wirechat/chatstore/internal/config"
	"github.com/wirechat/chatstore/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
      _           _       _
  ___| |__   __ _| |_ ___| |_ ___  _ __ ___
 / __| '_ \ / _' | __/ __| __/ _ \| '__/ _ \
| (__| | | | (_| | |_\__ \ || (_) | | |  __/
 \___|_| |_|\__,_|\__|___/\__\___/|_|  \___|
`

// getConfigPath returns the path to the chatstore config file.
// Priority: CHATSTORE_CONFIG env var > XDG_CONFIG_HOME/chatstore/chatstore.yaml > ~/.config/chatstore/chatstore.yaml
func getConfigPath() string {
	if envPath := os.Getenv("CHATSTORE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "chatstore.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "chatstore", "chatstore.yaml")
}

// getDataPath returns the path to the chatstore data directory.
// Priority: XDG_DATA_HOME/chatstore > ~/.local/share/chatstore
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "chatstore")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: chatstore <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  setup [--db PATH]  Create the chat database tables")
		fmt.Println("  init               Create a new config file interactively")
		fmt.Println("  demo               Walk through the example chat scenario")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "setup":
		err = runSetup(ctx)
	case "init":
		err = runInit()
	case "demo":
		err = runDemo(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runSetup performs first-time setup of the chat database:
// 1. Creates a config file with default paths (if not exists)
// 2. Creates the userinfo, chats, and chatusers tables
//
// Setup is re-runnable: tables that already exist are reported and left alone.
func runSetup(ctx context.Context) error {
	// Parse args with explicit error handling
	// Supports both "--db value" and "--db=value" formats
	var dbOverride string
	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--db":
			if i+1 >= len(args) {
				return fmt.Errorf("--db requires a value")
			}
			dbOverride = args[i+1]
			i++
		case strings.HasPrefix(arg, "--db="):
			dbOverride = strings.TrimPrefix(arg, "--db=")
		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag: %s", arg)
		default:
			return fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	// Version info
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	configPath := getConfigPath()
	dataPath := getDataPath()

	green := color.New(color.FgGreen)

	// Check if config exists, create if not
	var cfg *config.Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		dbPath := filepath.Join(dataPath, "chat.db")

		// Create config directory
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		// Create data directory
		if err := os.MkdirAll(dataPath, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		// Write config file
		configContent := fmt.Sprintf(`# chatstore configuration
# Generated by chatstore setup

database:
  path: "%s"

logging:
  level: "info"
  format: "text"
`, dbPath)

		if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		green.Printf("  ✓ Created config: %s\n", configPath)

		// Load the config we just created
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	} else {
		// Config exists, load it
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		cyan.Printf("  Using existing config: %s\n", configPath)
	}

	if dbOverride != "" {
		cfg.Database.Path = dbOverride
	}

	logger := setupLogger(cfg.Logging)
	logger.Info("setting up chat database",
		"config", configPath,
		"db", cfg.Database.Path,
	)

	// Open the store directly
	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	green.Printf("  ✓ Database: %s\n", cfg.Database.Path)

	if err := s.CreateUserTable(ctx); err != nil {
		if !errors.Is(err, store.ErrTableExists) {
			return fmt.Errorf("creating user table: %w", err)
		}
		cyan.Println("  Table exists: userinfo")
	} else {
		green.Println("  ✓ Created table: userinfo")
	}

	if err := s.CreateChatTables(ctx); err != nil {
		if !errors.Is(err, store.ErrTableExists) {
			return fmt.Errorf("creating chat tables: %w", err)
		}
		cyan.Println("  Tables exist: chats, chatusers")
	} else {
		green.Println("  ✓ Created tables: chats, chatusers")
	}

	// Print results
	fmt.Println()
	green.Println("  Setup complete!")
	fmt.Println()

	yellow := color.New(color.FgYellow)
	yellow.Println("  Ready to go:")
	fmt.Println("    chatstore demo    # walk through the example scenario")
	fmt.Println()

	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

// runDemo walks the store through a small scripted scenario against a
// scratch database: register users, create chats, run the membership
// queries, and tear a chat down. The configured database is not touched.
func runDemo(ctx context.Context) error {
	tmpDir, err := os.MkdirTemp("", "chatstore-demo-")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	s, err := store.NewSQLiteStore(filepath.Join(tmpDir, "chat.db"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	if err := s.CreateUserTable(ctx); err != nil {
		return fmt.Errorf("creating user table: %w", err)
	}
	if err := s.CreateChatTables(ctx); err != nil {
		return fmt.Errorf("creating chat tables: %w", err)
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	cyan.Println("  Users")
	cyan.Println("  -----")
	for _, u := range []store.User{
		{Username: "Bob", Password: "password1"},
		{Username: "Fred", Password: "password2"},
		{Username: "Harry", Password: "password3"},
		{Username: "Rick", Password: "password4"},
	} {
		if err := s.CreateUser(ctx, &u); err != nil {
			return fmt.Errorf("registering %s: %w", u.Username, err)
		}
		green.Print("  ✓ ")
		fmt.Printf("registered %s\n", u.Username)
	}
	fmt.Println()

	cyan.Println("  Logins")
	cyan.Println("  ------")
	ok, err := s.VerifyCredentials(ctx, "Bob", "password1")
	if err != nil {
		return fmt.Errorf("checking Bob's login: %w", err)
	}
	green.Print("  ✓ ")
	fmt.Printf("Bob with the right password: %t\n", ok)

	ok, err = s.VerifyCredentials(ctx, "Bob", "password2")
	if err != nil {
		return fmt.Errorf("checking Bob's login: %w", err)
	}
	red.Print("  ✗ ")
	fmt.Printf("Bob with the wrong password: %t\n", ok)

	if _, err := s.VerifyCredentials(ctx, "Nick", "password5"); errors.Is(err, store.ErrUserNotFound) {
		red.Print("  ✗ ")
		fmt.Println("Nick is not registered")
	} else if err != nil {
		return fmt.Errorf("checking Nick's login: %w", err)
	}
	fmt.Println()

	cyan.Println("  Chats")
	cyan.Println("  -----")
	err = s.CreateChat(ctx, &store.Chat{ID: 1, Owner: "Nick"}, []string{"Bob", "Fred"})
	if errors.Is(err, store.ErrUserNotFound) {
		red.Print("  ✗ ")
		fmt.Println("chat owned by Nick rejected")
	} else if err != nil {
		return fmt.Errorf("creating chat 1: %w", err)
	}

	if err := s.CreateChat(ctx, &store.Chat{ID: 1, Owner: "Bob"}, []string{"Bob", "Fred", "Harry"}); err != nil {
		return fmt.Errorf("creating chat 1: %w", err)
	}
	green.Print("  ✓ ")
	fmt.Println("chat 1: owner Bob, members Bob, Fred, Harry")

	if err := s.CreateChat(ctx, &store.Chat{ID: 2, Owner: "Harry"}, []string{"Fred", "Harry"}); err != nil {
		return fmt.Errorf("creating chat 2: %w", err)
	}
	green.Print("  ✓ ")
	fmt.Println("chat 2: owner Harry, members Fred, Harry")
	fmt.Println()

	cyan.Println("  Queries")
	cyan.Println("  -------")
	owner, err := s.GetChatOwner(ctx, 1)
	if err != nil {
		return fmt.Errorf("looking up chat 1 owner: %w", err)
	}
	fmt.Printf("  chat 1 owner:   %s\n", owner)

	members, err := s.ListChatMembers(ctx, 1)
	if err != nil {
		return fmt.Errorf("listing chat 1 members: %w", err)
	}
	fmt.Printf("  chat 1 members: %s\n", strings.Join(members, ", "))

	chats, err := s.ListUserChats(ctx, "Fred")
	if err != nil {
		return fmt.Errorf("listing Fred's chats: %w", err)
	}
	fmt.Printf("  Fred's chats:   %v\n", chats)

	shared, err := s.UsersShareChat(ctx, "Bob", "Harry")
	if err != nil {
		return fmt.Errorf("checking Bob and Harry: %w", err)
	}
	fmt.Printf("  Bob and Harry share a chat: %t\n", shared)

	shared, err = s.UsersShareChat(ctx, "Bob", "Rick")
	if err != nil {
		return fmt.Errorf("checking Bob and Rick: %w", err)
	}
	fmt.Printf("  Bob and Rick share a chat:  %t\n", shared)

	peers, err := s.ListUserChatPeers(ctx, "Bob")
	if err != nil {
		return fmt.Errorf("listing Bob's chat peers: %w", err)
	}
	fmt.Printf("  Bob's peer list: %q\n", store.FormatPeerList(peers))
	fmt.Println()

	cyan.Println("  Teardown")
	cyan.Println("  --------")
	if err := s.DeleteChat(ctx, 1, "Harry"); errors.Is(err, store.ErrNotChatOwner) {
		red.Print("  ✗ ")
		fmt.Println("Harry may not delete chat 1 (owned by Bob)")
	} else if err != nil {
		return fmt.Errorf("deleting chat 1 as Harry: %w", err)
	}

	if err := s.DeleteChat(ctx, 1, "Bob"); err != nil {
		return fmt.Errorf("deleting chat 1 as Bob: %w", err)
	}
	green.Print("  ✓ ")
	fmt.Println("Bob deleted chat 1")

	chats, err = s.ListUserChats(ctx, "Bob")
	if err != nil {
		return fmt.Errorf("listing Bob's chats: %w", err)
	}
	fmt.Printf("  Bob's chats now: %v\n", chats)

	members, err = s.ListChatMembers(ctx, 2)
	if err != nil {
		return fmt.Errorf("listing chat 2 members: %w", err)
	}
	fmt.Printf("  chat 2 members: %s\n", strings.Join(members, ", "))

	fmt.Println()
	green.Println("  Demo complete!")

	return nil
}

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("chatstore configuration setup")
	fmt.Println("=============================")
	fmt.Println()

	// Default paths
	defaultConfigPath := getConfigPath()
	defaultDataPath := getDataPath()
	defaultDbPath := filepath.Join(defaultDataPath, "chat.db")

	// Output filename
	outputFile := prompt(reader, "Config file path", defaultConfigPath)

	// Check if file exists
	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if strings.ToLower(overwrite) != "yes" && strings.ToLower(overwrite) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	// Database
	fmt.Println("\n--- Database Configuration ---")
	dbPath := prompt(reader, "SQLite database path", defaultDbPath)

	// Logging
	fmt.Println("\n--- Logging Configuration ---")
	logLevel := prompt(reader, "Log level (debug/info/warn/error)", "info")
	logFormat := prompt(reader, "Log format (text/json)", "text")

	// Generate config
	var cfg strings.Builder
	cfg.WriteString("# chatstore configuration\n")
	cfg.WriteString("# Generated by chatstore init\n\n")

	cfg.WriteString("database:\n")
	cfg.WriteString(fmt.Sprintf("  path: \"%s\"\n", dbPath))
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: \"%s\"\n", logLevel))
	cfg.WriteString(fmt.Sprintf("  format: \"%s\"\n", logFormat))

	// Ensure config directory exists
	configDir := filepath.Dir(outputFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write config file
	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	// Ensure data directory exists
	dataDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	fmt.Printf("Data directory: %s\n", dataDir)
	fmt.Println("\nTo create the tables:")
	fmt.Printf("  chatstore setup\n")

	return nil
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
